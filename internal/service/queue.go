package service

// MainQueue serializes work onto the goroutine that owns view-facing state.
// Loaders complete on arbitrary goroutines; orchestrators hand every
// completion to the queue before touching observable state.
type MainQueue interface {
	Dispatch(fn func())
}

// QueueFunc adapts a function to the MainQueue interface
type QueueFunc func(fn func())

// Dispatch calls f
func (f QueueFunc) Dispatch(fn func()) { f(fn) }

// ImmediateQueue runs work inline. It is only correct when every completion
// already arrives on the owning goroutine.
var ImmediateQueue MainQueue = QueueFunc(func(fn func()) { fn() })
