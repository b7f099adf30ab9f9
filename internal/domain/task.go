package domain

import "sync"

// TaskWrapper adapts a transport task into a loader Task and latches delivery:
// at most one result reaches the completion, and none after Cancel.
// Complete may race with Cancel from another goroutine.
type TaskWrapper[T any] struct {
	mu         sync.Mutex
	completion func(T, error)
	wrapped    Task
	done       bool
}

// NewTaskWrapper creates a wrapper that forwards to completion
func NewTaskWrapper[T any](completion func(T, error)) *TaskWrapper[T] {
	return &TaskWrapper[T]{completion: completion}
}

// SetWrapped attaches the underlying transport task.
// A wrapper that already completed or was cancelled releases the task immediately.
func (t *TaskWrapper[T]) SetWrapped(task Task) {
	t.mu.Lock()
	if !t.done {
		t.wrapped = task
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	if task != nil {
		task.Cancel()
	}
}

// Complete delivers the result if the completion is still registered
func (t *TaskWrapper[T]) Complete(value T, err error) {
	t.mu.Lock()
	completion := t.completion
	t.completion = nil
	t.wrapped = nil
	t.done = true
	t.mu.Unlock()

	if completion != nil {
		completion(value, err)
	}
}

// Cancel prevents further completions and cancels the wrapped task.
// It is safe to call more than once, before the load starts or after it finished.
func (t *TaskWrapper[T]) Cancel() {
	t.mu.Lock()
	t.completion = nil
	wrapped := t.wrapped
	t.wrapped = nil
	t.done = true
	t.mu.Unlock()

	if wrapped != nil {
		wrapped.Cancel()
	}
}
