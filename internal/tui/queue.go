package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/service"
)

// Ensure *ChannelQueue implements service.MainQueue at compile time.
var _ service.MainQueue = (*ChannelQueue)(nil)

// ChannelQueue adapts service.MainQueue to a channel read by the Bubble Tea
// update loop. Work dispatched from loader goroutines runs inside Update, so
// view-models are only ever touched from one goroutine.
type ChannelQueue struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// NewChannelQueue creates a queue that buffers up to size pending callbacks
func NewChannelQueue(size int) *ChannelQueue {
	if size < 1 {
		size = 1
	}
	return &ChannelQueue{
		ch:   make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Dispatch hands fn to the update loop. It blocks while the buffer is full and
// drops fn once the queue is closed.
func (q *ChannelQueue) Dispatch(fn func()) {
	select {
	case q.ch <- fn:
	case <-q.done:
	}
}

// Close releases blocked dispatchers and stops the listener
func (q *ChannelQueue) Close() {
	q.once.Do(func() { close(q.done) })
}

// listenToQueueCmd returns a command that reads the next dispatched callback
func listenToQueueCmd(q *ChannelQueue) tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-q.ch:
			return dispatchMsg{fn: fn}
		case <-q.done:
			return nil
		}
	}
}
