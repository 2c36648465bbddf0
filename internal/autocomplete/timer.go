package autocomplete

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debounceMsg fires when the quiet period for timer id has elapsed
type debounceMsg struct {
	id int
}

// pendingTimer is the single live debounce timer owned by a Model. Stopping it
// releases the goroutine waiting on it without delivering a message.
type pendingTimer struct {
	id      int
	timer   *time.Timer
	stopped chan struct{}
	once    sync.Once
}

func newPendingTimer(id int, d time.Duration) *pendingTimer {
	return &pendingTimer{
		id:      id,
		timer:   time.NewTimer(d),
		stopped: make(chan struct{}),
	}
}

// stop cancels the timer. Safe to call more than once.
func (p *pendingTimer) stop() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		p.timer.Stop()
		close(p.stopped)
	})
}

func (p *pendingTimer) isStopped() bool {
	select {
	case <-p.stopped:
		return true
	default:
		return false
	}
}

// wait blocks until the timer fires or is stopped. A stopped timer yields a
// nil message, which the runtime drops.
func (p *pendingTimer) wait() tea.Msg {
	select {
	case <-p.timer.C:
		return debounceMsg{id: p.id}
	case <-p.stopped:
		return nil
	}
}
