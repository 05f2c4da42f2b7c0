// Package countdown provides the cancellable repeating timer that drives a
// question's per-second ticks.
package countdown

import (
	"sync"
	"sync/atomic"
	"time"
)

var tokens atomic.Uint64

// Handle is a running countdown. Stop must be called to release it.
type Handle struct {
	token uint64
	stop  chan struct{}
	once  sync.Once
	done  chan struct{}
}

// Start calls fire with the handle's token every interval until Stop.
// fire runs on the countdown goroutine; callers post it to their own
// dispatcher instead of mutating state there.
func Start(interval time.Duration, fire func(token uint64)) *Handle {
	h := &Handle{
		token: tokens.Add(1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				select {
				case <-h.stop:
					return
				default:
				}
				fire(h.token)
			}
		}
	}()

	return h
}

// Token identifies this handle. Ticks carrying another token are stale.
func (h *Handle) Token() uint64 {
	if h == nil {
		return 0
	}
	return h.token
}

// Stop cancels the countdown. It is safe to call more than once and on a nil handle.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
}

// Done is closed once the countdown goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Timer holds at most one running countdown. Starting a new one stops the
// previous handle first.
type Timer struct {
	interval time.Duration
	fire     func(token uint64)
	current  *Handle
}

func NewTimer(interval time.Duration, fire func(token uint64)) *Timer {
	return &Timer{interval: interval, fire: fire}
}

// Restart stops the running countdown, if any, and starts a new one.
func (t *Timer) Restart() uint64 {
	t.current.Stop()
	t.current = Start(t.interval, t.fire)
	return t.current.token
}

// Stop cancels the running countdown.
func (t *Timer) Stop() {
	t.current.Stop()
	t.current = nil
}

// Active reports whether token belongs to the running countdown.
func (t *Timer) Active(token uint64) bool {
	return t.current != nil && t.current.token == token
}
