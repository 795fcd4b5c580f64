// Package sched schedules one-shot and periodic callbacks behind handles that
// can be cancelled. The stopwatch tick and the copy feedback reset both run on
// it.
package sched

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback. Stop reports whether the callback was
// still pending. A callback that was already due when Stop was called may
// still run once afterwards, so callbacks must tolerate arriving late.
type Handle interface {
	Stop() bool
}

type Scheduler interface {
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Handle
	// Every runs fn every interval until the handle is stopped.
	Every(interval time.Duration, fn func()) Handle
}

// Real schedules on the runtime timers.
type Real struct{}

var _ Scheduler = Real{}

func (Real) AfterFunc(d time.Duration, fn func()) Handle {
	return time.AfterFunc(d, fn)
}

func (Real) Every(interval time.Duration, fn func()) Handle {
	t := &ticker{stopChan: make(chan struct{})}
	go func() {
		tk := time.NewTicker(interval)
		defer tk.Stop()

		for {
			select {
			case <-t.stopChan:
				return
			case <-tk.C:
				if t.isStopped() {
					return
				}
				fn()
			}
		}
	}()
	return t
}

type ticker struct {
	mu       sync.Mutex
	stopped  bool
	stopChan chan struct{}
}

func (t *ticker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *ticker) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	close(t.stopChan)
	return true
}
