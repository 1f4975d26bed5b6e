package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-crawler/physics"
)

// Window is an invincibility window: after one accepted hit, further hits are
// ignored until the delay elapses
// Contacts repeat every tick, so this is the edge detection callers need
type Window struct {
	owner physics.OwnerID
	delay time.Duration
	sched *Scheduler
	open  atomic.Bool
}

// NewWindow creates a closed window
func NewWindow(sched *Scheduler, owner physics.OwnerID, delay time.Duration) *Window {
	return &Window{owner: owner, delay: delay, sched: sched}
}

// Trigger accepts a hit and opens the window; returns false while already open
func (w *Window) Trigger() bool {
	if !w.open.CompareAndSwap(false, true) {
		return false
	}
	w.sched.After(w.owner, w.delay, func() { w.open.Store(false) })
	return true
}

// Open reports whether hits are currently ignored
func (w *Window) Open() bool {
	return w.open.Load()
}
