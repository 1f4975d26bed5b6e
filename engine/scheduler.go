package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/physics"
)

// Task is one pending delayed action
type Task struct {
	owner physics.OwnerID
	fn    func()
	timer *time.Timer
	s     *Scheduler
	// done is set once the task ran or was cancelled
	done atomic.Bool
}

// Cancel stops the task; returns false if it already ran or was cancelled
func (t *Task) Cancel() bool {
	if !t.done.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	t.s.untrack(t)
	return true
}

// Done reports whether the task ran or was cancelled
func (t *Task) Done() bool {
	return t.done.Load()
}

// Scheduler runs delayed actions tied to an owner's lifetime
// Cancellation is best effort: a task that fires after its owner despawned
// sees the owner dead and does nothing
type Scheduler struct {
	alive func(id physics.OwnerID) bool

	mu     sync.Mutex
	tasks  map[physics.OwnerID]map[*Task]struct{}
	closed bool
}

// NewScheduler creates a scheduler bound to the entity table
// Despawning an entity cancels its tracked tasks
func NewScheduler(entities *Entities) *Scheduler {
	s := &Scheduler{
		alive: entities.Alive,
		tasks: make(map[physics.OwnerID]map[*Task]struct{}),
	}
	entities.OnDespawn(func(id physics.OwnerID) { s.CancelOwner(id) })
	return s
}

// After runs fn once after d unless cancelled or the owner is gone
// physics.NoOwner tasks are unowned and always run
func (s *Scheduler) After(owner physics.OwnerID, d time.Duration, fn func()) *Task {
	t := &Task{owner: owner, fn: fn, s: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		t.done.Store(true)
		t.timer = time.NewTimer(0)
		t.timer.Stop()
		return t
	}

	set, ok := s.tasks[owner]
	if !ok {
		set = make(map[*Task]struct{})
		s.tasks[owner] = set
	}
	set[t] = struct{}{}
	t.timer = time.AfterFunc(d, func() { s.fire(t) })
	return t
}

func (s *Scheduler) fire(t *Task) {
	if !t.done.CompareAndSwap(false, true) {
		return
	}
	s.untrack(t)

	if t.owner != physics.NoOwner && !s.alive(t.owner) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	t.fn()
}

func (s *Scheduler) untrack(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.tasks[t.owner]
	delete(set, t)
	if len(set) == 0 {
		delete(s.tasks, t.owner)
	}
}

// CancelOwner cancels every pending task of the owner and returns how many
func (s *Scheduler) CancelOwner(id physics.OwnerID) int {
	s.mu.Lock()
	set := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()

	n := 0
	for t := range set {
		if t.done.CompareAndSwap(false, true) {
			t.timer.Stop()
			n++
		}
	}
	return n
}

// Pending returns the number of tracked tasks for an owner
func (s *Scheduler) Pending(id physics.OwnerID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks[id])
}

// Stop cancels every pending task; later After calls return finished tasks
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.closed = true
	all := s.tasks
	s.tasks = make(map[physics.OwnerID]map[*Task]struct{})
	s.mu.Unlock()

	for _, set := range all {
		for t := range set {
			if t.done.CompareAndSwap(false, true) {
				t.timer.Stop()
			}
		}
	}
}
