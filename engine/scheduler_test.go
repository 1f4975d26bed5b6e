package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/vi-crawler/physics"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Condition not met within 1s")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestScheduler_AfterRuns(t *testing.T) {
	e := NewEntities()
	s := NewScheduler(e)
	defer s.Stop()

	var ran atomic.Bool
	task := s.After(e.Spawn(nil), 5*time.Millisecond, func() { ran.Store(true) })

	waitFor(t, ran.Load)
	if !task.Done() {
		t.Errorf("Expected task done after running")
	}
	if task.Cancel() {
		t.Errorf("Expected Cancel after run to report false")
	}
}

func TestScheduler_CancelPreventsRun(t *testing.T) {
	e := NewEntities()
	s := NewScheduler(e)
	defer s.Stop()

	var ran atomic.Bool
	id := e.Spawn(nil)
	task := s.After(id, 20*time.Millisecond, func() { ran.Store(true) })

	if !task.Cancel() {
		t.Fatalf("Expected Cancel to succeed")
	}
	if s.Pending(id) != 0 {
		t.Errorf("Expected no pending tasks, got %d", s.Pending(id))
	}
	time.Sleep(40 * time.Millisecond)
	if ran.Load() {
		t.Errorf("Expected cancelled task not to run")
	}
}

func TestScheduler_DespawnCancelsOwnedTasks(t *testing.T) {
	e := NewEntities()
	s := NewScheduler(e)
	defer s.Stop()

	var ran atomic.Int32
	ranger := e.Spawn(nil)
	other := e.Spawn(nil)

	// Windup owned by the ranger, shared timer owned by nobody
	windup := s.After(ranger, 20*time.Millisecond, func() { ran.Add(1) })
	s.After(ranger, 20*time.Millisecond, func() { ran.Add(1) })
	s.After(other, 20*time.Millisecond, func() { ran.Add(10) })
	s.After(physics.NoOwner, 20*time.Millisecond, func() { ran.Add(100) })

	if s.Pending(ranger) != 2 {
		t.Fatalf("Expected 2 pending ranger tasks, got %d", s.Pending(ranger))
	}

	e.Despawn(ranger)
	if !windup.Done() {
		t.Errorf("Expected windup cancelled on despawn")
	}

	waitFor(t, func() bool { return ran.Load() == 110 })
	time.Sleep(20 * time.Millisecond)
	if got := ran.Load(); got != 110 {
		t.Errorf("Expected only other and unowned tasks to run, got %d", got)
	}
}

// A timer firing after its owner died must no-op
func TestScheduler_LateFireAfterDeathNoops(t *testing.T) {
	e := NewEntities()
	s := &Scheduler{alive: e.Alive, tasks: make(map[physics.OwnerID]map[*Task]struct{})}
	defer s.Stop()

	var ran atomic.Bool
	id := e.Spawn(nil)
	task := s.After(id, 10*time.Millisecond, func() { ran.Store(true) })

	// Untracked despawn: no hook cancels the task
	e.Despawn(id)

	waitFor(t, task.Done)
	time.Sleep(5 * time.Millisecond)
	if ran.Load() {
		t.Errorf("Expected task for dead owner to no-op")
	}
}

func TestScheduler_StopCancelsAll(t *testing.T) {
	e := NewEntities()
	s := NewScheduler(e)

	var ran atomic.Bool
	s.After(e.Spawn(nil), 10*time.Millisecond, func() { ran.Store(true) })
	s.Stop()

	late := s.After(e.Spawn(nil), time.Millisecond, func() { ran.Store(true) })
	if !late.Done() {
		t.Errorf("Expected After on a stopped scheduler to return a finished task")
	}

	time.Sleep(30 * time.Millisecond)
	if ran.Load() {
		t.Errorf("Expected no task to run after Stop")
	}
}
