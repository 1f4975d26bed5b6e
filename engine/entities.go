package engine

import (
	"sync"

	"github.com/lixenwraith/vi-crawler/physics"
)

// Entities issues owner IDs and resolves them to contact handlers
// IDs are never reused, so a stale ID held by a shape or a timer simply fails to resolve
type Entities struct {
	mu        sync.RWMutex
	next      physics.OwnerID
	live      map[physics.OwnerID]physics.ContactHandler
	onDespawn []func(id physics.OwnerID)
}

// NewEntities creates an empty table
func NewEntities() *Entities {
	return &Entities{live: make(map[physics.OwnerID]physics.ContactHandler)}
}

// Spawn registers a live entity, h may be nil for entities that ignore contacts
func (e *Entities) Spawn(h physics.ContactHandler) physics.OwnerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.live[e.next] = h
	return e.next
}

// SetHandler replaces the contact handler of a live entity
func (e *Entities) SetHandler(id physics.OwnerID, h physics.ContactHandler) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.live[id]; !ok {
		return false
	}
	e.live[id] = h
	return true
}

// Despawn removes the entity and runs despawn hooks; despawning twice is a no-op
func (e *Entities) Despawn(id physics.OwnerID) bool {
	e.mu.Lock()
	if _, ok := e.live[id]; !ok {
		e.mu.Unlock()
		return false
	}
	delete(e.live, id)
	hooks := e.onDespawn
	e.mu.Unlock()

	for _, fn := range hooks {
		fn(id)
	}
	return true
}

// OnDespawn registers a hook run after each despawn, outside the table lock
func (e *Entities) OnDespawn(fn func(id physics.OwnerID)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDespawn = append(e.onDespawn, fn)
}

// Alive reports whether the entity is still spawned
func (e *Entities) Alive(id physics.OwnerID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.live[id]
	return ok
}

// Len returns the number of live entities
func (e *Entities) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.live)
}

// Resolve implements physics.OwnerResolver
func (e *Entities) Resolve(id physics.OwnerID) (physics.ContactHandler, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.live[id]
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}
