package physics

import (
	"log"
	"slices"
	"sync"
	"sync/atomic"
)

// WorldConfig configures the registry's broad phase
type WorldConfig struct {
	Quadtree QuadtreeConfig
}

// DefaultWorldConfig returns the parameter defaults
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{Quadtree: DefaultQuadtreeConfig()}
}

// World is the live hitbox registry of one game session
// Add and Remove publish a new copy-on-write snapshot; queries read the
// snapshot without locking, so removals never disturb an in-flight query
type World struct {
	mu       sync.Mutex // guards members and tree
	members  map[Shape]struct{}
	shapes   atomic.Pointer[[]Shape]
	tree     *Quadtree
	resolver OwnerResolver
}

// NewWorld creates an empty registry
// resolver may be nil, contacts then notify nobody
func NewWorld(cfg WorldConfig, resolver OwnerResolver) *World {
	w := &World{
		members:  make(map[Shape]struct{}),
		tree:     NewQuadtree(cfg.Quadtree),
		resolver: resolver,
	}
	empty := make([]Shape, 0)
	w.shapes.Store(&empty)
	return w
}

// Add registers a shape, adding a registered shape is a no-op
func (w *World) Add(s Shape) {
	if s == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.members[s]; ok {
		return
	}
	w.members[s] = struct{}{}

	cur := *w.shapes.Load()
	next := make([]Shape, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, s)
	w.shapes.Store(&next)
}

// Remove unregisters a shape, removing an absent shape is a no-op
func (w *World) Remove(s Shape) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.members[s]; !ok {
		return
	}
	delete(w.members, s)

	cur := *w.shapes.Load()
	next := make([]Shape, 0, len(cur)-1)
	for _, o := range cur {
		if o != s {
			next = append(next, o)
		}
	}
	w.shapes.Store(&next)
}

// Contains reports whether the shape is registered
func (w *World) Contains(s Shape) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.members[s]
	return ok
}

// Len returns the number of registered shapes
func (w *World) Len() int {
	return len(*w.shapes.Load())
}

// snapshot returns the current shape list, callers must not mutate it
func (w *World) snapshot() []Shape {
	return *w.shapes.Load()
}

// QueryAll returns every registered shape in insertion order
func (w *World) QueryAll() []Shape {
	return slices.Clone(w.snapshot())
}

// QueryCandidates rebuilds the quadtree from the registry and returns the
// broad-phase neighbors of s, s itself excluded
func (w *World) QueryCandidates(s Shape) []Shape {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tree.Clear()
	w.tree.InsertAll(w.snapshot())
	out := w.tree.Retrieve(nil, s)
	w.tree.Clear()

	return slices.DeleteFunc(out, func(o Shape) bool { return o == s })
}

// TestPair runs the narrow phase for a and b and notifies both owners on contact
// The returned info describes b
func (w *World) TestPair(a, b Shape) (HitInfo, bool) {
	hit, ok := Contact(a, b)
	if !ok {
		return HitInfo{}, false
	}
	w.notify(b, a)
	w.notify(a, b)
	return hit, true
}

// notify delivers a contact to self's owner if it still resolves
func (w *World) notify(self, other Shape) {
	if w.resolver == nil || self.Owner() == NoOwner {
		return
	}
	h, ok := w.resolver.Resolve(self.Owner())
	if !ok || h == nil {
		return
	}
	h.OnContact(self, other)
}

// Collide returns the first contact between s and its broad-phase candidates
func (w *World) Collide(s Shape) (HitInfo, bool) {
	for _, c := range w.QueryCandidates(s) {
		if hit, ok := w.TestPair(s, c); ok {
			return hit, true
		}
	}
	return HitInfo{}, false
}

// CollideAll returns every contact between s and its broad-phase candidates
func (w *World) CollideAll(s Shape) []HitInfo {
	var hits []HitInfo
	for _, c := range w.QueryCandidates(s) {
		if hit, ok := w.TestPair(s, c); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// Raycast returns the nearest hit across the registry
// Filters narrow the ray's collision filter to shapes carrying any given layer
func (w *World) Raycast(r Ray, filter ...CollisionLayer) (HitInfo, bool) {
	for _, f := range filter {
		r.Filter |= f
	}

	var (
		best  HitInfo
		found bool
	)
	limit := r.limit()
	for _, s := range w.snapshot() {
		if !r.accepts(s) {
			continue
		}
		hit, ok := CastShape(r, s, limit)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best, found = hit, true
			limit = hit.Distance
		}
	}
	return best, found
}

// RaycastAny reports whether the ray hits anything within range
func (w *World) RaycastAny(r Ray, filter ...CollisionLayer) bool {
	for _, f := range filter {
		r.Filter |= f
	}
	limit := r.limit()
	for _, s := range w.snapshot() {
		if !r.accepts(s) {
			continue
		}
		if _, ok := CastShape(r, s, limit); ok {
			return true
		}
	}
	return false
}

// Reset drops every registered shape, used on level unload
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(w.members)
	clear(w.members)
	w.tree.Clear()
	empty := make([]Shape, 0)
	w.shapes.Store(&empty)
	log.Printf("physics: world reset, %d shapes dropped", n)
}
