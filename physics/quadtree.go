package physics

import (
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// QuadtreeConfig sizes the broad phase
type QuadtreeConfig struct {
	Bounds   vmath.Rect
	Capacity int // Shapes held before a node splits
	MaxDepth int // Deepest level, root is level 1
}

// DefaultQuadtreeConfig returns the parameter defaults
func DefaultQuadtreeConfig() QuadtreeConfig {
	return QuadtreeConfig{
		Bounds: vmath.Rect{
			X: parameter.QuadtreeBoundsX,
			Z: parameter.QuadtreeBoundsZ,
			W: parameter.QuadtreeBoundsW,
			H: parameter.QuadtreeBoundsH,
		},
		Capacity: parameter.QuadtreeCapacity,
		MaxDepth: parameter.QuadtreeMaxDepth,
	}
}

// Quadtree indexes shapes by their (x, z) projection
// Retrieve returns a conservative superset; exactness comes from narrow phase
type Quadtree struct {
	level    int
	bounds   vmath.Rect
	capacity int
	maxDepth int
	objects  []Shape
	nodes    [4]*Quadtree
}

// NewQuadtree creates a root node
func NewQuadtree(cfg QuadtreeConfig) *Quadtree {
	return newNode(1, cfg.Bounds, cfg.Capacity, cfg.MaxDepth)
}

func newNode(level int, bounds vmath.Rect, capacity, maxDepth int) *Quadtree {
	return &Quadtree{
		level:    level,
		bounds:   bounds,
		capacity: capacity,
		maxDepth: maxDepth,
	}
}

// Clear drops all held shapes and children recursively
func (q *Quadtree) Clear() {
	clear(q.objects)
	q.objects = q.objects[:0]
	for i, n := range q.nodes {
		if n == nil {
			continue
		}
		n.Clear()
		q.nodes[i] = nil
	}
}

// split creates the four quadrants: 0 top-right, 1 top-left, 2 bottom-left, 3 bottom-right
func (q *Quadtree) split() {
	w := q.bounds.W / 2
	h := q.bounds.H / 2
	x := q.bounds.X
	z := q.bounds.Z
	next := q.level + 1

	q.nodes[0] = newNode(next, vmath.Rect{X: x + w, Z: z, W: w, H: h}, q.capacity, q.maxDepth)
	q.nodes[1] = newNode(next, vmath.Rect{X: x, Z: z, W: w, H: h}, q.capacity, q.maxDepth)
	q.nodes[2] = newNode(next, vmath.Rect{X: x, Z: z + h, W: w, H: h}, q.capacity, q.maxDepth)
	q.nodes[3] = newNode(next, vmath.Rect{X: x + w, Z: z + h, W: w, H: h}, q.capacity, q.maxDepth)
}

// index returns the quadrant fully containing the shape, or -1 when it straddles
// a midline or has no projection
func (q *Quadtree) index(s Shape) int {
	r, ok := s.groundRect()
	if !ok {
		return -1
	}

	vMid := q.bounds.X + q.bounds.W/2
	hMid := q.bounds.Z + q.bounds.H/2

	top := r.Z < hMid && r.MaxZ() < hMid
	bottom := r.Z > hMid

	switch {
	case r.X < vMid && r.MaxX() < vMid:
		if top {
			return 1
		}
		if bottom {
			return 2
		}
	case r.X > vMid:
		if top {
			return 0
		}
		if bottom {
			return 3
		}
	}
	return -1
}

// Insert places the shape in the deepest node that fully contains it
// An over-capacity node splits lazily and pushes one fitting shape down
func (q *Quadtree) Insert(s Shape) {
	if q.nodes[0] != nil {
		if i := q.index(s); i != -1 {
			q.nodes[i].Insert(s)
			return
		}
	}

	q.objects = append(q.objects, s)

	if len(q.objects) <= q.capacity || q.level >= q.maxDepth {
		return
	}
	if q.nodes[0] == nil {
		q.split()
	}
	for k, held := range q.objects {
		if i := q.index(held); i != -1 {
			q.objects = append(q.objects[:k], q.objects[k+1:]...)
			q.nodes[i].Insert(held)
			return
		}
	}
}

// InsertAll inserts every shape in order
func (q *Quadtree) InsertAll(shapes []Shape) {
	for _, s := range shapes {
		q.Insert(s)
	}
}

// Retrieve appends candidate neighbors of s to out
// Descends the one matching quadrant and always adds this node's own shapes
// A query that straddles a midline descends every quadrant it touches
func (q *Quadtree) Retrieve(out []Shape, s Shape) []Shape {
	if q.nodes[0] != nil {
		if i := q.index(s); i != -1 {
			out = q.nodes[i].Retrieve(out, s)
		} else {
			for _, i := range q.touched(s) {
				out = q.nodes[i].Retrieve(out, s)
			}
		}
	}
	return append(out, q.objects...)
}

// touched lists the quadrants a straddling rect overlaps, all four for shapes
// without a ground projection
func (q *Quadtree) touched(s Shape) []int {
	r, ok := s.groundRect()
	if !ok {
		return []int{0, 1, 2, 3}
	}
	vMid := q.bounds.X + q.bounds.W/2
	hMid := q.bounds.Z + q.bounds.H/2

	left := r.X <= vMid
	right := r.MaxX() >= vMid
	top := r.Z <= hMid
	bottom := r.MaxZ() >= hMid

	out := make([]int, 0, 4)
	if right && top {
		out = append(out, 0)
	}
	if left && top {
		out = append(out, 1)
	}
	if left && bottom {
		out = append(out, 2)
	}
	if right && bottom {
		out = append(out, 3)
	}
	return out
}

// Len returns the number of shapes held in the subtree
func (q *Quadtree) Len() int {
	n := len(q.objects)
	for _, c := range q.nodes {
		if c != nil {
			n += c.Len()
		}
	}
	return n
}

// Depth returns the deepest level in use
func (q *Quadtree) Depth() int {
	d := q.level
	for _, c := range q.nodes {
		if c != nil {
			d = max(d, c.Depth())
		}
	}
	return d
}
