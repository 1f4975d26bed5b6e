package physics

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/lixenwraith/vi-crawler/vmath"
)

func randomShapes(rng *rand.Rand, n int) []Shape {
	shapes := make([]Shape, 0, n)
	pos := func() vmath.Vec3 {
		return vmath.V3(rng.Float32()*180-90, rng.Float32()*4-2, rng.Float32()*180-90)
	}
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			shapes = append(shapes, newSphereAt(pos(), rng.Float32()*3+0.2, solid(LayerEnemies)))
			continue
		}
		scale := vmath.V3(rng.Float32()*6+0.5, rng.Float32()*3+0.5, rng.Float32()*6+0.5)
		shapes = append(shapes, newBoxAt(pos(), scale, rng.Float32()*360, solid(LayerEnvironment)))
	}
	return shapes
}

// Retrieve never omits a shape whose bounding sphere overlaps the query's
func TestQuadtree_RetrieveSuperset(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	shapes := randomShapes(rng, 400)
	shapes = append(shapes, NewSprite(nil, Options{}))

	q := NewQuadtree(DefaultQuadtreeConfig())
	q.InsertAll(shapes)

	if q.Len() != len(shapes) {
		t.Fatalf("Expected %d shapes held, got %d", len(shapes), q.Len())
	}
	if q.Depth() < 2 {
		t.Fatalf("Expected tree to split, depth %d", q.Depth())
	}

	for i, s := range shapes {
		got := q.Retrieve(nil, s)
		for j, o := range shapes {
			if i == j {
				continue
			}
			r := s.BoundingRadius() + o.BoundingRadius()
			if vmath.SquaredDistance(s.Position(), o.Position()) > r*r {
				continue
			}
			if !slices.Contains(got, o) {
				t.Fatalf("Shape %d: retrieve omitted overlapping shape %d", i, j)
			}
		}
	}
}

func TestQuadtree_MaxDepth(t *testing.T) {
	cfg := DefaultQuadtreeConfig()
	cfg.Capacity = 1
	cfg.MaxDepth = 3
	q := NewQuadtree(cfg)

	// Tiny shapes all in one corner keep pushing down
	for i := 0; i < 50; i++ {
		q.Insert(newSphereAt(vmath.V3(90+float32(i)*0.1, 0, 90), 0.01, Options{}))
	}
	if d := q.Depth(); d > 3 {
		t.Errorf("Expected depth capped at 3, got %d", d)
	}
	if q.Len() != 50 {
		t.Errorf("Expected 50 shapes held, got %d", q.Len())
	}
}

func TestQuadtree_SpritesStayAtRoot(t *testing.T) {
	q := NewQuadtree(DefaultQuadtreeConfig())
	sprite := NewSprite(nil, Options{})
	for _, s := range randomShapes(rand.New(rand.NewSource(9)), 60) {
		q.Insert(s)
	}
	q.Insert(sprite)

	if !slices.Contains(q.objects, Shape(sprite)) {
		t.Errorf("Expected sprite held at the root")
	}

	far := newSphereAt(vmath.V3(-95, 0, -95), 0.1, Options{})
	if !slices.Contains(q.Retrieve(nil, far), Shape(sprite)) {
		t.Errorf("Expected sprite returned for every query")
	}
}

func TestQuadtree_Clear(t *testing.T) {
	q := NewQuadtree(DefaultQuadtreeConfig())
	q.InsertAll(randomShapes(rand.New(rand.NewSource(5)), 100))
	q.Clear()

	if q.Len() != 0 || q.Depth() != 1 {
		t.Errorf("Expected empty root after clear, got %d shapes depth %d", q.Len(), q.Depth())
	}
}

func TestQuadtree_ChildOrder(t *testing.T) {
	q := NewQuadtree(QuadtreeConfig{Bounds: vmath.Rect{X: 0, Z: 0, W: 100, H: 100}, Capacity: 10, MaxDepth: 5})
	tests := []struct {
		pos  vmath.Vec3
		want int
	}{
		{vmath.V3(75, 0, 25), 0},
		{vmath.V3(25, 0, 25), 1},
		{vmath.V3(25, 0, 75), 2},
		{vmath.V3(75, 0, 75), 3},
		{vmath.V3(50, 0, 25), -1},
	}
	for _, tt := range tests {
		if got := q.index(newSphereAt(tt.pos, 1, Options{})); got != tt.want {
			t.Errorf("Position %v: expected quadrant %d, got %d", tt.pos, tt.want, got)
		}
	}
}
