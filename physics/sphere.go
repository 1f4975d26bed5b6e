package physics

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/vmath"
)

type sphereGeom struct {
	center vmath.Vec3
	radius float32
	color  core.Color
}

// Sphere is a center and radius
type Sphere struct {
	hitBox
	mu   sync.Mutex
	geom atomic.Pointer[sphereGeom]
}

// NewSphere creates a sphere of the given radius at the origin
func NewSphere(radius float32, opts Options) *Sphere {
	s := &Sphere{hitBox: newHitBox(opts)}
	s.geom.Store(&sphereGeom{radius: radius, color: defaultColor(opts.Color)})
	return s
}

func (s *Sphere) update(fn func(g *sphereGeom)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.geom.Load()
	fn(&next)
	s.geom.Store(&next)
}

func (s *Sphere) Position() vmath.Vec3 { return s.geom.Load().center }

func (s *Sphere) SetPosition(pos vmath.Vec3) {
	s.update(func(g *sphereGeom) { g.center = pos })
}

func (s *Sphere) Radius() float32 { return s.geom.Load().radius }

func (s *Sphere) SetRadius(r float32) {
	s.update(func(g *sphereGeom) { g.radius = r })
}

func (s *Sphere) Color() core.Color { return s.geom.Load().color }

func (s *Sphere) SetColor(c core.Color) {
	s.update(func(g *sphereGeom) { g.color = c })
}

func (s *Sphere) BoundingRadius() float32 { return s.geom.Load().radius }

func (s *Sphere) groundRect() (vmath.Rect, bool) {
	g := s.geom.Load()
	r := g.radius
	return vmath.Rect{X: g.center[0] - r, Z: g.center[2] - r, W: 2 * r, H: 2 * r}, true
}
