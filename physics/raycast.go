package physics

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// ErrZeroDirection is returned when a ray is built from a zero-length direction
var ErrZeroDirection = errors.New("physics: ray direction has zero length")

// edgeEpsilon widens quad containment slightly so adjacent faces leave no cracks
const edgeEpsilon = 1e-5

// Ray is a half-line query with layer gating
type Ray struct {
	Origin      vmath.Vec3
	Dir         vmath.Vec3 // Unit length when built by NewRay
	MaxDistance float32    // <= 0 means unbounded
	Render      RenderLayer
	Filter      CollisionLayer // LayerAny accepts every shape
}

// NewRay builds a ray with a normalized direction
func NewRay(origin, dir vmath.Vec3, maxDistance float32) (Ray, error) {
	d, err := vmath.Normalize(dir)
	if err != nil {
		return Ray{}, errors.Wrap(ErrZeroDirection, err.Error())
	}
	return Ray{Origin: origin, Dir: d, MaxDistance: maxDistance}, nil
}

// At returns the point at distance t along the ray
func (r Ray) At(t float32) vmath.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

func (r Ray) limit() float32 {
	if r.MaxDistance <= 0 {
		return math.MaxFloat32
	}
	return r.MaxDistance
}

// accepts applies render and collision gating
func (r Ray) accepts(s Shape) bool {
	if r.Render.excludes(s.RenderLayer()) {
		return false
	}
	return r.Filter == LayerAny || s.Layers().Has(r.Filter)
}

// HitInfo describes a ray hit or a contact
type HitInfo struct {
	Point     vmath.Vec3
	Color     core.Color
	Distance  float32 // 0 for contact tests
	Shape     Shape
	Normal    vmath.Vec3
	HasNormal bool
}

// CastShape intersects the ray with one shape, ignoring layer gating
// Hits beyond maxDist or the ray's own limit are misses
func CastShape(r Ray, s Shape, maxDist float32) (HitInfo, bool) {
	best := min(r.limit(), maxDist)
	switch v := s.(type) {
	case *Box:
		return castBox(r, v, best)
	case *Sphere:
		return castSphere(r, v, best)
	case *Sprite:
		return castSprite(r, v, best)
	default:
		panic("physics: unknown shape variant")
	}
}

// intersectQuad returns the distance to the quad and its plane normal
// The normal orientation follows the quad winding
func intersectQuad(r Ray, q *[4]vmath.Vec3, best float32) (float32, vmath.Vec3, bool) {
	n, err := vmath.Normalize(q[1].Sub(q[0]).Cross(q[2].Sub(q[0])))
	if err != nil {
		return 0, vmath.Vec3{}, false
	}
	return intersectPlaneQuad(r, q, n, best)
}

func intersectPlaneQuad(r Ray, q *[4]vmath.Vec3, n vmath.Vec3, best float32) (float32, vmath.Vec3, bool) {
	denom := r.Dir.Dot(n)
	if vmath.Abs(denom) < parameter.ParallelEpsilon {
		return 0, vmath.Vec3{}, false
	}
	t := q[0].Sub(r.Origin).Dot(n) / denom
	if t < 0 || t > best {
		return 0, vmath.Vec3{}, false
	}

	p := r.At(t)
	for i := range q {
		a := q[i]
		b := q[(i+1)%4]
		if p.Sub(a).Cross(a.Sub(b)).Dot(n) < -edgeEpsilon {
			return 0, vmath.Vec3{}, false
		}
	}
	return t, n, true
}

func castBox(r Ray, b *Box, best float32) (HitInfo, bool) {
	g := b.geom.Load()

	var (
		hitT    float32
		hitN    vmath.Vec3
		hitFace = -1
	)
	for f := range g.quads {
		t, n, ok := intersectQuad(r, &g.quads[f], best)
		if !ok {
			continue
		}
		best, hitT, hitN, hitFace = t, t, n, f
	}
	if hitFace < 0 {
		return HitInfo{}, false
	}

	// Orient outward from the box center
	q := g.quads[hitFace]
	center := q[0].Add(q[1]).Add(q[2]).Add(q[3]).Mul(0.25)
	if hitN.Dot(center.Sub(g.pos)) < 0 {
		hitN = hitN.Mul(-1)
	}

	return HitInfo{
		Point:     r.At(hitT),
		Color:     g.color,
		Distance:  hitT,
		Shape:     b,
		Normal:    hitN,
		HasNormal: true,
	}, true
}

func castSphere(r Ray, s *Sphere, best float32) (HitInfo, bool) {
	g := s.geom.Load()

	a := vmath.MagSq(r.Dir)
	if a == 0 {
		return HitInfo{}, false
	}
	l := r.Origin.Sub(g.center)
	b := r.Dir.Dot(l)
	c := vmath.MagSq(l) - g.radius*g.radius
	disc := b*b - a*c
	if disc < 0 {
		return HitInfo{}, false
	}

	sq := vmath.Sqrt(disc)
	t := (-b - sq) / a
	if t < 0 {
		t = (-b + sq) / a
	}
	if t < 0 || t > best {
		return HitInfo{}, false
	}

	p := r.At(t)
	info := HitInfo{Point: p, Color: g.color, Distance: t, Shape: s}
	if n, err := vmath.Normalize(p.Sub(g.center)); err == nil {
		info.Normal = n
		info.HasNormal = true
	}
	return info, true
}

func castSprite(r Ray, s *Sprite, best float32) (HitInfo, bool) {
	g := s.geom.Load()
	if !g.visible || g.img == nil {
		return HitInfo{}, false
	}

	t, _, ok := intersectQuad(r, &g.verts, best)
	if !ok {
		return HitInfo{}, false
	}

	p := r.At(t)
	u, v := spriteUV(g, p)
	c, ok := sampleSprite(g, u, v)
	if !ok {
		return HitInfo{}, false
	}
	return HitInfo{Point: p, Color: c, Distance: t, Shape: s}, true
}

// spriteUV maps a point on the sprite plane to [-1, 1] x [-1, 1]
func spriteUV(g *spriteGeom, p vmath.Vec3) (float32, float32) {
	vp := p.Sub(g.pos).Mul(2)
	var u, v float32
	if g.scale[0] != 0 {
		u = g.right.Dot(vp) / g.scale[0]
	}
	if g.scale[1] != 0 {
		v = vp[1] / g.scale[1]
	}
	return u, v
}
