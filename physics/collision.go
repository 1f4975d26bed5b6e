package physics

import (
	"math"

	"github.com/lixenwraith/vi-crawler/vmath"
)

// interval is a shape's projection onto an axis
type interval struct {
	min, max float32
}

func (i interval) separated(o interval) bool {
	return i.max < o.min || i.min > o.max
}

func projectBox(g *boxGeom, axis vmath.Vec3) interval {
	lo := float32(math.MaxFloat32)
	hi := float32(-math.MaxFloat32)
	for _, v := range g.verts {
		d := v.Dot(axis)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return interval{lo, hi}
}

func projectSphere(g *sphereGeom, axis vmath.Vec3) interval {
	c := g.center.Dot(axis)
	return interval{c - g.radius, c + g.radius}
}

// eligible applies layer gating, which always precedes geometry
func eligible(a, b Shape) bool {
	if a == b {
		return false
	}
	if a.Layers().Has(LayerNone) || b.Layers().Has(LayerNone) {
		return false
	}
	return a.CollidesWith().Has(b.Layers())
}

// Contact runs gating and the exact test for a pair without notifying owners
// The returned info describes b
func Contact(a, b Shape) (HitInfo, bool) {
	if !eligible(a, b) {
		return HitInfo{}, false
	}
	return contact(a, b)
}

func contact(a, b Shape) (HitInfo, bool) {
	switch av := a.(type) {
	case *Sphere:
		switch bv := b.(type) {
		case *Sphere:
			return sphereSphere(av.geom.Load(), bv)
		case *Box:
			return sphereBox(av.geom.Load(), bv)
		case *Sprite:
			return HitInfo{}, false
		}
	case *Box:
		switch bv := b.(type) {
		case *Sphere:
			return boxSphere(av.geom.Load(), bv)
		case *Box:
			return boxBox(av.geom.Load(), bv)
		case *Sprite:
			return HitInfo{}, false
		}
	case *Sprite:
		switch b.(type) {
		case *Sphere, *Box, *Sprite:
			return HitInfo{}, false
		}
	}
	panic("physics: unknown shape variant")
}

func sphereSphere(a *sphereGeom, b *Sphere) (HitInfo, bool) {
	bg := b.geom.Load()
	r := a.radius + bg.radius
	if vmath.SquaredDistance(a.center, bg.center) >= r*r {
		return HitInfo{}, false
	}
	return HitInfo{Point: bg.center, Color: bg.color, Shape: b}, true
}

// broadReject compares center distance against the sum of bounding radii
func broadReject(pa, pb vmath.Vec3, ra, rb float32) bool {
	r := ra + rb
	return vmath.SquaredDistance(pa, pb) > r*r
}

func sphereBox(a *sphereGeom, b *Box) (HitInfo, bool) {
	bg := b.geom.Load()
	if broadReject(a.center, bg.pos, a.radius, bg.safe) {
		return HitInfo{}, false
	}
	for _, axis := range bg.normals {
		if projectSphere(a, axis).separated(projectBox(bg, axis)) {
			return HitInfo{}, false
		}
	}
	return boxHit(a.center, b, bg), true
}

func boxSphere(a *boxGeom, b *Sphere) (HitInfo, bool) {
	bg := b.geom.Load()
	if broadReject(a.pos, bg.center, a.safe, bg.radius) {
		return HitInfo{}, false
	}
	for _, axis := range a.normals {
		if projectBox(a, axis).separated(projectSphere(bg, axis)) {
			return HitInfo{}, false
		}
	}
	return HitInfo{Point: bg.center, Color: bg.color, Shape: b}, true
}

// boxBox tests from both boxes' face normals
// Yaw-only boxes share the vertical axis, so face normals are a complete SAT axis set
func boxBox(a *boxGeom, b *Box) (HitInfo, bool) {
	bg := b.geom.Load()
	if broadReject(a.pos, bg.pos, a.safe, bg.safe) {
		return HitInfo{}, false
	}
	if separatedOn(a, bg, &a.normals) || separatedOn(a, bg, &bg.normals) {
		return HitInfo{}, false
	}
	return boxHit(a.pos, b, bg), true
}

func separatedOn(a, b *boxGeom, axes *[3]vmath.Vec3) bool {
	for _, axis := range axes {
		if projectBox(a, axis).separated(projectBox(b, axis)) {
			return true
		}
	}
	return false
}

// boxHit builds contact info for box b with the closest-face normal
func boxHit(from vmath.Vec3, b *Box, bg *boxGeom) HitInfo {
	return HitInfo{
		Point:     bg.pos,
		Color:     bg.color,
		Shape:     b,
		Normal:    contactNormal(from, bg),
		HasNormal: true,
	}
}

// contactNormal picks the face of b whose axis best separates from along
// the offset scaled by that axis' extent
func contactNormal(from vmath.Vec3, b *boxGeom) vmath.Vec3 {
	offset := from.Sub(b.pos)
	axes := allNormals(b)

	best := axes[0]
	bestScore := float32(-math.MaxFloat32)
	for n, axis := range axes {
		extent := b.scale[n%3]
		if extent == 0 {
			continue
		}
		if score := offset.Dot(axis) / extent; score > bestScore {
			best, bestScore = axis, score
		}
	}
	return best
}
