package physics

import (
	"github.com/lixenwraith/vi-crawler/vmath"
)

// SlideSphere adjusts a single-step move of s against walls
// Moving into a wall keeps only the component along the wall; against an
// inverted corner the second wall projects the move again
// The check uses the sphere's current position and notifies no owners
func (w *World) SlideSphere(s *Sphere, move vmath.Vec3, walls CollisionLayer) vmath.Vec3 {
	if vmath.MagSq(move) == 0 {
		return move
	}

	first, ok := w.wallContact(s, walls, nil)
	if !ok {
		return move
	}
	if move.Dot(first.Normal) >= 0 {
		return move
	}
	move = projectTangent(move, first.Normal)

	if second, ok := w.wallContact(s, walls, first.Shape); ok {
		move = projectTangent(move, second.Normal)
	}
	return move
}

// projectTangent keeps the component of move along the wall's horizontal tangent
func projectTangent(move, n vmath.Vec3) vmath.Vec3 {
	tangent := vmath.V3(n[2], n[1], -n[0])
	return tangent.Mul(move.Dot(tangent))
}

// wallContact finds the first box on the wall layers touching s, skipping ignore
func (w *World) wallContact(s *Sphere, walls CollisionLayer, ignore Shape) (HitInfo, bool) {
	sg := s.geom.Load()
	for _, c := range w.QueryCandidates(s) {
		b, ok := c.(*Box)
		if !ok || c == ignore {
			continue
		}
		if walls != LayerAny && !b.Layers().Has(walls) {
			continue
		}
		if b.Layers().Has(LayerNone) {
			continue
		}
		if hit, ok := sphereBox(sg, b); ok {
			return hit, true
		}
	}
	return HitInfo{}, false
}
