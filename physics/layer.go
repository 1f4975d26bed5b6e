package physics

// CollisionLayer is a bit set of collision tags
// A shape carries Layers and reacts to shapes whose Layers intersect its CollidesWith
type CollisionLayer uint16

const (
	LayerPlayer CollisionLayer = 1 << iota
	LayerEnemies
	LayerEnvironment
	LayerProjectilePlayer
	LayerProjectileEnemy
	LayerMuffin
	// LayerNone marks purely cosmetic shapes, they never take part in narrow phase
	LayerNone

	LayerAny CollisionLayer = 0
)

// Has reports whether l shares at least one tag with o
func (l CollisionLayer) Has(o CollisionLayer) bool {
	return l&o != 0
}

// RenderLayer controls pixel-visibility eligibility
type RenderLayer uint8

const (
	// RenderBoth participates in pixel rendering and collision-only ray queries
	RenderBoth RenderLayer = iota
	// RenderVisual is visible but skipped by collision-only rays
	RenderVisual
	// RenderCollision is invisible geometry, skipped by camera rays
	RenderCollision
)

// excludes reports whether a ray on layer r must skip a shape on layer s
func (r RenderLayer) excludes(s RenderLayer) bool {
	switch r {
	case RenderVisual:
		return s == RenderCollision
	case RenderCollision:
		return s == RenderVisual
	default:
		return false
	}
}
