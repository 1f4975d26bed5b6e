package physics

import (
	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// OwnerID identifies the game entity that owns a shape
// Shapes never hold the entity itself; the ID is resolved on contact and may fail
type OwnerID uint64

// NoOwner is the zero OwnerID, contacts on unowned shapes notify nobody
const NoOwner OwnerID = 0

// ContactHandler receives confirmed contacts, once per tick while contact holds
type ContactHandler interface {
	OnContact(self, other Shape)
}

// OwnerResolver maps an OwnerID to its live handler
// Returns false once the owner is gone
type OwnerResolver interface {
	Resolve(id OwnerID) (ContactHandler, bool)
}

// ResolverFunc adapts a function to OwnerResolver
type ResolverFunc func(id OwnerID) (ContactHandler, bool)

func (f ResolverFunc) Resolve(id OwnerID) (ContactHandler, bool) { return f(id) }

// ContactFunc adapts a function to ContactHandler
type ContactFunc func(self, other Shape)

func (f ContactFunc) OnContact(self, other Shape) { f(self, other) }

// Shape is the closed set of hitbox variants: *Box, *Sphere, *Sprite
// The unexported method keeps other packages from adding variants
type Shape interface {
	Position() vmath.Vec3
	SetPosition(pos vmath.Vec3)
	Color() core.Color
	Owner() OwnerID
	RenderLayer() RenderLayer
	Layers() CollisionLayer
	CollidesWith() CollisionLayer
	// BoundingRadius is the distance from center to the farthest vertex
	BoundingRadius() float32

	// groundRect is the (x, z) projection used by the quadtree
	groundRect() (vmath.Rect, bool)
	sealed()
}

// Options configures the tags and owner of a new shape
type Options struct {
	Owner        OwnerID
	Render       RenderLayer
	Layers       CollisionLayer
	CollidesWith CollisionLayer
	Color        core.Color
}

// hitBox holds the immutable tags shared by every variant
type hitBox struct {
	owner        OwnerID
	render       RenderLayer
	layers       CollisionLayer
	collidesWith CollisionLayer
}

func newHitBox(opts Options) hitBox {
	return hitBox{
		owner:        opts.Owner,
		render:       opts.Render,
		layers:       opts.Layers,
		collidesWith: opts.CollidesWith,
	}
}

func (h *hitBox) Owner() OwnerID               { return h.owner }
func (h *hitBox) RenderLayer() RenderLayer     { return h.render }
func (h *hitBox) Layers() CollisionLayer       { return h.layers }
func (h *hitBox) CollidesWith() CollisionLayer { return h.collidesWith }
func (h *hitBox) sealed()                      {}

// cosmetic reports whether the shape is excluded from narrow phase
func (h *hitBox) cosmetic() bool {
	return h.layers.Has(LayerNone)
}

func defaultColor(c core.Color) core.Color {
	if c == (core.Color{}) {
		return core.Indexed(core.PaletteWhite)
	}
	return c
}
