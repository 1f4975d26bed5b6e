package physics

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// Face indices into Box.Quads
const (
	FaceBack   = 0 // -z
	FaceFront  = 1 // +z
	FaceRight  = 2 // +x
	FaceLeft   = 3 // -x
	FaceBottom = 4 // -y
	FaceTop    = 5 // +y
)

// quadIndex lists the corner indices of each face, wound so that
// (v1-v0)×(v2-v0) is consistent per face
var quadIndex = [6][4]int{
	{0, 3, 2, 1},
	{4, 5, 6, 7},
	{1, 5, 6, 2},
	{0, 3, 7, 4},
	{0, 1, 5, 4},
	{3, 2, 6, 7},
}

// boxGeom is an immutable geometry snapshot, replaced whole on every mutation
type boxGeom struct {
	pos     vmath.Vec3
	scale   vmath.Vec3
	yaw     float32 // radians
	color   core.Color
	verts   [8]vmath.Vec3
	quads   [6][4]vmath.Vec3
	normals [3]vmath.Vec3
	safe    float32
}

// Box is a yaw-rotated cuboid
type Box struct {
	hitBox
	mu   sync.Mutex // serializes mutators
	geom atomic.Pointer[boxGeom]
}

// NewBox creates a unit box at the origin
func NewBox(opts Options) *Box {
	b := &Box{hitBox: newHitBox(opts)}
	b.geom.Store(buildBoxGeom(vmath.Zero(), vmath.V3(1, 1, 1), 0, defaultColor(opts.Color)))
	return b
}

// buildBoxGeom derives vertices, faces, normals and safe distance
func buildBoxGeom(pos, scale vmath.Vec3, yaw float32, color core.Color) *boxGeom {
	g := &boxGeom{pos: pos, scale: scale, yaw: yaw, color: color}

	hx, hy, hz := scale[0]/2, scale[1]/2, scale[2]/2
	local := [8]vmath.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{+hx, +hy, -hz},
		{-hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{+hx, +hy, +hz},
		{-hx, +hy, +hz},
	}
	for i, v := range local {
		g.verts[i] = vmath.RotateY(v, yaw).Add(pos)
	}
	for f, idx := range quadIndex {
		for k, vi := range idx {
			g.quads[f][k] = g.verts[vi]
		}
	}

	g.normals = faceNormals(&g.quads, yaw)
	g.safe = g.verts[0].Sub(pos).Len()
	return g
}

// faceNormals derives the local x, y, z outward normals from the right and top faces
func faceNormals(quads *[6][4]vmath.Vec3, yaw float32) [3]vmath.Vec3 {
	right := quads[FaceRight]
	top := quads[FaceTop]
	lx := right[2].Sub(right[0]).Cross(right[1].Sub(right[0]))
	ly := top[2].Sub(top[0]).Cross(top[1].Sub(top[0]))
	lz := lx.Cross(ly)

	nx, errX := vmath.Normalize(lx)
	ny, errY := vmath.Normalize(ly)
	nz, errZ := vmath.Normalize(lz)
	if errX != nil || errY != nil || errZ != nil {
		// Flat box: fall back to the rotated basis
		nx = vmath.RotateY(vmath.V3(1, 0, 0), yaw)
		ny = vmath.V3(0, 1, 0)
		nz = vmath.RotateY(vmath.V3(0, 0, 1), yaw)
	}
	return [3]vmath.Vec3{nx, ny, nz}
}

// update rebuilds geometry from the current snapshot with fn applied
func (b *Box) update(fn func(g *boxGeom)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := *b.geom.Load()
	fn(&next)
	b.geom.Store(buildBoxGeom(next.pos, next.scale, next.yaw, next.color))
}

func (b *Box) Position() vmath.Vec3 { return b.geom.Load().pos }

// SetPosition moves the box, vertices are recomputed before return
func (b *Box) SetPosition(pos vmath.Vec3) {
	b.update(func(g *boxGeom) { g.pos = pos })
}

// Scale returns full extents
func (b *Box) Scale() vmath.Vec3 { return b.geom.Load().scale }

// SetScale sets full extents
func (b *Box) SetScale(scale vmath.Vec3) {
	b.update(func(g *boxGeom) { g.scale = scale })
}

// Rotation returns yaw in degrees
func (b *Box) Rotation() float32 { return vmath.Rad2Deg(b.geom.Load().yaw) }

// SetRotation sets yaw in degrees
func (b *Box) SetRotation(deg float32) {
	b.update(func(g *boxGeom) { g.yaw = vmath.Deg2Rad(deg) })
}

// SetTransform sets position, extents and yaw (degrees) in one step
func (b *Box) SetTransform(pos, scale vmath.Vec3, deg float32) {
	b.update(func(g *boxGeom) {
		g.pos = pos
		g.scale = scale
		g.yaw = vmath.Deg2Rad(deg)
	})
}

func (b *Box) Color() core.Color { return b.geom.Load().color }

func (b *Box) SetColor(c core.Color) {
	b.update(func(g *boxGeom) { g.color = c })
}

// Verts returns the 8 corners
func (b *Box) Verts() [8]vmath.Vec3 { return b.geom.Load().verts }

// Quads returns the 6 faces, see Face* constants
func (b *Box) Quads() [6][4]vmath.Vec3 { return b.geom.Load().quads }

// Normals returns the 3 positive outward unit normals (local x, y, z)
func (b *Box) Normals() [3]vmath.Vec3 { return b.geom.Load().normals }

// AllNormals returns the positive normals followed by their negations
func (b *Box) AllNormals() [6]vmath.Vec3 {
	return allNormals(b.geom.Load())
}

func allNormals(g *boxGeom) [6]vmath.Vec3 {
	n := g.normals
	return [6]vmath.Vec3{n[0], n[1], n[2], n[0].Mul(-1), n[1].Mul(-1), n[2].Mul(-1)}
}

// SafeDistance is the rotation-invariant half diagonal
func (b *Box) SafeDistance() float32 { return b.geom.Load().safe }

func (b *Box) BoundingRadius() float32 { return b.geom.Load().safe }

// groundRect takes the top face corners, widened to the bounding circle so
// the index never separates shapes whose bounding spheres overlap
func (b *Box) groundRect() (vmath.Rect, bool) {
	g := b.geom.Load()
	minX, minZ := g.pos[0]-g.safe, g.pos[2]-g.safe
	maxX, maxZ := g.pos[0]+g.safe, g.pos[2]+g.safe
	for _, v := range g.quads[FaceTop] {
		minX, maxX = min(minX, v[0]), max(maxX, v[0])
		minZ, maxZ = min(minZ, v[2]), max(maxZ, v[2])
	}
	return vmath.RectFromBounds(minX, minZ, maxX, maxZ), true
}
