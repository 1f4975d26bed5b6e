package physics

import (
	"image"
	"sync"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/vmath"
)

type spriteGeom struct {
	pos     vmath.Vec3
	scale   vmath.Vec3
	yaw     float32
	visible bool
	img     *image.NRGBA
	verts   [4]vmath.Vec3
	normal  vmath.Vec3
	right   vmath.Vec3
}

// Sprite is a vertical billboard quad textured with a raster image
// Ray hits sample the image; transparent texels let rays pass through
type Sprite struct {
	hitBox
	mu   sync.Mutex
	geom atomic.Pointer[spriteGeom]
}

// NewSprite creates a unit billboard at the origin
// Sprites are cosmetic: their collision tags are forced to LayerNone
func NewSprite(img image.Image, opts Options) *Sprite {
	opts.Layers = LayerNone
	opts.CollidesWith = LayerNone
	s := &Sprite{hitBox: newHitBox(opts)}
	s.geom.Store(buildSpriteGeom(spriteGeom{
		scale:   vmath.V3(1, 1, 1),
		visible: true,
		img:     toNRGBA(img),
	}))
	return s
}

// toNRGBA copies img into a non-premultiplied buffer for direct texel reads
func toNRGBA(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

func buildSpriteGeom(g spriteGeom) *spriteGeom {
	hx, hy := g.scale[0]/2, g.scale[1]/2
	local := [4]vmath.Vec3{
		{-hx, -hy, 0},
		{+hx, -hy, 0},
		{+hx, +hy, 0},
		{-hx, +hy, 0},
	}
	for i, v := range local {
		g.verts[i] = vmath.RotateY(v, g.yaw).Add(g.pos)
	}

	n, err := vmath.Normalize(g.verts[2].Sub(g.verts[0]).Cross(g.verts[1].Sub(g.verts[0])))
	if err != nil {
		n = vmath.RotateY(vmath.V3(0, 0, -1), g.yaw)
	}
	g.normal = n
	g.right = vmath.V3(n[2], n[1], -n[0])
	return &g
}

func (s *Sprite) update(fn func(g *spriteGeom)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.geom.Load()
	fn(&next)
	s.geom.Store(buildSpriteGeom(next))
}

func (s *Sprite) Position() vmath.Vec3 { return s.geom.Load().pos }

func (s *Sprite) SetPosition(pos vmath.Vec3) {
	s.update(func(g *spriteGeom) { g.pos = pos })
}

// Scale returns width (x) and height (y); z is unused
func (s *Sprite) Scale() vmath.Vec3 { return s.geom.Load().scale }

func (s *Sprite) SetScale(scale vmath.Vec3) {
	s.update(func(g *spriteGeom) { g.scale = scale })
}

// Rotation returns yaw in degrees
func (s *Sprite) Rotation() float32 { return vmath.Rad2Deg(s.geom.Load().yaw) }

// SetRotation sets yaw in degrees
func (s *Sprite) SetRotation(deg float32) {
	s.update(func(g *spriteGeom) { g.yaw = vmath.Deg2Rad(deg) })
}

// FaceToward yaws the billboard so its face points at target on the ground plane
func (s *Sprite) FaceToward(target vmath.Vec3) {
	s.update(func(g *spriteGeom) {
		dx := target[0] - g.pos[0]
		dz := target[2] - g.pos[2]
		if dx == 0 && dz == 0 {
			return
		}
		g.yaw = vmath.Atan2(dz, dx) + vmath.Deg2Rad(90)
	})
}

// SetImage swaps the texture
func (s *Sprite) SetImage(img image.Image) {
	nrgba := toNRGBA(img)
	s.update(func(g *spriteGeom) { g.img = nrgba })
}

// SetVisible hides the texture, a hidden sprite is never hit
func (s *Sprite) SetVisible(visible bool) {
	s.update(func(g *spriteGeom) { g.visible = visible })
}

// Verts returns the 4 quad corners
func (s *Sprite) Verts() [4]vmath.Vec3 { return s.geom.Load().verts }

// Normal returns the quad's unit normal
func (s *Sprite) Normal() vmath.Vec3 { return s.geom.Load().normal }

// Right returns the in-plane horizontal axis
func (s *Sprite) Right() vmath.Vec3 { return s.geom.Load().right }

// Color of a sprite depends on the sample point; the whole-shape color is the
// image's center texel, or white when there is none
func (s *Sprite) Color() core.Color {
	if c, ok := s.Sample(0, 0); ok {
		return c
	}
	return core.Indexed(core.PaletteWhite)
}

// Sample reads the texel at UV in [-1, 1] x [-1, 1], v pointing up
// Returns false for transparent texels, hidden sprites, or no image
func (s *Sprite) Sample(u, v float32) (core.Color, bool) {
	return sampleSprite(s.geom.Load(), u, v)
}

func sampleSprite(g *spriteGeom, u, v float32) (core.Color, bool) {
	if g.img == nil || !g.visible {
		return core.Color{}, false
	}
	w := g.img.Rect.Dx()
	h := g.img.Rect.Dy()
	if w == 0 || h == 0 {
		return core.Color{}, false
	}

	px := clampInt(int((u/2+0.5)*float32(w)), 0, w-1)
	py := clampInt(int((v/2+0.5)*float32(h)), 0, h-1)

	// Image rows run top-down, v runs bottom-up
	c := g.img.NRGBAAt(g.img.Rect.Min.X+px, g.img.Rect.Min.Y+h-1-py)
	if c.A < 0xff {
		return core.Color{}, false
	}
	return core.NewRGB(c.R, c.G, c.B), true
}

func (s *Sprite) BoundingRadius() float32 {
	sc := s.geom.Load().scale
	return vmath.Sqrt(sc[0]*sc[0]+sc[1]*sc[1]) / 2
}

// groundRect is unsupported for sprites, they live at the quadtree root
func (s *Sprite) groundRect() (vmath.Rect, bool) {
	return vmath.Rect{}, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
