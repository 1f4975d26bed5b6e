package physics

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/vmath"
)

const eps = 1e-4

func solid(layers CollisionLayer) Options {
	return Options{Layers: layers, CollidesWith: layers}
}

func newBoxAt(pos, scale vmath.Vec3, deg float32, opts Options) *Box {
	b := NewBox(opts)
	b.SetTransform(pos, scale, deg)
	return b
}

func newSphereAt(pos vmath.Vec3, r float32, opts Options) *Sphere {
	s := NewSphere(r, opts)
	s.SetPosition(pos)
	return s
}

func fillImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestBox_UnitNormals(t *testing.T) {
	b := NewBox(Options{})
	n := b.Normals()
	want := [3]vmath.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i := range want {
		if !vmath.V3ApproxEqual(n[i], want[i], eps) {
			t.Errorf("Normal %d: expected %v, got %v", i, want[i], n[i])
		}
	}

	all := b.AllNormals()
	for i := 0; i < 3; i++ {
		if !vmath.V3ApproxEqual(all[i+3], n[i].Mul(-1), eps) {
			t.Errorf("AllNormals[%d] is not the negation of normal %d", i+3, i)
		}
	}
}

func TestBox_RotationKeepsDegreesAndVerts(t *testing.T) {
	b := newBoxAt(vmath.V3(3, 0, -2), vmath.V3(4, 2, 2), 90, Options{})

	if got := b.Rotation(); !vmath.ApproxEqual(got, 90, eps) {
		t.Errorf("Expected rotation 90, got %v", got)
	}

	// A 4-wide box yawed 90 degrees spans 4 along z and 2 along x
	var minX, maxX, minZ, maxZ float32 = 1e9, -1e9, 1e9, -1e9
	for _, v := range b.Verts() {
		minX, maxX = min(minX, v[0]), max(maxX, v[0])
		minZ, maxZ = min(minZ, v[2]), max(maxZ, v[2])
	}
	if !vmath.ApproxEqual(maxX-minX, 2, eps) || !vmath.ApproxEqual(maxZ-minZ, 4, eps) {
		t.Errorf("Expected x span 2 and z span 4, got %v and %v", maxX-minX, maxZ-minZ)
	}
	if !vmath.ApproxEqual((minX+maxX)/2, 3, eps) || !vmath.ApproxEqual((minZ+maxZ)/2, -2, eps) {
		t.Errorf("Expected verts centered on (3, -2), got (%v, %v)", (minX+maxX)/2, (minZ+maxZ)/2)
	}

	// Moving keeps rotation
	b.SetPosition(vmath.V3(0, 0, 0))
	if got := b.Rotation(); !vmath.ApproxEqual(got, 90, eps) {
		t.Errorf("Expected rotation to survive SetPosition, got %v", got)
	}
}

func TestBox_SafeDistance(t *testing.T) {
	b := newBoxAt(vmath.Zero(), vmath.V3(2, 2, 2), 30, Options{})
	want := vmath.Sqrt(3)
	if got := b.SafeDistance(); !vmath.ApproxEqual(got, want, eps) {
		t.Errorf("Expected safe distance %v, got %v", want, got)
	}
}

// Readers racing a mutator never see verts from two different transforms
func TestBox_ConcurrentMutationConsistent(t *testing.T) {
	b := NewBox(Options{})
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.SetPosition(vmath.V3(float32(i), 0, 0))
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				v := b.Verts()
				if !vmath.ApproxEqual(v[1][0]-v[0][0], 1, eps) {
					t.Errorf("Torn vertex read: %v", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSprite_ForcedCosmetic(t *testing.T) {
	s := NewSprite(nil, Options{Layers: LayerEnemies, CollidesWith: LayerPlayer})
	if s.Layers() != LayerNone || s.CollidesWith() != LayerNone {
		t.Errorf("Expected sprite layers forced to LayerNone, got %v / %v", s.Layers(), s.CollidesWith())
	}
}

func TestSprite_FaceToward(t *testing.T) {
	s := NewSprite(nil, Options{})
	s.SetPosition(vmath.V3(0, 0, 0))
	s.FaceToward(vmath.V3(5, 0, 0))

	if !vmath.V3ApproxEqual(s.Normal(), vmath.V3(1, 0, 0), eps) {
		t.Errorf("Expected normal toward +x, got %v", s.Normal())
	}
}

func TestSprite_SampleTransparency(t *testing.T) {
	img := fillImage(2, 2, color.NRGBA{R: 200, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, A: 128})
	s := NewSprite(img, Options{})

	if c, ok := s.Sample(-0.5, -0.5); !ok || c != core.NewRGB(200, 0, 0) {
		t.Errorf("Expected opaque red at bottom-left, got %v %v", c, ok)
	}
	// Image row 0 is the top, column 1 is the right
	if _, ok := s.Sample(0.5, 0.5); ok {
		t.Errorf("Expected translucent texel to miss")
	}

	s.SetVisible(false)
	if _, ok := s.Sample(-0.5, -0.5); ok {
		t.Errorf("Expected hidden sprite to miss")
	}
}

var opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
