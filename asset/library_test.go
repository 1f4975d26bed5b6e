package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func encodeBMP(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	red := color.NRGBA{R: 255, A: 255}
	return fstest.MapFS{
		"wall.png":   {Data: encodePNG(t, solidImage(4, 2, red))},
		"goblin.bmp": {Data: encodeBMP(t, solidImage(3, 3, color.NRGBA{G: 200, A: 255}))},
		"big.png":    {Data: encodePNG(t, solidImage(40, 20, red))},
		"notes.txt":  {Data: []byte("not an image")},
	}
}

// TestLibraryDecodes verifies PNG and BMP decode to the expected texels
func TestLibraryDecodes(t *testing.T) {
	lib := NewLibrary(testFS(t), 0)

	img, err := lib.Load("wall.png")
	if err != nil {
		t.Fatalf("Expected PNG to load, got %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("Expected 4x2, got %v", img.Bounds())
	}
	if c := img.NRGBAAt(1, 1); c.R != 255 || c.A != 255 {
		t.Errorf("Expected red texel, got %v", c)
	}

	img, err = lib.Load("goblin.bmp")
	if err != nil {
		t.Fatalf("Expected BMP to load, got %v", err)
	}
	if c := img.NRGBAAt(2, 2); c.G != 200 {
		t.Errorf("Expected green texel, got %v", c)
	}
}

// TestLibraryCaches verifies repeated loads share one decoded image
func TestLibraryCaches(t *testing.T) {
	lib := NewLibrary(testFS(t), 0)

	a, _ := lib.Load("wall.png")
	b, _ := lib.Load("wall.png")
	if a != b {
		t.Error("Expected cached image on second load")
	}
	if lib.Len() != 1 {
		t.Errorf("Expected 1 cached image, got %d", lib.Len())
	}

	lib.Forget("wall.png")
	c, _ := lib.Load("wall.png")
	if c == a {
		t.Error("Expected fresh decode after Forget")
	}
}

// TestLibraryErrors verifies unknown formats and missing files
func TestLibraryErrors(t *testing.T) {
	lib := NewLibrary(testFS(t), 0)

	if _, err := lib.Load("notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	_, err := lib.Load("missing.png")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Error("Expected open error, not ErrUnsupportedFormat")
	}
	if lib.Len() != 0 {
		t.Errorf("Expected failures not to be cached, got %d", lib.Len())
	}
}

// TestLibraryResample verifies the longest edge is clamped and aspect kept
func TestLibraryResample(t *testing.T) {
	lib := NewLibrary(testFS(t), 10)

	img, err := lib.Load("big.png")
	if err != nil {
		t.Fatalf("Expected load, got %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 5 {
		t.Errorf("Expected 10x5, got %v", img.Bounds())
	}
	if c := img.NRGBAAt(9, 4); c.R != 255 {
		t.Errorf("Expected red after resample, got %v", c)
	}

	small, _ := lib.Load("wall.png")
	if small.Bounds().Dx() != 4 {
		t.Errorf("Expected small image untouched, got %v", small.Bounds())
	}
}

// TestGoblinPattern verifies the built-in sprite has transparent corners
func TestGoblinPattern(t *testing.T) {
	img := Goblin()
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Fatalf("Expected 10x10, got %v", img.Bounds())
	}
	if img.NRGBAAt(0, 0).A != 0 {
		t.Error("Expected transparent corner")
	}
	if c := img.NRGBAAt(3, 2); c.R != 220 || c.A != 255 {
		t.Errorf("Expected red eye, got %v", c)
	}
}

// TestMuffinPattern verifies the pickup sprite is wider than tall
func TestMuffinPattern(t *testing.T) {
	img := Muffin()
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("Expected 8x6, got %v", img.Bounds())
	}
	if img.NRGBAAt(0, 0).A != 0 {
		t.Error("Expected transparent corner")
	}
	if c := img.NRGBAAt(3, 2); c.R != 250 || c.A != 255 {
		t.Errorf("Expected frosting highlight, got %v", c)
	}
}
