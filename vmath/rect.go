package vmath

// Rect is an axis-aligned rectangle on the (x, z) ground plane
// Vertical extent is ignored by everything that indexes with it
type Rect struct {
	X, Z float32 // Minimum corner
	W, H float32 // Extent along x and z
}

// RectFromBounds builds a rectangle from min/max corners
func RectFromBounds(minX, minZ, maxX, maxZ float32) Rect {
	return Rect{X: minX, Z: minZ, W: maxX - minX, H: maxZ - minZ}
}

// MaxX returns the right edge
func (r Rect) MaxX() float32 { return r.X + r.W }

// MaxZ returns the far edge
func (r Rect) MaxZ() float32 { return r.Z + r.H }

// Contains reports whether o lies fully inside r
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Z >= r.Z && o.MaxX() <= r.MaxX() && o.MaxZ() <= r.MaxZ()
}

// Intersects reports whether the rectangles overlap (touching edges count)
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Z <= o.MaxZ() && o.Z <= r.MaxZ()
}
