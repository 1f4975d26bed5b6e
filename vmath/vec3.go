package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Vec3 is a single-precision 3D vector with value semantics
// Arithmetic (Add, Sub, Mul, Dot, Cross, Len) comes from mgl32
type Vec3 = mgl32.Vec3

// ErrZeroVector is returned when a zero-length vector is normalized
var ErrZeroVector = errors.New("vmath: cannot normalize zero-length vector")

// V3 builds a vector from components
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Zero returns the origin
func Zero() Vec3 {
	return Vec3{}
}

// MagSq returns squared magnitude without sqrt
func MagSq(v Vec3) float32 {
	return v.Dot(v)
}

// SquaredDistance returns |a-b|^2
func SquaredDistance(a, b Vec3) float32 {
	return MagSq(a.Sub(b))
}

// Normalize returns the unit vector of v
// Zero-length input fails with ErrZeroVector instead of propagating NaN
func Normalize(v Vec3) (Vec3, error) {
	magSq := MagSq(v)
	if magSq == 0 || math.IsNaN(float64(magSq)) {
		return Vec3{}, ErrZeroVector
	}
	inv := 1 / Sqrt(magSq)
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, nil
}

// MustNormalize is Normalize for inputs known to be non-zero, panics otherwise
func MustNormalize(v Vec3) Vec3 {
	n, err := Normalize(v)
	if err != nil {
		panic(err)
	}
	return n
}

// RotateY rotates v about the vertical axis by rad radians
// x' = x cos - z sin, z' = x sin + z cos
func RotateY(v Vec3, rad float32) Vec3 {
	// mgl32 rotates counter to the yaw convention used by box and camera geometry
	return mgl32.Rotate3DY(-rad).Mul3x1(v)
}

// Sqrt is a float32 square root
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Abs is a float32 absolute value
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Deg2Rad converts degrees to radians
func Deg2Rad(deg float32) float32 {
	return mgl32.DegToRad(deg)
}

// Rad2Deg converts radians to degrees
func Rad2Deg(rad float32) float32 {
	return mgl32.RadToDeg(rad)
}

// ApproxEqual compares scalars within epsilon
func ApproxEqual(a, b, epsilon float32) bool {
	return Abs(a-b) <= epsilon
}

// V3ApproxEqual compares vectors component-wise within epsilon
func V3ApproxEqual(a, b Vec3, epsilon float32) bool {
	return ApproxEqual(a[0], b[0], epsilon) &&
		ApproxEqual(a[1], b[1], epsilon) &&
		ApproxEqual(a[2], b[2], epsilon)
}

// Atan2 is a float32 atan2
func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
