package render

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/physics"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// cameraState is an immutable ray grid, replaced whole when the camera moves
type cameraState struct {
	pos  vmath.Vec3
	yaw  float32 // radians
	rays []physics.Ray
}

// Camera owns one precomputed ray per screen cell
// Yaw 0 looks down -z; column 0 is the left edge, row 0 the top
type Camera struct {
	width   int
	height  int
	fov     float32 // radians
	aspect  float32
	maxDist float32

	mu    sync.Mutex // serializes rebuilds
	state atomic.Pointer[cameraState]
}

// NewCamera creates a camera at the origin facing -z
func NewCamera(width, height int, fovDeg, maxDist float32) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("render: camera size %dx%d", width, height)
	}
	c := &Camera{
		width:   width,
		height:  height,
		fov:     vmath.Deg2Rad(fovDeg),
		aspect:  float32(width) / (parameter.CellAspect * float32(height)),
		maxDist: maxDist,
	}
	c.state.Store(c.build(vmath.Zero(), 0))
	return c, nil
}

func (c *Camera) Width() int  { return c.width }
func (c *Camera) Height() int { return c.height }

func (c *Camera) Position() vmath.Vec3 { return c.state.Load().pos }

// Rotation returns yaw in degrees
func (c *Camera) Rotation() float32 { return vmath.Rad2Deg(c.state.Load().yaw) }

// SetPosition moves the camera and rebuilds the ray grid
func (c *Camera) SetPosition(pos vmath.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.update(pos, c.state.Load().yaw)
}

// SetRotation sets yaw in degrees and rebuilds the ray grid
func (c *Camera) SetRotation(deg float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.update(c.state.Load().pos, vmath.Deg2Rad(deg))
}

// SetTransform sets position and yaw in one rebuild
func (c *Camera) SetTransform(pos vmath.Vec3, deg float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.update(pos, vmath.Deg2Rad(deg))
}

// update rebuilds only when the pose changed; caller holds mu
func (c *Camera) update(pos vmath.Vec3, yaw float32) {
	cur := c.state.Load()
	if cur.pos == pos && cur.yaw == yaw {
		return
	}
	c.state.Store(c.build(pos, yaw))
}

// Forward returns the horizontal view direction
func (c *Camera) Forward() vmath.Vec3 {
	return vmath.RotateY(vmath.V3(0, 0, -1), c.state.Load().yaw)
}

// Right returns the horizontal screen-right direction
func (c *Camera) Right() vmath.Vec3 {
	return vmath.RotateY(vmath.V3(1, 0, 0), c.state.Load().yaw)
}

// Ray returns the ray for cell (x, y)
func (c *Camera) Ray(x, y int) physics.Ray {
	return c.state.Load().rays[y*c.width+x]
}

// Rays returns the current row-major grid; callers must not mutate it
func (c *Camera) Rays() []physics.Ray {
	return c.state.Load().rays
}

func lerpAngle(i, n int, fov float32) float32 {
	t := float32(0.5)
	if n > 1 {
		t = float32(i) / float32(n-1)
	}
	return (1-t)*(-fov/2) + t*(fov/2)
}

func (c *Camera) build(pos vmath.Vec3, yaw float32) *cameraState {
	rays := make([]physics.Ray, c.width*c.height)
	for y := 0; y < c.height; y++ {
		up := -float32(math.Sin(float64(lerpAngle(y, c.height, c.fov))))
		for x := 0; x < c.width; x++ {
			side := float32(math.Sin(float64(lerpAngle(x, c.width, c.fov))))
			local := vmath.V3(c.aspect*side, up, -1)
			rays[y*c.width+x] = physics.Ray{
				Origin:      pos,
				Dir:         vmath.MustNormalize(vmath.RotateY(local, yaw)),
				MaxDistance: c.maxDist,
				Render:      physics.RenderVisual,
			}
		}
	}
	return &cameraState{pos: pos, yaw: yaw, rays: rays}
}
