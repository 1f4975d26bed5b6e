package level

import (
	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/physics"
	"github.com/lixenwraith/vi-crawler/vmath"
)

// Placement maps grid cells onto the ground plane, centered on the origin
type Placement struct {
	CellSize   float32
	WallHeight float32
	cols, rows int
}

// NewPlacement sizes a placement for g with the parameter defaults
func NewPlacement(g *Grid) Placement {
	return Placement{
		CellSize:   parameter.CellSize,
		WallHeight: parameter.WallHeight,
		cols:       g.cols,
		rows:       g.rows,
	}
}

// Center returns the world position of a cell's center at eye level
func (pl Placement) Center(p Point) vmath.Vec3 {
	return vmath.V3(
		(float32(p.X)+0.5-float32(pl.cols)/2)*pl.CellSize,
		0,
		(float32(p.Y)+0.5-float32(pl.rows)/2)*pl.CellSize,
	)
}

// Cell returns the grid cell containing a world position
func (pl Placement) Cell(pos vmath.Vec3) Point {
	x := pos[0]/pl.CellSize + float32(pl.cols)/2
	z := pos[2]/pl.CellSize + float32(pl.rows)/2
	return Point{int(floor(x)), int(floor(z))}
}

func floor(v float32) float32 {
	i := float32(int(v))
	if i > v {
		i--
	}
	return i
}

// wallShade alternates stone tones by row so adjacent runs stay distinguishable
func wallShade(row int) core.Color {
	if row%2 == 0 {
		return core.NewRGB(150, 140, 120)
	}
	return core.NewRGB(125, 115, 100)
}

// Built holds the shapes a layout produced
type Built struct {
	Walls []*physics.Box
	Floor *physics.Box
}

// Build adds one environment box per wall run plus a visual-only floor slab
func Build(world *physics.World, l Layout, pl Placement) Built {
	runs := l.Grid.Runs()
	boxes := make([]*physics.Box, 0, len(runs))
	for _, r := range runs {
		first := pl.Center(Point{r.Col, r.Row})
		last := pl.Center(Point{r.Col + r.Len - 1, r.Row})

		b := physics.NewBox(physics.Options{
			Render: physics.RenderBoth,
			Layers: physics.LayerEnvironment,
			Color:  wallShade(r.Row),
		})
		b.SetTransform(
			first.Add(last).Mul(0.5),
			vmath.V3(float32(r.Len)*pl.CellSize, pl.WallHeight, pl.CellSize),
			0,
		)
		world.Add(b)
		boxes = append(boxes, b)
	}

	floor := physics.NewBox(physics.Options{
		Render: physics.RenderVisual,
		Layers: physics.LayerNone,
		Color:  core.NewRGB(60, 50, 45),
	})
	floor.SetTransform(
		vmath.V3(0, -pl.WallHeight/2-floorThickness/2, 0),
		vmath.V3(float32(pl.cols)*pl.CellSize, floorThickness, float32(pl.rows)*pl.CellSize),
		0,
	)
	world.Add(floor)

	return Built{Walls: boxes, Floor: floor}
}

const floorThickness = 0.1
