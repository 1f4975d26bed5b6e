package level

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrBadMap is returned for malformed text maps
var ErrBadMap = errors.New("level: malformed map")

// Point is a grid cell, X is the column and Y the row
type Point struct {
	X, Y int
}

var orthogonal = [4]Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Grid is a rectangular wall mask
type Grid struct {
	cols, rows int
	walls      []bool
}

// NewGrid creates a grid filled with walls
func NewGrid(cols, rows int) *Grid {
	g := &Grid{cols: cols, rows: rows, walls: make([]bool, cols*rows)}
	for i := range g.walls {
		g.walls[i] = true
	}
	return g
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) inBounds(p Point) bool {
	return p.X >= 0 && p.X < g.cols && p.Y >= 0 && p.Y < g.rows
}

// Wall reports whether p is solid, cells outside the grid are solid
func (g *Grid) Wall(p Point) bool {
	if !g.inBounds(p) {
		return true
	}
	return g.walls[p.Y*g.cols+p.X]
}

// Set marks p solid or open, out of range cells are ignored
func (g *Grid) Set(p Point, wall bool) {
	if g.inBounds(p) {
		g.walls[p.Y*g.cols+p.X] = wall
	}
}

// exits counts open orthogonal neighbors
func (g *Grid) exits(p Point) int {
	n := 0
	for _, d := range orthogonal {
		if !g.Wall(Point{p.X + d.X, p.Y + d.Y}) {
			n++
		}
	}
	return n
}

// Run is a horizontal stretch of wall cells merged into one box
type Run struct {
	Row, Col, Len int
}

// Runs merges each row's consecutive wall cells
func (g *Grid) Runs() []Run {
	var runs []Run
	for y := 0; y < g.rows; y++ {
		start := -1
		for x := 0; x <= g.cols; x++ {
			wall := x < g.cols && g.walls[y*g.cols+x]
			switch {
			case wall && start < 0:
				start = x
			case !wall && start >= 0:
				runs = append(runs, Run{Row: y, Col: start, Len: x - start})
				start = -1
			}
		}
	}
	return runs
}

// Distances runs a breadth-first flood over open cells from start
// Unreachable and wall cells map to -1
func (g *Grid) Distances(start Point) []int {
	dist := make([]int, g.cols*g.rows)
	for i := range dist {
		dist[i] = -1
	}
	if g.Wall(start) {
		return dist
	}

	dist[start.Y*g.cols+start.X] = 0
	queue := []Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur.Y*g.cols+cur.X]
		for _, o := range orthogonal {
			next := Point{cur.X + o.X, cur.Y + o.Y}
			if g.Wall(next) || dist[next.Y*g.cols+next.X] >= 0 {
				continue
			}
			dist[next.Y*g.cols+next.X] = d + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// Layout is a playable map: walls, the player start and enemy spawn cells
type Layout struct {
	Grid   *Grid
	Start  Point
	Spawns []Point
}

// Parse reads a text map: '#' wall, '.' floor, '@' player start, 'g' goblin
// Short rows are padded with walls; exactly one start is required
func Parse(rows []string) (Layout, error) {
	if len(rows) == 0 {
		return Layout{}, errors.Wrap(ErrBadMap, "no rows")
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}

	g := NewGrid(cols, len(rows))
	var (
		l      = Layout{Grid: g}
		starts int
	)
	for y, row := range rows {
		for x, ch := range row {
			p := Point{x, y}
			switch ch {
			case '#':
			case '.', ' ':
				g.Set(p, false)
			case '@':
				g.Set(p, false)
				l.Start = p
				starts++
			case 'g':
				g.Set(p, false)
				l.Spawns = append(l.Spawns, p)
			default:
				return Layout{}, errors.Wrapf(ErrBadMap, "unknown glyph %q at %d,%d", ch, x, y)
			}
		}
	}
	if starts != 1 {
		return Layout{}, errors.Wrapf(ErrBadMap, "want one start, found %d", starts)
	}
	return l, nil
}

// String renders the layout in Parse's format
func (l Layout) String() string {
	spawn := make(map[Point]bool, len(l.Spawns))
	for _, s := range l.Spawns {
		spawn[s] = true
	}
	var sb strings.Builder
	for y := 0; y < l.Grid.rows; y++ {
		for x := 0; x < l.Grid.cols; x++ {
			p := Point{x, y}
			switch {
			case p == l.Start:
				sb.WriteByte('@')
			case spawn[p]:
				sb.WriteByte('g')
			case l.Grid.Wall(p):
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
