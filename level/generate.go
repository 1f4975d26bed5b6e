package level

import (
	"math/rand"
	"sort"
	"time"
)

// Config controls maze generation
type Config struct {
	Cols, Rows int // Rounded down to odd, minimum 5

	// Braiding is the chance a dead end is opened into a loop, 0 keeps a perfect maze
	Braiding float64

	// Goblins is the number of spawn cells to pick, farthest dead ends first
	Goblins int

	Seed int64 // 0 picks a time-based seed
}

// Generate carves a maze with a recursive backtracker from the top-left room,
// braids some dead ends, and places spawns as far from the start as possible
func Generate(cfg Config) Layout {
	cols, rows := oddAtLeast5(cfg.Cols), oddAtLeast5(cfg.Rows)
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := NewGrid(cols, rows)
	start := Point{1, 1}
	carve(g, start, rng)
	if cfg.Braiding > 0 {
		braid(g, cfg.Braiding, rng)
	}

	return Layout{
		Grid:   g,
		Start:  start,
		Spawns: pickSpawns(g, start, cfg.Goblins),
	}
}

func oddAtLeast5(n int) int {
	if n < 5 {
		return 5
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// carve opens rooms on odd coordinates, knocking out the wall between each step
func carve(g *Grid, start Point, rng *rand.Rand) {
	steps := [4]Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	stack := []Point{start}
	g.Set(start, false)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		var options [4]Point
		n := 0
		for _, s := range steps {
			next := Point{cur.X + s.X, cur.Y + s.Y}
			if next.X > 0 && next.X < g.cols-1 && next.Y > 0 && next.Y < g.rows-1 && g.Wall(next) {
				options[n] = s
				n++
			}
		}
		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		s := options[rng.Intn(n)]
		g.Set(Point{cur.X + s.X/2, cur.Y + s.Y/2}, false)
		next := Point{cur.X + s.X, cur.Y + s.Y}
		g.Set(next, false)
		stack = append(stack, next)
	}
}

// braid opens a wall next to some dead ends, never creating a 2x2 open area
// or a free-standing single wall cell
func braid(g *Grid, chance float64, rng *rand.Rand) {
	for y := 1; y < g.rows-1; y += 2 {
		for x := 1; x < g.cols-1; x += 2 {
			p := Point{x, y}
			if g.Wall(p) || g.exits(p) != 1 || rng.Float64() >= chance {
				continue
			}

			var options []Point
			for _, d := range orthogonal {
				wall := Point{x + d.X, y + d.Y}
				beyond := Point{x + 2*d.X, y + 2*d.Y}
				if wall.X <= 0 || wall.X >= g.cols-1 || wall.Y <= 0 || wall.Y >= g.rows-1 {
					continue
				}
				if g.Wall(wall) && !g.Wall(beyond) && g.canOpen(wall) {
					options = append(options, wall)
				}
			}
			if len(options) > 0 {
				g.Set(options[rng.Intn(len(options))], false)
			}
		}
	}
}

// canOpen reports whether opening p keeps corridors one cell wide and every
// neighbouring wall attached to another wall
func (g *Grid) canOpen(p Point) bool {
	open := func(x, y int) bool { return !g.Wall(Point{x, y}) }
	for _, q := range [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		dx, dy := q[0], q[1]
		if open(p.X+dx, p.Y) && open(p.X, p.Y+dy) && open(p.X+dx, p.Y+dy) {
			return false
		}
	}

	for _, d := range orthogonal {
		n := Point{p.X + d.X, p.Y + d.Y}
		if !g.inBounds(n) || !g.Wall(n) {
			continue
		}
		attached := false
		for _, d2 := range orthogonal {
			nn := Point{n.X + d2.X, n.Y + d2.Y}
			if nn != p && g.inBounds(nn) && g.Wall(nn) {
				attached = true
				break
			}
		}
		if !attached {
			return false
		}
	}
	return true
}

// pickSpawns prefers dead ends, farthest from start first, then other open cells
func pickSpawns(g *Grid, start Point, n int) []Point {
	if n <= 0 {
		return nil
	}
	dist := g.Distances(start)

	type cand struct {
		p       Point
		d       int
		deadEnd bool
	}
	var cands []cand
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			p := Point{x, y}
			d := dist[y*g.cols+x]
			if d <= 2 {
				continue
			}
			cands = append(cands, cand{p, d, g.exits(p) == 1})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].deadEnd != cands[j].deadEnd {
			return cands[i].deadEnd
		}
		return cands[i].d > cands[j].d
	})

	out := make([]Point, 0, n)
	for _, c := range cands {
		if len(out) == n {
			break
		}
		out = append(out, c.p)
	}
	return out
}
