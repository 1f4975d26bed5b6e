package parameter

// Dungeon generation defaults
const (
	// Maze size in grid cells, rounded down to odd
	MazeCols = 21
	MazeRows = 21

	// MazeBraiding opens some dead ends into loops
	MazeBraiding = 0.3

	// GoblinCount is how many goblins the demo level spawns
	GoblinCount = 4
)

// World placement of the grid
const (
	// CellSize is the edge of one grid cell in world units
	CellSize = 2.0

	// WallHeight is the vertical extent of wall boxes, centered on eye level
	WallHeight = 3.0
)
