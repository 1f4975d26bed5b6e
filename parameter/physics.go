package parameter

// Quadtree broad phase
const (
	// QuadtreeCapacity is the number of shapes a node holds before it splits
	QuadtreeCapacity = 10

	// QuadtreeMaxDepth is the deepest level a node may split to (root is level 1)
	QuadtreeMaxDepth = 5

	// QuadtreeBounds covers the ground plane (x, z, width, height)
	// Shapes outside are placed by midlines alone and stay retrievable
	QuadtreeBoundsX = -100
	QuadtreeBoundsZ = -100
	QuadtreeBoundsW = 200
	QuadtreeBoundsH = 200
)

// Ray tests
const (
	// ParallelEpsilon rejects ray/plane pairs with |dir·normal| below it
	ParallelEpsilon = 1e-6

	// RayMaxDistance is the camera ray reach in world units
	RayMaxDistance = 32
)
