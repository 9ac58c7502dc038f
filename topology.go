package surfnets

import "github.com/soypat/geometry/ms3"

// Cube corners are numbered by the zyx bit pattern of their lattice offset:
// bit 0 is the x offset, bit 1 the y offset, bit 2 the z offset. The gradient
// kernel indexes corners by this bit pattern.
var cubeCorners = [8][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

// cubeCornerVectors is cubeCorners as float vectors for interpolation math.
var cubeCornerVectors = [8]ms3.Vec{
	{X: 0, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 1, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
	{X: 1, Y: 0, Z: 1},
	{X: 0, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: 1},
}

// cubeEdges lists the 12 cube edges as ordered corner index pairs.
var cubeEdges = [12][2]int{
	{0b000, 0b001},
	{0b000, 0b010},
	{0b000, 0b100},
	{0b001, 0b011},
	{0b001, 0b101},
	{0b010, 0b011},
	{0b010, 0b110},
	{0b011, 0b111},
	{0b100, 0b101},
	{0b100, 0b110},
	{0b101, 0b111},
	{0b110, 0b111},
}
