package surfnets

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// boundaryTol is the positional tolerance under which an existing vertex is
// reused instead of creating a duplicate on a boundary plane.
const boundaryTol = 1e-3

// makeBoundaryFaces closes the mesh on the six planes of the sampling volume
// where the field is negative. Quads with any missing corner are skipped, so
// regions grazing the boundary tangentially may leave the mesh open there.
func makeBoundaryFaces[T Sample](sdf []T, shape Shape, min, max [3]int, dst *Buffer) {
	generateBoundaryVertices(sdf, shape, min, max, dst)

	makeBoundaryFacesX(shape, min, max, min[0], dst)
	makeBoundaryFacesX(shape, min, max, max[0]-1, dst)
	makeBoundaryFacesY(shape, min, max, min[1], dst)
	makeBoundaryFacesY(shape, min, max, max[1]-1, dst)
	makeBoundaryFacesZ(shape, min, max, min[2], dst)
	makeBoundaryFacesZ(shape, min, max, max[2]-1, dst)
}

// generateBoundaryVertices walks the lattice points on the six boundary
// planes and appends a vertex at each point that is interior to the solid and
// has no surface vertex yet. The vertex sits at the face center of the plane
// with an outward axis-aligned normal. Lattice points on more than one plane
// resolve in minX, maxX, minY, maxY, minZ, maxZ precedence order.
func generateBoundaryVertices[T Sample](sdf []T, shape Shape, min, max [3]int, dst *Buffer) {
	for z := min[2]; z < max[2]; z++ {
		for y := min[1]; y < max[1]; y++ {
			for x := min[0]; x < max[0]; x++ {
				onBoundary := x == min[0] || x == max[0]-1 ||
					y == min[1] || y == max[1]-1 ||
					z == min[2] || z == max[2]-1
				if !onBoundary {
					continue
				}
				stride := shape.Linearize(x, y, z)
				if dst.StrideToIndex[stride] != NullVertex {
					continue // Surface pass already placed a vertex here.
				}
				if !(sdf[stride] < 0) {
					continue
				}
				var pos, normal ms3.Vec
				switch {
				case x == min[0]:
					pos = ms3.Vec{X: float32(min[0]), Y: float32(y) + 0.5, Z: float32(z) + 0.5}
					normal = ms3.Vec{X: -1}
				case x == max[0]-1:
					pos = ms3.Vec{X: float32(max[0]-1) + 1, Y: float32(y) + 0.5, Z: float32(z) + 0.5}
					normal = ms3.Vec{X: 1}
				case y == min[1]:
					pos = ms3.Vec{X: float32(x) + 0.5, Y: float32(min[1]), Z: float32(z) + 0.5}
					normal = ms3.Vec{Y: -1}
				case y == max[1]-1:
					pos = ms3.Vec{X: float32(x) + 0.5, Y: float32(max[1]-1) + 1, Z: float32(z) + 0.5}
					normal = ms3.Vec{Y: 1}
				case z == min[2]:
					pos = ms3.Vec{X: float32(x) + 0.5, Y: float32(y) + 0.5, Z: float32(min[2])}
					normal = ms3.Vec{Z: -1}
				default: // z == max[2]-1.
					pos = ms3.Vec{X: float32(x) + 0.5, Y: float32(y) + 0.5, Z: float32(max[2]-1) + 1}
					normal = ms3.Vec{Z: 1}
				}

				idx := findNearbyVertex(dst.Positions, pos)
				if idx == NullVertex {
					dst.Positions = append(dst.Positions, pos)
					dst.Normals = append(dst.Normals, normal)
					dst.SurfacePoints = append(dst.SurfacePoints, [3]int{x, y, z})
					dst.SurfaceStrides = append(dst.SurfaceStrides, stride)
					idx = uint32(len(dst.Positions) - 1)
				}
				dst.StrideToIndex[stride] = idx
			}
		}
	}
}

// findNearbyVertex returns the index of a vertex within boundaryTol of pos on
// every axis, or NullVertex if there is none.
func findNearbyVertex(positions []ms3.Vec, pos ms3.Vec) uint32 {
	for i, q := range positions {
		if math32.Abs(q.X-pos.X) < boundaryTol &&
			math32.Abs(q.Y-pos.Y) < boundaryTol &&
			math32.Abs(q.Z-pos.Z) < boundaryTol {
			return uint32(i)
		}
	}
	return NullVertex
}

// makeBoundaryFacesX tiles the x == xPlane boundary plane with quads wherever
// all four lattice corners carry a vertex. Min and max plane windings are
// mirror images so faces point out of the volume.
func makeBoundaryFacesX(shape Shape, min, max [3]int, xPlane int, dst *Buffer) {
	isMinFace := xPlane == min[0]
	for z := min[2]; z < max[2]-1; z++ {
		for y := min[1]; y < max[1]-1; y++ {
			v00 := dst.StrideToIndex[shape.Linearize(xPlane, y, z)]
			v01 := dst.StrideToIndex[shape.Linearize(xPlane, y, z+1)]
			v10 := dst.StrideToIndex[shape.Linearize(xPlane, y+1, z)]
			v11 := dst.StrideToIndex[shape.Linearize(xPlane, y+1, z+1)]
			if v00 == NullVertex || v01 == NullVertex || v10 == NullVertex || v11 == NullVertex {
				continue
			}
			if isMinFace {
				dst.Indices = append(dst.Indices, v00, v01, v10, v01, v11, v10)
			} else {
				dst.Indices = append(dst.Indices, v00, v10, v01, v01, v10, v11)
			}
		}
	}
}

func makeBoundaryFacesY(shape Shape, min, max [3]int, yPlane int, dst *Buffer) {
	isMinFace := yPlane == min[1]
	for z := min[2]; z < max[2]-1; z++ {
		for x := min[0]; x < max[0]-1; x++ {
			v00 := dst.StrideToIndex[shape.Linearize(x, yPlane, z)]
			v01 := dst.StrideToIndex[shape.Linearize(x, yPlane, z+1)]
			v10 := dst.StrideToIndex[shape.Linearize(x+1, yPlane, z)]
			v11 := dst.StrideToIndex[shape.Linearize(x+1, yPlane, z+1)]
			if v00 == NullVertex || v01 == NullVertex || v10 == NullVertex || v11 == NullVertex {
				continue
			}
			if isMinFace {
				dst.Indices = append(dst.Indices, v00, v10, v01, v01, v10, v11)
			} else {
				dst.Indices = append(dst.Indices, v00, v01, v10, v01, v11, v10)
			}
		}
	}
}

func makeBoundaryFacesZ(shape Shape, min, max [3]int, zPlane int, dst *Buffer) {
	isMinFace := zPlane == min[2]
	for y := min[1]; y < max[1]-1; y++ {
		for x := min[0]; x < max[0]-1; x++ {
			v00 := dst.StrideToIndex[shape.Linearize(x, y, zPlane)]
			v01 := dst.StrideToIndex[shape.Linearize(x, y+1, zPlane)]
			v10 := dst.StrideToIndex[shape.Linearize(x+1, y, zPlane)]
			v11 := dst.StrideToIndex[shape.Linearize(x+1, y+1, zPlane)]
			if v00 == NullVertex || v01 == NullVertex || v10 == NullVertex || v11 == NullVertex {
				continue
			}
			if isMinFace {
				dst.Indices = append(dst.Indices, v00, v01, v10, v01, v11, v10)
			} else {
				dst.Indices = append(dst.Indices, v00, v10, v01, v01, v10, v11)
			}
		}
	}
}
