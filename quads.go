package surfnets

import "github.com/soypat/geometry/ms3"

// makeAllQuads emits a quad between the vertices of the four voxels touching
// every lattice edge that crosses the isosurface. The three edges emanating
// from a voxel's minimal corner are owned by that voxel; an edge is processed
// only when its two backward orthogonal neighbors lie inside the iterated
// region, and skipped on the maximal boundary of its own axis so that meshes
// of adjacent chunks tile without duplicate faces.
func makeAllQuads[T Sample](sdf []T, shape Shape, min, max [3]int, dst *Buffer) {
	sx := shape.Linearize(1, 0, 0)
	sy := shape.Linearize(0, 1, 0)
	sz := shape.Linearize(0, 0, 1)

	for i, pt := range dst.SurfacePoints {
		x, y, z := pt[0], pt[1], pt[2]
		p := dst.SurfaceStrides[i]
		// Edges parallel with the X axis.
		if y != min[1] && z != min[2] && (evalMaxPlane || x != max[0]-1) {
			maybeMakeQuad(sdf, dst, p, p+sx, sy, sz)
		}
		// Edges parallel with the Y axis.
		if x != min[0] && z != min[2] && (evalMaxPlane || y != max[1]-1) {
			maybeMakeQuad(sdf, dst, p, p+sy, sz, sx)
		}
		// Edges parallel with the Z axis.
		if x != min[0] && y != min[1] && (evalMaxPlane || z != max[2]-1) {
			maybeMakeQuad(sdf, dst, p, p+sz, sx, sy)
		}
	}
}

// maybeMakeQuad emits the dual quad of the lattice edge from stride p1 to p2
// if the field changes sign across it. The quad corners are the vertices of
// the four voxels sharing the edge, reached by stepping backwards along the
// two axes orthogonal to it. The quad is split into two triangles along its
// shorter diagonal; winding follows the sign of the edge so faces point out
// of the solid.
func maybeMakeQuad[T Sample](sdf []T, dst *Buffer, p1, p2, axisBStride, axisCStride int) {
	d1 := sdf[p1]
	d2 := sdf[p2]
	var negativeFace bool
	switch {
	case d1 < 0 && !(d2 < 0):
		negativeFace = false
	case !(d1 < 0) && d2 < 0:
		negativeFace = true
	default:
		return // No face.
	}

	// The quad vertices viewed face-front:
	// v1 v3
	// v2 v4
	v1 := dst.StrideToIndex[p1]
	v2 := dst.StrideToIndex[p1-axisBStride]
	v3 := dst.StrideToIndex[p1-axisCStride]
	v4 := dst.StrideToIndex[p1-axisBStride-axisCStride]
	pos1 := dst.Positions[v1]
	pos2 := dst.Positions[v2]
	pos3 := dst.Positions[v3]
	pos4 := dst.Positions[v4]

	var quad [6]uint32
	if ms3.Norm2(ms3.Sub(pos1, pos4)) < ms3.Norm2(ms3.Sub(pos2, pos3)) {
		if negativeFace {
			quad = [6]uint32{v1, v4, v2, v1, v3, v4}
		} else {
			quad = [6]uint32{v1, v2, v4, v1, v4, v3}
		}
	} else if negativeFace {
		quad = [6]uint32{v2, v3, v4, v2, v1, v3}
	} else {
		quad = [6]uint32{v2, v4, v3, v2, v3, v1}
	}
	dst.Indices = append(dst.Indices, quad[:]...)
}
