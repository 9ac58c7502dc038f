package surfnets

import "github.com/soypat/geometry/ms3"

// estimateSurface finds all vertex positions and normals and fills the
// stride to vertex index reverse map used later to look up vertices when
// generating quads.
func estimateSurface[T Sample](sdf []T, shape Shape, min, max [3]int, dst *Buffer) {
	for z := min[2]; z < max[2]; z++ {
		for y := min[1]; y < max[1]; y++ {
			for x := min[0]; x < max[0]; x++ {
				stride := shape.Linearize(x, y, z)
				p := ms3.Vec{X: float32(x), Y: float32(y), Z: float32(z)}
				if estimateSurfaceInCube(sdf, shape, p, stride, dst) {
					dst.StrideToIndex[stride] = uint32(len(dst.Positions)) - 1
					dst.SurfacePoints = append(dst.SurfacePoints, [3]int{x, y, z})
					dst.SurfaceStrides = append(dst.SurfaceStrides, stride)
				} else {
					dst.StrideToIndex[stride] = NullVertex
				}
			}
		}
	}
}

// estimateSurfaceInCube considers the grid-aligned voxel whose minimal corner
// is p. If the isosurface crosses the voxel a vertex is appended at the
// average of the voxel's edge crossings and the function reports true.
func estimateSurfaceInCube[T Sample](sdf []T, shape Shape, p ms3.Vec, minCornerStride int, dst *Buffer) bool {
	var dists [8]float32
	numNegative := 0
	for i, c := range cubeCorners {
		cornerStride := minCornerStride + shape.Linearize(c[0], c[1], c[2])
		d := sdf[cornerStride]
		dists[i] = float32(d)
		if d < 0 {
			numNegative++
		}
	}
	if numNegative == 0 || numNegative == 8 {
		return false // No crossings.
	}
	c := centroidOfEdgeIntersections(&dists)
	dst.Positions = append(dst.Positions, ms3.Add(p, c))
	dst.Normals = append(dst.Normals, fieldGradient(&dists, c))
	return true
}

func centroidOfEdgeIntersections(dists *[8]float32) ms3.Vec {
	count := 0
	var sum ms3.Vec
	for _, e := range cubeEdges {
		d1 := dists[e[0]]
		d2 := dists[e[1]]
		if (d1 < 0) != (d2 < 0) {
			count++
			sum = ms3.Add(sum, edgeIntersection(e[0], e[1], d1, d2))
		}
	}
	return ms3.Scale(1/float32(count), sum)
}

// edgeIntersection interpolates the point between two voxel corners where the
// field is zero. Callers guarantee the corner values differ in sign so the
// denominator cannot vanish.
func edgeIntersection(corner1, corner2 int, value1, value2 float32) ms3.Vec {
	interp1 := value1 / (value1 - value2)
	interp2 := 1 - interp1
	return ms3.Add(
		ms3.Scale(interp2, cubeCornerVectors[corner1]),
		ms3.Scale(interp1, cubeCornerVectors[corner2]),
	)
}

// fieldGradient estimates the field gradient at the surface point s inside the
// unit voxel. Along each axis the voxel has 4 parallel edges, each giving a
// finite difference; the gradient component on that axis is the bilinear
// interpolation of the 4 differences by the orthogonal components of s. The
// result is left unnormalized.
func fieldGradient(d *[8]float32, s ms3.Vec) ms3.Vec {
	p00 := ms3.Vec{X: d[0b001], Y: d[0b010], Z: d[0b100]}
	n00 := ms3.Vec{X: d[0b000], Y: d[0b000], Z: d[0b000]}
	p10 := ms3.Vec{X: d[0b101], Y: d[0b011], Z: d[0b110]}
	n10 := ms3.Vec{X: d[0b100], Y: d[0b001], Z: d[0b010]}
	p01 := ms3.Vec{X: d[0b011], Y: d[0b110], Z: d[0b101]}
	n01 := ms3.Vec{X: d[0b010], Y: d[0b100], Z: d[0b001]}
	p11 := ms3.Vec{X: d[0b111], Y: d[0b111], Z: d[0b111]}
	n11 := ms3.Vec{X: d[0b110], Y: d[0b101], Z: d[0b011]}

	// Each dimension encodes an edge delta, 12 in total.
	d00 := ms3.Sub(p00, n00) // Edges (00x, 0y0, z00).
	d10 := ms3.Sub(p10, n10) // Edges (10x, 0y1, z10).
	d01 := ms3.Sub(p01, n01) // Edges (01x, 1y0, z01).
	d11 := ms3.Sub(p11, n11) // Edges (11x, 1y1, z11).

	neg := ms3.Sub(ms3.Vec{X: 1, Y: 1, Z: 1}, s)
	return ms3.Add(
		ms3.Add(
			ms3.MulElem(ms3.MulElem(yzx(neg), zxy(neg)), d00),
			ms3.MulElem(ms3.MulElem(yzx(neg), zxy(s)), d10),
		),
		ms3.Add(
			ms3.MulElem(ms3.MulElem(yzx(s), zxy(neg)), d01),
			ms3.MulElem(ms3.MulElem(yzx(s), zxy(s)), d11),
		),
	)
}
