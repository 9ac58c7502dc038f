// Package surfnets extracts triangle meshes from signed distance fields
// sampled on regular 3D grids using the Naive Surface Nets algorithm.
// Negative samples are interior to the solid; the zero level set is the
// meshed surface. Meshes of adjacent chunks tile seamlessly since faces are
// not generated on the positive boundaries of a chunk.
package surfnets

import (
	"errors"

	"github.com/soypat/geometry/ms3"
	"golang.org/x/exp/constraints"
)

// Sample is satisfied by scalar field element types. The field's interior is
// where the sample is strictly negative; an exact zero lies on the positive
// side. float32 fields need no wrapping.
type Sample interface {
	constraints.Float | constraints.Signed
}

// Shape maps lattice coordinates of a dense 3D sample array to linear indices
// (strides) of its backing slice and back. Linearize and Delinearize must be
// inverses over the array's coordinate range, and Linearize must be linear
// (the stride of a sum of coordinates is the sum of their strides) so that
// unit-step strides are position independent.
type Shape interface {
	Linearize(x, y, z int) int
	Delinearize(i int) (x, y, z int)
}

// GridShape is a row-major [Shape] with x the fastest varying axis.
type GridShape struct {
	X, Y, Z int
}

// NewGridShape returns the row-major shape of an x by y by z sample array.
func NewGridShape(x, y, z int) GridShape {
	return GridShape{X: x, Y: y, Z: z}
}

func (s GridShape) Linearize(x, y, z int) int { return x + s.X*(y+s.Y*z) }

func (s GridShape) Delinearize(i int) (x, y, z int) {
	x = i % s.X
	i /= s.X
	y = i % s.Y
	z = i / s.Y
	return x, y, z
}

// Len returns the backing array length the shape addresses.
func (s GridShape) Len() int { return s.X * s.Y * s.Z }

// Config holds the meshing options of [SurfaceNetsWithConfig].
// The zero value is the [SurfaceNets] default.
type Config struct {
	// GenerateBoundaryFaces closes the mesh on the six planes of the sampling
	// volume where the field is interior. Boundary quads with a corner that
	// carries no vertex are skipped, so the mesh may stay open where the
	// surface grazes a boundary plane.
	GenerateBoundaryFaces bool
}

// NullVertex marks strides of the sample array that produced no vertex.
const NullVertex = ^uint32(0)

// Buffer receives the meshing output. It may be reused across calls to avoid
// reallocating: every entry point clears it while keeping capacity. All
// fields are written by the library and are read-only for callers between
// calls.
type Buffer struct {
	// Positions are vertex positions in array-local coordinates: the vertex of
	// the voxel at lattice point (x,y,z) lies at (x,y,z) plus a centroid
	// offset inside the unit cube.
	Positions []ms3.Vec
	// Normals are the field gradients at each surface vertex; vertices added
	// by the boundary pass carry outward axis-aligned unit normals. Gradients
	// are not normalized since that is done most efficiently on the GPU.
	Normals []ms3.Vec
	// Indices is the triangle list, three vertex indices per triangle.
	Indices []uint32

	// SurfacePoints are the lattice coordinates of every voxel that intersects
	// the isosurface, followed by the lattice points of any new vertices added
	// by the boundary pass.
	SurfacePoints [][3]int
	// SurfaceStrides are the linearized strides of the same voxels, usable for
	// efficient post-processing.
	SurfaceStrides []int
	// StrideToIndex maps a stride of the sample array back to the index of its
	// vertex in Positions, or [NullVertex] where the voxel produced none.
	StrideToIndex []uint32
}

// reset clears the buffers keeping allocated memory and prepares the reverse
// map for a sample array of length arraySize.
func (b *Buffer) reset(arraySize int) {
	b.Positions = b.Positions[:0]
	b.Normals = b.Normals[:0]
	b.Indices = b.Indices[:0]
	b.SurfacePoints = b.SurfacePoints[:0]
	b.SurfaceStrides = b.SurfaceStrides[:0]
	if cap(b.StrideToIndex) < arraySize {
		b.StrideToIndex = make([]uint32, arraySize)
	}
	b.StrideToIndex = b.StrideToIndex[:arraySize]
	for i := range b.StrideToIndex {
		b.StrideToIndex[i] = NullVertex
	}
}

var (
	errBadRange  = errors.New("surfnets: inverted sampling range")
	errRangeOOB  = errors.New("surfnets: sampling range exceeds sample array")
	errNilBuffer = errors.New("surfnets: nil output buffer")
)

// SurfaceNets meshes the zero isosurface of the field sdf over the inclusive
// lattice box [min, max] with the default configuration. Each lattice point in
// the box must be addressable through shape within sdf. The voxel lattice
// iterated is the half-open box [min, max) since each voxel owns its minimal
// corner.
func SurfaceNets[T Sample](sdf []T, shape Shape, min, max [3]int, dst *Buffer) error {
	return SurfaceNetsWithConfig(sdf, shape, min, max, Config{}, dst)
}

// SurfaceNetsWithConfig is [SurfaceNets] with meshing options. When
// cfg.GenerateBoundaryFaces is set, faces are additionally generated on the
// boundaries of the sampling volume where the field is negative so that fully
// interior regions mesh watertight.
//
// The only errors returned are a nil dst and violations of the sampling range
// preconditions, in which case dst is left untouched.
func SurfaceNetsWithConfig[T Sample](sdf []T, shape Shape, min, max [3]int, cfg Config, dst *Buffer) error {
	if dst == nil {
		return errNilBuffer
	}
	// The passes below index sdf without further bounds checks, so the range
	// must be validated before anything else runs.
	lmin := shape.Linearize(min[0], min[1], min[2])
	lmax := shape.Linearize(max[0], max[1], max[2])
	if lmin > lmax {
		return errBadRange
	}
	if lmax >= len(sdf) {
		return errRangeOOB
	}
	dst.reset(len(sdf))

	estimateSurface(sdf, shape, min, max, dst)
	makeAllQuads(sdf, shape, min, max, dst)
	if cfg.GenerateBoundaryFaces {
		makeBoundaryFaces(sdf, shape, min, max, dst)
	}
	return nil
}

func yzx(v ms3.Vec) ms3.Vec { return ms3.Vec{X: v.Y, Y: v.Z, Z: v.X} }
func zxy(v ms3.Vec) ms3.Vec { return ms3.Vec{X: v.Z, Y: v.X, Z: v.Y} }
