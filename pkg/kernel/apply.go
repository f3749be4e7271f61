package kernel

import (
	"fmt"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/voxel"
)

// MinimumExtent is the smallest size, along every active axis, a buffer
// must have for a kernel to be applied.
const MinimumExtent = 3

// CanApply reports whether a buffer of this extent is large enough for the
// active neighbourhood.
func CanApply(extent geometry.Extent, useZ bool) bool {
	return extent.AtLeast(MinimumExtent, useZ)
}

func checkExtent(extent geometry.Extent, useZ bool) {
	if !CanApply(extent, useZ) {
		panic(fmt.Sprintf("kernel: cannot apply a 3x3 kernel to extent %v (useZ=%v)", extent, useZ))
	}
}

// ApplyKernel evaluates a binary kernel at every voxel of source and returns
// a new buffer with the same extent and encoding. The source is never
// modified. It panics when the source is smaller than 3 voxels along an
// active axis.
func ApplyKernel(k BinaryKernel, source voxel.BinaryVoxels, params KernelApplicationParameters) voxel.BinaryVoxels {
	return applyKernelAt(k, source, geometry.Point3i{}, params)
}

// ApplyKernelToObject applies a binary kernel to an object's voxels, using
// the object's position to decide which neighbours lie inside the scene.
func ApplyKernelToObject(k BinaryKernel, m *object.ObjectMask, params KernelApplicationParameters) *object.ObjectMask {
	out := applyKernelAt(k, m.BinaryVoxels(), m.BoundingBox().Corner(), params)
	return object.New(m.BoundingBox(), out)
}

func applyKernelAt(k BinaryKernel, source voxel.BinaryVoxels, corner geometry.Point3i, params KernelApplicationParameters) voxel.BinaryVoxels {
	e := source.Extent()
	checkExtent(e, params.UseZ)

	n := newNeighborhood(source, corner, params)
	out := voxel.NewBinaryVoxels(e, source.Values())
	for z := 0; z < e.Z; z++ {
		plane := out.Voxels().Slice(z)
		for y := 0; y < e.Y; y++ {
			for x := 0; x < e.X; x++ {
				if k.CalculateAt(geometry.Point3i{X: x, Y: y, Z: z}, n) {
					plane[e.Offset(x, y)] = source.Values().On
				}
			}
		}
	}
	return out
}

// ApplyCountKernel evaluates a count kernel at every on voxel of source.
// Off voxels hold zero in the result.
func ApplyCountKernel(k CountKernel, source voxel.BinaryVoxels, params KernelApplicationParameters) *voxel.Voxels[int32] {
	return applyCountAt(k, source, geometry.Point3i{}, params)
}

// ApplyCountKernelToObject is ApplyCountKernel positioned at the object's
// corner within the scene.
func ApplyCountKernelToObject(k CountKernel, m *object.ObjectMask, params KernelApplicationParameters) *voxel.Voxels[int32] {
	return applyCountAt(k, m.BinaryVoxels(), m.BoundingBox().Corner(), params)
}

// ApplyForCount sums a count kernel over every on voxel of an object.
func ApplyForCount(k CountKernel, m *object.ObjectMask, params KernelApplicationParameters) int {
	return int(ApplyCountKernelToObject(k, m, params).Sum())
}

func applyCountAt(k CountKernel, source voxel.BinaryVoxels, corner geometry.Point3i, params KernelApplicationParameters) *voxel.Voxels[int32] {
	e := source.Extent()
	checkExtent(e, params.UseZ)

	n := newNeighborhood(source, corner, params)
	out := voxel.NewVoxels[int32](e)
	for z := 0; z < e.Z; z++ {
		plane := out.Slice(z)
		for y := 0; y < e.Y; y++ {
			for x := 0; x < e.X; x++ {
				if !source.IsOn(x, y, z) {
					continue
				}
				plane[e.Offset(x, y)] = int32(k.CountAt(geometry.Point3i{X: x, Y: y, Z: z}, n))
			}
		}
	}
	return out
}
