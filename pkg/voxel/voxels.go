package voxel

import (
	"fmt"

	"anchorvoxel/pkg/geometry"
)

// Value is the set of element types a voxel buffer may hold.
type Value interface {
	~uint8 | ~uint16 | ~int32 | ~float32 | ~float64
}

// Voxels is a dense 3D buffer stored as one row-major slice per z-plane, so
// that iteration can proceed plane by plane.
type Voxels[T Value] struct {
	extent geometry.Extent
	slices [][]T
}

// NewVoxels allocates a zeroed buffer of the given extent.
func NewVoxels[T Value](extent geometry.Extent) *Voxels[T] {
	slices := make([][]T, extent.Z)
	for z := range slices {
		slices[z] = make([]T, extent.VolumeXY())
	}
	return &Voxels[T]{extent: extent, slices: slices}
}

// VoxelsFromSlices wraps existing z-plane buffers, taking ownership of them.
// It panics if the number or size of the planes does not match the extent.
func VoxelsFromSlices[T Value](extent geometry.Extent, slices [][]T) *Voxels[T] {
	if len(slices) != extent.Z {
		panic(fmt.Sprintf("voxel: %d slices supplied for extent %v", len(slices), extent))
	}
	for z, s := range slices {
		if len(s) != extent.VolumeXY() {
			panic(fmt.Sprintf("voxel: slice %d has %d elements, extent %v needs %d", z, len(s), extent, extent.VolumeXY()))
		}
	}
	return &Voxels[T]{extent: extent, slices: slices}
}

// Extent returns the size of the buffer.
func (v *Voxels[T]) Extent() geometry.Extent { return v.extent }

// Slice returns the row-major plane at z. The returned slice aliases the
// buffer.
func (v *Voxels[T]) Slice(z int) []T { return v.slices[z] }

// Get returns the value at a local position.
func (v *Voxels[T]) Get(x, y, z int) T {
	return v.slices[z][v.extent.Offset(x, y)]
}

// Set assigns the value at a local position.
func (v *Voxels[T]) Set(x, y, z int, value T) {
	v.slices[z][v.extent.Offset(x, y)] = value
}

// Fill assigns a value to every voxel.
func (v *Voxels[T]) Fill(value T) {
	for _, s := range v.slices {
		for i := range s {
			s[i] = value
		}
	}
}

// Duplicate performs a deep copy.
func (v *Voxels[T]) Duplicate() *Voxels[T] {
	out := NewVoxels[T](v.extent)
	for z, s := range v.slices {
		copy(out.slices[z], s)
	}
	return out
}

// Equals reports whether two buffers have the same extent and content.
func (v *Voxels[T]) Equals(other *Voxels[T]) bool {
	if v.extent != other.extent {
		return false
	}
	for z, s := range v.slices {
		o := other.slices[z]
		for i := range s {
			if s[i] != o[i] {
				return false
			}
		}
	}
	return true
}

// Sum adds every voxel value together.
func (v *Voxels[T]) Sum() float64 {
	var total float64
	for _, s := range v.slices {
		for _, value := range s {
			total += float64(value)
		}
	}
	return total
}
