package geometry

import "fmt"

// Extent is the size of a 3D region in voxels. Every component is
// non-negative. An Extent is also used to describe the size of a containing
// scene, whose voxels span [0, X) x [0, Y) x [0, Z).
type Extent struct {
	X, Y, Z int
}

// NewExtent creates an extent, panicking if any component is negative.
func NewExtent(x, y, z int) Extent {
	if x < 0 || y < 0 || z < 0 {
		panic(fmt.Sprintf("geometry: extent components must be non-negative, got (%d,%d,%d)", x, y, z))
	}
	return Extent{X: x, Y: y, Z: z}
}

// VolumeXY is the number of voxels in a single z-slice.
func (e Extent) VolumeXY() int {
	return e.X * e.Y
}

// Volume is the total number of voxels.
func (e Extent) Volume() int {
	return e.X * e.Y * e.Z
}

// Contains reports whether a point lies inside [0, extent).
func (e Extent) Contains(p Point3i) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 &&
		p.X < e.X && p.Y < e.Y && p.Z < e.Z
}

// ContainsXY is like Contains but ignores the z component.
func (e Extent) ContainsXY(x, y int) bool {
	return x >= 0 && y >= 0 && x < e.X && y < e.Y
}

// Offset returns the index of (x,y) within a single row-major z-slice.
func (e Extent) Offset(x, y int) int {
	return y*e.X + x
}

// Grow adds n voxels on both sides of every axis. When growZ is false the
// z component is left unchanged.
func (e Extent) Grow(n int, growZ bool) Extent {
	z := e.Z
	if growZ {
		z += 2 * n
	}
	return NewExtent(e.X+2*n, e.Y+2*n, z)
}

// AsPoint returns the extent as a point (useful for arithmetic on corners).
func (e Extent) AsPoint() Point3i {
	return Point3i{X: e.X, Y: e.Y, Z: e.Z}
}

// AtLeast reports whether every axis is at least n, checking z only when
// includeZ is set.
func (e Extent) AtLeast(n int, includeZ bool) bool {
	if e.X < n || e.Y < n {
		return false
	}
	return !includeZ || e.Z >= n
}

func (e Extent) String() string {
	return fmt.Sprintf("[%dx%dx%d]", e.X, e.Y, e.Z)
}
