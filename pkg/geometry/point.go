// Package geometry provides the integer 3D primitives (points, extents and
// bounding boxes) that every voxel structure in anchorvoxel is anchored to.
package geometry

import "fmt"

// Point3i is an integer point in voxel space.
type Point3i struct {
	X, Y, Z int
}

// Add returns the component-wise sum of two points.
func (p Point3i) Add(q Point3i) Point3i {
	return Point3i{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns the component-wise difference p - q.
func (p Point3i) Sub(q Point3i) Point3i {
	return Point3i{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Min returns the component-wise minimum of two points.
func (p Point3i) Min(q Point3i) Point3i {
	return Point3i{X: min(p.X, q.X), Y: min(p.Y, q.Y), Z: min(p.Z, q.Z)}
}

// Max returns the component-wise maximum of two points.
func (p Point3i) Max(q Point3i) Point3i {
	return Point3i{X: max(p.X, q.X), Y: max(p.Y, q.Y), Z: max(p.Z, q.Z)}
}

// MaxAbsDistance returns the Chebyshev distance between two points, i.e. the
// largest absolute difference along any axis. Two distinct voxels are
// 26-connected (or 8-connected in a plane) when it equals 1.
func (p Point3i) MaxAbsDistance(q Point3i) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y), abs(p.Z-q.Z))
}

// DistanceSquared returns the squared euclidean distance between two points.
func (p Point3i) DistanceSquared(q Point3i) int {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return dx*dx + dy*dy + dz*dz
}

func (p Point3i) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
