// Package contour turns outline masks into ordered contours: chains of
// boundary voxels where consecutive points are 8-connected (26-connected
// across planes).
//
// Outlines are traversed into path fragments, which are then stitched
// together by splicing each fragment into the path it branched from. Where
// a clean splice is impossible the shorter fragment is dropped; contours are
// therefore allowed to lose a few pixels but never to break connectivity.
package contour

import (
	"fmt"
	"slices"

	"anchorvoxel/pkg/geometry"
)

// ContiguousVoxelPath is a sequence of points where each point is adjacent
// (Chebyshev distance 1) to the next. The first point is the head, the last
// the tail.
type ContiguousVoxelPath struct {
	points []geometry.Point3i
}

// NewContiguousVoxelPath builds a path by admitting points one at a time. It
// returns an error if any point cannot be attached to either end.
func NewContiguousVoxelPath(points ...geometry.Point3i) (*ContiguousVoxelPath, error) {
	p := &ContiguousVoxelPath{}
	for _, point := range points {
		if !p.MaybeAddPointToClosestEnd(point) {
			return nil, fmt.Errorf("point %v is not adjacent to either end of %v", point, p)
		}
	}
	return p, nil
}

// MaybeAddPointToClosestEnd attaches point to the tail or the head if it is
// adjacent to that end, preferring the tail when both qualify. An empty
// path accepts any point. It returns false, leaving the path unchanged,
// when the point is adjacent to neither end.
func (p *ContiguousVoxelPath) MaybeAddPointToClosestEnd(point geometry.Point3i) bool {
	if len(p.points) == 0 {
		p.points = append(p.points, point)
		return true
	}
	if p.Tail().MaxAbsDistance(point) == 1 {
		p.points = append(p.points, point)
		return true
	}
	if p.Head().MaxAbsDistance(point) == 1 {
		p.points = slices.Insert(p.points, 0, point)
		return true
	}
	return false
}

// Head returns the first point. It panics on an empty path.
func (p *ContiguousVoxelPath) Head() geometry.Point3i { return p.points[0] }

// Tail returns the last point. It panics on an empty path.
func (p *ContiguousVoxelPath) Tail() geometry.Point3i { return p.points[len(p.points)-1] }

// Size returns the number of points.
func (p *ContiguousVoxelPath) Size() int { return len(p.points) }

// Points returns a copy of the points from head to tail.
func (p *ContiguousVoxelPath) Points() []geometry.Point3i {
	return slices.Clone(p.points)
}

// IndexOf returns the position of point in the path, or -1.
func (p *ContiguousVoxelPath) IndexOf(point geometry.Point3i) int {
	return slices.Index(p.points, point)
}

// Reverse swaps head and tail.
func (p *ContiguousVoxelPath) Reverse() {
	slices.Reverse(p.points)
}

// RemoveLeft drops the first n points.
func (p *ContiguousVoxelPath) RemoveLeft(n int) {
	p.points = slices.Delete(p.points, 0, min(n, len(p.points)))
}

// RemoveRight drops the last n points.
func (p *ContiguousVoxelPath) RemoveRight(n int) {
	p.points = p.points[:len(p.points)-min(n, len(p.points))]
}

// IsClosed reports whether the tail wraps around to the head, forming a
// loop of at least three points.
func (p *ContiguousVoxelPath) IsClosed() bool {
	return len(p.points) >= 3 && p.Head().MaxAbsDistance(p.Tail()) == 1
}

// IsContiguous reports whether every consecutive pair of points is
// adjacent.
func (p *ContiguousVoxelPath) IsContiguous() bool {
	return isContiguous(p.points)
}

func (p *ContiguousVoxelPath) String() string {
	switch len(p.points) {
	case 0:
		return "path[]"
	case 1:
		return fmt.Sprintf("path[%v]", p.Head())
	default:
		return fmt.Sprintf("path[%v..%v](%d)", p.Head(), p.Tail(), len(p.points))
	}
}

func isContiguous(points []geometry.Point3i) bool {
	for i := 1; i < len(points); i++ {
		if points[i-1].MaxAbsDistance(points[i]) != 1 {
			return false
		}
	}
	return true
}
