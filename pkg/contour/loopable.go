package contour

import (
	"slices"

	"anchorvoxel/pkg/geometry"
)

// LoopablePoints is a path fragment together with the point, on another
// path, that it branched from.
type LoopablePoints struct {
	Path       *ContiguousVoxelPath
	Connection geometry.Point3i
}

// FromHead returns the fragment from its first point adjacent to the
// connection through to its tail, along with how many leading points had to
// be skipped. ok is false when no point is adjacent to the connection.
func (l LoopablePoints) FromHead() (points []geometry.Point3i, dropped int, ok bool) {
	all := l.Path.points
	i := slices.IndexFunc(all, l.adjacent)
	if i < 0 {
		return nil, 0, false
	}
	return slices.Clone(all[i:]), i, true
}

// FromTail returns the fragment reversed, starting from its last point
// adjacent to the connection through to its head, along with how many
// trailing points had to be skipped.
func (l LoopablePoints) FromTail() (points []geometry.Point3i, dropped int, ok bool) {
	all := l.Path.points
	for j := len(all) - 1; j >= 0; j-- {
		if l.adjacent(all[j]) {
			points = slices.Clone(all[:j+1])
			slices.Reverse(points)
			return points, len(all) - 1 - j, true
		}
	}
	return nil, 0, false
}

func (l LoopablePoints) adjacent(p geometry.Point3i) bool {
	return p.MaxAbsDistance(l.Connection) == 1
}
