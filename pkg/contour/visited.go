package contour

import (
	"fmt"

	"anchorvoxel/pkg/geometry"
)

type fragment struct {
	path       *ContiguousVoxelPath
	connection *geometry.Point3i
}

// VisitedPixels records which pixels a traversal has reached and the path
// fragments it produced, each with the point it branched from.
type VisitedPixels struct {
	visited   map[geometry.Point3i]struct{}
	fragments []fragment
}

// NewVisitedPixels returns an empty record.
func NewVisitedPixels() *VisitedPixels {
	return &VisitedPixels{visited: make(map[geometry.Point3i]struct{})}
}

// IsVisited reports whether a pixel has been reached.
func (v *VisitedPixels) IsVisited(p geometry.Point3i) bool {
	_, ok := v.visited[p]
	return ok
}

// MarkVisited records a pixel as reached.
func (v *VisitedPixels) MarkVisited(p geometry.Point3i) {
	v.visited[p] = struct{}{}
}

// AddPath records a finished fragment and marks its points visited.
// connection is the point, on an earlier fragment, it branched from, or nil
// for the first fragment of a traversal.
func (v *VisitedPixels) AddPath(path *ContiguousVoxelPath, connection *geometry.Point3i) {
	for _, p := range path.points {
		v.MarkVisited(p)
	}
	v.fragments = append(v.fragments, fragment{path: path, connection: connection})
}

// NumberPaths returns how many fragments have been recorded.
func (v *VisitedPixels) NumberPaths() int { return len(v.fragments) }

// CombineToOne stitches every fragment into the first one, latest first.
// A fragment whose connection point is no longer on any earlier path (an
// earlier splice may have dropped it) is attached wherever an earlier path
// touches one of its ends, and is discarded if none does.
func (v *VisitedPixels) CombineToOne() (*ContiguousVoxelPath, error) {
	if len(v.fragments) == 0 {
		return &ContiguousVoxelPath{}, nil
	}

	paths := make([]*ContiguousVoxelPath, len(v.fragments))
	for i, f := range v.fragments {
		paths[i] = f.path
	}

	for i := len(paths) - 1; i > 0; i-- {
		frag := paths[i]
		target, connection := -1, geometry.Point3i{}
		if c := v.fragments[i].connection; c != nil {
			target, connection = findConnection(paths[:i], *c)
		}
		if target < 0 {
			target, connection = findTouching(paths[:i], frag)
		}
		if target < 0 {
			continue
		}

		strategy, err := FindMergeStrategy(paths[target], LoopablePoints{Path: frag, Connection: connection})
		if err != nil {
			return nil, fmt.Errorf("combine fragment %d into %d: %w", i, target, err)
		}
		paths[target] = strategy.Apply(paths[target], frag)
	}
	return paths[0], nil
}

// findConnection returns the latest path holding c.
func findConnection(paths []*ContiguousVoxelPath, c geometry.Point3i) (int, geometry.Point3i) {
	for j := len(paths) - 1; j >= 0; j-- {
		if paths[j].IndexOf(c) >= 0 {
			return j, c
		}
	}
	return -1, geometry.Point3i{}
}

// findTouching returns the latest path with a point adjacent to the head or
// tail of frag, and that point.
func findTouching(paths []*ContiguousVoxelPath, frag *ContiguousVoxelPath) (int, geometry.Point3i) {
	for j := len(paths) - 1; j >= 0; j-- {
		for _, q := range paths[j].points {
			if q.MaxAbsDistance(frag.Head()) == 1 || q.MaxAbsDistance(frag.Tail()) == 1 {
				return j, q
			}
		}
	}
	return -1, geometry.Point3i{}
}
