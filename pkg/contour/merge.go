package contour

import (
	"fmt"
	"slices"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
)

// MergeOption is one way of splicing a fragment into the path it branched
// from.
type MergeOption int

// Options in the order they are evaluated. On equal cost the earlier option
// wins.
const (
	// MergeLeftKeepLeft enters the fragment from its head and keeps the
	// path up to the connection.
	MergeLeftKeepLeft MergeOption = iota
	// MergeLeftKeepRight enters the fragment from its head and keeps the
	// path from the connection on.
	MergeLeftKeepRight
	// MergeRightKeepLeft enters the fragment from its tail and keeps the
	// path up to the connection.
	MergeRightKeepLeft
	// MergeRightKeepRight enters the fragment from its tail and keeps the
	// path from the connection on.
	MergeRightKeepRight
	// DiscardShorter keeps whichever of the two paths is longer.
	DiscardShorter
)

func (o MergeOption) String() string {
	switch o {
	case MergeLeftKeepLeft:
		return "merge-left/keep-left"
	case MergeLeftKeepRight:
		return "merge-left/keep-right"
	case MergeRightKeepLeft:
		return "merge-right/keep-left"
	case MergeRightKeepRight:
		return "merge-right/keep-right"
	case DiscardShorter:
		return "discard-shorter"
	default:
		return fmt.Sprintf("MergeOption(%d)", int(o))
	}
}

// MergeStrategy is the cheapest way, in lost pixels, of combining two paths.
type MergeStrategy struct {
	Option     MergeOption
	PixelsLost int

	keepIndex int
	sequence  []geometry.Point3i
}

// FindMergeStrategy evaluates every way of splicing merge into keep at
// merge.Connection, which must lie on keep, and returns the one losing the
// fewest pixels. Splices where no fragment point touches the connection are
// not considered, so discarding the shorter path is always available as a
// fallback.
func FindMergeStrategy(keep *ContiguousVoxelPath, merge LoopablePoints) (MergeStrategy, error) {
	if merge.Path == nil || merge.Path.Size() == 0 {
		return MergeStrategy{}, fmt.Errorf("find merge strategy: empty fragment: %w", object.ErrOperationFailed)
	}
	k := keep.IndexOf(merge.Connection)
	if k < 0 {
		return MergeStrategy{}, fmt.Errorf("find merge strategy: connection %v not on %v: %w", merge.Connection, keep, object.ErrOperationFailed)
	}

	var best MergeStrategy
	found := false
	consider := func(s MergeStrategy) {
		if !found || s.PixelsLost < best.PixelsLost {
			best, found = s, true
		}
	}

	lostRight := keep.Size() - 1 - k
	lostLeft := k
	if seq, dropped, ok := merge.FromHead(); ok {
		consider(MergeStrategy{Option: MergeLeftKeepLeft, PixelsLost: lostRight + dropped, keepIndex: k, sequence: seq})
		consider(MergeStrategy{Option: MergeLeftKeepRight, PixelsLost: lostLeft + dropped, keepIndex: k, sequence: seq})
	}
	if seq, dropped, ok := merge.FromTail(); ok {
		consider(MergeStrategy{Option: MergeRightKeepLeft, PixelsLost: lostRight + dropped, keepIndex: k, sequence: seq})
		consider(MergeStrategy{Option: MergeRightKeepRight, PixelsLost: lostLeft + dropped, keepIndex: k, sequence: seq})
	}

	discard := MergeStrategy{Option: DiscardShorter, PixelsLost: min(keep.Size(), merge.Path.Size())}
	if !found || discard.PixelsLost < best.PixelsLost {
		best = discard
	}
	return best, nil
}

// Apply builds the combined path. keep and merge must be the paths the
// strategy was computed for; neither is modified.
func (s MergeStrategy) Apply(keep, merge *ContiguousVoxelPath) *ContiguousVoxelPath {
	var out []geometry.Point3i
	switch s.Option {
	case MergeLeftKeepLeft, MergeRightKeepLeft:
		out = append(slices.Clone(keep.points[:s.keepIndex+1]), s.sequence...)
	case MergeLeftKeepRight, MergeRightKeepRight:
		out = slices.Clone(s.sequence)
		slices.Reverse(out)
		out = append(out, keep.points[s.keepIndex:]...)
	default:
		if merge.Size() > keep.Size() {
			out = slices.Clone(merge.points)
		} else {
			out = slices.Clone(keep.points)
		}
	}
	return &ContiguousVoxelPath{points: out}
}
