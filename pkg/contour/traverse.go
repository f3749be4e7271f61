package contour

import (
	"fmt"
	"slices"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
)

// Contour is an ordered chain of outline points in global coordinates.
type Contour struct {
	Points []geometry.Point3i
	// Closed is set when the last point is adjacent to the first.
	Closed bool
}

// SliceContours holds the contours found in one z-plane.
type SliceContours struct {
	Z        int
	Contours []Contour
}

// TraverseOutline orders the on voxels of an outline mask into contours,
// one per connected component (8-connected, or 26-connected with useZ).
// Components are visited in scan order. Branches that cannot be spliced
// into a single chain lose the fewest pixels possible.
func TraverseOutline(outline *object.ObjectMask, useZ bool) ([]Contour, error) {
	corner := outline.BoundingBox().Corner()
	components := object.ObjectsFromConnectedComponents(outline.BinaryVoxels(), useZ, 1)

	contours := make([]Contour, 0, components.Size())
	for i, local := range components.Objects() {
		path, err := traverseComponent(local.ShiftBy(corner), useZ)
		if err != nil {
			return nil, fmt.Errorf("traverse component %d of %v: %w", i, outline, err)
		}
		contours = append(contours, Contour{Points: path.Points(), Closed: path.IsClosed()})
	}
	return contours, nil
}

// TraverseOutlinePerSlice traverses every z-plane of an outline separately,
// skipping planes without outline voxels.
func TraverseOutlinePerSlice(outline *object.ObjectMask) ([]SliceContours, error) {
	box := outline.BoundingBox()
	var out []SliceContours
	for z := box.Corner().Z; z <= box.CornerMax().Z; z++ {
		plane := outline.ExtractSlice(z)
		if !plane.HasOn() {
			continue
		}
		contours, err := TraverseOutline(plane, false)
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", z, err)
		}
		out = append(out, SliceContours{Z: z, Contours: contours})
	}
	return out, nil
}

type pendingPoint struct {
	point      geometry.Point3i
	connection geometry.Point3i
}

// traverseComponent walks a single connected component. Each walk follows
// the first unvisited neighbour until it runs out; the other neighbours
// seen along the way start later fragments, branched from the point where
// they were seen.
func traverseComponent(m *object.ObjectMask, useZ bool) (*ContiguousVoxelPath, error) {
	visited := NewVisitedPixels()
	offsets := walkOffsets(useZ)
	var stack []pendingPoint

	walk := func(start geometry.Point3i, connection *geometry.Point3i) {
		path := &ContiguousVoxelPath{points: []geometry.Point3i{start}}
		visited.MarkVisited(start)
		current := start
		for {
			var next []geometry.Point3i
			for _, offset := range offsets {
				q := current.Add(offset)
				if m.IsOnGlobal(q) && !visited.IsVisited(q) {
					next = append(next, q)
				}
			}
			if len(next) == 0 {
				break
			}
			for i := len(next) - 1; i > 0; i-- {
				stack = append(stack, pendingPoint{point: next[i], connection: current})
			}
			path.points = append(path.points, next[0])
			visited.MarkVisited(next[0])
			current = next[0]
		}
		visited.AddPath(path, connection)
	}

	first := true
	m.ForEachOn(func(p geometry.Point3i) {
		if first {
			walk(p, nil)
			first = false
		}
	})
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.IsVisited(top.point) {
			continue
		}
		connection := top.connection
		walk(top.point, &connection)
	}

	return visited.CombineToOne()
}

// walkOffsets lists the 8 (or 26) neighbour offsets, face neighbours first.
func walkOffsets(useZ bool) []geometry.Point3i {
	zMin, zMax := 0, 0
	if useZ {
		zMin, zMax = -1, 1
	}
	var out []geometry.Point3i
	for dz := zMin; dz <= zMax; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 || dz != 0 {
					out = append(out, geometry.Point3i{X: dx, Y: dy, Z: dz})
				}
			}
		}
	}
	slices.SortStableFunc(out, func(a, b geometry.Point3i) int {
		return manhattan(a) - manhattan(b)
	})
	return out
}

func manhattan(p geometry.Point3i) int {
	return max(p.X, -p.X) + max(p.Y, -p.Y) + max(p.Z, -p.Z)
}
