// Package spatial indexes a collection of object masks by bounding box so
// that point, box and object queries avoid scanning the whole collection.
package spatial

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
)

// Default node fan-out of the underlying tree.
const (
	DefaultMinChildren = 3
	DefaultMaxChildren = 10
)

// Options tunes the underlying R-tree.
type Options struct {
	MinChildren int
	MaxChildren int
}

// DefaultOptions returns the default tree fan-out.
func DefaultOptions() Options {
	return Options{MinChildren: DefaultMinChildren, MaxChildren: DefaultMaxChildren}
}

// indexedObject is a tree leaf: a mask plus the index hint it was added
// under.
type indexedObject struct {
	index  int
	object *object.ObjectMask
	bounds rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *indexedObject) Bounds() rtreego.Rect { return e.bounds }

// ObjectCollectionRTree is a bounding-box tree over object masks. Box
// candidates from the tree are refined by exact voxel tests where a query
// asks for voxel overlap.
//
// It is not safe for concurrent mutation; callers serialize Add/Remove with
// queries.
type ObjectCollectionRTree struct {
	tree    *rtreego.Rtree
	entries map[int]*indexedObject
	next    int
}

// NewObjectCollectionRTree indexes every object of a collection. The index
// hint of each object is its position in the collection.
func NewObjectCollectionRTree(c *object.ObjectCollection) *ObjectCollectionRTree {
	return NewObjectCollectionRTreeWithOptions(c, DefaultOptions())
}

// NewObjectCollectionRTreeWithOptions is NewObjectCollectionRTree with an
// explicit tree fan-out.
func NewObjectCollectionRTreeWithOptions(c *object.ObjectCollection, opts Options) *ObjectCollectionRTree {
	if opts.MinChildren < 1 || opts.MaxChildren < 2*opts.MinChildren {
		opts = DefaultOptions()
	}
	t := &ObjectCollectionRTree{
		tree:    rtreego.NewTree(3, opts.MinChildren, opts.MaxChildren),
		entries: make(map[int]*indexedObject),
	}
	if c != nil {
		for _, m := range c.Objects() {
			t.Add(m)
		}
	}
	return t
}

// Add indexes an object and returns the index hint needed to remove it.
func (t *ObjectCollectionRTree) Add(m *object.ObjectMask) int {
	e := &indexedObject{index: t.next, object: m}
	t.next++
	t.entries[e.index] = e

	// Empty boxes can never intersect anything, so they are tracked but
	// kept out of the tree.
	if r, ok := rectOf(m.BoundingBox()); ok {
		e.bounds = r
		t.tree.Insert(e)
	}
	return e.index
}

// Size returns the number of indexed objects.
func (t *ObjectCollectionRTree) Size() int { return len(t.entries) }

// Contains returns the objects whose voxels are on at a global point.
func (t *ObjectCollectionRTree) Contains(p geometry.Point3i) *object.ObjectCollection {
	box := geometry.NewBoundingBox(p, geometry.NewExtent(1, 1, 1))
	return t.search(box, func(e *indexedObject) bool {
		return e.object.IsOnGlobal(p)
	})
}

// IntersectsWith returns the objects whose on voxels overlap those of m.
func (t *ObjectCollectionRTree) IntersectsWith(m *object.ObjectMask) *object.ObjectCollection {
	return t.search(m.BoundingBox(), func(e *indexedObject) bool {
		return e.object.Intersects(m)
	})
}

// IntersectsWithBox returns the objects whose bounding boxes overlap box.
// No voxel test is applied.
func (t *ObjectCollectionRTree) IntersectsWithBox(box geometry.BoundingBox) *object.ObjectCollection {
	return t.search(box, nil)
}

// Remove removes the object added under index. The stored object must be m
// itself or equal to it.
func (t *ObjectCollectionRTree) Remove(m *object.ObjectMask, index int) error {
	e, ok := t.entries[index]
	if !ok {
		return fmt.Errorf("remove object at index %d: no such index: %w", index, object.ErrOperationFailed)
	}
	if e.object != m && !e.object.Equals(m) {
		return fmt.Errorf("remove object at index %d: object %v does not match %v: %w", index, m, e.object, object.ErrOperationFailed)
	}

	if e.object.BoundingBox().Extent().Volume() > 0 {
		deleted := t.tree.DeleteWithComparator(e, func(a, b rtreego.Spatial) bool {
			return a.(*indexedObject).index == b.(*indexedObject).index
		})
		if !deleted {
			return fmt.Errorf("remove object at index %d: not found in tree: %w", index, object.ErrOperationFailed)
		}
	}
	delete(t.entries, index)
	return nil
}

// SpatiallySeparate partitions the indexed objects into clusters, where two
// objects share a cluster if a chain of pairwise voxel-intersecting objects
// joins them. Clusters are ordered by their smallest index hint, and objects
// within a cluster by index hint.
func (t *ObjectCollectionRTree) SpatiallySeparate() []*object.ObjectCollection {
	g := simple.NewUndirectedGraph()
	for index := range t.entries {
		g.AddNode(simple.Node(index))
	}
	for index, e := range t.entries {
		for _, other := range t.candidates(e.object.BoundingBox(), func(o *indexedObject) bool {
			return o.index != index && o.object.Intersects(e.object)
		}) {
			if !g.HasEdgeBetween(int64(index), int64(other.index)) {
				g.SetEdge(g.NewEdge(simple.Node(index), simple.Node(other.index)))
			}
		}
	}

	components := lo.Map(topo.ConnectedComponents(g), func(nodes []graph.Node, _ int) []int {
		ids := lo.Map(nodes, func(n graph.Node, _ int) int { return int(n.ID()) })
		slices.Sort(ids)
		return ids
	})
	slices.SortFunc(components, func(a, b []int) int { return cmp.Compare(a[0], b[0]) })

	return lo.Map(components, func(ids []int, _ int) *object.ObjectCollection {
		return object.NewCollection(lo.Map(ids, func(id int, _ int) *object.ObjectMask {
			return t.entries[id].object
		})...)
	})
}

// search returns the objects whose box intersects box and that pass keep
// (when non-nil), in index-hint order.
func (t *ObjectCollectionRTree) search(box geometry.BoundingBox, keep func(e *indexedObject) bool) *object.ObjectCollection {
	found := t.candidates(box, keep)
	return object.NewCollection(lo.Map(found, func(e *indexedObject, _ int) *object.ObjectMask {
		return e.object
	})...)
}

func (t *ObjectCollectionRTree) candidates(box geometry.BoundingBox, keep func(e *indexedObject) bool) []*indexedObject {
	r, ok := rectOf(box)
	if !ok {
		return nil
	}
	var filters []rtreego.Filter
	if keep != nil {
		filters = append(filters, func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
			return !keep(obj.(*indexedObject)), false
		})
	}
	found := lo.Map(t.tree.SearchIntersect(r, filters...), func(s rtreego.Spatial, _ int) *indexedObject {
		return s.(*indexedObject)
	})
	slices.SortFunc(found, func(a, b *indexedObject) int { return cmp.Compare(a.index, b.index) })
	return found
}

// rectOf converts a voxel box into the half-open rectangle
// [corner, corner+extent) on each axis. The tree's intersection test is
// strict, so boxes that merely touch do not intersect.
func rectOf(box geometry.BoundingBox) (rtreego.Rect, bool) {
	if box.Extent().Volume() == 0 {
		return rtreego.Rect{}, false
	}
	c, e := box.Corner(), box.Extent()
	r, err := rtreego.NewRect(
		rtreego.Point{float64(c.X), float64(c.Y), float64(c.Z)},
		[]float64{float64(e.X), float64(e.Y), float64(e.Z)},
	)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return r, true
}
