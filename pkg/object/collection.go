package object

import (
	"fmt"

	"github.com/samber/lo"

	"anchorvoxel/pkg/geometry"
)

// ObjectCollection is an ordered list of masks. The position of a mask in
// the collection is the index hint used by spatial indexes built from it.
type ObjectCollection struct {
	objects []*ObjectMask
}

// NewCollection wraps masks in a collection. The slice is copied; the masks
// are not.
func NewCollection(objects ...*ObjectMask) *ObjectCollection {
	return &ObjectCollection{objects: append([]*ObjectMask(nil), objects...)}
}

// Size returns the number of masks.
func (c *ObjectCollection) Size() int { return len(c.objects) }

// IsEmpty reports whether the collection holds no masks.
func (c *ObjectCollection) IsEmpty() bool { return len(c.objects) == 0 }

// Get returns the mask at a position.
func (c *ObjectCollection) Get(i int) *ObjectMask { return c.objects[i] }

// Add appends a mask and returns its position.
func (c *ObjectCollection) Add(m *ObjectMask) int {
	c.objects = append(c.objects, m)
	return len(c.objects) - 1
}

// Remove deletes the mask at a position, shifting later masks down.
func (c *ObjectCollection) Remove(i int) error {
	if i < 0 || i >= len(c.objects) {
		return fmt.Errorf("%w: index %d outside collection of size %d", ErrOperationFailed, i, len(c.objects))
	}
	c.objects = append(c.objects[:i], c.objects[i+1:]...)
	return nil
}

// Objects returns a copy of the underlying slice.
func (c *ObjectCollection) Objects() []*ObjectMask {
	return append([]*ObjectMask(nil), c.objects...)
}

// DuplicateShallow copies only the list; the masks are shared.
func (c *ObjectCollection) DuplicateShallow() *ObjectCollection {
	return NewCollection(c.objects...)
}

// DuplicateDeep copies the list and every mask's voxel memory.
func (c *ObjectCollection) DuplicateDeep() *ObjectCollection {
	return &ObjectCollection{objects: lo.Map(c.objects, func(m *ObjectMask, _ int) *ObjectMask {
		return m.Duplicate()
	})}
}

// Filter returns a shallow collection of the masks satisfying a predicate.
func (c *ObjectCollection) Filter(keep func(m *ObjectMask) bool) *ObjectCollection {
	return &ObjectCollection{objects: lo.Filter(c.objects, func(m *ObjectMask, _ int) bool {
		return keep(m)
	})}
}

// Map applies a transformation to every mask, returning a new collection.
func (c *ObjectCollection) Map(fn func(m *ObjectMask) *ObjectMask) *ObjectCollection {
	return &ObjectCollection{objects: lo.Map(c.objects, func(m *ObjectMask, _ int) *ObjectMask {
		return fn(m)
	})}
}

// NumberOn returns the number of on voxels summed over all masks.
func (c *ObjectCollection) NumberOn() int {
	return lo.SumBy(c.objects, func(m *ObjectMask) int { return m.NumberOn() })
}

// BoundingBox returns the smallest box containing every mask. It returns
// false for an empty collection.
func (c *ObjectCollection) BoundingBox() (geometry.BoundingBox, bool) {
	if len(c.objects) == 0 {
		return geometry.BoundingBox{}, false
	}
	box := c.objects[0].BoundingBox()
	for _, m := range c.objects[1:] {
		box = box.Union(m.BoundingBox())
	}
	return box, true
}

// IndexOf returns the position of the first mask equal to m, or -1.
func (c *ObjectCollection) IndexOf(m *ObjectMask) int {
	_, i, ok := lo.FindIndexOf(c.objects, func(o *ObjectMask) bool { return o.Equals(m) })
	if !ok {
		return -1
	}
	return i
}
