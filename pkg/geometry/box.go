package geometry

import "fmt"

// BoundingBox is an axis-aligned box with an inclusive minimum corner and an
// extent. The inclusive maximum corner is corner + extent - 1 on each axis.
// A BoundingBox is immutable: every operation returns a new value.
type BoundingBox struct {
	corner Point3i
	extent Extent
}

// NewBoundingBox creates a box from its minimum corner and extent.
func NewBoundingBox(corner Point3i, extent Extent) BoundingBox {
	return BoundingBox{corner: corner, extent: NewExtent(extent.X, extent.Y, extent.Z)}
}

// BoundingBoxFromExtent creates a box at the origin covering an extent.
func BoundingBoxFromExtent(extent Extent) BoundingBox {
	return NewBoundingBox(Point3i{}, extent)
}

// BoundingBoxFromPoints creates the smallest box containing both (inclusive)
// corners.
func BoundingBoxFromPoints(minCorner, maxCorner Point3i) BoundingBox {
	lo := minCorner.Min(maxCorner)
	hi := minCorner.Max(maxCorner)
	return NewBoundingBox(lo, NewExtent(hi.X-lo.X+1, hi.Y-lo.Y+1, hi.Z-lo.Z+1))
}

// Corner returns the inclusive minimum corner.
func (b BoundingBox) Corner() Point3i { return b.corner }

// Extent returns the size of the box.
func (b BoundingBox) Extent() Extent { return b.extent }

// CornerMax returns the inclusive maximum corner.
func (b BoundingBox) CornerMax() Point3i {
	return Point3i{
		X: b.corner.X + b.extent.X - 1,
		Y: b.corner.Y + b.extent.Y - 1,
		Z: b.corner.Z + b.extent.Z - 1,
	}
}

// Contains reports whether a global point lies inside the box.
func (b BoundingBox) Contains(p Point3i) bool {
	return b.extent.Contains(p.Sub(b.corner))
}

// ContainsBox reports whether other lies completely inside b.
func (b BoundingBox) ContainsBox(other BoundingBox) bool {
	return b.Contains(other.corner) && b.Contains(other.CornerMax())
}

// Intersects reports whether two boxes overlap on all three axes.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if b.extent.Volume() == 0 || other.extent.Volume() == 0 {
		return false
	}
	bMax, oMax := b.CornerMax(), other.CornerMax()
	return b.corner.X <= oMax.X && other.corner.X <= bMax.X &&
		b.corner.Y <= oMax.Y && other.corner.Y <= bMax.Y &&
		b.corner.Z <= oMax.Z && other.corner.Z <= bMax.Z
}

// Intersection returns the overlapping region of two boxes, and false if
// they do not intersect.
func (b BoundingBox) Intersection(other BoundingBox) (BoundingBox, bool) {
	if !b.Intersects(other) {
		return BoundingBox{}, false
	}
	lo := b.corner.Max(other.corner)
	hi := b.CornerMax().Min(other.CornerMax())
	return BoundingBoxFromPoints(lo, hi), true
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBoxFromPoints(b.corner.Min(other.corner), b.CornerMax().Max(other.CornerMax()))
}

// Shift moves the box by an offset.
func (b BoundingBox) Shift(offset Point3i) BoundingBox {
	return BoundingBox{corner: b.corner.Add(offset), extent: b.extent}
}

// ShiftToOrigin returns a box of the same extent whose corner is the origin.
func (b BoundingBox) ShiftToOrigin() BoundingBox {
	return BoundingBox{extent: b.extent}
}

// RelativePositionTo returns the corner of b expressed relative to the corner
// of other.
func (b BoundingBox) RelativePositionTo(other BoundingBox) Point3i {
	return b.corner.Sub(other.corner)
}

// Grow enlarges the box by n voxels on each side (z only when growZ is set).
// When scene is non-nil the result is clamped to lie within it.
func (b BoundingBox) Grow(n int, growZ bool, scene *Extent) BoundingBox {
	dz := 0
	if growZ {
		dz = n
	}
	return b.GrowAxes(Point3i{X: n, Y: n, Z: dz}, scene)
}

// GrowAxes enlarges the box by a separate margin per axis, optionally
// clamping the result to a scene.
func (b BoundingBox) GrowAxes(margin Point3i, scene *Extent) BoundingBox {
	grown := BoundingBoxFromPoints(b.corner.Sub(margin), b.CornerMax().Add(margin))
	if scene == nil {
		return grown
	}
	clamped, ok := grown.ClampTo(*scene)
	if !ok {
		panic(fmt.Sprintf("geometry: box %v lies outside scene %v", b, *scene))
	}
	return clamped
}

// ClampTo restricts the box to the voxels of a scene, returning false when
// nothing remains.
func (b BoundingBox) ClampTo(scene Extent) (BoundingBox, bool) {
	return b.Intersection(BoundingBoxFromExtent(scene))
}

// Equals reports whether two boxes have the same corner and extent.
func (b BoundingBox) Equals(other BoundingBox) bool {
	return b.corner == other.corner && b.extent == other.extent
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%v+%v", b.corner, b.extent)
}
