// Package object implements ObjectMask, a bounding box paired with binary
// voxel content that describes one blob anchored in global voxel space, and
// collections of such masks.
package object

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/voxel"
)

// ErrOperationFailed marks recoverable failures such as an inconsistent
// index hint or a merge that cannot be computed. Callers test for it with
// errors.Is and decide whether to retry or abort.
var ErrOperationFailed = errors.New("operation failed")

// ObjectMask is a bounding box plus binary voxels of exactly the box's
// extent. Voxel coordinates are local to the box corner.
type ObjectMask struct {
	box    geometry.BoundingBox
	voxels voxel.BinaryVoxels
}

// New creates a mask, taking ownership of the voxels. It panics if the
// buffer's extent differs from the box's extent.
func New(box geometry.BoundingBox, voxels voxel.BinaryVoxels) *ObjectMask {
	if box.Extent() != voxels.Extent() {
		panic(fmt.Sprintf("object: voxel extent %v does not match bounding box extent %v", voxels.Extent(), box.Extent()))
	}
	return &ObjectMask{box: box, voxels: voxels}
}

// NewEmpty creates an all-off mask covering a box.
func NewEmpty(box geometry.BoundingBox, values voxel.BinaryValuesByte) *ObjectMask {
	return New(box, voxel.NewBinaryVoxels(box.Extent(), values))
}

// NewFromBytes builds a mask from a raw z-major byte array matching the box's
// extent.
func NewFromBytes(box geometry.BoundingBox, raw []byte, values voxel.BinaryValuesByte) (*ObjectMask, error) {
	bv, err := voxel.BinaryVoxelsFromBytes(box.Extent(), raw, values)
	if err != nil {
		return nil, fmt.Errorf("cannot create object mask at %v: %w", box, err)
	}
	return New(box, bv), nil
}

// NewRectangle creates a mask whose voxels are all on.
func NewRectangle(box geometry.BoundingBox) *ObjectMask {
	bv := voxel.NewBinaryVoxels(box.Extent(), voxel.DefaultBinaryValuesByte())
	bv.SetAllOn()
	return New(box, bv)
}

// BoundingBox returns the global position and size.
func (m *ObjectMask) BoundingBox() geometry.BoundingBox { return m.box }

// Extent returns the size of the mask.
func (m *ObjectMask) Extent() geometry.Extent { return m.box.Extent() }

// BinaryVoxels gives access to the local buffer and its encoding.
func (m *ObjectMask) BinaryVoxels() voxel.BinaryVoxels { return m.voxels }

// Values returns the on/off encoding.
func (m *ObjectMask) Values() voxel.BinaryValuesByte { return m.voxels.Values() }

// Duplicate deep-copies the mask; no voxel memory is shared.
func (m *ObjectMask) Duplicate() *ObjectMask {
	return &ObjectMask{box: m.box, voxels: m.voxels.Duplicate()}
}

// NumberOn counts the on voxels.
func (m *ObjectMask) NumberOn() int { return m.voxels.CountOn() }

// HasOn reports whether any voxel is on.
func (m *ObjectMask) HasOn() bool { return m.voxels.HasOn() }

// HasOff reports whether any voxel is off.
func (m *ObjectMask) HasOff() bool { return m.voxels.HasOff() }

// IsOnGlobal reports whether the voxel at a global point is on. Points
// outside the bounding box are off.
func (m *ObjectMask) IsOnGlobal(p geometry.Point3i) bool {
	if !m.box.Contains(p) {
		return false
	}
	local := p.Sub(m.box.Corner())
	return m.voxels.IsOn(local.X, local.Y, local.Z)
}

// ForEachOn calls fn with the global position of every on voxel, in z, y, x
// order.
func (m *ObjectMask) ForEachOn(fn func(p geometry.Point3i)) {
	e := m.Extent()
	corner := m.box.Corner()
	on := m.Values().On
	for z := 0; z < e.Z; z++ {
		plane := m.voxels.Voxels().Slice(z)
		for y := 0; y < e.Y; y++ {
			row := plane[y*e.X : (y+1)*e.X]
			for x, v := range row {
				if v == on {
					fn(geometry.Point3i{X: corner.X + x, Y: corner.Y + y, Z: corner.Z + z})
				}
			}
		}
	}
}

// CenterOfGravity is the mean global position of the on voxels. Every
// component is NaN when no voxel is on.
func (m *ObjectMask) CenterOfGravity() r3.Vec {
	n := m.NumberOn()
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	zs := make([]float64, 0, n)
	m.ForEachOn(func(p geometry.Point3i) {
		xs = append(xs, float64(p.X))
		ys = append(ys, float64(p.Y))
		zs = append(zs, float64(p.Z))
	})
	return r3.Vec{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil), Z: stat.Mean(zs, nil)}
}

// ShiftBy moves the mask by an offset, sharing no voxel memory with the
// receiver.
func (m *ObjectMask) ShiftBy(offset geometry.Point3i) *ObjectMask {
	return &ObjectMask{box: m.box.Shift(offset), voxels: m.voxels.Duplicate()}
}

// ShiftToOrigin returns an equivalent mask whose corner is the origin.
func (m *ObjectMask) ShiftToOrigin() *ObjectMask {
	return &ObjectMask{box: m.box.ShiftToOrigin(), voxels: m.voxels.Duplicate()}
}

// Equals reports whether both masks have the same bounding box and the same
// on voxels. The encodings may differ.
func (m *ObjectMask) Equals(other *ObjectMask) bool {
	if m == other {
		return true
	}
	return m.box.Equals(other.box) && m.voxels.SameOnVoxels(other.voxels)
}

// Intersects reports whether at least one global voxel is on in both masks.
// Bounding-box overlap is checked first.
func (m *ObjectMask) Intersects(other *ObjectMask) bool {
	overlap, ok := m.box.Intersection(other.box)
	if !ok {
		return false
	}
	return m.anyOnInRegion(other, overlap)
}

func (m *ObjectMask) anyOnInRegion(other *ObjectMask, region geometry.BoundingBox) bool {
	lo, hi := region.Corner(), region.CornerMax()
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				p := geometry.Point3i{X: x, Y: y, Z: z}
				if m.IsOnGlobal(p) && other.IsOnGlobal(p) {
					return true
				}
			}
		}
	}
	return false
}

// Intersect returns a mask covering the overlap of both bounding boxes whose
// on voxels are those on in both masks. It returns false if the masks share
// no on voxel.
func (m *ObjectMask) Intersect(other *ObjectMask) (*ObjectMask, bool) {
	overlap, ok := m.box.Intersection(other.box)
	if !ok {
		return nil, false
	}
	out := NewEmpty(overlap, m.Values())
	a, b := m.Crop(overlap), other.Crop(overlap)
	voxel.OrInto(a.voxels, out.voxels)
	voxel.AndInto(b.voxels, out.voxels)
	if !out.HasOn() {
		return nil, false
	}
	return out, true
}

// Crop returns the part of the mask inside a box (which must lie within the
// mask's bounding box).
func (m *ObjectMask) Crop(box geometry.BoundingBox) *ObjectMask {
	if !m.box.ContainsBox(box) {
		panic(fmt.Sprintf("object: crop box %v is not inside %v", box, m.box))
	}
	out := NewEmpty(box, m.Values())
	rel := box.RelativePositionTo(m.box)
	e := box.Extent()
	for z := 0; z < e.Z; z++ {
		for y := 0; y < e.Y; y++ {
			for x := 0; x < e.X; x++ {
				if m.voxels.IsOn(x+rel.X, y+rel.Y, z+rel.Z) {
					out.voxels.SetOn(x, y, z)
				}
			}
		}
	}
	return out
}

// MapInto returns a mask with the given box (which must contain this mask's
// box) holding the same on voxels, padded with off voxels.
func (m *ObjectMask) MapInto(box geometry.BoundingBox) *ObjectMask {
	if !box.ContainsBox(m.box) {
		panic(fmt.Sprintf("object: target box %v does not contain %v", box, m.box))
	}
	out := NewEmpty(box, m.Values())
	rel := m.box.RelativePositionTo(box)
	m.ForEachOn(func(p geometry.Point3i) {
		local := p.Sub(m.box.Corner()).Add(rel)
		out.voxels.SetOn(local.X, local.Y, local.Z)
	})
	return out
}

// Xor returns a new mask, with the same box, whose voxels are on where
// exactly one of the two masks is on. Both masks must share a bounding box.
func (m *ObjectMask) Xor(other *ObjectMask) *ObjectMask {
	if !m.box.Equals(other.box) {
		panic(fmt.Sprintf("object: xor requires identical boxes, got %v and %v", m.box, other.box))
	}
	out := m.Duplicate()
	voxel.XorInto(other.voxels, out.voxels)
	return out
}

// ExtractSlice returns the single z-plane at global z as a mask of depth 1.
func (m *ObjectMask) ExtractSlice(z int) *ObjectMask {
	corner := m.box.Corner()
	e := m.Extent()
	box := geometry.NewBoundingBox(
		geometry.Point3i{X: corner.X, Y: corner.Y, Z: z},
		geometry.NewExtent(e.X, e.Y, 1),
	)
	return m.Crop(box)
}

// SubsetOf reports whether every on voxel of m is also on in other.
func (m *ObjectMask) SubsetOf(other *ObjectMask) bool {
	subset := true
	m.ForEachOn(func(p geometry.Point3i) {
		if subset && !other.IsOnGlobal(p) {
			subset = false
		}
	})
	return subset
}

func (m *ObjectMask) String() string {
	return fmt.Sprintf("ObjectMask%v(on=%d)", m.box, m.NumberOn())
}
