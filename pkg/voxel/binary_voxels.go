package voxel

import (
	"fmt"

	"anchorvoxel/pkg/geometry"
)

// BinaryVoxels pairs a byte buffer with the encoding that says which byte is
// "on". Every voxel must hold either the on or the off byte.
type BinaryVoxels struct {
	voxels *Voxels[byte]
	values BinaryValuesByte
}

// NewBinaryVoxels allocates an all-off buffer.
func NewBinaryVoxels(extent geometry.Extent, values BinaryValuesByte) BinaryVoxels {
	v := NewVoxels[byte](extent)
	if values.Off != 0 {
		v.Fill(values.Off)
	}
	return BinaryVoxels{voxels: v, values: values}
}

// WrapBinaryVoxels pairs an existing buffer with an encoding, taking
// ownership of the buffer.
func WrapBinaryVoxels(voxels *Voxels[byte], values BinaryValuesByte) BinaryVoxels {
	return BinaryVoxels{voxels: voxels, values: values}
}

// BinaryVoxelsFromBytes builds a buffer from a single z-major raw array of
// extent.Volume() bytes, copying it. It returns an error if the size differs
// or a byte is neither on nor off.
func BinaryVoxelsFromBytes(extent geometry.Extent, raw []byte, values BinaryValuesByte) (BinaryVoxels, error) {
	if len(raw) != extent.Volume() {
		return BinaryVoxels{}, fmt.Errorf("raw buffer has %d bytes, extent %v needs %d", len(raw), extent, extent.Volume())
	}
	bv := NewBinaryVoxels(extent, values)
	area := extent.VolumeXY()
	for z := 0; z < extent.Z; z++ {
		plane := raw[z*area : (z+1)*area]
		for i, b := range plane {
			if b != values.On && b != values.Off {
				return BinaryVoxels{}, fmt.Errorf("byte %d at index %d is neither on (%d) nor off (%d)", b, z*area+i, values.On, values.Off)
			}
		}
		copy(bv.voxels.Slice(z), plane)
	}
	return bv, nil
}

// Voxels exposes the raw buffer.
func (b BinaryVoxels) Voxels() *Voxels[byte] { return b.voxels }

// Values returns the encoding.
func (b BinaryVoxels) Values() BinaryValuesByte { return b.values }

// Extent returns the buffer size.
func (b BinaryVoxels) Extent() geometry.Extent { return b.voxels.Extent() }

// IsOn reports whether the voxel at a local position is on.
func (b BinaryVoxels) IsOn(x, y, z int) bool {
	return b.voxels.Get(x, y, z) == b.values.On
}

// IsOff reports whether the voxel at a local position is off.
func (b BinaryVoxels) IsOff(x, y, z int) bool {
	return b.voxels.Get(x, y, z) == b.values.Off
}

// SetOn switches a voxel on.
func (b BinaryVoxels) SetOn(x, y, z int) { b.voxels.Set(x, y, z, b.values.On) }

// SetOff switches a voxel off.
func (b BinaryVoxels) SetOff(x, y, z int) { b.voxels.Set(x, y, z, b.values.Off) }

// SetAllOn switches every voxel on.
func (b BinaryVoxels) SetAllOn() { b.voxels.Fill(b.values.On) }

// CountOn returns the number of on voxels.
func (b BinaryVoxels) CountOn() int {
	count := 0
	for z := 0; z < b.Extent().Z; z++ {
		for _, v := range b.voxels.Slice(z) {
			if v == b.values.On {
				count++
			}
		}
	}
	return count
}

// HasOn reports whether at least one voxel is on.
func (b BinaryVoxels) HasOn() bool { return b.any(b.values.On) }

// HasOff reports whether at least one voxel is off.
func (b BinaryVoxels) HasOff() bool { return b.any(b.values.Off) }

func (b BinaryVoxels) any(target byte) bool {
	for z := 0; z < b.Extent().Z; z++ {
		for _, v := range b.voxels.Slice(z) {
			if v == target {
				return true
			}
		}
	}
	return false
}

// Duplicate performs a deep copy.
func (b BinaryVoxels) Duplicate() BinaryVoxels {
	return BinaryVoxels{voxels: b.voxels.Duplicate(), values: b.values}
}

// Invert returns a new buffer where on and off voxels are swapped, keeping
// the same encoding.
func (b BinaryVoxels) Invert() BinaryVoxels {
	out := b.Duplicate()
	for z := 0; z < out.Extent().Z; z++ {
		plane := out.voxels.Slice(z)
		for i, v := range plane {
			plane[i] = b.values.Of(v != b.values.On)
		}
	}
	return out
}

// WithValues re-encodes the buffer with a different encoding, preserving
// which voxels are on.
func (b BinaryVoxels) WithValues(values BinaryValuesByte) BinaryVoxels {
	out := NewBinaryVoxels(b.Extent(), values)
	for z := 0; z < b.Extent().Z; z++ {
		src, dst := b.voxels.Slice(z), out.voxels.Slice(z)
		for i, v := range src {
			dst[i] = values.Of(v == b.values.On)
		}
	}
	return out
}

// SameOnVoxels reports whether both buffers have identical extents and the
// same set of on voxels, regardless of their encodings.
func (b BinaryVoxels) SameOnVoxels(other BinaryVoxels) bool {
	if b.Extent() != other.Extent() {
		return false
	}
	for z := 0; z < b.Extent().Z; z++ {
		s, o := b.voxels.Slice(z), other.voxels.Slice(z)
		for i := range s {
			if (s[i] == b.values.On) != (o[i] == other.values.On) {
				return false
			}
		}
	}
	return true
}

// XorInto sets each receiver voxel on iff exactly one of source and receiver
// is on. The receiver is modified in place; both must share an extent.
func XorInto(source, receiver BinaryVoxels) {
	combineInto(source, receiver, func(s, r bool) bool { return s != r })
}

// AndInto sets each receiver voxel on iff both source and receiver are on.
func AndInto(source, receiver BinaryVoxels) {
	combineInto(source, receiver, func(s, r bool) bool { return s && r })
}

// OrInto sets each receiver voxel on iff source or receiver is on.
func OrInto(source, receiver BinaryVoxels) {
	combineInto(source, receiver, func(s, r bool) bool { return s || r })
}

func combineInto(source, receiver BinaryVoxels, op func(s, r bool) bool) {
	if source.Extent() != receiver.Extent() {
		panic(fmt.Sprintf("voxel: source extent %v differs from receiver extent %v", source.Extent(), receiver.Extent()))
	}
	for z := 0; z < source.Extent().Z; z++ {
		src, dst := source.voxels.Slice(z), receiver.voxels.Slice(z)
		for i := range src {
			on := op(src[i] == source.values.On, dst[i] == receiver.values.On)
			dst[i] = receiver.values.Of(on)
		}
	}
}
