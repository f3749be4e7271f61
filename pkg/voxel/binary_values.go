// Package voxel holds dense 3D voxel buffers and the on/off encodings used to
// interpret them as binary masks.
package voxel

import "fmt"

// BinaryValues describes which intensity means "on" and which means "off".
// Distinct buffers may use inverted encodings, so mask algebra must always go
// through the encoding rather than assume 255/0.
type BinaryValues struct {
	Off int
	On  int
}

// NewBinaryValues creates an encoding, panicking if on and off coincide.
func NewBinaryValues(off, on int) BinaryValues {
	if off == on {
		panic(fmt.Sprintf("voxel: on and off values must differ, both are %d", on))
	}
	return BinaryValues{Off: off, On: on}
}

// DefaultBinaryValues is off=0, on=255.
func DefaultBinaryValues() BinaryValues {
	return BinaryValues{Off: 0, On: 255}
}

// Invert swaps the on and off values.
func (bv BinaryValues) Invert() BinaryValues {
	return BinaryValues{Off: bv.On, On: bv.Off}
}

// AsByte converts the encoding to its byte form, panicking if either value
// does not fit in a byte.
func (bv BinaryValues) AsByte() BinaryValuesByte {
	if bv.Off < 0 || bv.Off > 255 || bv.On < 0 || bv.On > 255 {
		panic(fmt.Sprintf("voxel: binary values %v do not fit in a byte", bv))
	}
	return NewBinaryValuesByte(byte(bv.Off), byte(bv.On))
}

// BinaryValuesByte is the byte form of BinaryValues, used directly against
// raw buffers.
type BinaryValuesByte struct {
	Off byte
	On  byte
}

// NewBinaryValuesByte creates a byte encoding, panicking if on and off
// coincide.
func NewBinaryValuesByte(off, on byte) BinaryValuesByte {
	if off == on {
		panic(fmt.Sprintf("voxel: on and off bytes must differ, both are %d", on))
	}
	return BinaryValuesByte{Off: off, On: on}
}

// DefaultBinaryValuesByte is off=0, on=255.
func DefaultBinaryValuesByte() BinaryValuesByte {
	return BinaryValuesByte{Off: 0, On: 255}
}

// Invert swaps the on and off bytes.
func (bv BinaryValuesByte) Invert() BinaryValuesByte {
	return BinaryValuesByte{Off: bv.On, On: bv.Off}
}

// IsOn reports whether a raw byte encodes "on".
func (bv BinaryValuesByte) IsOn(v byte) bool { return v == bv.On }

// IsOff reports whether a raw byte encodes "off".
func (bv BinaryValuesByte) IsOff(v byte) bool { return v == bv.Off }

// Of returns the byte for a boolean state.
func (bv BinaryValuesByte) Of(on bool) byte {
	if on {
		return bv.On
	}
	return bv.Off
}

// AsInt converts back to the integer encoding.
func (bv BinaryValuesByte) AsInt() BinaryValues {
	return BinaryValues{Off: int(bv.Off), On: int(bv.On)}
}
