package kernel

import "anchorvoxel/pkg/geometry"

// ErosionKernel keeps a voxel on only if it and every face neighbour (4 in a
// plane, 6 with z) are on. Excluded neighbours are not considered.
type ErosionKernel struct{}

// CalculateAt implements BinaryKernel.
func (ErosionKernel) CalculateAt(p geometry.Point3i, n *Neighborhood) bool {
	if !n.IsOn(p) {
		return false
	}
	for _, offset := range faceOffsets(n.UseZ()) {
		if n.state(p.Add(offset)) == stateOff {
			return false
		}
	}
	return true
}

// DilationKernel switches a voxel on if it or any neighbour is on. Big
// selects the full neighbourhood with diagonals (8 or 26); otherwise only
// face neighbours (4 or 6) are considered.
type DilationKernel struct {
	Big bool
}

// CalculateAt implements BinaryKernel.
func (k DilationKernel) CalculateAt(p geometry.Point3i, n *Neighborhood) bool {
	if n.IsOn(p) {
		return true
	}
	offsets := faceOffsets(n.UseZ())
	if k.Big {
		offsets = allOffsets(n.UseZ())
	}
	return anyOn(p, offsets, n)
}

// DilationKernelZOnly dilates along z only, for anisotropic expansion. With
// UseZ disabled it leaves the buffer unchanged.
type DilationKernelZOnly struct{}

// CalculateAt implements BinaryKernel.
func (DilationKernelZOnly) CalculateAt(p geometry.Point3i, n *Neighborhood) bool {
	if n.IsOn(p) {
		return true
	}
	if !n.UseZ() {
		return false
	}
	return anyOn(p, zOffsets, n)
}

// OutlineKernel keeps a voxel on only if it is on and at least one face
// neighbour is off. It equals the voxel-wise XOR of a buffer with its single
// erosion under the same parameters.
type OutlineKernel struct{}

// CalculateAt implements BinaryKernel.
func (OutlineKernel) CalculateAt(p geometry.Point3i, n *Neighborhood) bool {
	if !n.IsOn(p) {
		return false
	}
	for _, offset := range faceOffsets(n.UseZ()) {
		if n.state(p.Add(offset)) == stateOff {
			return true
		}
	}
	return false
}

func anyOn(p geometry.Point3i, offsets []geometry.Point3i, n *Neighborhood) bool {
	for _, offset := range offsets {
		if n.state(p.Add(offset)) == stateOn {
			return true
		}
	}
	return false
}
