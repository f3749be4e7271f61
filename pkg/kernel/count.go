package kernel

import (
	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
)

// CountKernelNeighborhood counts the face neighbours (4 or 6) that are on.
type CountKernelNeighborhood struct{}

// CountAt implements CountKernel.
func (CountKernelNeighborhood) CountAt(p geometry.Point3i, n *Neighborhood) int {
	count := 0
	for _, offset := range faceOffsets(n.UseZ()) {
		if n.state(p.Add(offset)) == stateOn {
			count++
		}
	}
	return count
}

// CountKernelNeighborhoodMask counts the face neighbours that are on and are
// also on in a reference mask (looked up in scene coordinates).
type CountKernelNeighborhoodMask struct {
	Reference *object.ObjectMask
}

// CountAt implements CountKernel.
func (k CountKernelNeighborhoodMask) CountAt(p geometry.Point3i, n *Neighborhood) int {
	count := 0
	for _, offset := range faceOffsets(n.UseZ()) {
		q := p.Add(offset)
		if n.state(q) == stateOn && k.Reference.IsOnGlobal(n.Global(q)) {
			count++
		}
	}
	return count
}

// CountKernelNeighborhoodIgnoreOutsideScene counts on face neighbours but
// leaves neighbours outside Scene out of the count altogether, whatever the
// outside policy says.
type CountKernelNeighborhoodIgnoreOutsideScene struct {
	Scene geometry.Extent
}

// CountAt implements CountKernel.
func (k CountKernelNeighborhoodIgnoreOutsideScene) CountAt(p geometry.Point3i, n *Neighborhood) int {
	count := 0
	for _, offset := range faceOffsets(n.UseZ()) {
		q := p.Add(offset)
		if !k.Scene.Contains(n.Global(q)) {
			continue
		}
		if n.state(q) == stateOn {
			count++
		}
	}
	return count
}
