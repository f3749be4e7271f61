package kernel

import (
	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/voxel"
)

// Guess3D reports whether the 3D neighbourhood should be used for a mask:
// only when it spans more than one plane and 2D is not forced.
func Guess3D(m *object.ObjectMask, force2D bool) bool {
	return !force2D && m.Extent().Z > 1
}

// FindOutline returns the boundary voxels of a mask, treating the mask's own
// bounding box as the scene. See FindOutlineInScene.
func FindOutline(m *object.ObjectMask, numberErosions int, force2D, outlineAtBoundary bool) *object.ObjectMask {
	return findOutline(m, numberErosions, force2D, outlineAtBoundary, nil)
}

// FindOutlineInScene returns the voxels that numberErosions successive
// erosions would remove from the mask, which is always a subset of the mask.
//
// outlineAtBoundary decides whether voxels at the edge of the scene count as
// outline (outside neighbours are off) or not (outside neighbours are on).
// Masks smaller than 3 voxels along an active axis are returned unchanged
// (duplicated).
func FindOutlineInScene(m *object.ObjectMask, numberErosions int, force2D, outlineAtBoundary bool, scene geometry.Extent) *object.ObjectMask {
	return findOutline(m, numberErosions, force2D, outlineAtBoundary, &scene)
}

func findOutline(m *object.ObjectMask, numberErosions int, force2D, outlineAtBoundary bool, scene *geometry.Extent) *object.ObjectMask {
	params := KernelApplicationParameters{
		OutsidePolicy: PolicyOf(false, !outlineAtBoundary),
		UseZ:          Guess3D(m, force2D),
		Scene:         scene,
	}
	if !CanApply(m.Extent(), params.UseZ) || numberErosions < 1 {
		return m.Duplicate()
	}

	if numberErosions == 1 {
		return ApplyKernelToObject(OutlineKernel{}, m, params)
	}

	eroded := m
	for i := 0; i < numberErosions; i++ {
		eroded = ApplyKernelToObject(ErosionKernel{}, eroded, params)
	}
	outline := m.Duplicate().BinaryVoxels()
	voxel.XorInto(eroded.BinaryVoxels(), outline)
	return object.New(m.BoundingBox(), outline)
}
