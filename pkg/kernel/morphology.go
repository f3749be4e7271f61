package kernel

import (
	"fmt"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
)

// DilationOptions selects the dilation neighbourhood.
type DilationOptions struct {
	// Big uses the full neighbourhood including diagonals.
	Big bool
	// ZOnly dilates along z only; the box then grows only in z.
	ZOnly bool
}

func (o DilationOptions) kernel() BinaryKernel {
	if o.ZOnly {
		return DilationKernelZOnly{}
	}
	return DilationKernel{Big: o.Big}
}

// Erode applies the erosion kernel iterations times. The bounding box is
// unchanged. A mask smaller than 3 voxels along an active axis is returned
// as an unchanged duplicate.
func Erode(m *object.ObjectMask, iterations int, params KernelApplicationParameters) *object.ObjectMask {
	return repeat(ErosionKernel{}, m, iterations, params)
}

// Dilate grows the mask's bounding box by iterations voxels on each side
// (z only when params.UseZ is set, x and y unless opts.ZOnly), clamped to
// params.Scene when present, and then applies the dilation kernel iterations
// times. The mask's box must overlap params.Scene; Dilate panics otherwise.
func Dilate(m *object.ObjectMask, iterations int, opts DilationOptions, params KernelApplicationParameters) *object.ObjectMask {
	if params.Scene != nil {
		if _, ok := m.BoundingBox().ClampTo(*params.Scene); !ok {
			panic(fmt.Sprintf("kernel: cannot dilate %v, it lies outside scene %v", m.BoundingBox(), *params.Scene))
		}
	}
	if iterations <= 0 {
		return m.Duplicate()
	}
	margin := geometry.Point3i{X: iterations, Y: iterations}
	if opts.ZOnly {
		margin = geometry.Point3i{}
	}
	if params.UseZ {
		margin.Z = iterations
	}
	grown := m.BoundingBox().GrowAxes(margin, params.Scene)
	return repeat(opts.kernel(), m.MapInto(grown), iterations, params)
}

func repeat(k BinaryKernel, m *object.ObjectMask, iterations int, params KernelApplicationParameters) *object.ObjectMask {
	out := m.Duplicate()
	if !CanApply(m.Extent(), params.UseZ) {
		return out
	}
	for i := 0; i < iterations; i++ {
		out = ApplyKernelToObject(k, out, params)
	}
	return out
}
