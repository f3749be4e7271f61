// Package kernel applies fixed 3x3 (or 3x3x3) neighbourhood functions to
// binary voxel buffers: erosion, dilation, outline extraction and
// neighbour counting.
//
// Every neighbour of a voxel is classified before a kernel sees it:
//
//   - inside the buffer: its actual on/off state;
//   - outside the buffer but inside the containing scene (when one is
//     supplied): off, since the object does not cover it;
//   - otherwise: resolved by the OutsideKernelPolicy (on, off or excluded).
package kernel

import (
	"fmt"
	"strings"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/voxel"
)

// OutsideKernelPolicy decides how neighbours outside the scene are treated.
type OutsideKernelPolicy int

const (
	// AsOn treats outside neighbours as on.
	AsOn OutsideKernelPolicy = iota
	// AsOff treats outside neighbours as off.
	AsOff
	// IgnoreOutside excludes outside neighbours from the calculation.
	IgnoreOutside
)

// PolicyOf maps the pair of flags used by configuration files onto a policy.
// ignoreOutside takes precedence over outsideOn.
func PolicyOf(ignoreOutside, outsideOn bool) OutsideKernelPolicy {
	switch {
	case ignoreOutside:
		return IgnoreOutside
	case outsideOn:
		return AsOn
	default:
		return AsOff
	}
}

// ParsePolicy parses "on", "off" or "ignore" (case-insensitive).
func ParsePolicy(s string) (OutsideKernelPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "as_on":
		return AsOn, nil
	case "off", "as_off":
		return AsOff, nil
	case "ignore", "ignore_outside":
		return IgnoreOutside, nil
	default:
		return 0, fmt.Errorf("unknown outside kernel policy %q", s)
	}
}

func (p OutsideKernelPolicy) String() string {
	switch p {
	case AsOn:
		return "on"
	case AsOff:
		return "off"
	case IgnoreOutside:
		return "ignore"
	default:
		return fmt.Sprintf("OutsideKernelPolicy(%d)", int(p))
	}
}

// KernelApplicationParameters configures a kernel application.
type KernelApplicationParameters struct {
	OutsidePolicy OutsideKernelPolicy
	// UseZ selects the 3D (z included) neighbourhood instead of the
	// in-plane one.
	UseZ bool
	// Scene is the containing scene, or nil when the buffer itself is the
	// scene.
	Scene *geometry.Extent
}

// NewParameters is a shorthand for parameters without a scene.
func NewParameters(policy OutsideKernelPolicy, useZ bool) KernelApplicationParameters {
	return KernelApplicationParameters{OutsidePolicy: policy, UseZ: useZ}
}

// WithScene returns a copy of the parameters bound to a scene.
func (p KernelApplicationParameters) WithScene(scene geometry.Extent) KernelApplicationParameters {
	p.Scene = &scene
	return p
}

type neighborState int

const (
	stateOff neighborState = iota
	stateOn
	stateExcluded
)

// Neighborhood gives a kernel read access to a buffer being processed,
// resolving positions outside it.
type Neighborhood struct {
	voxels voxel.BinaryVoxels
	extent geometry.Extent
	corner geometry.Point3i
	params KernelApplicationParameters
}

func newNeighborhood(voxels voxel.BinaryVoxels, corner geometry.Point3i, params KernelApplicationParameters) *Neighborhood {
	return &Neighborhood{voxels: voxels, extent: voxels.Extent(), corner: corner, params: params}
}

// UseZ reports whether the 3D neighbourhood is active.
func (n *Neighborhood) UseZ() bool { return n.params.UseZ }

// IsOn reports whether a local position inside the buffer is on.
func (n *Neighborhood) IsOn(p geometry.Point3i) bool {
	return n.voxels.IsOn(p.X, p.Y, p.Z)
}

// Global converts a local position to scene coordinates.
func (n *Neighborhood) Global(p geometry.Point3i) geometry.Point3i {
	return p.Add(n.corner)
}

// InsideScene reports whether a local position falls within the scene (or
// within the buffer when no scene is set).
func (n *Neighborhood) InsideScene(p geometry.Point3i) bool {
	if n.params.Scene == nil {
		return n.extent.Contains(p)
	}
	return n.params.Scene.Contains(n.Global(p))
}

func (n *Neighborhood) state(p geometry.Point3i) neighborState {
	if n.extent.Contains(p) {
		if n.voxels.IsOn(p.X, p.Y, p.Z) {
			return stateOn
		}
		return stateOff
	}
	if n.params.Scene != nil && n.params.Scene.Contains(n.Global(p)) {
		return stateOff
	}
	switch n.params.OutsidePolicy {
	case AsOn:
		return stateOn
	case IgnoreOutside:
		return stateExcluded
	default:
		return stateOff
	}
}

// BinaryKernel computes an on/off output for a voxel from its neighbourhood.
// Positions are local to the buffer.
type BinaryKernel interface {
	CalculateAt(p geometry.Point3i, n *Neighborhood) bool
}

// CountKernel computes an integer output for a voxel from its neighbourhood.
type CountKernel interface {
	CountAt(p geometry.Point3i, n *Neighborhood) int
}

var (
	faceOffsets2D = []geometry.Point3i{
		{X: -1}, {X: 1}, {Y: -1}, {Y: 1},
	}
	faceOffsets3D = append(append([]geometry.Point3i(nil), faceOffsets2D...),
		geometry.Point3i{Z: -1}, geometry.Point3i{Z: 1})
	zOffsets      = []geometry.Point3i{{Z: -1}, {Z: 1}}
	fullOffsets2D = fullOffsets(false)
	fullOffsets3D = fullOffsets(true)
)

func fullOffsets(useZ bool) []geometry.Point3i {
	zMin, zMax := 0, 0
	if useZ {
		zMin, zMax = -1, 1
	}
	var out []geometry.Point3i
	for dz := zMin; dz <= zMax; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 || dz != 0 {
					out = append(out, geometry.Point3i{X: dx, Y: dy, Z: dz})
				}
			}
		}
	}
	return out
}

// faceOffsets returns the 4 (or 6 with z) face-adjacent offsets.
func faceOffsets(useZ bool) []geometry.Point3i {
	if useZ {
		return faceOffsets3D
	}
	return faceOffsets2D
}

// allOffsets returns the 8 (or 26 with z) offsets including diagonals.
func allOffsets(useZ bool) []geometry.Point3i {
	if useZ {
		return fullOffsets3D
	}
	return fullOffsets2D
}
