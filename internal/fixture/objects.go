// Package fixture builds deterministic object masks and collections used by
// the tests of several packages.
package fixture

import (
	"fmt"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/voxel"
)

// Pattern decides whether a local voxel of a fixture is on.
type Pattern func(x, y, z int) bool

// FromPattern builds a mask at corner with the given extent and encoding.
// It panics if the pattern switches no voxel on, since every fixture is
// expected to describe a real object.
func FromPattern(corner geometry.Point3i, extent geometry.Extent, values voxel.BinaryValuesByte, on Pattern) *object.ObjectMask {
	bv := voxel.NewBinaryVoxels(extent, values)
	for z := 0; z < extent.Z; z++ {
		for y := 0; y < extent.Y; y++ {
			for x := 0; x < extent.X; x++ {
				if on(x, y, z) {
					bv.SetOn(x, y, z)
				}
			}
		}
	}
	if !bv.HasOn() {
		panic(fmt.Sprintf("fixture: pattern at %v%v has no on voxels", corner, extent))
	}
	return object.New(geometry.NewBoundingBox(corner, extent), bv)
}

// Rectangle is a fully-on box.
func Rectangle(corner geometry.Point3i, extent geometry.Extent) *object.ObjectMask {
	return FromPattern(corner, extent, voxel.DefaultBinaryValuesByte(), func(x, y, z int) bool { return true })
}

// Ring is a size x size square whose one-voxel border is on and interior is
// off, repeated over depth planes.
func Ring(corner geometry.Point3i, size, depth int) *object.ObjectMask {
	return FromPattern(corner, geometry.NewExtent(size, size, depth), voxel.DefaultBinaryValuesByte(), func(x, y, z int) bool {
		return x == 0 || y == 0 || x == size-1 || y == size-1
	})
}

// Disk is a filled circle of a given radius centred in a (2r+1)^2 box,
// repeated over depth planes.
func Disk(corner geometry.Point3i, radius, depth int) *object.ObjectMask {
	size := 2*radius + 1
	return FromPattern(corner, geometry.NewExtent(size, size, depth), voxel.DefaultBinaryValuesByte(), func(x, y, z int) bool {
		dx, dy := x-radius, y-radius
		return dx*dx+dy*dy <= radius*radius
	})
}

// ObjectCollectionFixture returns four rectangles in one plane:
//
//	0: intersects nothing
//	1: intersects object 2
//	2: intersects objects 1 and 3
//	3: intersects object 2
//
// so clustering yields groups of size 1 and 3.
func ObjectCollectionFixture() *object.ObjectCollection {
	return object.NewCollection(
		Rectangle(geometry.Point3i{X: 0, Y: 0}, geometry.NewExtent(3, 3, 1)),
		Rectangle(geometry.Point3i{X: 10, Y: 0}, geometry.NewExtent(4, 4, 1)),
		Rectangle(geometry.Point3i{X: 12, Y: 2}, geometry.NewExtent(4, 4, 1)),
		Rectangle(geometry.Point3i{X: 15, Y: 5}, geometry.NewExtent(3, 3, 1)),
	)
}

// ScatteredCollection returns n small masks of mixed shapes spread
// pseudo-randomly (but deterministically) over a scene, many overlapping in
// their bounding boxes.
func ScatteredCollection(n int, seed uint32) *object.ObjectCollection {
	state := seed | 1
	next := func(bound int) int {
		// xorshift32
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return int(state % uint32(bound))
	}

	c := object.NewCollection()
	for i := 0; i < n; i++ {
		corner := geometry.Point3i{X: next(60), Y: next(60), Z: next(4)}
		switch i % 3 {
		case 0:
			c.Add(Rectangle(corner, geometry.NewExtent(1+next(6), 1+next(6), 1+next(2))))
		case 1:
			c.Add(Ring(corner, 3+next(5), 1+next(2)))
		default:
			c.Add(Disk(corner, 1+next(3), 1))
		}
	}
	return c
}
