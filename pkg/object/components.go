package object

import (
	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/voxel"
)

// ObjectsFromConnectedComponents labels the on voxels of a scene buffer
// into connected components (8-connected in each plane, 26-connected across
// planes when useZ is set) and returns one tightly-bounded mask per
// component with at least minNumberVoxels voxels. Components are returned in
// the scan order (z, y, x) of their first voxel, and each mask is placed at
// its global position in the scene.
func ObjectsFromConnectedComponents(scene voxel.BinaryVoxels, useZ bool, minNumberVoxels int) *ObjectCollection {
	e := scene.Extent()
	labelled := make([][]bool, e.Z)
	for z := range labelled {
		labelled[z] = make([]bool, e.VolumeXY())
	}

	out := NewCollection()
	var queue []geometry.Point3i
	for z := 0; z < e.Z; z++ {
		for y := 0; y < e.Y; y++ {
			for x := 0; x < e.X; x++ {
				if labelled[z][e.Offset(x, y)] || !scene.IsOn(x, y, z) {
					continue
				}

				seed := geometry.Point3i{X: x, Y: y, Z: z}
				labelled[z][e.Offset(x, y)] = true
				queue = append(queue[:0], seed)
				component := []geometry.Point3i{seed}
				lo, hi := seed, seed

				for len(queue) > 0 {
					p := queue[0]
					queue = queue[1:]
					forEachNeighbor(p, useZ, func(n geometry.Point3i) {
						if !e.Contains(n) || labelled[n.Z][e.Offset(n.X, n.Y)] || !scene.IsOn(n.X, n.Y, n.Z) {
							return
						}
						labelled[n.Z][e.Offset(n.X, n.Y)] = true
						queue = append(queue, n)
						component = append(component, n)
						lo, hi = lo.Min(n), hi.Max(n)
					})
				}

				if len(component) < minNumberVoxels {
					continue
				}
				out.Add(maskFromPoints(component, geometry.BoundingBoxFromPoints(lo, hi), scene.Values()))
			}
		}
	}
	return out
}

func maskFromPoints(points []geometry.Point3i, box geometry.BoundingBox, values voxel.BinaryValuesByte) *ObjectMask {
	m := NewEmpty(box, values)
	corner := box.Corner()
	for _, p := range points {
		local := p.Sub(corner)
		m.voxels.SetOn(local.X, local.Y, local.Z)
	}
	return m
}

// forEachNeighbor visits the 8 (or 26) neighbours of a point.
func forEachNeighbor(p geometry.Point3i, useZ bool, fn func(n geometry.Point3i)) {
	zMin, zMax := 0, 0
	if useZ {
		zMin, zMax = -1, 1
	}
	for dz := zMin; dz <= zMax; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				fn(geometry.Point3i{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz})
			}
		}
	}
}
