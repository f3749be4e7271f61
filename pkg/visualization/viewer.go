// Package visualization renders binary scenes and object collections into
// grayscale image planes.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/voxel"
)

// Viewer holds a label volume: 0 is background and object i of the rendered
// collection is painted with label i+1.
type Viewer struct {
	labels    *voxel.Voxels[uint16]
	numLabels int
}

// NewViewer paints every object of a collection into a scene of the given
// extent. Voxels outside the scene are clipped, and later objects overwrite
// earlier ones where they overlap.
func NewViewer(extent geometry.Extent, objects *object.ObjectCollection) (*Viewer, error) {
	if objects.Size() >= math.MaxUint16 {
		return nil, fmt.Errorf("too many objects to label: %d", objects.Size())
	}

	labels := voxel.NewVoxels[uint16](extent)
	for i, m := range objects.Objects() {
		label := uint16(i + 1)
		m.ForEachOn(func(p geometry.Point3i) {
			if extent.Contains(p) {
				labels.Set(p.X, p.Y, p.Z, label)
			}
		})
	}
	return &Viewer{labels: labels, numLabels: objects.Size()}, nil
}

// NewBinaryViewer renders on voxels of a binary buffer white.
func NewBinaryViewer(b voxel.BinaryVoxels) *Viewer {
	extent := b.Extent()
	labels := voxel.NewVoxels[uint16](extent)
	for z := 0; z < extent.Z; z++ {
		for y := 0; y < extent.Y; y++ {
			for x := 0; x < extent.X; x++ {
				if b.IsOn(x, y, z) {
					labels.Set(x, y, z, 1)
				}
			}
		}
	}
	return &Viewer{labels: labels, numLabels: 1}
}

// Extent returns the size of the rendered scene.
func (v *Viewer) Extent() geometry.Extent { return v.labels.Extent() }

// Label returns the label at a voxel.
func (v *Viewer) Label(x, y, z int) uint16 { return v.labels.Get(x, y, z) }

// intensity spreads labels evenly over the 16-bit range.
func (v *Viewer) intensity(label uint16) uint16 {
	if label == 0 || v.numLabels == 0 {
		return 0
	}
	return uint16(int(label) * (math.MaxUint16 / v.numLabels))
}

// ExtractSlice extracts a 2D plane from the label volume along the specified axis
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	e := v.labels.Extent()
	var img *image.Gray16

	switch axis {
	case "x", "X":
		// YZ plane
		if position >= e.X {
			return nil, fmt.Errorf("position %d exceeds width %d", position, e.X)
		}
		img = image.NewGray16(image.Rect(0, 0, e.Z, e.Y))
		for y := 0; y < e.Y; y++ {
			for z := 0; z < e.Z; z++ {
				img.SetGray16(z, y, color.Gray16{Y: v.intensity(v.labels.Get(position, y, z))})
			}
		}

	case "y", "Y":
		// XZ plane
		if position >= e.Y {
			return nil, fmt.Errorf("position %d exceeds height %d", position, e.Y)
		}
		img = image.NewGray16(image.Rect(0, 0, e.X, e.Z))
		for z := 0; z < e.Z; z++ {
			for x := 0; x < e.X; x++ {
				img.SetGray16(x, z, color.Gray16{Y: v.intensity(v.labels.Get(x, position, z))})
			}
		}

	case "z", "Z":
		// XY plane
		if position >= e.Z {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, e.Z)
		}
		img = image.NewGray16(image.Rect(0, 0, e.X, e.Y))
		for y := 0; y < e.Y; y++ {
			for x := 0; x < e.X; x++ {
				img.SetGray16(x, y, color.Gray16{Y: v.intensity(v.labels.Get(x, y, position))})
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// ExtractRegion copies the labels inside a box, which must lie within the scene.
func (v *Viewer) ExtractRegion(box geometry.BoundingBox) (*voxel.Voxels[uint16], error) {
	scene := geometry.BoundingBoxFromExtent(v.labels.Extent())
	if !scene.ContainsBox(box) {
		return nil, fmt.Errorf("region %v extends beyond volume %v", box, scene)
	}

	corner := box.Corner()
	e := box.Extent()
	region := voxel.NewVoxels[uint16](e)
	for z := 0; z < e.Z; z++ {
		for y := 0; y < e.Y; y++ {
			for x := 0; x < e.X; x++ {
				region.Set(x, y, z, v.labels.Get(corner.X+x, corner.Y+y, corner.Z+z))
			}
		}
	}
	return region, nil
}

// SaveSlice saves an extracted slice as a PNG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	e := v.labels.Extent()
	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = e.X
	case "y", "Y":
		maxPos = e.Y
	case "z", "Z":
		maxPos = e.Z
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
