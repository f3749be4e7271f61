package pipeline

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"anchorvoxel/internal/models"
	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/voxel"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// loadSlices reads every image in the input directory, ordered by the number
// in its filename. All slices must share the first slice's dimensions.
func (p *Pipeline) loadSlices() error {
	entries, err := os.ReadDir(p.params.InputDir)
	if err != nil {
		return err
	}

	var imageFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			imageFiles = append(imageFiles, entry.Name())
		}
	}

	if len(imageFiles) == 0 {
		return fmt.Errorf("no PNG or JPG images found in %s", p.params.InputDir)
	}

	sort.SliceStable(imageFiles, func(i, j int) bool {
		return extractNumber(imageFiles[i]) < extractNumber(imageFiles[j])
	})

	p.slices = p.slices[:0]
	for i, filename := range imageFiles {
		img, err := loadImage(filepath.Join(p.params.InputDir, filename))
		if err != nil {
			return fmt.Errorf("failed to load image %s: %w", filename, err)
		}

		bounds := img.Bounds()
		if i == 0 {
			p.width = bounds.Dx()
			p.height = bounds.Dy()
		} else if bounds.Dx() != p.width || bounds.Dy() != p.height {
			return fmt.Errorf("image %s is %dx%d, expected %dx%d",
				filename, bounds.Dx(), bounds.Dy(), p.width, p.height)
		}

		p.slices = append(p.slices, models.Slice{Image: img, Index: i, Filename: filename})
	}

	p.logger.Printf("Loaded %d slices with dimensions %dx%d", len(p.slices), p.width, p.height)
	return nil
}

// thresholdSlices builds the binary scene from the loaded slices.
func (p *Pipeline) thresholdSlices() {
	extent := geometry.NewExtent(p.width, p.height, len(p.slices))
	p.scene = voxel.NewBinaryVoxels(extent, voxel.DefaultBinaryValuesByte())
	for z, slice := range p.slices {
		for i, v := range imageToIntensity(slice.Image) {
			if v >= p.params.Threshold {
				p.scene.SetOn(i%p.width, i/p.width, z)
			}
		}
	}
	p.logger.Printf("Thresholded at %.2f: %d voxels on", p.params.Threshold, p.scene.CountOn())
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}

	if digits.Len() > 0 {
		if num, err := strconv.Atoi(digits.String()); err == nil {
			return num
		}
	}
	return 0
}

// loadImage decodes a PNG or JPEG file
func loadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// imageToIntensity converts an image to row-major gray levels in [0, 1].
func imageToIntensity(img image.Image) []float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	data := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			data[y*width+x] = float64(gray.Y) / 65535.0
		}
	}

	return data
}
