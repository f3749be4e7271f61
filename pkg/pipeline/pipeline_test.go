package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"anchorvoxel/pkg/config"
	"anchorvoxel/pkg/kernel"
	"anchorvoxel/pkg/metrics"
	"anchorvoxel/pkg/spatial"
)

// createTestImage creates a grayscale test image with the specified dimensions and pattern
func createTestImage(width, height int, pattern func(x, y int) uint16) image.Image {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.Gray16{Y: pattern(x, y)})
		}
	}
	return img
}

func savePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

// createTestSlices writes three 20x20 slices holding two 5x5 squares two
// pixels apart, plus a single-pixel speck in the middle slice.
func createTestSlices(t *testing.T, dir string) {
	t.Helper()
	for z := 0; z < 3; z++ {
		img := createTestImage(20, 20, func(x, y int) uint16 {
			inA := x >= 2 && x <= 6 && y >= 2 && y <= 6
			inB := x >= 9 && x <= 13 && y >= 2 && y <= 6
			speck := z == 1 && x == 17 && y == 17
			if inA || inB || speck {
				return 65535
			}
			return 0
		})
		savePNG(t, filepath.Join(dir, fmt.Sprintf("slice_%d.png", z)), img)
	}
}

func testParams(inputDir string) *Params {
	return &Params{
		InputDir:          inputDir,
		NumCores:          2,
		Threshold:         0.5,
		MinObjectVoxels:   2,
		UseZ:              true,
		OutsidePolicy:     kernel.AsOff,
		BigNeighborhood:   true,
		NumberErosions:    1,
		OutlineAtBoundary: true,
		DilationDistance:  1,
		Index:             spatial.DefaultOptions(),
	}
}

func TestProcess(t *testing.T) {
	tmpDir := t.TempDir()
	inputDir := filepath.Join(tmpDir, "input")
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		t.Fatalf("Failed to create input dir: %v", err)
	}
	createTestSlices(t, inputDir)

	params := testParams(inputDir)
	params.OutputFile = filepath.Join(tmpDir, "out", "report.yaml")
	p := New(params)

	if err := p.Process(); err != nil {
		t.Fatalf("Process: %v", err)
	}

	t.Run("Scene", func(t *testing.T) {
		e := p.SceneExtent()
		if e.X != 20 || e.Y != 20 || e.Z != 3 {
			t.Errorf("Unexpected scene extent %v", e)
		}
		if got := p.Scene().CountOn(); got != 151 {
			t.Errorf("Expected 151 on voxels, got %d", got)
		}
	})

	t.Run("Objects", func(t *testing.T) {
		if got := p.Objects().Size(); got != 2 {
			t.Fatalf("Expected 2 objects, got %d", got)
		}
		if corner := p.Objects().Get(0).BoundingBox().Corner(); corner.X != 2 || corner.Y != 2 {
			t.Errorf("First object should be the left square, corner %v", corner)
		}
	})

	t.Run("Outlines", func(t *testing.T) {
		for i, outline := range p.Outlines().Objects() {
			// Only the 3x3 core of the middle plane is interior.
			if got := outline.NumberOn(); got != 66 {
				t.Errorf("Object %d: expected 66 outline voxels, got %d", i, got)
			}
			if !outline.SubsetOf(p.Objects().Get(i)) {
				t.Errorf("Object %d: outline is not a subset of the object", i)
			}
		}
	})

	t.Run("Contours", func(t *testing.T) {
		for i := 0; i < p.Objects().Size(); i++ {
			planes := p.Contours(i)
			if len(planes) != 3 {
				t.Fatalf("Object %d: expected contours in 3 planes, got %d", i, len(planes))
			}
			middle := planes[1]
			if middle.Z != 1 || len(middle.Contours) != 1 {
				t.Fatalf("Object %d: unexpected middle plane %+v", i, middle)
			}
			ring := middle.Contours[0]
			if len(ring.Points) != 16 || !ring.Closed {
				t.Errorf("Object %d: expected a closed 16-point ring, got %d points (closed=%v)",
					i, len(ring.Points), ring.Closed)
			}
		}
	})

	t.Run("Report", func(t *testing.T) {
		report, err := ReadReport(params.OutputFile)
		if err != nil {
			t.Fatalf("ReadReport: %v", err)
		}
		if report.Width != 20 || report.Height != 20 || report.Depth != 3 {
			t.Errorf("Unexpected dimensions %dx%dx%d", report.Width, report.Height, report.Depth)
		}

		s := report.Statistics
		if s.Objects != 2 || s.Clusters != 2 || s.TotalVoxels != 150 || s.OutlineVoxels != 132 {
			t.Errorf("Unexpected statistics %+v", s)
		}
		if s.MeanVoxels != 75 || s.MedianVoxels != 75 || s.StdDevVoxels != 0 {
			t.Errorf("Unexpected size statistics %+v", s)
		}
		if s.ClosedContours < 2 {
			t.Errorf("Expected at least 2 closed contours, got %d", s.ClosedContours)
		}

		a := report.Objects[0]
		if a.Corner != [3]int{2, 2, 0} || a.Extent != [3]int{5, 5, 3} || a.Voxels != 75 {
			t.Errorf("Unexpected first object %+v", a)
		}
		want := [3]float64{4, 4, 1}
		for k := range want {
			if math.Abs(a.Centroid[k]-want[k]) > 1e-9 {
				t.Errorf("Centroid = %v, want %v", a.Centroid, want)
				break
			}
		}

		if a.NearestObject != 1 || math.Abs(a.NearestDistance-7) > 1e-9 {
			t.Errorf("Expected object 1 at distance 7 as nearest, got %d at %f", a.NearestObject, a.NearestDistance)
		}
		if a.PrincipalVariances[0] <= 0 || a.PrincipalVariances[0] < a.PrincipalVariances[2] {
			t.Errorf("Unexpected principal variances %v", a.PrincipalVariances)
		}

		if len(report.Clusters) != 2 || report.Clusters[1].Members[0] != 1 {
			t.Errorf("Unexpected clusters %+v", report.Clusters)
		}
	})
}

func TestClusteringFollowsDilationDistance(t *testing.T) {
	inputDir := t.TempDir()
	createTestSlices(t, inputDir)

	tests := []struct {
		distance int
		want     [][]int
	}{
		{0, [][]int{{0}, {1}}},
		{1, [][]int{{0}, {1}}},
		{2, [][]int{{0, 1}}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("distance%d", tt.distance), func(t *testing.T) {
			params := testParams(inputDir)
			params.DilationDistance = tt.distance
			p := New(params)
			if err := p.Process(); err != nil {
				t.Fatalf("Process: %v", err)
			}

			got := p.Clusters()
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Clusters() = %v, want %v", got, tt.want)
			}
			for c, members := range got {
				for _, i := range members {
					if p.Report().Objects[i].Cluster != c {
						t.Errorf("Object %d reports cluster %d, want %d", i, p.Report().Objects[i].Cluster, c)
					}
				}
			}
		})
	}
}

func TestMinObjectVoxelsKeepsSpeck(t *testing.T) {
	inputDir := t.TempDir()
	createTestSlices(t, inputDir)

	params := testParams(inputDir)
	params.MinObjectVoxels = 1
	params.NumCores = 8
	p := New(params)
	if err := p.Process(); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got := p.Objects().Size(); got != 3 {
		t.Fatalf("Expected 3 objects, got %d", got)
	}
	speck := p.Report().Objects[2]
	if speck.Voxels != 1 || speck.OutlineVoxels != 1 || len(speck.Contours) != 1 {
		t.Errorf("Unexpected speck summary %+v", speck)
	}
	if len(p.Clusters()) != 3 {
		t.Errorf("Expected the speck in its own cluster, got %v", p.Clusters())
	}
}

func TestLoadSlicesOrdersByNumber(t *testing.T) {
	inputDir := t.TempDir()
	// slice_10 is fully on, slice_2 fully off; the number decides the order.
	savePNG(t, filepath.Join(inputDir, "slice_10.png"), createTestImage(4, 3, func(x, y int) uint16 { return 65535 }))
	savePNG(t, filepath.Join(inputDir, "slice_2.png"), createTestImage(4, 3, func(x, y int) uint16 { return 0 }))
	if err := os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	p := New(testParams(inputDir))
	if err := p.loadSlices(); err != nil {
		t.Fatalf("Failed to load slices: %v", err)
	}
	if len(p.slices) != 2 {
		t.Fatalf("Expected 2 slices, got %d", len(p.slices))
	}
	if p.slices[0].Filename != "slice_2.png" || p.slices[1].Filename != "slice_10.png" {
		t.Errorf("Unexpected order %s, %s", p.slices[0].Filename, p.slices[1].Filename)
	}

	p.thresholdSlices()
	if p.scene.IsOn(0, 0, 0) {
		t.Error("First plane should be off")
	}
	if !p.scene.IsOn(3, 2, 1) {
		t.Error("Second plane should be on")
	}
}

func TestLoadSlicesErrors(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		p := New(testParams(t.TempDir()))
		if err := p.loadSlices(); err == nil {
			t.Error("Expected error for a directory without images")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		p := New(testParams(filepath.Join(t.TempDir(), "nope")))
		if err := p.loadSlices(); err == nil {
			t.Error("Expected error for a missing directory")
		}
	})

	t.Run("Mismatch", func(t *testing.T) {
		dir := t.TempDir()
		savePNG(t, filepath.Join(dir, "a1.png"), createTestImage(4, 4, func(x, y int) uint16 { return 0 }))
		savePNG(t, filepath.Join(dir, "a2.png"), createTestImage(5, 4, func(x, y int) uint16 { return 0 }))
		p := New(testParams(dir))
		if err := p.loadSlices(); err == nil {
			t.Error("Expected error for slices of different sizes")
		}
	})
}

func TestLoadImageJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.jpg")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	img := createTestImage(8, 8, func(x, y int) uint16 { return 65535 })
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	file.Close()

	loaded, err := loadImage(path)
	if err != nil {
		t.Fatalf("loadImage: %v", err)
	}
	for _, v := range imageToIntensity(loaded) {
		if v < 0.9 {
			t.Fatalf("Expected a near-white image, got intensity %f", v)
		}
	}
}

func TestExtractNumber(t *testing.T) {
	testCases := []struct {
		filename string
		expected int
	}{
		{"slice_1.png", 1},
		{"slice_023.jpg", 23},
		{"img456.jpeg", 456},
		{"not_a_number.png", 0},
		{"mixed123text456.png", 123456},
		{"dir7/slice_5.png", 5},
	}

	for _, tc := range testCases {
		result := extractNumber(tc.filename)
		if result != tc.expected {
			t.Errorf("extractNumber(%s): expected %d, got %d", tc.filename, tc.expected, result)
		}
	}
}

func TestImageToIntensity(t *testing.T) {
	width, height := 4, 4
	testImg := createTestImage(width, height, func(x, y int) uint16 {
		return uint16((y*width + x) * 4096)
	})

	data := imageToIntensity(testImg)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			expected := float64((y*width+x)*4096) / 65535.0
			if math.Abs(data[y*width+x]-expected) > 0.001 {
				t.Errorf("imageToIntensity: at (%d,%d), expected %.6f, got %.6f", x, y, expected, data[y*width+x])
			}
		}
	}
}

func TestSaveIntermediaryResults(t *testing.T) {
	tmpDir := t.TempDir()
	inputDir := filepath.Join(tmpDir, "input")
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		t.Fatal(err)
	}
	createTestSlices(t, inputDir)

	params := testParams(inputDir)
	params.SaveIntermediaryResults = true
	params.IntermediaryDir = filepath.Join(tmpDir, "intermediary")
	if err := New(params).Process(); err != nil {
		t.Fatalf("Process: %v", err)
	}

	for _, stage := range []string{"01_threshold", "02_objects", "03_outlines"} {
		for z := 0; z < 3; z++ {
			path := filepath.Join(params.IntermediaryDir, stage, fmt.Sprintf("slice_z_%03d.png", z))
			if _, err := os.Stat(path); err != nil {
				t.Errorf("Expected %s: %v", path, err)
			}
		}
	}
}

func TestParamsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Processing.NumCores = 3
	cfg.Kernel.OutsidePolicy = "on"
	cfg.Cluster.DilationDistance = 5

	params, err := ParamsFromConfig(cfg, "in", "out.yaml", "tmp")
	if err != nil {
		t.Fatalf("ParamsFromConfig: %v", err)
	}
	if params.NumCores != 3 || params.OutsidePolicy != kernel.AsOn || params.DilationDistance != 5 {
		t.Errorf("Unexpected params %+v", params)
	}
	if params.Index.MaxChildren != cfg.Index.MaxChildren || params.InputDir != "in" || params.IntermediaryDir != "tmp" {
		t.Errorf("Unexpected params %+v", params)
	}

	cfg.Outline.NumberErosions = 0
	if _, err := ParamsFromConfig(cfg, "in", "out.yaml", "tmp"); err == nil {
		t.Error("Expected error for an invalid config")
	}
}

func TestProcessRecordsMetrics(t *testing.T) {
	inputDir := t.TempDir()
	createTestSlices(t, inputDir)

	reg := prometheus.NewRegistry()
	params := testParams(inputDir)
	params.Metrics = metrics.New(reg)
	if err := New(params).Process(); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got := testutil.ToFloat64(params.Metrics.Objects); got != 2 {
		t.Errorf("objects gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(params.Metrics.Slices); got != 3 {
		t.Errorf("slices gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(params.Metrics.OutlineVoxels); got != 132 {
		t.Errorf("outline voxels = %v, want 132", got)
	}
	if n := testutil.CollectAndCount(params.Metrics.StageDuration); n != 5 {
		t.Errorf("expected 5 stage series, got %d", n)
	}
}
