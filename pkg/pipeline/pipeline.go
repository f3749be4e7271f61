// Package pipeline turns a directory of image slices into segmented objects,
// their outlines, ordered contours and a YAML report.
//
// The stages run in order:
//
//  1. load numbered image slices and threshold them into a binary scene
//  2. extract connected components as objects
//  3. dilate every object and cluster the ones that touch, using an R-tree
//  4. compute outlines and per-plane contours in parallel
//  5. summarise and write the report
package pipeline

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"anchorvoxel/internal/models"
	"anchorvoxel/pkg/config"
	"anchorvoxel/pkg/contour"
	"anchorvoxel/pkg/geometry"
	"anchorvoxel/pkg/kernel"
	"anchorvoxel/pkg/metrics"
	"anchorvoxel/pkg/object"
	"anchorvoxel/pkg/spatial"
	"anchorvoxel/pkg/voxel"
)

// Params holds the pipeline parameters
type Params struct {
	InputDir   string // Directory containing the input slices
	OutputFile string // Path of the YAML report, or empty to skip writing it
	NumCores   int    // Number of workers computing outlines

	Threshold       float64 // Normalised intensity at or above which a pixel is on
	MinObjectVoxels int     // Smaller connected components are dropped
	UseZ            bool    // Connect and dilate across slices

	OutsidePolicy   kernel.OutsideKernelPolicy // Neighbours outside the scene during dilation
	BigNeighborhood bool                       // Dilate with diagonal neighbours

	NumberErosions    int
	Force2D           bool
	OutlineAtBoundary bool

	DilationDistance int             // Growth applied before clustering
	Index            spatial.Options // R-tree fan-out

	SaveIntermediaryResults bool
	IntermediaryDir         string
	Verbose                 bool

	// Metrics receives stage timings and counts when set
	Metrics *metrics.Metrics
}

// ParamsFromConfig builds pipeline parameters from a loaded configuration.
func ParamsFromConfig(cfg *config.Config, inputDir, outputFile, intermediaryDir string) (*Params, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.OutsidePolicy()
	if err != nil {
		return nil, err
	}

	return &Params{
		InputDir:                inputDir,
		OutputFile:              outputFile,
		NumCores:                cfg.Processing.NumCores,
		Threshold:               cfg.Processing.Threshold,
		MinObjectVoxels:         cfg.Processing.MinObjectVoxels,
		UseZ:                    cfg.Processing.UseZ,
		OutsidePolicy:           policy,
		BigNeighborhood:         cfg.Kernel.BigNeighborhood,
		NumberErosions:          cfg.Outline.NumberErosions,
		Force2D:                 cfg.Outline.Force2D,
		OutlineAtBoundary:       cfg.Outline.OutlineAtBoundary,
		DilationDistance:        cfg.Cluster.DilationDistance,
		Index:                   spatial.Options{MinChildren: cfg.Index.MinChildren, MaxChildren: cfg.Index.MaxChildren},
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         intermediaryDir,
		Verbose:                 cfg.Output.Verbose,
	}, nil
}

// Pipeline runs the segmentation stages over one stack of slices
type Pipeline struct {
	params *Params
	logger *log.Logger

	slices []models.Slice
	width  int
	height int

	scene   voxel.BinaryVoxels
	objects *object.ObjectCollection

	// clusterOf maps an object index to its cluster, clusters lists the
	// object indices of every cluster in ascending order.
	clusterOf []int
	clusters  [][]int

	outlines []*object.ObjectMask
	contours [][]contour.SliceContours

	report *models.Report
}

// New creates a pipeline. Progress is logged to stdout when params.Verbose is set.
func New(params *Params) *Pipeline {
	var out io.Writer = io.Discard
	if params.Verbose {
		out = os.Stdout
	}
	return &Pipeline{
		params: params,
		logger: log.New(out, "", log.LstdFlags),
	}
}

// Process runs every stage
func (p *Pipeline) Process() error {
	start := time.Now()

	if p.params.SaveIntermediaryResults {
		if err := os.MkdirAll(p.params.IntermediaryDir, 0755); err != nil {
			return fmt.Errorf("failed to create intermediary directory: %w", err)
		}
	}

	m := p.params.Metrics

	// Step 1: Load and threshold input slices
	p.logger.Println("Step 1: Loading input slices...")
	stageStart := time.Now()
	if err := p.loadSlices(); err != nil {
		return fmt.Errorf("failed to load slices: %w", err)
	}
	p.thresholdSlices()
	m.ObserveStage("load", stageStart)
	p.saveIntermediaryScene("01_threshold", p.scene)

	// Step 2: Extract connected components
	p.logger.Println("Step 2: Extracting objects...")
	stageStart = time.Now()
	p.objects = object.ObjectsFromConnectedComponents(p.scene, p.params.UseZ, p.params.MinObjectVoxels)
	m.ObserveStage("objects", stageStart)
	p.logger.Printf("Found %d objects of at least %d voxels", p.objects.Size(), p.params.MinObjectVoxels)
	p.saveIntermediaryObjects("02_objects", p.objects)

	// Step 3: Cluster objects that touch after dilation
	p.logger.Printf("Step 3: Clustering objects (dilation distance %d)...", p.params.DilationDistance)
	stageStart = time.Now()
	if err := p.clusterObjects(); err != nil {
		return fmt.Errorf("failed to cluster objects: %w", err)
	}
	m.ObserveStage("cluster", stageStart)
	p.logger.Printf("Found %d clusters", len(p.clusters))

	// Step 4: Outlines and contours
	p.logger.Printf("Step 4: Computing outlines with %d workers...", p.params.NumCores)
	stageStart = time.Now()
	if err := p.computeOutlines(); err != nil {
		return fmt.Errorf("failed to compute outlines: %w", err)
	}
	m.ObserveStage("outline", stageStart)
	p.saveIntermediaryObjects("03_outlines", object.NewCollection(p.outlines...))

	// Step 5: Report
	p.logger.Println("Step 5: Writing report...")
	stageStart = time.Now()
	p.report = p.buildReport()
	p.recordMetrics()
	if p.params.OutputFile != "" {
		if err := writeReport(p.report, p.params.OutputFile); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		p.logger.Printf("Report saved to %s", p.params.OutputFile)
	}
	m.ObserveStage("report", stageStart)

	p.logger.Printf("Pipeline completed in %v", time.Since(start))
	return nil
}

// SceneExtent returns the size of the loaded stack.
func (p *Pipeline) SceneExtent() geometry.Extent { return p.scene.Extent() }

// Scene returns the thresholded binary stack.
func (p *Pipeline) Scene() voxel.BinaryVoxels { return p.scene }

// Objects returns the extracted objects in scan order.
func (p *Pipeline) Objects() *object.ObjectCollection { return p.objects }

// Outlines returns the outline of every object, indexed like Objects.
func (p *Pipeline) Outlines() *object.ObjectCollection { return object.NewCollection(p.outlines...) }

// Contours returns the per-plane contours of an object's outline.
func (p *Pipeline) Contours(i int) []contour.SliceContours { return p.contours[i] }

// Clusters returns the object indices of every cluster.
func (p *Pipeline) Clusters() [][]int { return p.clusters }

// Report returns the summary of the last run.
func (p *Pipeline) Report() *models.Report { return p.report }

func (p *Pipeline) recordMetrics() {
	m := p.params.Metrics
	if m == nil {
		return
	}
	m.SetCounts(len(p.slices), len(p.report.Objects), len(p.report.Clusters))
	for _, o := range p.report.Objects {
		closed := 0
		for _, c := range o.Contours {
			if c.Closed {
				closed++
			}
		}
		m.AddOutline(o.OutlineVoxels, closed, len(o.Contours)-closed)
	}
}

// kernelUseZ is set when the stack is deep enough for 3D kernels.
func (p *Pipeline) kernelUseZ() bool {
	return p.params.UseZ && p.scene.Extent().Z >= kernel.MinimumExtent
}
