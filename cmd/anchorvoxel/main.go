package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"anchorvoxel/internal/database"
	"anchorvoxel/pkg/config"
	"anchorvoxel/pkg/metrics"
	"anchorvoxel/pkg/pipeline"
	"anchorvoxel/pkg/visualization"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing numbered 2D image slices")
	configPath := flag.String("config", "anchorvoxel.yaml", "Configuration file (defaults are used if it does not exist)")
	createConfig := flag.Bool("create-config", false, "Write a default configuration file to -config and exit")
	outputPath := flag.String("output", "report.yaml", "Output YAML report")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (default: from the configuration)")
	extractSlices := flag.Bool("extract-slices", false, "Render object outlines and save them along all axes")
	slicesDir := flag.String("slices-dir", "outline_slices", "Directory to save rendered outline slices")
	saveIntermediary := flag.Bool("save-intermediary", false, "Save intermediary results during processing")
	intermediaryDir := flag.String("intermediary-dir", "intermediary_results", "Directory to save intermediary results")
	dbPath := flag.String("db", "", "SQLite database to record the run in (optional)")
	metricsFile := flag.String("metrics-file", "", "Write Prometheus metrics of the run to this textfile (optional)")
	flag.Parse()

	if *createConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to create config file: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *numCores > 0 {
		cfg.Processing.NumCores = *numCores
	}
	if *saveIntermediary {
		cfg.Output.SaveIntermediaryResults = true
	}

	fmt.Println("================================")
	fmt.Println("ANCHORVOXEL: OBJECT OUTLINES AND CONTOURS FROM 2D IMAGE SLICES")
	fmt.Println("================================")

	params, err := pipeline.ParamsFromConfig(cfg, *inputDir, *outputPath, *intermediaryDir)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var reg *prometheus.Registry
	if *metricsFile != "" {
		reg = prometheus.NewRegistry()
		params.Metrics = metrics.New(reg)
	}

	p := pipeline.New(params)

	startTime := time.Now()
	if err := p.Process(); err != nil {
		log.Fatalf("Processing failed: %v", err)
	}
	processingTime := time.Since(startTime)

	stats := p.Report().Statistics
	fmt.Printf("\nProcessing completed successfully in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Report saved to: %s\n\n", *outputPath)

	fmt.Printf("Summary:\n")
	fmt.Printf("========\n")
	fmt.Printf("Objects: %d in %d clusters\n", stats.Objects, stats.Clusters)
	fmt.Printf("Voxels: %d (mean %.1f, median %.1f, std dev %.1f per object)\n",
		stats.TotalVoxels, stats.MeanVoxels, stats.MedianVoxels, stats.StdDevVoxels)
	fmt.Printf("Outline voxels: %d\n", stats.OutlineVoxels)
	fmt.Printf("Contours: %d closed, %d open\n", stats.ClosedContours, stats.OpenContours)
	fmt.Printf("Used %d cores\n", cfg.Processing.NumCores)

	if *dbPath != "" {
		if err := saveRun(*dbPath, p); err != nil {
			log.Printf("Warning: Failed to record run: %v", err)
		}
	}

	if reg != nil {
		if err := metrics.WriteTextfile(*metricsFile, reg); err != nil {
			log.Printf("Warning: Failed to write metrics: %v", err)
		} else {
			fmt.Printf("Metrics written to: %s\n", *metricsFile)
		}
	}

	if *extractSlices {
		fmt.Println("\nRendering outlines along all axes...")

		viewer, err := visualization.NewViewer(p.SceneExtent(), p.Outlines())
		if err != nil {
			log.Fatalf("Failed to render outlines: %v", err)
		}

		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(*slicesDir, axis)
			fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)

			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				log.Printf("Warning: Failed to save %s-axis slices: %v", axis, err)
			}
		}

		fmt.Println("Slice extraction completed!")
	}

	if cfg.Output.SaveIntermediaryResults {
		fmt.Println("\nIntermediary results saved to:")
		fmt.Printf("%s\n", *intermediaryDir)
		fmt.Println("The following stages were saved:")
		fmt.Println("- 01_threshold: Thresholded binary slices")
		fmt.Println("- 02_objects: Connected components, one gray level per object")
		fmt.Println("- 03_outlines: Object outlines")
	}
}

func saveRun(path string, p *pipeline.Pipeline) error {
	db, err := database.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}
	runID, err := db.SaveReport(p.Report())
	if err != nil {
		return err
	}
	fmt.Printf("Run recorded in %s with ID %d\n", path, runID)
	return nil
}
