package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wipeout-assets/internal/batch"
	"wipeout-assets/internal/config"
	"wipeout-assets/internal/prm"
	"wipeout-assets/internal/ships"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N ships for testing")
	ship := flag.String("ship", "", "Render only the ship with this name")
	model := flag.String("model", "", "Render every object of this .prm file instead of the ship roster")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to game data directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/renders)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	yaw := flag.Float64("yaw", 30, "Model yaw in degrees")
	pitch := flag.Float64("pitch", -20, "Model pitch in degrees")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		OutputDir: *outputDir,
		Quality:   *quality,
		Workers:   *workers,
	})

	var jobs []batch.Job
	if *model != "" {
		var err error
		jobs, err = modelJobs(*model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if cfg.DataDir == "" {
			fmt.Fprintln(os.Stderr, "Error: cannot find game data directory. Use -data flag or config.json.")
			os.Exit(1)
		}
		modelPath := cfg.ShipModelPath()
		for _, s := range ships.Roster {
			if *ship != "" && s.Name != *ship {
				continue
			}
			jobs = append(jobs, batch.Job{
				Name:        s.Name,
				ModelPath:   modelPath,
				ObjectIndex: s.ObjectIndex,
			})
		}
	}

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	if len(jobs) == 0 {
		fmt.Println("Nothing to render.")
		os.Exit(0)
	}

	// Print summary
	mode := ""
	if *ship != "" {
		mode = fmt.Sprintf(" (%s)", *ship)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Wipeout PRM 3D Renderer → WebP%s\n", mode)
	fmt.Printf("Objects: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		WebPQuality: cfg.WebPQuality,
		Workers:     cfg.Workers,
		Yaw:         float32(*yaw),
		Pitch:       float32(*pitch),
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
		os.Exit(1)
	}
}

// modelJobs expands a single .prm file into one job per packed object.
func modelJobs(path string) ([]batch.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meshes, err := prm.DecodeAll(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	jobs := make([]batch.Job, len(meshes))
	for i, m := range meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("object%02d", i)
		}
		jobs[i] = batch.Job{
			Name:        fmt.Sprintf("%s-%s", base, name),
			ModelPath:   path,
			ObjectIndex: i,
		}
	}
	return jobs, nil
}
