// Package batch renders many model objects to webp previews using a
// worker pool.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"wipeout-assets/internal/asset"
	"wipeout-assets/internal/postprocess"
	"wipeout-assets/internal/raster"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds shared settings for a batch run.
type Config struct {
	OutputDir   string
	RenderSize  int
	Supersample int
	WebPQuality int
	Workers     int
	Yaw         float32
	Pitch       float32
}

// Job names one object of one model file.
type Job struct {
	Name        string
	ModelPath   string
	ObjectIndex int
}

// Result holds the outcome of rendering one job.
type Result struct {
	Name    string
	Output  string
	Success bool
	Error   string
}

// Run renders all jobs using cfg.Workers goroutines.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					fmt.Printf("  [%d/%d] %.1f renders/sec\n", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = process(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func process(cfg Config, job Job) Result {
	mesh, table, err := asset.LoadObject(job.ModelPath, job.ObjectIndex)
	if err != nil {
		return Result{Name: job.Name, Error: err.Error()}
	}

	img := raster.Render(mesh, table, cfg.Yaw, cfg.Pitch, cfg.RenderSize*cfg.Supersample)
	img = postprocess.Downsample(img, cfg.RenderSize)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Result{Name: job.Name, Error: err.Error()}
	}
	out := filepath.Join(cfg.OutputDir, job.Name+".webp")
	f, err := os.Create(out)
	if err != nil {
		return Result{Name: job.Name, Error: err.Error()}
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return Result{Name: job.Name, Error: fmt.Sprintf("webp encode: %v", err)}
	}
	return Result{Name: job.Name, Output: out, Success: true}
}
