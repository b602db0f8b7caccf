package compare

import (
	"runtime"
	"sync"

	"design-diff/internal/design"
	"design-diff/internal/raster"
	"design-diff/internal/report"
)

// Inputs are the images and optional design tree of one comparison.
type Inputs struct {
	Expected *raster.Image
	Actual   *raster.Image
	Tree     *design.Node
}

// Job is one independent comparison. When Load is set it is called on the
// worker goroutine and its result replaces Inputs, so at most one job's
// images per worker are held in memory.
type Job struct {
	Name   string
	Inputs Inputs
	Load   func() (Inputs, error)
	Config Config
}

// Outcome is the result of one Job.
type Outcome struct {
	Name   string
	Report *report.DiffReport
	Err    error
}

// Batch runs jobs concurrently on at most workers goroutines. Outcomes are
// returned in job order; a failing job does not affect the others.
// workers <= 0 uses one worker per CPU.
func Batch(jobs []Job, workers int) []Outcome {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]Outcome, len(jobs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[idx] = runJob(jobs[idx])
		}(i)
	}

	wg.Wait()
	return outcomes
}

func runJob(job Job) Outcome {
	in := job.Inputs
	if job.Load != nil {
		var err error
		if in, err = job.Load(); err != nil {
			return Outcome{Name: job.Name, Err: stageErr(StageLoad, err)}
		}
	}
	rep, err := Run(in.Expected, in.Actual, in.Tree, job.Config)
	return Outcome{Name: job.Name, Report: rep, Err: err}
}
