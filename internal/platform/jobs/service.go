package jobs

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of batch work, identified by name for logging.
type Task struct {
	Name string
	Run  func(context.Context) error
}

// Result records one task outcome.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Runner executes batches of independent tasks with bounded concurrency.
// Failures are collected per task rather than short-circuiting: one bad
// pay period input must not abort the rest of a pay run.
type Runner struct {
	workers int
}

func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers}
}

func (r *Runner) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			start := time.Now()
			err := task.Run(ctx)
			results[i] = Result{Name: task.Name, Err: err, Duration: time.Since(start)}
			if err != nil {
				slog.Warn("batch task failed", "task", task.Name, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
