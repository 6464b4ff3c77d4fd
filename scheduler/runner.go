package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled task. Jobs are independent failure domains: a panic or
// error in one never stops or delays the others, or future runs of itself.
type Job struct {
	Name string
	Spec string // cron expression or @every interval
	Run  func(ctx context.Context) error
}

// Runner drives the static job table on a single cron instance.
type Runner struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(log *slog.Logger) *Runner {
	return &Runner{
		cron: cron.New(),
		log:  log,
	}
}

// Register wires jobs into the cron schedule, each wrapped in isolated
// failure handling.
func (r *Runner) Register(jobs []Job) error {
	for _, job := range jobs {
		job := job
		_, err := r.cron.AddFunc(job.Spec, func() {
			r.runOne(job)
		})
		if err != nil {
			return err
		}
		r.log.Info("job registered", "job", job.Name, "spec", job.Spec)
	}
	return nil
}

func (r *Runner) runOne(job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("job panicked", "job", job.Name, "panic", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		r.log.Error("job failed", "job", job.Name, "error", err)
		return
	}
	r.log.Info("job finished", "job", job.Name, "duration_ms", time.Since(start).Milliseconds())
}

func (r *Runner) Start() { r.cron.Start() }

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}
