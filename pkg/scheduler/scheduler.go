package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
)

// Job is an independently invocable, idempotent batch function
type Job func(ctx context.Context) error

// Runner drives named jobs on fixed intervals. It carries no business
// state; the jobs themselves stay callable from any external trigger.
type Runner struct {
	logger *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a new interval runner
func NewRunner(log *logger.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every runs job under the given name once per interval until Stop is
// called. A failing run is logged and does not stop the schedule.
func (r *Runner) Every(interval time.Duration, name string, job Job) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		r.logger.Infof("Scheduled job %s every %s", name, interval)

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.run(name, job)
			}
		}
	}()
}

// run invokes one job, keeping the schedule alive across errors and panics
func (r *Runner) run(name string, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("Scheduled job %s panicked: %v", name, rec)
		}
	}()

	if err := job(r.ctx); err != nil {
		r.logger.Errorf("Scheduled job %s failed: %v", name, err)
	}
}

// Stop cancels all schedules and waits for running jobs to finish
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}
