package server

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/proposalcheck/internal/audit"
	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/extract"
	"github.com/hyperifyio/proposalcheck/internal/report"
)

// Checker runs the proposal checks on an extracted document.
type Checker interface {
	Check(ctx context.Context, doc document.Document, source string) (audit.Result, report.Meta)
}

// OrchestratorConfig sizes the worker pool.
type OrchestratorConfig struct {
	Workers   int
	QueueSize int
	JobTTL    time.Duration
	// CleanupInterval defaults to five minutes.
	CleanupInterval time.Duration
}

// Orchestrator queues jobs and runs them on a fixed pool of workers.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	checker Checker
	cfg     OrchestratorConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pool. Call Start before submitting jobs.
func NewOrchestrator(cfg OrchestratorConfig, checker Checker) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 64
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.QueueSize),
		checker: checker,
		cfg:     cfg,
	}
}

// Start launches worker goroutines and the job store cleanup.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.Workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(workerCtx, job)
				}
			}
		}()
	}

	if o.cfg.JobTTL > 0 {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			ticker := time.NewTicker(o.cfg.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case now := <-ticker.C:
					if n := o.jobs.Cleanup(now); n > 0 {
						log.Debug().Int("removed", n).Msg("expired jobs removed")
					}
				}
			}
		}()
	}
}

// Stop cancels in-flight work and waits for the workers to exit.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a job for processing. A full queue fails the job.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.QueueSize)
	}
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

func (o *Orchestrator) process(ctx context.Context, job *Job) {
	l := log.With().Str("job_id", job.ID).Str("filename", job.Filename).Logger()
	job.SetStatus(StatusRunning)

	doc, err := extract.FromReader(bytes.NewReader(job.Data()), job.Filename)
	if err != nil {
		l.Warn().Err(err).Msg("extraction failed")
		job.Fail(fmt.Sprintf("extract: %s", err))
		return
	}
	start := time.Now()
	res, meta := o.checker.Check(ctx, doc, job.Filename)
	job.Complete(res, meta)
	l.Info().Dur("elapsed", time.Since(start)).Bool("approved", res.Approved()).Msg("job completed")
}
