package server

import (
	"sync"
	"time"

	"github.com/hyperifyio/proposalcheck/internal/audit"
	"github.com/hyperifyio/proposalcheck/internal/report"
)

// JobStatus represents the state of a check job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one submitted proposal from upload to report.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string
	Status   JobStatus

	CreatedAt time.Time
	UpdatedAt time.Time

	err    string
	result *audit.Result
	meta   *report.Meta
	data   []byte
}

// NewJob creates a queued job for data uploaded as filename.
func NewJob(id, filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Filename:  filename,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		data:      data,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with msg.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.err = msg
	j.data = nil
	j.UpdatedAt = time.Now()
}

// Complete stores the check outcome and releases the uploaded bytes.
func (j *Job) Complete(res audit.Result, meta report.Meta) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.result = &res
	j.meta = &meta
	j.data = nil
	j.UpdatedAt = time.Now()
}

// Data returns the uploaded bytes.
func (j *Job) Data() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.data
}

// Outcome returns the result and metadata once the job completed.
func (j *Job) Outcome() (audit.Result, report.Meta, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil || j.meta == nil {
		return audit.Result{}, report.Meta{}, false
	}
	return *j.result, *j.meta, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string        `json:"job_id"`
	Status    JobStatus     `json:"status"`
	Filename  string        `json:"filename"`
	Error     string        `json:"error,omitempty"`
	Approved  *bool         `json:"approved,omitempty"`
	Result    *audit.Result `json:"result,omitempty"`
	Meta      *report.Meta  `json:"meta,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Snapshot returns a consistent copy of the job.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	snap := JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Filename:  j.Filename,
		Error:     j.err,
		Result:    j.result,
		Meta:      j.meta,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.result != nil {
		approved := j.result.Approved()
		snap.Approved = &approved
	}
	return snap
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{jobs: make(map[string]*Job), ttl: ttl}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes jobs not updated within the TTL and returns how many were
// removed.
func (s *JobStore) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}
