// Package jobs tracks background index builds so the API can accept a
// build request, return immediately, and let callers poll for status.
package jobs

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/araffali/product-indexer/internal/errors"
	"github.com/araffali/product-indexer/model"
)

// Manager handles background job execution and tracking.
type Manager struct {
	mu       sync.RWMutex
	log      *slog.Logger
	jobs     map[string]*model.Job
	workers  chan struct{} // limits concurrent jobs
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager creates a job manager allowing maxWorkers concurrent jobs.
func NewManager(maxWorkers int, logger *slog.Logger) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Manager{
		log:      logger.With("component", "jobs"),
		jobs:     make(map[string]*model.Job),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
	}
}

// Stop refuses new work and waits for running jobs to finish.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()
	m.log.Info("job manager stopped")
}

// CreateJob registers a new pending job and returns its ID.
func (m *Manager) CreateJob(jobType model.JobType, inputPath string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		InputPath: inputPath,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
	m.jobs[job.ID] = job
	m.log.Info("created job", "job_id", job.ID, "type", job.Type, "input", job.InputPath)
	return job.ID
}

// GetJob retrieves a copy of a job by ID.
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs returns copies of all jobs, optionally filtered by status.
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			jobCopy := *job
			result = append(result, &jobCopy)
		}
	}
	return result
}

// Execute runs a pending job's work function on a worker slot and
// tracks its outcome.
func (m *Manager) Execute(jobID string, work func() error) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not pending (current: %s)", jobID, job.Status)
	}
	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	m.mu.Unlock()

	select {
	case m.workers <- struct{}{}:
	case <-m.stopChan:
		m.finishJob(jobID, model.JobStatusFailed, "job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			<-m.workers
			m.wg.Done()
		}()

		start := time.Now()
		err := work()
		elapsed := time.Since(start)

		if err != nil {
			m.finishJob(jobID, model.JobStatusFailed, err.Error())
			m.log.Error("job failed", "job_id", jobID, "elapsed", elapsed, "error", err)
		} else {
			m.finishJob(jobID, model.JobStatusCompleted, "")
			m.log.Info("job completed", "job_id", jobID, "elapsed", elapsed)
		}
	}()

	return nil
}

func (m *Manager) finishJob(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	now := time.Now()
	job.CompletedAt = &now
}

// CleanupOldJobs removes finished jobs older than maxAge.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}
	if cleaned > 0 {
		m.log.Info("cleaned up old jobs", "count", cleaned)
	}
}
