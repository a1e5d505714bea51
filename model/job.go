package model

import (
	"time"
)

// JobStatus represents the status of a background build job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobType represents the type of job being executed
type JobType string

const (
	JobTypeBuildIndexes  JobType = "build_indexes"
	JobTypeExportIndexes JobType = "export_indexes"
)

// Job represents a long-running background operation, such as building
// the index set from an input corpus.
type Job struct {
	ID          string            `json:"id"`
	Type        JobType           `json:"type"`
	Status      JobStatus         `json:"status"`
	InputPath   string            `json:"input_path,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Duration returns the job's execution time, or zero if it has not
// both started and completed.
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}
