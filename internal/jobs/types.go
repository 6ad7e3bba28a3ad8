// Package jobs defines the asynchronous analysis job model and the queue
// abstractions behind it. The interfaces keep the API layer independent of
// the queue implementation.
package jobs

import (
	"context"
	"time"
)

// JobType identifies the kind of work a job carries.
type JobType string

const (
	// JobTypeAnalyzeDocument runs the full analysis pipeline for one
	// uploaded document.
	JobTypeAnalyzeDocument JobType = "analyze_document"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// AnalyzeDocumentJob asks a worker to run the analysis pipeline for one
// document and commit the resulting snapshot.
type AnalyzeDocumentJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// DocumentID is the uploaded document to analyze.
	DocumentID string `json:"document_id"`

	// DocumentName is the display name used for titles and logging.
	DocumentName string `json:"document_name"`

	// SnapshotID is set once the pipeline has committed a snapshot.
	SnapshotID string `json:"snapshot_id,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *AnalyzeDocumentJob) GetID() string        { return j.JobID }
func (j *AnalyzeDocumentJob) GetType() JobType     { return JobTypeAnalyzeDocument }
func (j *AnalyzeDocumentJob) GetStatus() JobStatus { return j.Status }

// Publisher publishes jobs to a queue. The abstraction allows swapping the
// in-memory queue for a broker without touching the handlers.
type Publisher interface {
	// PublishAnalyzeDocument publishes one analysis job.
	PublishAnalyzeDocument(ctx context.Context, job *AnalyzeDocumentJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer consumes jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs. The handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed;
// whether it is retried depends on the error's classification.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state so clients can poll progress.
type JobStore interface {
	SaveJob(ctx context.Context, job *AnalyzeDocumentJob) error
	GetJob(ctx context.Context, jobID string) (*AnalyzeDocumentJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*AnalyzeDocumentJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// DocumentID filters jobs by document ID.
	DocumentID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
