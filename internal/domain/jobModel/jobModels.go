package jobModel

import (
	"context"
	"time"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// IngestionJob tracks one triggered upload through the pipeline. The keys
// are immutable after creation; only the orchestrator moves the status.
type IngestionJob struct {
	Id          string    `json:"id"`
	UserId      string    `json:"user_id"`
	TopicId     string    `json:"topic_id"`
	DocumentId  string    `json:"document_id"`
	TraceId     string    `json:"trace_id"`
	Status      JobStatus `json:"status"`
	ChunkCount  int       `json:"chunk_count,omitempty"`
	Error       JobError  `json:"error,omitempty"`
	CreatedTime time.Time `json:"created_time"`
	UpdatedTime time.Time `json:"updated_time"`
	EndTime     time.Time `json:"end_time,omitempty"`
}

func (j IngestionJob) IsTerminal() bool {
	return j.Status == JobStatusSucceeded || j.Status == JobStatusFailed
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (IngestionJob, bool)
	SaveJob(ctx context.Context, job IngestionJob) error
	ListJobsByUser(ctx context.Context, userId string) ([]IngestionJob, error)
	DeleteJob(ctx context.Context, jobID string)
}
