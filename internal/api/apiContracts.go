package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id         string            `json:"id" example:"job_cz109"`
	DocumentId string            `json:"document_id,omitempty" example:"doc_881"`
	Result     Result            `json:"result"`
	Error      *JobOutgoingError `json:"error,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type UploadResponse struct {
	DocumentId string `json:"document_id"`
	FileURL    string `json:"file_url"`
}

type DocumentResponse struct {
	Id              string    `json:"id"`
	TopicId         string    `json:"topic_id"`
	FileName        string    `json:"file_name"`
	FileType        string    `json:"file_type,omitempty"`
	Status          string    `json:"status"`
	ProcessingStage string    `json:"processing_stage,omitempty"`
	ProgressPercent int       `json:"progress_percent"`
	StageDetails    string    `json:"stage_details,omitempty"`
	ChunkCount      int       `json:"chunk_count"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TopicResponse struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// requests---------------------

type IngestRequest struct {
	UserId     string `json:"user_id" validate:"required"`
	TopicId    string `json:"topic_id" validate:"required"`
	DocumentId string `json:"document_id,omitempty"`
	FileURL    string `json:"file_url,omitempty"`
	FileName   string `json:"file_name,omitempty"`
}

type TopicRequest struct {
	UserId      string `json:"user_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}
