package docModel

import (
	"context"
	"time"
)

type DocStatus string

const (
	DocStatusPending    DocStatus = "pending"
	DocStatusProcessing DocStatus = "processing"
	DocStatusDone       DocStatus = "done"
	DocStatusFailed     DocStatus = "failed"
)

// Stage is the pipeline position a document is currently in. The sequence
// is strictly linear; there are no backward transitions.
type Stage string

const (
	StageDownloading Stage = "downloading"
	StageDetecting   Stage = "detecting"
	StageParsing     Stage = "parsing"
	StageChunking    Stage = "chunking"
	StageVision      Stage = "vision"
	StageEmbedding   Stage = "embedding"
	StageStoring     Stage = "storing"
	StageDone        Stage = "done"
)

// Document is the status row external callers poll (or watch) while a file
// is being ingested. Only the orchestrator mutates it during a run.
type Document struct {
	Id              string    `json:"id"`
	UserId          string    `json:"user_id"`
	TopicId         string    `json:"topic_id"`
	FileName        string    `json:"file_name"`
	FilePath        string    `json:"file_path,omitempty"`
	FileURL         string    `json:"file_url"`
	FileType        string    `json:"file_type,omitempty"`
	Status          DocStatus `json:"status"`
	ProcessingStage Stage     `json:"processing_stage,omitempty"`
	ProgressPercent int       `json:"progress_percent"`
	StageDetails    string    `json:"stage_details,omitempty"`
	ChunkCount      int       `json:"chunk_count"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Topic struct {
	Id          string    `json:"id"`
	UserId      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, documentId string) (Document, bool)
	ListDocumentsByTopic(ctx context.Context, topicId string) ([]Document, error)
	DeleteDocument(ctx context.Context, documentId string) error
}

type TopicStore interface {
	SaveTopic(ctx context.Context, topic Topic) error
	GetTopic(ctx context.Context, topicId string) (Topic, bool)
	ListTopicsByUser(ctx context.Context, userId string) ([]Topic, error)
	DeleteTopic(ctx context.Context, topicId string) error
}
