package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/internal/metrics"
	"github.com/akolanti/IngestAPI/internal/pipeline/embedding"
	"github.com/akolanti/IngestAPI/internal/pipeline/fetch"
	"github.com/akolanti/IngestAPI/internal/pipeline/vectorDB"
	"github.com/akolanti/IngestAPI/internal/pipeline/vision"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

// Service is all the worker sees. It does not know about parsers, vision
// models or the vector index; it hands in a job and gets the job back with
// a terminal status.
type Service interface {
	IngestDocument(ctx context.Context, job jobModel.IngestionJob) jobModel.IngestionJob
	RemoveDocumentVectors(ctx context.Context, userId string, topicId string, documentId string) error
	RemoveTopicNamespace(ctx context.Context, userId string, topicId string) error
}

type service struct {
	fetcher    fetch.Fetcher
	summarizer vision.Summarizer
	embedder   embedding.Embedder
	vectorDB   vectorDB.VectorStore
	docs       docModel.DocumentStore
	reporter   Reporter
	logger     *logger_i.Logger
}

// NewService constructor
func NewService(fetcher fetch.Fetcher, summarizer vision.Summarizer, em embedding.Embedder, vector vectorDB.VectorStore, docs docModel.DocumentStore, reporter Reporter) Service {
	return &service{
		fetcher:    fetcher,
		summarizer: summarizer,
		embedder:   em,
		vectorDB:   vector,
		docs:       docs,
		reporter:   reporter,
		logger:     logger_i.NewLogger("Ingestion Service :"),
	}
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.IngestionJob) jobModel.IngestionJob {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	runCtx, cancel := context.WithTimeout(ctx, config.PipelineRunTimeout)
	defer cancel()

	chunkCount, err := s.run(runCtx, job)
	if err != nil {
		return s.jobError(ctx, job, err)
	}

	metrics.CaptureIngestSuccess(chunkCount)
	job.Status = jobModel.JobStatusSucceeded
	job.ChunkCount = chunkCount
	job.UpdatedTime = time.Now()
	job.EndTime = job.UpdatedTime
	return job
}

// jobError marks the job failed and mirrors the failure onto the document
// row so both views of the run agree.
func (s *service) jobError(ctx context.Context, job jobModel.IngestionJob, err error) jobModel.IngestionJob {
	s.logger.Error("ingestion run failed", "jobId", job.Id, "documentId", job.DocumentId, "error", err)
	metrics.CaptureFailureMetrics("document_ingestion")

	job.Status = jobModel.JobStatusFailed
	job.Error = jobModel.JobError{Code: http.StatusInternalServerError, Message: err.Error()}
	job.UpdatedTime = time.Now()
	job.EndTime = job.UpdatedTime

	if doc, found := s.docs.GetDocument(ctx, job.DocumentId); found {
		doc.Status = docModel.DocStatusFailed
		doc.ErrorMessage = err.Error()
		doc.UpdatedAt = time.Now()
		if saveErr := s.docs.SaveDocument(ctx, doc); saveErr != nil {
			s.logger.Error("failed to persist document failure", "documentId", job.DocumentId, "error", saveErr)
		}
	}
	return job
}

func (s *service) RemoveDocumentVectors(ctx context.Context, userId string, topicId string, documentId string) error {
	namespace := vectorDB.ResolveNamespace(userId, topicId)
	return s.vectorDB.DeleteByDocument(ctx, namespace, documentId)
}

func (s *service) RemoveTopicNamespace(ctx context.Context, userId string, topicId string) error {
	namespace := vectorDB.ResolveNamespace(userId, topicId)
	return s.vectorDB.DeleteNamespace(ctx, namespace)
}
