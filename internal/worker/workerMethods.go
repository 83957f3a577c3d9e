package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/IngestAPI/internal/config"
	jobmodel "github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/internal/metrics"
)

// executeJob owns one ingestion run from queued to terminal. The run gets a
// fresh root context carrying the trace id; the pipeline applies its own
// timeout inside.
func executeJob(job jobmodel.IngestionJob) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	log := logger.With("traceId", job.TraceId, "jobId", job.Id)
	log.Debug("Processing job", "documentId", job.DocumentId)

	job.Status = jobmodel.JobStatusRunning
	job.UpdatedTime = time.Now()
	saveJobState(ctx, job)

	job = _pipelineService.IngestDocument(ctx, job)

	saveJobState(ctx, job)
	log.Info("Job finished", "status", job.Status, "chunks", job.ChunkCount)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.IngestionJob) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
