package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/blob"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/internal/job"
	"github.com/akolanti/IngestAPI/internal/metrics"
	"github.com/akolanti/IngestAPI/internal/pipeline"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service  *job.Service
	pipeline pipeline.Service
	uploader blob.Uploader
}

type newJobData struct {
	id         string
	userId     string
	topicId    string
	documentId string
	traceId    string
}

func InitJobHandler(jobService *job.Service, pipelineService pipeline.Service, uploader blob.Uploader) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service:  jobService,
			pipeline: pipelineService,
			uploader: uploader,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.IngestionJob, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.IngestionJob{
		Id:          newJob.id,
		UserId:      newJob.userId,
		TopicId:     newJob.topicId,
		DocumentId:  newJob.documentId,
		TraceId:     newJob.traceId,
		Status:      jobModel.JobStatusQueued,
		CreatedTime: time.Now(),
		UpdatedTime: time.Now(),
	}

	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	if err := h.service.JobStore.SaveJob(ctxC, _job); err != nil {
		logJH.Error("Failed to persist queued job", "jobId", _job.Id, "error", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//every ingestion is a long batch-heavy run, so each queued job also
	//signals the dispatcher; idle workers retire on their own
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	metrics.StartDispatcherSignalCount()
	logJH.Debug("Request count ", "count", accurateCount)
	select {
	case h.service.DispatcherChannel <- true:
	default:
	}
}
