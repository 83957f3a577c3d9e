package job

import (
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
)

type Service struct {
	JobChannel        chan jobModel.IngestionJob
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	DocumentStore     docModel.DocumentStore
	TopicStore        docModel.TopicStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.IngestionJob
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	DocumentStore     docModel.DocumentStore
	TopicStore        docModel.TopicStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		DocumentStore:     cfg.DocumentStore,
		TopicStore:        cfg.TopicStore,
	}
}
