package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/IngestAPI/internal/api"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.IngestionJob) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:     string(job.Status),
		ChunkCount: job.ChunkCount,
	}

	return api.JobResponse{
		Id:         job.Id,
		DocumentId: job.DocumentId,
		StartTime:  job.CreatedTime,
		EndTime:    job.EndTime,
		Error:      errorPtr,
		Result:     result,
	}
}

func ToDocumentResponse(doc docModel.Document) api.DocumentResponse {
	return api.DocumentResponse{
		Id:              doc.Id,
		TopicId:         doc.TopicId,
		FileName:        doc.FileName,
		FileType:        doc.FileType,
		Status:          string(doc.Status),
		ProcessingStage: string(doc.ProcessingStage),
		ProgressPercent: doc.ProgressPercent,
		StageDetails:    doc.StageDetails,
		ChunkCount:      doc.ChunkCount,
		ErrorMessage:    doc.ErrorMessage,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func ToTopicResponse(topic docModel.Topic) api.TopicResponse {
	return api.TopicResponse{
		Id:          topic.Id,
		Name:        topic.Name,
		Description: topic.Description,
		CreatedAt:   topic.CreatedAt,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
