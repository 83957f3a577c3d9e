package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/akolanti/IngestAPI/internal/adapter"
	"github.com/akolanti/IngestAPI/internal/adapter/utils"
	"github.com/akolanti/IngestAPI/internal/api"
	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// PostIngestHandler godoc
// @Summary      Trigger document ingestion
// @Description  Queues a background pipeline run for an uploaded document or an external file URL and returns a job ID to track status.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestRequest    true  "User, topic and document (or file URL) to ingest"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Failure      404      {object}  api.JobResponse      "Document not found"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, request *http.Request) {

	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.IngestRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the Ingest handler reader", "error", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !validateIngestRequest(requestData) {
		logRH.Warn("Bad Ingest Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.DocumentId, "Bad Request")
		return
	}

	traceId := request.Context().Value(config.TRACE_ID_KEY).(string)

	documentId, httpCode, errMessage := resolveIngestDocument(request, requestData)
	if errMessage != "" {
		WriteErrorResponse(w, httpCode, requestData.DocumentId, errMessage)
		return
	}

	newJob := newJobData{
		id:         utils.GetNewUUID(),
		userId:     requestData.UserId,
		topicId:    requestData.TopicId,
		documentId: documentId,
		traceId:    traceId,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific ingestion job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostUploadHandler godoc
// @Summary      Upload a document
// @Description  Receives a file via multipart/form-data, stores it in blob storage, and registers a pending document. Ingestion starts with a separate /ingest call.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        user_id   formData  string  true  "Owning user"
// @Param        topic_id  formData  string  true  "Topic the document belongs to"
// @Param        document  formData  file    true  "The file to upload"
// @Success      201  {object}  api.UploadResponse "Created - returns document_id and file_url"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage error"
// @Router       /upload [post]
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	userId := r.FormValue("user_id")
	topicId := r.FormValue("topic_id")
	if userId == "" || topicId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "user_id and topic_id are required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	data, err := io.ReadAll(fileReader)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Read error")
		return
	}

	documentId := utils.GetNewUUID()
	contentType := fileMetadata.Header.Get("Content-Type")
	fileURL, err := handlerInstance.uploader.Upload(r.Context(), documentId, fileMetadata.Filename, contentType, data)
	if err != nil {
		logRH.Error("Blob upload failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	doc := docModel.Document{
		Id:        documentId,
		UserId:    userId,
		TopicId:   topicId,
		FileName:  fileMetadata.Filename,
		FileURL:   fileURL,
		Status:    docModel.DocStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := handlerInstance.service.DocumentStore.SaveDocument(r.Context(), doc); err != nil {
		logRH.Error("Failed to save document record", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Storage error")
		return
	}

	writeJsonResponse(w, http.StatusCreated, api.UploadResponse{DocumentId: documentId, FileURL: fileURL})
}

func validateIngestRequest(req api.IngestRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if req.UserId == "" || req.TopicId == "" {
		return false
	}
	return req.DocumentId != "" || req.FileURL != ""
}

// resolveIngestDocument returns the document to run the pipeline on. An
// external file URL gets a fresh pending document row first.
func resolveIngestDocument(r *http.Request, req api.IngestRequest) (documentId string, httpCode int, errMessage string) {
	ctx := r.Context()

	if req.DocumentId != "" {
		doc, found := handlerInstance.service.DocumentStore.GetDocument(ctx, req.DocumentId)
		if !found {
			return "", http.StatusNotFound, "Document not found"
		}
		if doc.UserId != req.UserId || doc.TopicId != req.TopicId {
			return "", http.StatusNotFound, "Document not found"
		}
		return doc.Id, 0, ""
	}

	fileName := req.FileName
	if fileName == "" {
		if parsed, err := url.Parse(req.FileURL); err == nil {
			fileName = path.Base(parsed.Path)
		}
	}

	doc := docModel.Document{
		Id:        utils.GetNewUUID(),
		UserId:    req.UserId,
		TopicId:   req.TopicId,
		FileName:  fileName,
		FileURL:   req.FileURL,
		Status:    docModel.DocStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := handlerInstance.service.DocumentStore.SaveDocument(ctx, doc); err != nil {
		logRH.Error("Failed to save document record", "error", err)
		return "", http.StatusInternalServerError, "Storage error"
	}
	return doc.Id, 0, ""
}
