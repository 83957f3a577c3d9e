package handlers

import (
	"net/http"

	"github.com/akolanti/IngestAPI/internal/adapter"
	"github.com/akolanti/IngestAPI/internal/adapter/utils"
	"github.com/akolanti/IngestAPI/internal/api"
)

// GetDocumentHandler godoc
// @Summary      Get document status
// @Description  Retrieves the processing state and progress of a document.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	doc, found := handlerInstance.service.DocumentStore.GetDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(doc))
}

// ListDocumentsHandler godoc
// @Summary      List documents in a topic
// @Tags         Documents
// @Produce      json
// @Param        topic_id  query     string  true  "Topic ID"
// @Success      200  {array}   api.DocumentResponse
// @Failure      400  {object}  api.JobResponse "topic_id is required"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	topicId := r.URL.Query().Get("topic_id")
	if topicId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "topic_id is required")
		return
	}

	docs, err := handlerInstance.service.DocumentStore.ListDocumentsByTopic(r.Context(), topicId)
	if err != nil {
		logRH.Error("Failed to list documents", "topicId", topicId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	responses := make([]api.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, adapter.ToDocumentResponse(doc))
	}
	writeJsonResponse(w, http.StatusOK, responses)
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document record, its vectors and its stored blob.
// @Tags         Documents
// @Param        id   path  string  true  "Document ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  api.JobResponse "Document not found"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	doc, found := handlerInstance.service.DocumentStore.GetDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}

	if err := handlerInstance.pipeline.RemoveDocumentVectors(r.Context(), doc.UserId, doc.TopicId, doc.Id); err != nil {
		logRH.Error("Failed to delete document vectors", "documentId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Vector store error")
		return
	}

	//blob removal is best effort, the vector and record deletes are what matter
	if doc.FileURL != "" && handlerInstance.uploader != nil {
		if err := handlerInstance.uploader.Remove(r.Context(), doc.FileURL); err != nil {
			logRH.Warn("Failed to delete document blob", "documentId", id, "error", err)
		}
	}

	if err := handlerInstance.service.DocumentStore.DeleteDocument(r.Context(), id); err != nil {
		logRH.Error("Failed to delete document record", "documentId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
