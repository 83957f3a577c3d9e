package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/akolanti/IngestAPI/internal/adapter"
	"github.com/akolanti/IngestAPI/internal/adapter/utils"
	"github.com/akolanti/IngestAPI/internal/api"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
)

// PostTopicHandler godoc
// @Summary      Create a topic
// @Tags         Topics
// @Accept       json
// @Produce      json
// @Param        request  body      api.TopicRequest  true  "Topic name and owning user"
// @Success      201      {object}  api.TopicResponse
// @Failure      400      {object}  api.JobResponse "Invalid request data"
// @Router       /topics [post]
func PostTopicHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.TopicRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.UserId == "" || requestData.Name == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "user_id and name are required")
		return
	}

	topic := docModel.Topic{
		Id:          utils.GetNewUUID(),
		UserId:      requestData.UserId,
		Name:        requestData.Name,
		Description: requestData.Description,
		CreatedAt:   time.Now(),
	}
	if err := handlerInstance.service.TopicStore.SaveTopic(r.Context(), topic); err != nil {
		logRH.Error("Failed to save topic", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	writeJsonResponse(w, http.StatusCreated, adapter.ToTopicResponse(topic))
}

// ListTopicsHandler godoc
// @Summary      List a user's topics
// @Tags         Topics
// @Produce      json
// @Param        user_id  query     string  true  "User ID"
// @Success      200  {array}   api.TopicResponse
// @Failure      400  {object}  api.JobResponse "user_id is required"
// @Router       /topics [get]
func ListTopicsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	userId := r.URL.Query().Get("user_id")
	if userId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "user_id is required")
		return
	}

	topics, err := handlerInstance.service.TopicStore.ListTopicsByUser(r.Context(), userId)
	if err != nil {
		logRH.Error("Failed to list topics", "userId", userId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}

	responses := make([]api.TopicResponse, 0, len(topics))
	for _, topic := range topics {
		responses = append(responses, adapter.ToTopicResponse(topic))
	}
	writeJsonResponse(w, http.StatusOK, responses)
}

// GetTopicHandler godoc
// @Summary      Get a topic
// @Tags         Topics
// @Produce      json
// @Param        id   path      string  true  "Topic ID"
// @Success      200  {object}  api.TopicResponse
// @Failure      404  {object}  api.JobResponse "Topic not found"
// @Router       /topics/{id} [get]
func GetTopicHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	topic, found := handlerInstance.service.TopicStore.GetTopic(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Topic not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToTopicResponse(topic))
}

// DeleteTopicHandler godoc
// @Summary      Delete a topic
// @Description  Drops the topic's vector namespace and removes its documents and the topic record.
// @Tags         Topics
// @Param        id   path  string  true  "Topic ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  api.JobResponse "Topic not found"
// @Router       /topics/{id} [delete]
func DeleteTopicHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	topic, found := handlerInstance.service.TopicStore.GetTopic(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Topic not found")
		return
	}

	if err := handlerInstance.pipeline.RemoveTopicNamespace(r.Context(), topic.UserId, topic.Id); err != nil {
		logRH.Error("Failed to drop topic namespace", "topicId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Vector store error")
		return
	}

	docs, err := handlerInstance.service.DocumentStore.ListDocumentsByTopic(r.Context(), id)
	if err != nil {
		logRH.Error("Failed to list topic documents for delete", "topicId", id, "error", err)
	}
	for _, doc := range docs {
		if err := handlerInstance.service.DocumentStore.DeleteDocument(r.Context(), doc.Id); err != nil {
			logRH.Error("Failed to delete topic document", "documentId", doc.Id, "error", err)
		}
	}

	if err := handlerInstance.service.TopicStore.DeleteTopic(r.Context(), id); err != nil {
		logRH.Error("Failed to delete topic record", "topicId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
