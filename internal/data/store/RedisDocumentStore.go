package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/redisStore"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

// RedisDocumentStore keeps document rows without a TTL; unlike jobs they
// are the durable record of what lives in the vector index.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if backing == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  backing,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func docTopicIndexKey(topicId string) string {
	return "topic_docs:" + topicId
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, doc.Id, data, 0); err != nil {
		return err
	}
	if err := s.store.SetAdd(ctx, docTopicIndexKey(doc.TopicId), doc.Id); err != nil {
		s.logger.Error("failed to index document by topic", "documentId", doc.Id, "error", err)
	}
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, documentId string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, documentId)
	if s.store.IsNil(err) || err != nil {
		return doc, false
	}
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) ListDocumentsByTopic(ctx context.Context, topicId string) ([]docModel.Document, error) {
	ids, err := s.store.SetMembers(ctx, docTopicIndexKey(topicId))
	if err != nil {
		return nil, err
	}

	docs := make([]docModel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, documentId string) error {
	if doc, found := s.GetDocument(ctx, documentId); found {
		if err := s.store.SetRemove(ctx, docTopicIndexKey(doc.TopicId), documentId); err != nil {
			s.logger.Error("Error removing document from topic index", "documentId", documentId, "error", err)
		}
	}
	return s.store.Del(ctx, documentId)
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test document store"),
	}
}
