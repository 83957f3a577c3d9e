package store

import (
	"context"
	"sync"

	"github.com/akolanti/IngestAPI/internal/domain/docModel"
)

type InMemoryDocumentStore struct {
	docMutex *sync.RWMutex
	docMap   map[string]docModel.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docMutex: new(sync.RWMutex),
		docMap:   make(map[string]docModel.Document),
	}
}

func (store *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	store.docMap[doc.Id] = doc
	return nil
}

func (store *InMemoryDocumentStore) GetDocument(ctx context.Context, documentId string) (docModel.Document, bool) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	result, found := store.docMap[documentId]
	return result, found
}

func (store *InMemoryDocumentStore) ListDocumentsByTopic(ctx context.Context, topicId string) ([]docModel.Document, error) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()

	var docs []docModel.Document
	for _, doc := range store.docMap {
		if doc.TopicId == topicId {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (store *InMemoryDocumentStore) DeleteDocument(ctx context.Context, documentId string) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	delete(store.docMap, documentId)
	return nil
}
