package store

import (
	"context"
	"sync"

	"github.com/akolanti/IngestAPI/internal/domain/docModel"
)

type InMemoryTopicStore struct {
	topicMutex *sync.RWMutex
	topicMap   map[string]docModel.Topic
}

func InitInMemoryTopicStore() *InMemoryTopicStore {
	return &InMemoryTopicStore{
		topicMutex: new(sync.RWMutex),
		topicMap:   make(map[string]docModel.Topic),
	}
}

func (store *InMemoryTopicStore) SaveTopic(ctx context.Context, topic docModel.Topic) error {
	store.topicMutex.Lock()
	defer store.topicMutex.Unlock()
	store.topicMap[topic.Id] = topic
	return nil
}

func (store *InMemoryTopicStore) GetTopic(ctx context.Context, topicId string) (docModel.Topic, bool) {
	store.topicMutex.RLock()
	defer store.topicMutex.RUnlock()
	result, found := store.topicMap[topicId]
	return result, found
}

func (store *InMemoryTopicStore) ListTopicsByUser(ctx context.Context, userId string) ([]docModel.Topic, error) {
	store.topicMutex.RLock()
	defer store.topicMutex.RUnlock()

	var topics []docModel.Topic
	for _, topic := range store.topicMap {
		if topic.UserId == userId {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

func (store *InMemoryTopicStore) DeleteTopic(ctx context.Context, topicId string) error {
	store.topicMutex.Lock()
	defer store.topicMutex.Unlock()
	delete(store.topicMap, topicId)
	return nil
}
