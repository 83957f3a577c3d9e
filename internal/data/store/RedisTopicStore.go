package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/redisStore"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

type RedisTopicStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisTopicStore(ctx context.Context) *RedisTopicStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisTopicStore)
	if backing == nil {
		return nil
	}
	return &RedisTopicStore{
		store:  backing,
		logger: logger_i.NewLogger("TopicStore"),
	}
}

func topicUserIndexKey(userId string) string {
	return "user_topics:" + userId
}

func (s *RedisTopicStore) SaveTopic(ctx context.Context, topic docModel.Topic) error {
	data, err := json.Marshal(topic)
	if err != nil {
		return err
	}

	if err := s.store.Set(ctx, topic.Id, data, 0); err != nil {
		return err
	}
	if err := s.store.SetAdd(ctx, topicUserIndexKey(topic.UserId), topic.Id); err != nil {
		s.logger.Error("failed to index topic by user", "topicId", topic.Id, "error", err)
	}
	return nil
}

func (s *RedisTopicStore) GetTopic(ctx context.Context, topicId string) (docModel.Topic, bool) {
	var topic docModel.Topic
	val, err := s.store.Get(ctx, topicId)
	if s.store.IsNil(err) || err != nil {
		return topic, false
	}
	if err := json.Unmarshal([]byte(val), &topic); err != nil {
		return topic, false
	}
	return topic, true
}

func (s *RedisTopicStore) ListTopicsByUser(ctx context.Context, userId string) ([]docModel.Topic, error) {
	ids, err := s.store.SetMembers(ctx, topicUserIndexKey(userId))
	if err != nil {
		return nil, err
	}

	topics := make([]docModel.Topic, 0, len(ids))
	for _, id := range ids {
		if topic, found := s.GetTopic(ctx, id); found {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

func (s *RedisTopicStore) DeleteTopic(ctx context.Context, topicId string) error {
	if topic, found := s.GetTopic(ctx, topicId); found {
		if err := s.store.SetRemove(ctx, topicUserIndexKey(topic.UserId), topicId); err != nil {
			s.logger.Error("Error removing topic from user index", "topicId", topicId, "error", err)
		}
	}
	return s.store.Del(ctx, topicId)
}

func TestTopicStore(store *redisStore.Store) *RedisTopicStore {
	return &RedisTopicStore{
		store:  store,
		logger: logger_i.NewLogger("test topic store"),
	}
}
