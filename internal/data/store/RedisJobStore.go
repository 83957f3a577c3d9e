package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/redisStore"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisJobStore(ctx context.Context) *RedisJobStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisJobStore)
	if backing == nil {
		return nil
	}
	return &RedisJobStore{
		store:  backing,
		logger: logger_i.NewLogger("JobStore"),
	}
}

func jobUserIndexKey(userId string) string {
	return "user_jobs:" + userId
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.IngestionJob) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", job.Id)
	log.Debug("saving job")
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, job.Id, data, config.RedisJobStoreTTL)
	if err != nil {
		return err
	}
	//index keys are not expired; stale members are skipped on read
	if err := s.store.SetAdd(ctx, jobUserIndexKey(job.UserId), job.Id); err != nil {
		log.Error("failed to index job by user", "error", err)
	}
	log.Debug("Saved job to Redis")
	return nil
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.IngestionJob, bool) {
	var job jobModel.IngestionJob
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)
	val, err := s.store.Get(ctx, jobId)
	if s.store.IsNil(err) {
		return job, false
	} else if err != nil {
		return job, false
	}

	err = json.Unmarshal([]byte(val), &job)
	if err != nil {
		return job, false
	}

	log.Debug("Job found in Redis")
	return job, true
}

func (s *RedisJobStore) ListJobsByUser(ctx context.Context, userId string) ([]jobModel.IngestionJob, error) {
	ids, err := s.store.SetMembers(ctx, jobUserIndexKey(userId))
	if err != nil {
		return nil, err
	}

	jobs := make([]jobModel.IngestionJob, 0, len(ids))
	for _, id := range ids {
		if job, found := s.GetJob(ctx, id); found {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	job, found := s.GetJob(ctx, jobID)
	if found {
		if err := s.store.SetRemove(ctx, jobUserIndexKey(job.UserId), jobID); err != nil {
			s.logger.Error("Error removing job from user index", "jobId", jobID, "error", err)
		}
	}
	err := s.store.Del(ctx, jobID)
	if err != nil {
		s.logger.Error("Error deleting job from Redis", "jobId", jobID, "error", err)
		return
	}
	s.logger.Debug("Job deleted from Redis", "jobId:", jobID)
}

func TestJobStore(store *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
