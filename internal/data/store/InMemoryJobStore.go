package store

import (
	"context"
	"sync"

	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem JobStore")

type InMemoryJobStore struct {
	jobMutex *sync.RWMutex
	jobMap   map[string]jobModel.IngestionJob
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMutex: new(sync.RWMutex),
		jobMap:   make(map[string]jobModel.IngestionJob),
	}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, jobToStore jobModel.IngestionJob) error {

	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	store.jobMap[jobToStore.Id] = jobToStore
	inMemLogger.Debug(jobToStore.Id + " : Saved job to store")
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.IngestionJob, bool) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	result, found := store.jobMap[jobId]
	return result, found
}

func (store *InMemoryJobStore) ListJobsByUser(ctx context.Context, userId string) ([]jobModel.IngestionJob, error) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()

	var jobs []jobModel.IngestionJob
	for _, job := range store.jobMap {
		if job.UserId == userId {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobID)
}
