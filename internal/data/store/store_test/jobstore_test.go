package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/redisStore"
	"github.com/akolanti/IngestAPI/internal/data/store"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.IngestionJob{
		Id:         jobID,
		UserId:     "user-7",
		TopicId:    "topic-3",
		DocumentId: "doc-9",
		Status:     jobModel.JobStatusRunning,
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.DocumentId != testJob.DocumentId {
			t.Errorf("Data mismatch! Got %s, want %s", retrievedJob.DocumentId, testJob.DocumentId)
		}
		if retrievedJob.Status != jobModel.JobStatusRunning {
			t.Errorf("Status got %v, want running", retrievedJob.Status)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("List Jobs By User", func(t *testing.T) {
		second := testJob
		second.Id = "job_abc_456"
		if err := jobStore.SaveJob(ctx, second); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		jobs, err := jobStore.ListJobsByUser(ctx, "user-7")
		if err != nil {
			t.Fatalf("ListJobsByUser failed: %v", err)
		}
		if len(jobs) != 2 {
			t.Errorf("got %d jobs for user-7, want 2", len(jobs))
		}

		jobs, err = jobStore.ListJobsByUser(ctx, "someone-else")
		if err != nil {
			t.Fatalf("ListJobsByUser failed: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("got %d jobs for stranger, want 0", len(jobs))
		}
	})

	t.Run("Expired Job Vanishes From Listing", func(t *testing.T) {
		// the index set has no TTL, the job key does; listings skip stale members
		mr.Del(jobID)
		jobs, err := jobStore.ListJobsByUser(ctx, "user-7")
		if err != nil {
			t.Fatalf("ListJobsByUser failed: %v", err)
		}
		for _, j := range jobs {
			if j.Id == jobID {
				t.Error("expired job still listed")
			}
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, "job_abc_456")

		if mr.Exists("job_abc_456") {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
		jobs, err := jobStore.ListJobsByUser(ctx, "user-7")
		if err != nil {
			t.Fatalf("ListJobsByUser failed: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("user index still lists %d jobs after delete", len(jobs))
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.IngestionJob{Id: "race-job", UserId: "race-user"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}
