package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/redisStore"
	"github.com/akolanti/IngestAPI/internal/data/store"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	docStore := store.TestDocumentStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "doc-trace")

	doc := docModel.Document{
		Id:       "doc-1",
		UserId:   "user-1",
		TopicId:  "topic-a",
		FileName: "report.pdf",
		Status:   docModel.DocStatusPending,
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := docStore.SaveDocument(ctx, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		got, found := docStore.GetDocument(ctx, "doc-1")
		if !found {
			t.Fatal("document saved but not found")
		}
		if got.FileName != "report.pdf" || got.TopicId != "topic-a" {
			t.Errorf("roundtrip mismatch: %+v", got)
		}
	})

	t.Run("Document Keys Do Not Expire", func(t *testing.T) {
		if mr.TTL("doc-1") != 0 {
			t.Errorf("document key has TTL %v, want none", mr.TTL("doc-1"))
		}
	})

	t.Run("Progress Update Overwrites Row", func(t *testing.T) {
		doc.Status = docModel.DocStatusProcessing
		doc.ProcessingStage = docModel.StageEmbedding
		doc.ProgressPercent = 75
		if err := docStore.SaveDocument(ctx, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		got, _ := docStore.GetDocument(ctx, "doc-1")
		if got.ProgressPercent != 75 || got.ProcessingStage != docModel.StageEmbedding {
			t.Errorf("progress not persisted: %+v", got)
		}
	})

	t.Run("List Documents By Topic", func(t *testing.T) {
		other := docModel.Document{Id: "doc-2", UserId: "user-1", TopicId: "topic-a"}
		elsewhere := docModel.Document{Id: "doc-3", UserId: "user-1", TopicId: "topic-b"}
		if err := docStore.SaveDocument(ctx, other); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
		if err := docStore.SaveDocument(ctx, elsewhere); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		docs, err := docStore.ListDocumentsByTopic(ctx, "topic-a")
		if err != nil {
			t.Fatalf("ListDocumentsByTopic failed: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("got %d documents in topic-a, want 2", len(docs))
		}
	})

	t.Run("Delete Document Cleans Index", func(t *testing.T) {
		if err := docStore.DeleteDocument(ctx, "doc-2"); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		if mr.Exists("doc-2") {
			t.Error("document key survived delete")
		}
		docs, err := docStore.ListDocumentsByTopic(ctx, "topic-a")
		if err != nil {
			t.Fatalf("ListDocumentsByTopic failed: %v", err)
		}
		if len(docs) != 1 {
			t.Errorf("topic listing has %d documents after delete, want 1", len(docs))
		}
	})
}

func TestRedisTopicStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	topicStore := store.TestTopicStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "topic-trace")

	if err := topicStore.SaveTopic(ctx, docModel.Topic{Id: "topic-a", UserId: "user-1", Name: "Research"}); err != nil {
		t.Fatalf("SaveTopic failed: %v", err)
	}
	if err := topicStore.SaveTopic(ctx, docModel.Topic{Id: "topic-b", UserId: "user-1", Name: "Archive"}); err != nil {
		t.Fatalf("SaveTopic failed: %v", err)
	}

	topic, found := topicStore.GetTopic(ctx, "topic-a")
	if !found || topic.Name != "Research" {
		t.Fatalf("topic roundtrip failed: %+v", topic)
	}

	topics, err := topicStore.ListTopicsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTopicsByUser failed: %v", err)
	}
	if len(topics) != 2 {
		t.Errorf("got %d topics, want 2", len(topics))
	}

	if err := topicStore.DeleteTopic(ctx, "topic-a"); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	if mr.Exists("topic-a") {
		t.Error("topic key survived delete")
	}
	topics, err = topicStore.ListTopicsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTopicsByUser failed: %v", err)
	}
	if len(topics) != 1 {
		t.Errorf("user index lists %d topics after delete, want 1", len(topics))
	}
}
