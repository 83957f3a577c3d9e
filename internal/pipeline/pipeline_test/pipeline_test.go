package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/data/store"
	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/internal/pipeline"
	"github.com/akolanti/IngestAPI/internal/pipeline/fetch"
)

const markdownFixture = `# Section One

Alpha paragraph content for the first section.

![diagram](https://example.com/diagram.png)

| metric | value |
| ------ | ----- |
| users  | 42    |

Closing paragraph after the table.
`

func seedDocument(t *testing.T, docs docModel.DocumentStore, fileName string) docModel.Document {
	t.Helper()
	doc := docModel.Document{
		Id:        "doc-" + fileName,
		UserId:    "user-1",
		TopicId:   "topic-1",
		FileName:  fileName,
		FileURL:   "https://files.example.com/" + fileName,
		Status:    docModel.DocStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := docs.SaveDocument(context.Background(), doc); err != nil {
		t.Fatalf("seeding document failed: %v", err)
	}
	return doc
}

func newTestService(fetcher fetch.Fetcher, sum *MockSummarizer, emb *MockEmbedder, vec *MockVectorStore, docs docModel.DocumentStore) pipeline.Service {
	return pipeline.NewService(fetcher, sum, emb, vec, docs, pipeline.NewStoreReporter(docs))
}

func TestIngestDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		fileName       string
		setupMocks     func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore)
		expectedStatus jobModel.JobStatus
		expectedChunks int
		expectedStage  docModel.Stage
	}{
		{
			name:     "Success_Markdown_Full_Flow",
			fileName: "notes.md",
			setupMocks: func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore) {
				f.OnFetch = func(ctx context.Context, url string) ([]byte, error) {
					return []byte(markdownFixture), nil
				}
			},
			expectedStatus: jobModel.JobStatusSucceeded,
			expectedChunks: 4,
		},
		{
			name:     "Failure_Fetch",
			fileName: "gone.md",
			setupMocks: func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore) {
				f.OnFetch = func(ctx context.Context, url string) ([]byte, error) {
					return nil, errors.New("unexpected status 404")
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
			expectedStage:  docModel.StageDownloading,
		},
		{
			name:     "Failure_Unsupported_Format",
			fileName: "firmware.bin",
			setupMocks: func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore) {
				f.OnFetch = func(ctx context.Context, url string) ([]byte, error) {
					return []byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe}, nil
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
			expectedStage:  docModel.StageDetecting,
		},
		{
			name:     "Failure_Vision_All_Items",
			fileName: "tables.md",
			setupMocks: func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore) {
				f.OnFetch = func(ctx context.Context, url string) ([]byte, error) {
					return []byte(markdownFixture), nil
				}
				s.OnSummarizeImage = func(ctx context.Context, c commonModels.Chunk, sur string) (string, error) {
					return "", errors.New("provider down")
				}
				s.OnSummarizeTable = func(ctx context.Context, c commonModels.Chunk, sur string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
			expectedStage:  docModel.StageVision,
		},
		{
			name:     "Success_Vision_Partial_Failure",
			fileName: "partial.md",
			setupMocks: func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore) {
				f.OnFetch = func(ctx context.Context, url string) ([]byte, error) {
					return []byte(markdownFixture), nil
				}
				s.OnSummarizeImage = func(ctx context.Context, c commonModels.Chunk, sur string) (string, error) {
					return "", errors.New("image provider down")
				}
			},
			expectedStatus: jobModel.JobStatusSucceeded,
			expectedChunks: 4,
		},
		{
			name:     "Failure_Embedding",
			fileName: "embed.md",
			setupMocks: func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore) {
				f.OnFetch = func(ctx context.Context, url string) ([]byte, error) {
					return []byte(markdownFixture), nil
				}
				e.OnBatchEmbedding = func(ctx context.Context, texts []string) ([][]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
			expectedStage:  docModel.StageEmbedding,
		},
		{
			name:     "Failure_Vector_Upsert",
			fileName: "upsert.md",
			setupMocks: func(f *MockFetcher, s *MockSummarizer, e *MockEmbedder, v *MockVectorStore) {
				f.OnFetch = func(ctx context.Context, url string) ([]byte, error) {
					return []byte(markdownFixture), nil
				}
				v.OnUpsertBatch = func(ctx context.Context, ns string, docId string, chunks []commonModels.Chunk) error {
					return errors.New("disk full")
				}
			},
			expectedStatus: jobModel.JobStatusFailed,
			expectedStage:  docModel.StageStoring,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mFetch := &MockFetcher{}
			mSum := &MockSummarizer{}
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorStore{}
			tt.setupMocks(mFetch, mSum, mEmbed, mVec)

			docs := store.InitInMemoryDocumentStore()
			doc := seedDocument(t, docs, tt.fileName)

			s := newTestService(mFetch, mSum, mEmbed, mVec, docs)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			job := jobModel.IngestionJob{
				Id:         "job-1",
				UserId:     doc.UserId,
				TopicId:    doc.TopicId,
				DocumentId: doc.Id,
				TraceId:    "test-trace",
			}

			result := s.IngestDocument(ctx, job)

			if result.Status != tt.expectedStatus {
				t.Fatalf("Status got %v, want %v (error: %v)", result.Status, tt.expectedStatus, result.Error)
			}

			final, found := docs.GetDocument(ctx, doc.Id)
			if !found {
				t.Fatal("document row disappeared during run")
			}

			if tt.expectedStatus == jobModel.JobStatusSucceeded {
				if result.ChunkCount != tt.expectedChunks {
					t.Errorf("ChunkCount got %d, want %d", result.ChunkCount, tt.expectedChunks)
				}
				if final.Status != docModel.DocStatusDone {
					t.Errorf("Document status got %v, want done", final.Status)
				}
				if final.ProgressPercent != 100 {
					t.Errorf("Progress got %d, want 100", final.ProgressPercent)
				}
			} else {
				if final.Status != docModel.DocStatusFailed {
					t.Errorf("Document status got %v, want failed", final.Status)
				}
				if final.ErrorMessage == "" {
					t.Error("Failed document has no error message")
				}
				if tt.expectedStage != "" && !strings.Contains(final.ErrorMessage, string(tt.expectedStage)) {
					t.Errorf("Error message %q does not name stage %q", final.ErrorMessage, tt.expectedStage)
				}
			}
		})
	}
}

func TestIngestDocument_ProgressIsMonotonic(t *testing.T) {
	mFetch := &MockFetcher{OnFetch: func(ctx context.Context, url string) ([]byte, error) {
		return []byte(markdownFixture), nil
	}}
	docs := store.InitInMemoryDocumentStore()
	doc := seedDocument(t, docs, "progress.md")

	recorder := &recordingReporter{}
	s := pipeline.NewService(mFetch, &MockSummarizer{}, &MockEmbedder{}, &MockVectorStore{}, docs, recorder)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "progress-trace")
	result := s.IngestDocument(ctx, jobModel.IngestionJob{
		Id: "job-progress", UserId: doc.UserId, TopicId: doc.TopicId, DocumentId: doc.Id, TraceId: "progress-trace",
	})

	if result.Status != jobModel.JobStatusSucceeded {
		t.Fatalf("run failed: %v", result.Error)
	}

	entries := recorder.entries()
	if len(entries) == 0 {
		t.Fatal("no progress reports recorded")
	}

	last := -1
	for i, e := range entries {
		if e.percent < last {
			t.Fatalf("progress went backwards at report %d: %d -> %d (stage %s)", i, last, e.percent, e.stage)
		}
		last = e.percent
	}
	if entries[len(entries)-1].percent != 100 {
		t.Errorf("final report percent got %d, want 100", entries[len(entries)-1].percent)
	}
}

// manySectionsFixture yields one text chunk per section, enough to spread
// embedding across several request batches.
func manySectionsFixture(sections int) string {
	var b strings.Builder
	for i := 0; i < sections; i++ {
		fmt.Fprintf(&b, "# Section %d\n\nParagraph %d body text.\n\n", i, i)
	}
	return b.String()
}

func TestIngestDocument_EmbeddingProgressAdvancesPerBatch(t *testing.T) {
	fixture := manySectionsFixture(250)
	mFetch := &MockFetcher{OnFetch: func(ctx context.Context, url string) ([]byte, error) {
		return []byte(fixture), nil
	}}

	batchCalls := 0
	mEmbed := &MockEmbedder{OnBatchEmbedding: func(ctx context.Context, texts []string) ([][]float32, error) {
		batchCalls++
		if len(texts) > config.EmbeddingBatchSize {
			t.Errorf("batch of %d texts exceeds EmbeddingBatchSize", len(texts))
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{0.1, 0.2}
		}
		return vectors, nil
	}}

	docs := store.InitInMemoryDocumentStore()
	doc := seedDocument(t, docs, "batches.md")
	recorder := &recordingReporter{}
	s := pipeline.NewService(mFetch, &MockSummarizer{}, mEmbed, &MockVectorStore{}, docs, recorder)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "batch-trace")
	result := s.IngestDocument(ctx, jobModel.IngestionJob{
		Id: "job-batch", UserId: doc.UserId, TopicId: doc.TopicId, DocumentId: doc.Id, TraceId: "batch-trace",
	})
	if result.Status != jobModel.JobStatusSucceeded {
		t.Fatalf("run failed: %v", result.Error)
	}
	if result.ChunkCount != 250 {
		t.Fatalf("ChunkCount got %d, want 250", result.ChunkCount)
	}
	if batchCalls != 3 {
		t.Errorf("embedder called %d times, want 3 batches of up to %d", batchCalls, config.EmbeddingBatchSize)
	}

	intermediate := 0
	for _, e := range recorder.entries() {
		if e.stage == docModel.StageEmbedding && e.percent > 70 && e.percent < 90 {
			intermediate++
		}
	}
	if intermediate == 0 {
		t.Error("no embedding report strictly inside the 70-90 band, per-batch progress is not being reported")
	}
}

func TestIngestDocument_EmbeddingFailureNamesBatch(t *testing.T) {
	fixture := manySectionsFixture(150)
	mFetch := &MockFetcher{OnFetch: func(ctx context.Context, url string) ([]byte, error) {
		return []byte(fixture), nil
	}}

	batchCalls := 0
	mEmbed := &MockEmbedder{OnBatchEmbedding: func(ctx context.Context, texts []string) ([][]float32, error) {
		batchCalls++
		if batchCalls >= 2 {
			return nil, errors.New("api limit")
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{0.1, 0.2}
		}
		return vectors, nil
	}}

	docs := store.InitInMemoryDocumentStore()
	doc := seedDocument(t, docs, "batchfail.md")
	s := newTestService(mFetch, &MockSummarizer{}, mEmbed, &MockVectorStore{}, docs)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "batchfail-trace")
	result := s.IngestDocument(ctx, jobModel.IngestionJob{
		Id: "job-batchfail", UserId: doc.UserId, TopicId: doc.TopicId, DocumentId: doc.Id, TraceId: "batchfail-trace",
	})
	if result.Status != jobModel.JobStatusFailed {
		t.Fatal("run succeeded with a failing second batch")
	}

	final, found := docs.GetDocument(ctx, doc.Id)
	if !found {
		t.Fatal("document row disappeared during run")
	}
	if !strings.Contains(final.ErrorMessage, "embed batch 1") {
		t.Errorf("error message %q does not name the failing batch", final.ErrorMessage)
	}
}

func TestIngestDocument_VisionReceivesContext(t *testing.T) {
	var tableSurrounding string
	mSum := &MockSummarizer{
		OnSummarizeTable: func(ctx context.Context, c commonModels.Chunk, surrounding string) (string, error) {
			tableSurrounding = surrounding
			return "table summary", nil
		},
	}
	mFetch := &MockFetcher{OnFetch: func(ctx context.Context, url string) ([]byte, error) {
		return []byte(markdownFixture), nil
	}}

	docs := store.InitInMemoryDocumentStore()
	doc := seedDocument(t, docs, "context.md")
	s := newTestService(mFetch, mSum, &MockEmbedder{}, &MockVectorStore{}, docs)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ctx-trace")
	result := s.IngestDocument(ctx, jobModel.IngestionJob{
		Id: "job-ctx", UserId: doc.UserId, TopicId: doc.TopicId, DocumentId: doc.Id, TraceId: "ctx-trace",
	})

	if result.Status != jobModel.JobStatusSucceeded {
		t.Fatalf("run failed: %v", result.Error)
	}
	if !strings.Contains(tableSurrounding, "Alpha paragraph") {
		t.Errorf("table summarizer did not receive preceding text, got %q", tableSurrounding)
	}
	if len(tableSurrounding) > config.VisionContextChars {
		t.Errorf("surrounding text exceeds cap: %d chars", len(tableSurrounding))
	}
}

func TestRemoveDocumentVectors_UsesStableNamespace(t *testing.T) {
	var deletedNamespace, deletedDoc string
	mVec := &MockVectorStore{
		OnDeleteByDocument: func(ctx context.Context, ns string, docId string) error {
			deletedNamespace, deletedDoc = ns, docId
			return nil
		},
	}
	var upsertNamespace string
	mVec.OnUpsertBatch = func(ctx context.Context, ns string, docId string, chunks []commonModels.Chunk) error {
		upsertNamespace = ns
		return nil
	}

	mFetch := &MockFetcher{OnFetch: func(ctx context.Context, url string) ([]byte, error) {
		return []byte(markdownFixture), nil
	}}
	docs := store.InitInMemoryDocumentStore()
	doc := seedDocument(t, docs, "stable.md")
	s := newTestService(mFetch, &MockSummarizer{}, &MockEmbedder{}, mVec, docs)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ns-trace")
	result := s.IngestDocument(ctx, jobModel.IngestionJob{
		Id: "job-ns", UserId: doc.UserId, TopicId: doc.TopicId, DocumentId: doc.Id, TraceId: "ns-trace",
	})
	if result.Status != jobModel.JobStatusSucceeded {
		t.Fatalf("run failed: %v", result.Error)
	}

	if err := s.RemoveDocumentVectors(ctx, doc.UserId, doc.TopicId, doc.Id); err != nil {
		t.Fatalf("RemoveDocumentVectors failed: %v", err)
	}
	if deletedNamespace != upsertNamespace {
		t.Errorf("delete namespace %q does not match ingest namespace %q", deletedNamespace, upsertNamespace)
	}
	if deletedDoc != doc.Id {
		t.Errorf("deleted document %q, want %q", deletedDoc, doc.Id)
	}
}
