package pipeline_test

import (
	"context"
	"sync"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
)

// MockFetcher implements fetch.Fetcher
type MockFetcher struct {
	OnFetch func(ctx context.Context, url string) ([]byte, error)
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if m.OnFetch != nil {
		return m.OnFetch(ctx, url)
	}
	return []byte("# Title\n\ndefault fetched content"), nil
}

// MockSummarizer implements vision.Summarizer
type MockSummarizer struct {
	OnSummarizeImage func(ctx context.Context, chunk commonModels.Chunk, surrounding string) (string, error)
	OnSummarizeTable func(ctx context.Context, chunk commonModels.Chunk, surrounding string) (string, error)
}

func (m *MockSummarizer) SummarizeImage(ctx context.Context, chunk commonModels.Chunk, surrounding string) (string, error) {
	if m.OnSummarizeImage != nil {
		return m.OnSummarizeImage(ctx, chunk, surrounding)
	}
	return "mocked image summary", nil
}

func (m *MockSummarizer) SummarizeTable(ctx context.Context, chunk commonModels.Chunk, surrounding string) (string, error) {
	if m.OnSummarizeTable != nil {
		return m.OnSummarizeTable(ctx, chunk, surrounding)
	}
	return "mocked table summary", nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnBatchEmbedding func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1}, nil
}

// MockVectorStore implements vectorDB.VectorStore
type MockVectorStore struct {
	OnEnsureNamespace  func(ctx context.Context, namespace string) error
	OnUpsertBatch      func(ctx context.Context, namespace string, documentId string, chunks []commonModels.Chunk) error
	OnDeleteByDocument func(ctx context.Context, namespace string, documentId string) error
	OnDeleteNamespace  func(ctx context.Context, namespace string) error
}

func (m *MockVectorStore) EnsureNamespace(ctx context.Context, namespace string) error {
	if m.OnEnsureNamespace != nil {
		return m.OnEnsureNamespace(ctx, namespace)
	}
	return nil
}

func (m *MockVectorStore) UpsertBatch(ctx context.Context, namespace string, documentId string, chunks []commonModels.Chunk) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, namespace, documentId, chunks)
	}
	return nil
}

func (m *MockVectorStore) DeleteByDocument(ctx context.Context, namespace string, documentId string) error {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, namespace, documentId)
	}
	return nil
}

func (m *MockVectorStore) DeleteNamespace(ctx context.Context, namespace string) error {
	if m.OnDeleteNamespace != nil {
		return m.OnDeleteNamespace(ctx, namespace)
	}
	return nil
}

// recordingReporter captures the progress sequence a run produced.
type recordingReporter struct {
	mu      sync.Mutex
	reports []reportEntry
}

type reportEntry struct {
	stage   docModel.Stage
	percent int
}

func (r *recordingReporter) Report(ctx context.Context, documentId string, stage docModel.Stage, percent int, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reportEntry{stage: stage, percent: percent})
}

func (r *recordingReporter) entries() []reportEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]reportEntry, len(r.reports))
	copy(out, r.reports)
	return out
}
