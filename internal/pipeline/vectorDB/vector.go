package vectorDB

import (
	"context"

	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
)

// VectorStore isolates each (user, topic) pair in its own namespace.
// Namespace names come from pipeline.ResolveNamespace and are stable
// across runs so re-ingesting a document overwrites its points.
type VectorStore interface {
	EnsureNamespace(ctx context.Context, namespace string) error
	UpsertBatch(ctx context.Context, namespace string, documentId string, chunks []commonModels.Chunk) error
	DeleteByDocument(ctx context.Context, namespace string, documentId string) error
	DeleteNamespace(ctx context.Context, namespace string) error
}
