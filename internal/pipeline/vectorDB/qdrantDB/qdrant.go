package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/internal/pipeline/vectorDB"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQuadrantClient(ctx context.Context) vectorDB.VectorStore {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient(ctx context.Context) *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if _, err := client.HealthCheck(pingCtx); err != nil {
		logger.Error("qdrant is unreachable: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// EnsureNamespace creates the namespace collection if it does not exist.
// The vector size is shared with the embedding model configuration.
func (db *ClientHolder) EnsureNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return errors.New("empty namespace")
	}

	exists, err := db.QObj.CollectionExists(ctx, namespace)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: namespace,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}

// UpsertBatch writes embedded chunks in batches of UpsertBatchSize. Point
// ids are derived from (documentId, ordinal), so a re-run replaces the
// previous points in place.
func (db *ClientHolder) UpsertBatch(ctx context.Context, namespace string, documentId string, chunks []commonModels.Chunk) error {
	ingestedAt := time.Now().Unix()

	for start := 0; start < len(chunks); start += config.UpsertBatchSize {
		end := min(start+config.UpsertBatchSize, len(chunks))

		qdrantPoints := make([]*qdrant.PointStruct, 0, end-start)
		for _, chunk := range chunks[start:end] {
			if chunk.Embedding == nil {
				return fmt.Errorf("chunk %d has no embedding", chunk.Ordinal)
			}
			qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
				Id:      qdrant.NewID(vectorDB.ChunkPointId(documentId, chunk.Ordinal)),
				Vectors: qdrant.NewVectors(chunk.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"content":       chunk.Text,
					"source_doc_id": documentId,
					"chunk_order":   chunk.Ordinal,
					"source_type":   string(chunk.SourceType),
					"section_title": chunk.SectionTitle,
					"page_num":      chunk.Page,
					"ingested_at":   ingestedAt,
				}),
			})
		}

		_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: namespace,
			Points:         qdrantPoints,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("qdrant upsert failed: %w", err)
		}
	}

	return nil
}

// DeleteByDocument removes every point a document contributed to the
// namespace.
func (db *ClientHolder) DeleteByDocument(ctx context.Context, namespace string, documentId string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: namespace,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("source_doc_id", documentId),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) DeleteNamespace(ctx context.Context, namespace string) error {
	err := db.QObj.DeleteCollection(ctx, namespace)
	if err != nil {
		return fmt.Errorf("qdrant drop collection failed: %w", err)
	}
	return nil
}
