package googleEmbedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/pipeline/embedding"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Debug("Google Embedding model name: " + modelName)
		logger.Info("Google Embedding client created")
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := c.doCall(ctx, getContent([]string{truncate(text)}))
	if err != nil {
		logger.Error("Error getting Embedding from Google", "error", err)
		return nil, err
	}
	return result.Embeddings[0].Values, nil
}

// BatchEmbedding embeds texts in request batches of EmbeddingBatchSize,
// preserving input order. Rate limit responses get one delayed retry per
// batch before the whole call fails.
func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "texts", len(texts))

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += config.EmbeddingBatchSize {
		end := min(start+config.EmbeddingBatchSize, len(texts))

		batch := make([]string, 0, end-start)
		for _, t := range texts[start:end] {
			batch = append(batch, truncate(t))
		}

		res, err := c.doCall(ctx, getContent(batch))
		if err != nil || res == nil {
			if doRetry(err, log) {
				log.Debug("Retrying batch in 5 seconds", "batchStart", start)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
				}
				res, err = c.doCall(ctx, getContent(batch))
			}
			if err != nil || res == nil {
				log.Error("Error getting Embeddings from Google", "error", err, "batchStart", start)
				return nil, err
			}
		}

		if len(res.Embeddings) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(batch), len(res.Embeddings))
		}
		for _, r := range res.Embeddings {
			vectors = append(vectors, r.Values)
		}
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}

func truncate(text string) string {
	if len(text) > config.EmbeddingMaxChars {
		return text[:config.EmbeddingMaxChars]
	}
	return text
}
