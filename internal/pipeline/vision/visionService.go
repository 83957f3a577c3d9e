package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sony/gobreaker"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var visionClient *client

var ErrSummaryUnavailable = errors.New("summary unavailable")

// Summarizer turns a non-text chunk into prose that can be embedded.
type Summarizer interface {
	SummarizeImage(ctx context.Context, chunk commonModels.Chunk, surroundingText string) (string, error)
	SummarizeTable(ctx context.Context, chunk commonModels.Chunk, surroundingText string) (string, error)
}

type client struct {
	openAi  openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

func newVisionClient(ctx context.Context, modelName string, apikey string) {
	c := openai.NewClient(option.WithAPIKey(apikey))

	visionClient = &client{
		openAi: c,
		model:  modelName,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "vision",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
	logger.Debug("Vision model name: " + modelName)
	logger.Info("Vision client created")
	go closeClient(ctx, visionClient)
}

func closeClient(ctx context.Context, visionClient *client) {
	<-ctx.Done()
	logger.Info("Closing Vision client")
	visionClient.model = ""
}

func GetVisionClient(ctx context.Context, modelName string, apikey string) Summarizer {
	once.Do(func() {
		logger = logger_i.NewLogger("vision")
		newVisionClient(ctx, modelName, apikey)
	})

	if visionClient == nil {
		return nil
	}
	return visionClient
}

func (c *client) SummarizeImage(ctx context.Context, chunk commonModels.Chunk, surroundingText string) (string, error) {
	imageURL := chunk.ImageURL
	if imageURL == "" {
		if len(chunk.ImageData) == 0 {
			return "", fmt.Errorf("chunk %d has no image payload: %w", chunk.Ordinal, ErrSummaryUnavailable)
		}
		imageURL = fmt.Sprintf("data:%s;base64,%s", chunk.ImageMIME, base64.StdEncoding.EncodeToString(chunk.ImageData))
	}

	prompt := "Describe this image for a study guide. Name what it shows, the key " +
		"facts or relationships it conveys, and any labels or figures visible."
	if surroundingText != "" {
		prompt += "\n\nSurrounding document text:\n" + surroundingText
	}

	return c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You summarize document figures so students can find them by search. Be concrete and factual."),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(prompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    imageURL,
				Detail: "high",
			}),
		}),
	})
}

func (c *client) SummarizeTable(ctx context.Context, chunk commonModels.Chunk, surroundingText string) (string, error) {
	prompt := "Summarize what this table contains and its notable values in a few sentences.\n\n" + chunk.Text
	if surroundingText != "" {
		prompt += "\n\nSurrounding document text:\n" + surroundingText
	}

	return c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You summarize document tables so students can find them by search. Be concrete and factual."),
		openai.UserMessage(prompt),
	})
}

func (c *client) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.openAi.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       c.model,
			Messages:    messages,
			MaxTokens:   openai.Int(int64(config.VisionMaxTokens)),
			Temperature: openai.Float(config.VisionTemperature),
		})
	})
	if err != nil {
		logger.Error("Error getting summary from OpenAI", "error", err)
		return "", fmt.Errorf("%w: %w", ErrSummaryUnavailable, err)
	}

	resp := result.(*openai.ChatCompletion)
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion: %w", ErrSummaryUnavailable)
	}
	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("blank completion: %w", ErrSummaryUnavailable)
	}
	return summary, nil
}
