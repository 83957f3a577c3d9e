package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/customHttpClient"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

// Fetcher downloads the source blob for an ingestion run.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	client *http.Client
	logger *logger_i.Logger
}

func NewHTTPFetcher() Fetcher {
	return &httpFetcher{
		client: customHttpClient.GetPooledClient(),
		logger: logger_i.NewLogger("Fetcher"),
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(data)) > config.MaxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d byte limit", int64(config.MaxDocumentBytes))
	}

	f.logger.Debug("downloaded blob", "url", url, "bytes", len(data))
	return data, nil
}
