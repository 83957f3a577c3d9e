package customHttpClient

import (
	"net/http"

	"github.com/akolanti/IngestAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient returns a client that reuses connections to the blob
// store so concurrent ingestion runs do not pay a handshake per download.
func GetPooledClient() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.FetchTimeout,
	}
}
