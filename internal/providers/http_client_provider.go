package providers

import (
	"net/http"

	"cptrack/internal/structures"
)

// NewHTTPClientProvider builds the shared client for outbound platform
// calls. The config timeout is the only deadline the daemon enforces;
// there is no per-call retry.
func NewHTTPClientProvider(conf *structures.Config) *http.Client {
	return &http.Client{
		Timeout: conf.Fetch.Timeout,
	}
}
