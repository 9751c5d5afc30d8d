package platform

import (
	"context"
	"io"
	"net/http"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/structures"
)

// Adapter turns a platform handle into a normalized profile snapshot.
// Implementations never retry; one failed call is one failed result.
type Adapter interface {
	Name() models.Platform
	FetchProfile(ctx context.Context, handle string) (*models.ProfileSnapshot, error)
}

// PerformanceFetcher is implemented by adapters whose platform exposes
// a contest rating history (Codeforces and LeetCode).
type PerformanceFetcher interface {
	FetchPerformance(ctx context.Context, handle string) ([]models.RatingPoint, error)
}

const (
	userAgent       = "cptrack/1.0"
	maxResponseBody = 8 << 20 // user.status with count=1000 can get large
)

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
}

// NewAdapters builds the closed set of platform adapters sharing one
// outbound HTTP client.
func NewAdapters(conf *structures.Config, client *http.Client, logger providers.Logger) []Adapter {
	return []Adapter{
		NewCodeforcesAdapter(conf, client, logger),
		NewLeetCodeAdapter(conf, client, logger),
		NewCodeChefAdapter(conf, client, logger),
		NewGitHubAdapter(conf, client, logger),
	}
}

// ByPlatform indexes adapters for direct lookup.
func ByPlatform(adapters []Adapter) map[models.Platform]Adapter {
	out := make(map[models.Platform]Adapter, len(adapters))
	for _, a := range adapters {
		out[a.Name()] = a
	}
	return out
}
