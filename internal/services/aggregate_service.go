package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cptrack/internal/models"
	"cptrack/internal/platform"
	"cptrack/internal/providers"
)

type AggregateServiceInterface interface {
	Aggregate(ctx context.Context, handles models.HandleMap) *models.AggregateResult
}

// AggregateService fans one fetch per configured platform out to its
// adapter and waits for every call to settle. One platform's failure
// never aborts or blocks the others; failures land in the result next
// to the successes.
type AggregateService struct {
	adapters map[models.Platform]platform.Adapter
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewAggregateService(adapters []platform.Adapter, logger providers.Logger, metrics providers.MetricsProviderInterface) AggregateServiceInterface {
	return &AggregateService{
		adapters: platform.ByPlatform(adapters),
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *AggregateService) Aggregate(ctx context.Context, handles models.HandleMap) *models.AggregateResult {
	result := &models.AggregateResult{
		Profiles: make(map[models.Platform]*models.ProfileSnapshot),
		Failures: make(map[models.Platform]string),
	}

	configured := handles.Configured()
	if len(configured) == 0 {
		result.Err = models.ErrNoPlatforms.Error()
		return result
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, p := range configured {
		handle := strings.TrimSpace(handles[p])
		adapter, ok := s.adapters[p]
		if !ok {
			result.Failures[p] = "no adapter registered"
			continue
		}

		// Goroutines record their own outcome and always return nil, so
		// Wait sees every platform settle.
		g.Go(func() error {
			start := time.Now()
			snapshot, err := adapter.FetchProfile(ctx, handle)
			duration := time.Since(start)
			s.metrics.ObserveFetchDuration(string(p), duration)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Errorf(providers.TypeApp, "Fetch failed for %s: %s", p, err)
				s.metrics.IncFetchTotal(string(p), "error")
				result.Failures[p] = err.Error()
				return nil
			}
			s.metrics.IncFetchTotal(string(p), "ok")
			result.Profiles[p] = snapshot
			return nil
		})
	}

	_ = g.Wait()
	return result
}
