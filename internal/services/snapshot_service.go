package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cptrack/internal/models"
	"cptrack/internal/providers"
	"cptrack/internal/store"
)

type SnapshotServiceInterface interface {
	Load() (*models.CachedSnapshot, bool)
	Refresh(ctx context.Context) (*models.CachedSnapshot, error)
}

// SnapshotService keeps the most recent aggregate result together with
// its fetch timestamp. Every refresh replaces the cached value in full;
// a platform that fails on this refresh disappears from the result even
// if it succeeded previously. Staleness is only surfaced through the
// timestamp — there is no automatic expiry.
type SnapshotService struct {
	mu       sync.RWMutex
	current  *models.CachedSnapshot
	identity IdentityServiceInterface
	agg      AggregateServiceInterface
	store    store.StoreInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewSnapshotService(
	identity IdentityServiceInterface,
	agg AggregateServiceInterface,
	fs store.StoreInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) SnapshotServiceInterface {
	s := &SnapshotService{
		identity: identity,
		agg:      agg,
		store:    fs,
		logger:   logger,
		metrics:  metrics,
	}

	var persisted models.CachedSnapshot
	ok, err := fs.Load(store.SnapshotFile, &persisted)
	if err != nil {
		logger.Errorf(providers.TypeApp, "Unable to restore snapshot: %s", err)
	} else if ok {
		s.current = &persisted
		logger.Infof(providers.TypeApp, "Restored snapshot from %d", persisted.FetchedAt)
	}
	return s
}

func (s *SnapshotService) Load() (*models.CachedSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

func (s *SnapshotService) Refresh(ctx context.Context) (*models.CachedSnapshot, error) {
	handles := s.identity.Get()
	result := s.agg.Aggregate(ctx, handles)

	snapshot := &models.CachedSnapshot{
		Result:    result,
		FetchedAt: time.Now().UnixMilli(),
	}

	// An empty mapping produces nothing worth remembering: the result is
	// served but neither cached nor persisted, so the next read after a
	// handle is configured aggregates again.
	if len(handles.Configured()) == 0 {
		return snapshot, nil
	}

	start := time.Now()
	if err := s.store.Save(store.SnapshotFile, snapshot); err != nil {
		return nil, fmt.Errorf("unable to persist snapshot: %w", err)
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()

	s.logger.Infof(providers.TypeApp, "Snapshot refreshed: %d profile(s), %d failure(s)",
		len(result.Profiles), len(result.Failures))
	return snapshot, nil
}
