package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cptrack/internal/models"
	"cptrack/internal/store"
	"cptrack/internal/testutil"
)

// stubAggregate returns a canned result and counts invocations.
type stubAggregate struct {
	result *models.AggregateResult
	calls  int
}

func (s *stubAggregate) Aggregate(_ context.Context, _ models.HandleMap) *models.AggregateResult {
	s.calls++
	return s.result
}

func successResult(platforms ...models.Platform) *models.AggregateResult {
	result := &models.AggregateResult{
		Profiles: make(map[models.Platform]*models.ProfileSnapshot),
		Failures: make(map[models.Platform]string),
	}
	for _, p := range platforms {
		result.Profiles[p] = &models.ProfileSnapshot{
			Platform: p,
			Name:     p.DisplayName(),
			Stats:    map[string]any{"rating": float64(1500)},
		}
	}
	return result
}

func TestSnapshotService_LoadEmpty(t *testing.T) {
	s := NewSnapshotService(
		&testutil.MockIdentity{},
		&stubAggregate{result: successResult()},
		testutil.NewMockStore(),
		&testutil.MockLogger{},
		&testutil.MockMetrics{},
	)

	snapshot, ok := s.Load()
	assert.False(t, ok)
	assert.Nil(t, snapshot)
}

func TestSnapshotService_RefreshThenLoad(t *testing.T) {
	agg := &stubAggregate{result: successResult(models.PlatformCodeforces)}
	s := NewSnapshotService(
		&testutil.MockIdentity{Handles: models.HandleMap{models.PlatformCodeforces: "tourist"}},
		agg,
		testutil.NewMockStore(),
		&testutil.MockLogger{},
		&testutil.MockMetrics{},
	)

	before := time.Now().UnixMilli()
	snapshot, err := s.Refresh(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, snapshot.FetchedAt, before)
	assert.LessOrEqual(t, snapshot.FetchedAt, time.Now().UnixMilli())
	assert.Equal(t, 1, agg.calls)

	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Same(t, snapshot, loaded)
}

func TestSnapshotService_RefreshReplacesInFull(t *testing.T) {
	agg := &stubAggregate{result: successResult(models.PlatformCodeforces, models.PlatformLeetCode)}
	s := NewSnapshotService(
		&testutil.MockIdentity{Handles: models.HandleMap{models.PlatformCodeforces: "tourist"}},
		agg,
		testutil.NewMockStore(),
		&testutil.MockLogger{},
		&testutil.MockMetrics{},
	)

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	// Codeforces fails on the second run; its old data must not survive
	agg.result = successResult(models.PlatformLeetCode)
	agg.result.Failures[models.PlatformCodeforces] = "codeforces: transport: connection refused"

	snapshot, err := s.Refresh(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, snapshot.Result.Profiles, models.PlatformCodeforces)
	assert.Contains(t, snapshot.Result.Profiles, models.PlatformLeetCode)
	assert.Contains(t, snapshot.Result.Failures, models.PlatformCodeforces)

	loaded, _ := s.Load()
	assert.NotContains(t, loaded.Result.Profiles, models.PlatformCodeforces)
}

func TestSnapshotService_TimestampAdvances(t *testing.T) {
	agg := &stubAggregate{result: successResult(models.PlatformCodeforces)}
	s := NewSnapshotService(
		&testutil.MockIdentity{Handles: models.HandleMap{models.PlatformCodeforces: "tourist"}},
		agg,
		testutil.NewMockStore(),
		&testutil.MockLogger{},
		&testutil.MockMetrics{},
	)

	first, err := s.Refresh(context.Background())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	second, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Greater(t, second.FetchedAt, first.FetchedAt)
}

func TestSnapshotService_RefreshPersists(t *testing.T) {
	fs := testutil.NewMockStore()
	agg := &stubAggregate{result: successResult(models.PlatformGitHub)}
	metrics := &testutil.MockMetrics{}
	s := NewSnapshotService(
		&testutil.MockIdentity{Handles: models.HandleMap{models.PlatformGitHub: "octocat"}},
		agg,
		fs,
		&testutil.MockLogger{},
		metrics,
	)

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	assert.Contains(t, fs.SaveCalls, store.SnapshotFile)
	assert.Equal(t, 1, metrics.PersistencesCalls)
}

func TestSnapshotService_RestoredAcrossRestarts(t *testing.T) {
	fs := testutil.NewMockStore()
	agg := &stubAggregate{result: successResult(models.PlatformCodeforces)}
	identity := &testutil.MockIdentity{Handles: models.HandleMap{models.PlatformCodeforces: "tourist"}}

	s1 := NewSnapshotService(identity, agg, fs, &testutil.MockLogger{}, &testutil.MockMetrics{})
	refreshed, err := s1.Refresh(context.Background())
	require.NoError(t, err)

	s2 := NewSnapshotService(identity, agg, fs, &testutil.MockLogger{}, &testutil.MockMetrics{})
	restored, ok := s2.Load()
	require.True(t, ok)
	assert.Equal(t, refreshed.FetchedAt, restored.FetchedAt)
	assert.Contains(t, restored.Result.Profiles, models.PlatformCodeforces)
}

func TestSnapshotService_PersistFailureKeepsPrevious(t *testing.T) {
	fs := testutil.NewMockStore()
	agg := &stubAggregate{result: successResult(models.PlatformCodeforces)}
	s := NewSnapshotService(
		&testutil.MockIdentity{Handles: models.HandleMap{models.PlatformCodeforces: "tourist"}},
		agg,
		fs,
		&testutil.MockLogger{},
		&testutil.MockMetrics{},
	)

	first, err := s.Refresh(context.Background())
	require.NoError(t, err)

	fs.SaveErr = assert.AnError
	_, err = s.Refresh(context.Background())
	require.Error(t, err)

	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Same(t, first, loaded)
}

func TestSnapshotService_RefreshWithNoPlatforms(t *testing.T) {
	agg := &stubAggregate{result: &models.AggregateResult{Err: models.ErrNoPlatforms.Error()}}
	s := NewSnapshotService(
		&testutil.MockIdentity{},
		agg,
		testutil.NewMockStore(),
		&testutil.MockLogger{},
		&testutil.MockMetrics{},
	)

	snapshot, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "no platforms configured", snapshot.Result.Err)
}

func TestSnapshotService_EmptyResultIsNotCached(t *testing.T) {
	identity := &testutil.MockIdentity{}
	fs := testutil.NewMockStore()
	agg := &stubAggregate{result: &models.AggregateResult{Err: models.ErrNoPlatforms.Error()}}
	s := NewSnapshotService(identity, agg, fs, &testutil.MockLogger{}, &testutil.MockMetrics{})

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	_, ok := s.Load()
	assert.False(t, ok, "empty result must not be cached")
	assert.Empty(t, fs.SaveCalls, "empty result must not be persisted")

	// Once a handle exists the next read aggregates for real instead of
	// replaying the empty result.
	identity.Handles = models.HandleMap{models.PlatformCodeforces: "tourist"}
	agg.result = successResult(models.PlatformCodeforces)

	snapshot, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Result.Err)
	assert.Contains(t, snapshot.Result.Profiles, models.PlatformCodeforces)

	loaded, ok := s.Load()
	require.True(t, ok)
	assert.Same(t, snapshot, loaded)
	assert.Contains(t, fs.SaveCalls, store.SnapshotFile)
}
