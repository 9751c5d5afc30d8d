package testutil

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"cptrack/internal/models"
	"cptrack/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCompressor passes data through unchanged.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}

// MockStore implements store.StoreInterface on an in-memory map, going
// through a real JSON roundtrip like the file store does.
type MockStore struct {
	mu        sync.Mutex
	Data      map[string][]byte
	SaveErr   error
	SaveCalls []string
}

func NewMockStore() *MockStore {
	return &MockStore{Data: make(map[string][]byte)}
}

func (m *MockStore) Save(name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, name)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.Data[name] = data
	return nil
}

func (m *MockStore) Load(name string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Data[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// MockAdapter implements platform.Adapter with a canned result.
type MockAdapter struct {
	mu       sync.Mutex
	Platform models.Platform
	Snapshot *models.ProfileSnapshot
	Err      error
	Delay    time.Duration
	Handles  []string
}

func (m *MockAdapter) Name() models.Platform {
	return m.Platform
}

func (m *MockAdapter) FetchProfile(ctx context.Context, handle string) (*models.ProfileSnapshot, error) {
	m.mu.Lock()
	m.Handles = append(m.Handles, handle)
	m.mu.Unlock()
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snapshot, nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	RequestCalls      int
	DurationCalls     int
	CacheHitCalls     int
	CacheMissCalls    int
	FetchOutcomes     map[string]int // "platform:outcome"
	FetchDurations    int
	PersistencesCalls int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCalls++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DurationCalls++
}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHitCalls++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMissCalls++
}
func (m *MockMetrics) IncFetchTotal(platform, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchOutcomes == nil {
		m.FetchOutcomes = make(map[string]int)
	}
	m.FetchOutcomes[platform+":"+outcome]++
}
func (m *MockMetrics) ObserveFetchDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchDurations++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistencesCalls++
}

// MockIdentity implements services.IdentityServiceInterface.
type MockIdentity struct {
	mu       sync.Mutex
	Handles  models.HandleMap
	SetErr   error
	SetCalls [][2]string
}

func (m *MockIdentity) Get() models.HandleMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Handles == nil {
		return make(models.HandleMap)
	}
	return m.Handles.Clone()
}

func (m *MockIdentity) Set(platform, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, [2]string{platform, handle})
	if m.SetErr != nil {
		return m.SetErr
	}
	return nil
}

// MockCache implements providers.CacheProviderInterface on a map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}
