package testutil

import (
	"context"
	"sync"
	"time"

	"decayd/internal/providers"
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

// MockCache implements providers.CacheProviderInterface.
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
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements storage.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and records counts.
type MockMetrics struct {
	mu                  sync.Mutex
	StakesCreated       int
	Burns               int
	BurnedAmount        int64
	Rewards             int
	RewardedAmount      int64
	ActiveStakes        int64
	TotalSupply         int64
	TotalBurned         int64
	CacheHits           int
	CacheMisses         int
	Evictions           int
	ReplicationFailures map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{ReplicationFailures: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int)                   {}
func (m *MockMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {}
func (m *MockMetrics) ObserveSweepDuration(duration time.Duration)                    {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncStakesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StakesCreated++
}

func (m *MockMetrics) IncBurns(amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Burns++
	m.BurnedAmount += amount
}

func (m *MockMetrics) IncRewards(amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rewards++
	m.RewardedAmount += amount
}

func (m *MockMetrics) SetActiveStakes(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveStakes = count
}

func (m *MockMetrics) SetTotalSupply(amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalSupply = amount
}

func (m *MockMetrics) SetTotalBurned(amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalBurned = amount
}

func (m *MockMetrics) IncReplicationFailures(peer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplicationFailures[peer]++
}

func (m *MockMetrics) IncEvictions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evictions++
}

// MockPeer implements storage.Peer with injectable behavior and call recording.
type MockPeer struct {
	mu       sync.Mutex
	PeerID   string
	StoreFn  func(ctx context.Context, contentID, payloadHash string, payload []byte) error
	FetchFn  func(ctx context.Context, contentID string) ([]byte, error)
	Stored   map[string][]byte
	Evicted  []string
	StoreErr error
}

func NewMockPeer(id string) *MockPeer {
	return &MockPeer{PeerID: id, Stored: make(map[string][]byte)}
}

func (m *MockPeer) ID() string { return m.PeerID }

func (m *MockPeer) Store(ctx context.Context, contentID, payloadHash string, payload []byte) error {
	if m.StoreFn != nil {
		return m.StoreFn(ctx, contentID, payloadHash, payload)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	m.Stored[contentID] = payload
	return nil
}

func (m *MockPeer) Fetch(ctx context.Context, contentID string) ([]byte, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx, contentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.Stored[contentID]
	if !ok {
		return nil, context.Canceled
	}
	return payload, nil
}

func (m *MockPeer) EvictNotice(ctx context.Context, contentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evicted = append(m.Evicted, contentID)
	return nil
}

func (m *MockPeer) StoredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Stored)
}

// MockEventSink implements services.EventSink and records every emission.
type MockEventSink struct {
	mu              sync.Mutex
	Burned          []BurnEvent
	Rewarded        []RewardEvent
	VisibilityFlips []VisibilityFlip
}

type BurnEvent struct {
	ContentID string
	OwnerID   string
	Amount    int64
}

type RewardEvent struct {
	UserID    string
	ContentID string
	Amount    int64
}

type VisibilityFlip struct {
	ContentID string
	Visible   bool
}

func (m *MockEventSink) ContentBurned(contentID, ownerID string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Burned = append(m.Burned, BurnEvent{ContentID: contentID, OwnerID: ownerID, Amount: amount})
}

func (m *MockEventSink) RewardGranted(userID, contentID string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rewarded = append(m.Rewarded, RewardEvent{UserID: userID, ContentID: contentID, Amount: amount})
}

func (m *MockEventSink) ContentVisibilityChanged(contentID string, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisibilityFlips = append(m.VisibilityFlips, VisibilityFlip{ContentID: contentID, Visible: visible})
}

func (m *MockEventSink) BurnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Burned)
}
