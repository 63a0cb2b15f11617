package models

import (
	"sort"
	"sync"
	"time"
)

// ReputationRecord is a per-user decaying trust score.
type ReputationRecord struct {
	UserID        string    `json:"user_id"`
	Score         float64   `json:"score"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// ReputationStore keeps the in-memory view of reputation records.
// The owning service applies lazy time-decay and write-through persistence.
type ReputationStore struct {
	mu      sync.RWMutex
	records map[string]*ReputationRecord
}

func NewReputationStore() *ReputationStore {
	return &ReputationStore{
		records: make(map[string]*ReputationRecord),
	}
}

func (s *ReputationStore) Put(rec *ReputationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = rec
}

// Get returns a copy so callers never observe concurrent mutation.
func (s *ReputationStore) Get(userID string) (ReputationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return ReputationRecord{}, false
	}
	return *rec, true
}

// Update runs fn against the record under the write lock, creating it
// with create() on first reference.
func (s *ReputationStore) Update(userID string, create func() *ReputationRecord, fn func(*ReputationRecord)) ReputationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		rec = create()
		s.records[userID] = rec
	}
	fn(rec)
	return *rec
}

func (s *ReputationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Top returns up to limit records ordered by score descending, ties broken
// by most recent activity.
func (s *ReputationStore) Top(limit int) []ReputationRecord {
	s.mu.RLock()
	out := make([]ReputationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].LastUpdatedAt.After(out[j].LastUpdatedAt)
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
