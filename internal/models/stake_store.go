package models

import (
	"errors"
	"sync"
)

var ErrStakeNotFound = errors.New("stake not found")

// StakeStore is the in-memory working set of non-burned stakes. It is a
// read-through cache over the durable store: the owning service persists
// every mutation it makes here.
//
// All mutation goes through Update, which serializes writers per store.
// Engagement counters are atomic and may be bumped outside the lock.
type StakeStore struct {
	mu     sync.RWMutex
	stakes map[string]*Stake
}

func NewStakeStore() *StakeStore {
	return &StakeStore{
		stakes: make(map[string]*Stake),
	}
}

func (s *StakeStore) Put(stake *Stake) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakes[stake.ContentID] = stake
}

// Get returns the live stake. Callers must not mutate the result;
// use Update for that.
func (s *StakeStore) Get(contentID string) (*Stake, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stake, ok := s.stakes[contentID]
	return stake, ok
}

func (s *StakeStore) Has(contentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.stakes[contentID]
	return ok
}

// Update runs fn against the stake under the store's write lock.
func (s *StakeStore) Update(contentID string, fn func(*Stake) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stake, ok := s.stakes[contentID]
	if !ok {
		return ErrStakeNotFound
	}
	return fn(stake)
}

func (s *StakeStore) Delete(contentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stakes, contentID)
}

func (s *StakeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stakes)
}

// IDs returns a snapshot of all stake ids. The sweep iterates over this
// snapshot so that stakes created mid-sweep are simply picked up next time.
func (s *StakeStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.stakes))
	for id := range s.stakes {
		ids = append(ids, id)
	}
	return ids
}

// Infos returns copy-safe snapshots of every stake.
func (s *StakeStore) Infos() []*StakeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]*StakeInfo, 0, len(s.stakes))
	for _, stake := range s.stakes {
		infos = append(infos, stake.Info())
	}
	return infos
}
