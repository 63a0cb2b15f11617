package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReputationStore_GetReturnsCopy(t *testing.T) {
	store := NewReputationStore()
	store.Put(&ReputationRecord{UserID: "alice", Score: 50})

	rec, ok := store.Get("alice")
	require.True(t, ok)
	rec.Score = 99

	again, _ := store.Get("alice")
	assert.Equal(t, 50.0, again.Score)
}

func TestReputationStore_UpdateCreatesOnFirstReference(t *testing.T) {
	store := NewReputationStore()
	rec := store.Update("bob",
		func() *ReputationRecord { return &ReputationRecord{UserID: "bob", Score: 66} },
		func(r *ReputationRecord) { r.Score += 1 })

	assert.Equal(t, 67.0, rec.Score)
	assert.Equal(t, 1, store.Len())
}

func TestReputationStore_TopOrdering(t *testing.T) {
	store := NewReputationStore()
	now := time.Now()
	store.Put(&ReputationRecord{UserID: "a", Score: 10, LastUpdatedAt: now})
	store.Put(&ReputationRecord{UserID: "b", Score: 90, LastUpdatedAt: now})
	store.Put(&ReputationRecord{UserID: "c", Score: 50, LastUpdatedAt: now})
	// Tie with b, but more recent.
	store.Put(&ReputationRecord{UserID: "d", Score: 90, LastUpdatedAt: now.Add(time.Minute)})

	top := store.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, "d", top[0].UserID)
	assert.Equal(t, "b", top[1].UserID)
	assert.Equal(t, "c", top[2].UserID)
}

func TestContentRecord_ReplicaSet(t *testing.T) {
	rec := &ContentRecord{ContentID: "c1"}
	rec.AddReplica("n1")
	rec.AddReplica("n2")
	rec.AddReplica("n1")

	assert.Len(t, rec.ReplicaSet, 2)
	assert.True(t, rec.HasReplica("n1"))

	rec.RemoveReplica("n1")
	assert.False(t, rec.HasReplica("n1"))
	assert.Len(t, rec.ReplicaSet, 1)
}

func TestContentRecord_IsVisible(t *testing.T) {
	rec := &ContentRecord{DecayScore: 5}
	assert.False(t, rec.IsVisible(5))
	rec.DecayScore = 6
	assert.True(t, rec.IsVisible(5))
}
