package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStake_StartsActiveAtFullValue(t *testing.T) {
	now := time.Now().UTC()
	stake := NewStake("c1", "alice", 5000, now)

	assert.Equal(t, StateActive, stake.State)
	assert.Equal(t, int64(5000), stake.CurrentValue)
	assert.Equal(t, now, stake.CreatedAt)
	assert.Equal(t, now, stake.LastEngagedAt)
}

func TestAdvance_ForwardOnly(t *testing.T) {
	stake := NewStake("c1", "alice", 100, time.Now())

	assert.True(t, stake.Advance(StateDecaying))
	assert.Equal(t, StateDecaying, stake.State)

	// Regressing to Active is ignored.
	assert.False(t, stake.Advance(StateActive))
	assert.Equal(t, StateDecaying, stake.State)

	assert.True(t, stake.Advance(StateExpired))
	assert.True(t, stake.Advance(StateBurned))
	assert.False(t, stake.Advance(StateExpired))
	assert.Equal(t, StateBurned, stake.State)
}

func TestAdvance_SkipsIntermediateStates(t *testing.T) {
	stake := NewStake("c1", "alice", 100, time.Now())
	assert.True(t, stake.Advance(StateBurned))
	assert.Equal(t, StateBurned, stake.State)
}

func TestLifecycleState_Terminal(t *testing.T) {
	assert.False(t, StateActive.Terminal())
	assert.False(t, StateDecaying.Terminal())
	assert.False(t, StateExpired.Terminal())
	assert.True(t, StateBurned.Terminal())
}

func TestEngagementKind_Valid(t *testing.T) {
	assert.True(t, KindLike.Valid())
	assert.True(t, KindView.Valid())
	assert.False(t, EngagementKind("poke").Valid())
	assert.False(t, EngagementKind("").Valid())
}

func TestEngagementCounters_Inc(t *testing.T) {
	var ec EngagementCounters
	assert.Equal(t, int64(1), ec.Inc(KindLike))
	assert.Equal(t, int64(2), ec.Inc(KindLike))
	assert.Equal(t, int64(1), ec.Inc(KindShare))
	assert.Equal(t, int64(0), ec.Inc(EngagementKind("poke")))
	assert.Equal(t, int64(2), ec.Likes.Load())
	assert.Equal(t, int64(0), ec.Comments.Load())
}

func TestStakeStore_PutGetDelete(t *testing.T) {
	store := NewStakeStore()
	store.Put(NewStake("c1", "alice", 100, time.Now()))

	stake, ok := store.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", stake.OwnerID)
	assert.True(t, store.Has("c1"))
	assert.Equal(t, 1, store.Len())

	store.Delete("c1")
	assert.False(t, store.Has("c1"))
	assert.Equal(t, 0, store.Len())
}

func TestStakeStore_UpdateMissing(t *testing.T) {
	store := NewStakeStore()
	err := store.Update("nope", func(s *Stake) error { return nil })
	assert.ErrorIs(t, err, ErrStakeNotFound)
}

func TestStakeStore_IDs(t *testing.T) {
	store := NewStakeStore()
	store.Put(NewStake("c1", "alice", 100, time.Now()))
	store.Put(NewStake("c2", "bob", 200, time.Now()))

	ids := store.IDs()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "c1")
	assert.Contains(t, ids, "c2")
}
