package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decayd/internal/storage"
	"decayd/internal/testutil"
)

func newReputationService(t *testing.T) (*ReputationService, storage.Database) {
	t.Helper()
	db := storage.NewMemDB()
	rs := NewReputationService(testConfig(), &testutil.MockLogger{}, db).(*ReputationService)
	return rs, db
}

func TestGetUserReputation_StartsAtInitialScore(t *testing.T) {
	rs, _ := newReputationService(t)
	assert.Equal(t, 66.0, rs.GetUserReputation("alice"))
}

func TestAward_CapsGainPerUpdate(t *testing.T) {
	rs, _ := newReputationService(t)
	score := rs.Award("alice", 50, "test")
	assert.Equal(t, 76.0, score) // 66 + capped 10
}

func TestAward_ClampsAtMax(t *testing.T) {
	rs, _ := newReputationService(t)
	for i := 0; i < 10; i++ {
		rs.Award("alice", 10, "test")
	}
	assert.Equal(t, 100.0, rs.GetUserReputation("alice"))
}

func TestPenalize_ClampsAtZero(t *testing.T) {
	rs, _ := newReputationService(t)
	score := rs.Penalize("alice", 500, "test")
	assert.Equal(t, 0.0, score)
}

func TestPenalize_NegativePointsIgnored(t *testing.T) {
	rs, _ := newReputationService(t)
	score := rs.Penalize("alice", -10, "test")
	assert.Equal(t, 66.0, score)
}

func TestLazyDecay_AppliedOnRead(t *testing.T) {
	rs, _ := newReputationService(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rs.SetNow(func() time.Time { return start })
	rs.Award("alice", 10, "test") // 76

	// Within a day nothing decays.
	rs.SetNow(func() time.Time { return start.Add(12 * time.Hour) })
	assert.Equal(t, 76.0, rs.GetUserReputation("alice"))

	// Two days idle: 76 - 76*0.05*2 = 68.4
	rs.SetNow(func() time.Time { return start.Add(48 * time.Hour) })
	assert.InDelta(t, 68.4, rs.GetUserReputation("alice"), 1e-9)
}

func TestLazyDecay_DoesNotCompoundOnRepeatedReads(t *testing.T) {
	rs, _ := newReputationService(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rs.SetNow(func() time.Time { return start })
	rs.Award("alice", 10, "test")

	rs.SetNow(func() time.Time { return start.Add(48 * time.Hour) })
	first := rs.GetUserReputation("alice")
	second := rs.GetUserReputation("alice")
	assert.Equal(t, first, second)
}

func TestTopUsers_OrdersByDecayedScore(t *testing.T) {
	rs, _ := newReputationService(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rs.SetNow(func() time.Time { return start })
	rs.Award("idle", 10, "test") // 76, then decays

	rs.SetNow(func() time.Time { return start.Add(10 * 24 * time.Hour) })
	rs.Award("active", 5, "test") // 71, fresh

	top := rs.TopUsers(2)
	require.Len(t, top, 2)
	// idle decayed to 76 - 76*0.05*10 = 38, so active leads.
	assert.Equal(t, "active", top[0].UserID)
	assert.Equal(t, "idle", top[1].UserID)
	assert.InDelta(t, 38.0, top[1].Score, 1e-9)
}

func TestReputation_RestoreRoundtrip(t *testing.T) {
	rs, db := newReputationService(t)
	rs.Award("alice", 10, "test")
	rs.Penalize("bob", 20, "test")

	restored := NewReputationService(testConfig(), &testutil.MockLogger{}, db).(*ReputationService)
	require.NoError(t, restored.Restore())

	assert.Equal(t, 76.0, restored.GetUserReputation("alice"))
	assert.Equal(t, 46.0, restored.GetUserReputation("bob"))
}
