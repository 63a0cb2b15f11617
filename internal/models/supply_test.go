package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold_StakeLocked(t *testing.T) {
	var s NetworkSupplyStats
	s.Fold(&LedgerEntry{Kind: EntryStakeLocked, Amount: 500}, 1000000)

	assert.Equal(t, int64(500), s.TotalStaked)
	assert.Equal(t, int64(1), s.ActiveStakeCount)
	assert.Equal(t, int64(0), s.TotalBurned)
}

func TestFold_BurnReducesSupply(t *testing.T) {
	s := NetworkSupplyStats{TotalSupply: 1000000, ActiveStakeCount: 1}
	s.Fold(&LedgerEntry{Kind: EntryBurn, Amount: 100}, 1000000)

	assert.Equal(t, int64(999900), s.TotalSupply)
	assert.Equal(t, int64(100), s.TotalBurned)
	assert.Equal(t, int64(0), s.ActiveStakeCount)
	assert.InDelta(t, 0.01, s.BurnRatePercent, 1e-9)
}

func TestFold_RewardsAndFees(t *testing.T) {
	var s NetworkSupplyStats
	s.Fold(&LedgerEntry{Kind: EntryReward, Amount: 7}, 1000000)
	s.Fold(&LedgerEntry{Kind: EntryFee, Amount: 3}, 1000000)

	assert.Equal(t, int64(7), s.TotalRewardsPaid)
	assert.Equal(t, int64(3), s.TotalFeesAccrued)
	assert.Equal(t, int64(0), s.TotalSupply)
}

func TestFold_SequenceMatchesHandComputation(t *testing.T) {
	s := NetworkSupplyStats{TotalSupply: 1000}
	entries := []*LedgerEntry{
		{Kind: EntryStakeLocked, Amount: 200},
		{Kind: EntryStakeLocked, Amount: 300},
		{Kind: EntryReward, Amount: 5},
		{Kind: EntryBurn, Amount: 200},
	}
	for _, e := range entries {
		s.Fold(e, 1000)
	}

	assert.Equal(t, int64(800), s.TotalSupply)
	assert.Equal(t, int64(500), s.TotalStaked)
	assert.Equal(t, int64(200), s.TotalBurned)
	assert.Equal(t, int64(1), s.ActiveStakeCount)
	assert.InDelta(t, 20.0, s.BurnRatePercent, 1e-9)
}
