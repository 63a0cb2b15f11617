package models

// NetworkSupplyStats is the aggregate derived from the ledger stream.
// It is never hand-mutated: the supply accountant recomputes or folds it,
// and a full replay must always reproduce the incrementally-held values.
type NetworkSupplyStats struct {
	TotalSupply      int64   `json:"total_supply"`
	TotalBurned      int64   `json:"total_burned"`
	TotalStaked      int64   `json:"total_staked"`
	TotalRewardsPaid int64   `json:"total_rewards_paid"`
	TotalFeesAccrued int64   `json:"total_fees_accrued"`
	ActiveStakeCount int64   `json:"active_stake_count"`
	BurnRatePercent  float64 `json:"burn_rate_percent"`
}

// Fold applies one ledger entry to the aggregate.
func (s *NetworkSupplyStats) Fold(e *LedgerEntry, initialSupply int64) {
	switch e.Kind {
	case EntryStakeLocked:
		s.TotalStaked += e.Amount
		s.ActiveStakeCount++
	case EntryBurn:
		s.TotalBurned += e.Amount
		s.TotalSupply -= e.Amount
		s.ActiveStakeCount--
	case EntryReward:
		s.TotalRewardsPaid += e.Amount
	case EntryFee:
		s.TotalFeesAccrued += e.Amount
	}
	if initialSupply > 0 {
		s.BurnRatePercent = float64(s.TotalBurned) / float64(initialSupply) * 100.0
	}
}
