package models

import "time"

// EntryKind discriminates the append-only ledger entry types.
type EntryKind uint8

const (
	EntryStakeLocked EntryKind = iota
	EntryBurn
	EntryReward
	EntryFee
)

func (k EntryKind) String() string {
	switch k {
	case EntryStakeLocked:
		return "stake_locked"
	case EntryBurn:
		return "burn"
	case EntryReward:
		return "reward"
	case EntryFee:
		return "fee"
	}
	return "unknown"
}

// LedgerEntry records one value transfer. Entries are immutable once
// written; every derived aggregate folds over this stream.
//
// Amount semantics per kind:
//   - stake_locked: tokens locked by the author at creation
//   - burn:         remaining value destroyed (never returns to a balance)
//   - reward:       tokens granted to UserID for engaging with ContentID
//   - fee:          storage fee credited to the hosting node (UserID)
type LedgerEntry struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Kind      EntryKind `json:"kind"`
	ContentID string    `json:"content_id"`
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	At        time.Time `json:"at"`
}
