package services

import (
	"errors"

	"decayd/internal/storage"
)

var (
	// ErrStakeOutOfRange rejects stake amounts outside the configured
	// [minStake, maxStake] window. Never retried.
	ErrStakeOutOfRange = errors.New("stake amount out of range")

	// ErrDuplicateStake marks a second stake attempt for the same content.
	ErrDuplicateStake = errors.New("stake already exists for content")

	// ErrContentNotFound surfaces lookups against unknown content ids.
	ErrContentNotFound = storage.ErrContentNotFound

	// ErrInvalidEngagementKind rejects unknown engagement kinds.
	ErrInvalidEngagementKind = errors.New("invalid engagement kind")

	// ErrLedgerCorruption means a replay produced aggregates that disagree
	// with the incrementally maintained ones. Stats are refused until the
	// ledger is repaired.
	ErrLedgerCorruption = errors.New("ledger corruption detected")
)
