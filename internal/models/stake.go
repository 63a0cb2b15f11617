package models

import (
	"time"

	"go.uber.org/atomic"
)

// LifecycleState is the per-stake state machine position. States are
// strictly ordered and a stake only ever moves forward.
type LifecycleState uint8

const (
	StateActive LifecycleState = iota
	StateDecaying
	StateExpired
	StateBurned
)

func (s LifecycleState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDecaying:
		return "decaying"
	case StateExpired:
		return "expired"
	case StateBurned:
		return "burned"
	}
	return "unknown"
}

// Terminal reports whether no further value changes are possible.
func (s LifecycleState) Terminal() bool {
	return s == StateBurned
}

type EngagementKind string

const (
	KindLike    EngagementKind = "like"
	KindComment EngagementKind = "comment"
	KindShare   EngagementKind = "share"
	KindView    EngagementKind = "view"
)

func (k EngagementKind) Valid() bool {
	switch k {
	case KindLike, KindComment, KindShare, KindView:
		return true
	}
	return false
}

// EngagementCounters hold the per-stake interaction tallies. Counters are
// atomic so that concurrent engagement recording never loses an update;
// everything else on a Stake is serialized by the owning store.
type EngagementCounters struct {
	Likes    atomic.Int64 `json:"likes"`
	Comments atomic.Int64 `json:"comments"`
	Shares   atomic.Int64 `json:"shares"`
	Views    atomic.Int64 `json:"views"`
}

// Inc bumps the counter for kind and returns the value after the increment.
func (ec *EngagementCounters) Inc(kind EngagementKind) int64 {
	switch kind {
	case KindLike:
		return ec.Likes.Inc()
	case KindComment:
		return ec.Comments.Inc()
	case KindShare:
		return ec.Shares.Inc()
	case KindView:
		return ec.Views.Inc()
	}
	return 0
}

// Dec undoes one Inc for kind. Used to roll back an engagement whose
// persistence failed.
func (ec *EngagementCounters) Dec(kind EngagementKind) int64 {
	switch kind {
	case KindLike:
		return ec.Likes.Dec()
	case KindComment:
		return ec.Comments.Dec()
	case KindShare:
		return ec.Shares.Dec()
	case KindView:
		return ec.Views.Dec()
	}
	return 0
}

// Stake represents tokens locked against one content item.
type Stake struct {
	ContentID          string             `json:"content_id"`
	OwnerID            string             `json:"owner_id"`
	StakedAmount       int64              `json:"staked_amount"`
	CurrentValue       int64              `json:"current_value"`
	CreatedAt          time.Time          `json:"created_at"`
	LastRecalculatedAt time.Time          `json:"last_recalculated_at"`
	LastEngagedAt      time.Time          `json:"last_engaged_at"`
	Engagement         EngagementCounters `json:"engagement"`
	EmergencyMode      bool               `json:"emergency_mode"`
	State              LifecycleState     `json:"state"`
}

func NewStake(contentID, ownerID string, amount int64, now time.Time) *Stake {
	return &Stake{
		ContentID:          contentID,
		OwnerID:            ownerID,
		StakedAmount:       amount,
		CurrentValue:       amount,
		CreatedAt:          now,
		LastRecalculatedAt: now,
		LastEngagedAt:      now,
		State:              StateActive,
	}
}

// Advance moves the stake to next if that is a forward transition.
// Regressions are ignored, which keeps the state machine monotonic even
// when engagement briefly lifts the score back above a threshold.
func (s *Stake) Advance(next LifecycleState) bool {
	if next <= s.State {
		return false
	}
	s.State = next
	return true
}

// StakeInfo is the copy-safe snapshot returned by the query surface.
type StakeInfo struct {
	ContentID     string    `json:"content_id"`
	OwnerID       string    `json:"owner_id"`
	StakedAmount  int64     `json:"staked_amount"`
	CurrentValue  int64     `json:"current_value"`
	CreatedAt     time.Time `json:"created_at"`
	LastEngagedAt time.Time `json:"last_engaged_at"`
	Likes         int64     `json:"likes"`
	Comments      int64     `json:"comments"`
	Shares        int64     `json:"shares"`
	Views         int64     `json:"views"`
	EmergencyMode bool      `json:"emergency_mode"`
	State         string    `json:"state"`
}

func (s *Stake) Info() *StakeInfo {
	return &StakeInfo{
		ContentID:     s.ContentID,
		OwnerID:       s.OwnerID,
		StakedAmount:  s.StakedAmount,
		CurrentValue:  s.CurrentValue,
		CreatedAt:     s.CreatedAt,
		LastEngagedAt: s.LastEngagedAt,
		Likes:         s.Engagement.Likes.Load(),
		Comments:      s.Engagement.Comments.Load(),
		Shares:        s.Engagement.Shares.Load(),
		Views:         s.Engagement.Views.Load(),
		EmergencyMode: s.EmergencyMode,
		State:         s.State.String(),
	}
}
