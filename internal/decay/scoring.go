// Package decay implements the pure scoring function at the heart of the
// engine. Everything here is stateless and deterministic: identical inputs
// always produce identical outputs, and nothing in this package touches a
// clock, a store, or a logger.
package decay

import (
	"math"
	"time"

	"decayd/internal/structures"
)

// Params are the scoring coefficients, lifted from config once at startup.
type Params struct {
	RatePerHour       float64
	MinDecayFraction  float64
	EmergencyCoeff    float64
	ReputationFloor   float64
	ReputationCeiling float64
	MaxReputation     float64
	LikeWeight        float64
	CommentWeight     float64
	ShareWeight       float64
	ViewWeight        float64
	EngagementNorm    float64
}

// NewParams builds scoring parameters from the validated config.
func NewParams(conf *structures.Config) Params {
	return Params{
		RatePerHour:       conf.Decay.RatePerHour,
		MinDecayFraction:  conf.Decay.MinDecayFraction,
		EmergencyCoeff:    conf.Decay.EmergencyCoeff,
		ReputationFloor:   conf.Decay.ReputationFloor,
		ReputationCeiling: conf.Decay.ReputationCeiling,
		MaxReputation:     conf.Reputation.Max,
		LikeWeight:        conf.Decay.LikeWeight,
		CommentWeight:     conf.Decay.CommentWeight,
		ShareWeight:       conf.Decay.ShareWeight,
		ViewWeight:        conf.Decay.ViewWeight,
		EngagementNorm:    conf.Decay.EngagementNorm,
	}
}

// Engagement is a plain snapshot of the interaction counters.
type Engagement struct {
	Likes    int64
	Comments int64
	Shares   int64
	Views    int64
}

// TimeFactor is the exponential decay divisor for the elapsed interval.
// Zero or negative elapsed time yields exactly 1 (no decay yet).
func (p Params) TimeFactor(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 1.0
	}
	hours := elapsed.Hours()
	return math.Exp(p.RatePerHour * hours)
}

// EngagementMultiplier is >= 1 and grows with weighted interaction counts.
// Negative counters are clamped to zero.
func (p Params) EngagementMultiplier(e Engagement) float64 {
	weighted := p.LikeWeight*clamp(e.Likes) +
		p.CommentWeight*clamp(e.Comments) +
		p.ShareWeight*clamp(e.Shares) +
		p.ViewWeight*clamp(e.Views)
	return 1.0 + weighted/p.EngagementNorm
}

// ReputationMultiplier maps a reputation score onto
// [ReputationFloor, ReputationCeiling]. Higher reputation yields a smaller
// multiplier, which slows decay since the multiplier sits in the divisor of
// the canonical formula. The floor is strictly positive, so a zero score
// never divides by zero.
func (p Params) ReputationMultiplier(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > p.MaxReputation {
		score = p.MaxReputation
	}
	return p.ReputationCeiling - (score/p.MaxReputation)*(p.ReputationCeiling-p.ReputationFloor)
}

func (p Params) emergencyMultiplier(emergency bool) float64 {
	if emergency {
		return p.EmergencyCoeff
	}
	return 1.0
}

// Score is the canonical economic value of a stake: the staked amount
// lifted by engagement and divided by time, reputation and emergency
// factors, floored at the minimum decay fraction. Intermediates are
// floating point; the result is truncated to the integer token unit.
//
//	value = max(staked * engMult / (timeFactor * repMult * emgMult),
//	            staked * minDecayFraction)
//
// The elapsed interval for economic value runs from the stake's creation.
func (p Params) Score(stakedAmount int64, age time.Duration, e Engagement, reputationScore float64, emergency bool) int64 {
	staked := float64(stakedAmount)
	divisor := p.TimeFactor(age) * p.ReputationMultiplier(reputationScore) * p.emergencyMultiplier(emergency)
	value := staked * p.EngagementMultiplier(e) / divisor

	floor := staked * p.MinDecayFraction
	if value < floor {
		value = floor
	}
	if value > staked {
		value = staked
	}
	return int64(value)
}

// FloorValue is the absolute floor below which a stake cannot decay.
// A stake whose computed value has reached this floor is due for burn.
func (p Params) FloorValue(stakedAmount int64) int64 {
	return int64(float64(stakedAmount) * p.MinDecayFraction)
}

// VisibilityScore is the 0-100 presentation score used for eviction and
// visibility checks. Unlike the economic value its decay clock runs from
// the last engagement, so any interaction resets it.
func (p Params) VisibilityScore(stakedAmount int64, sinceEngagement time.Duration, e Engagement, reputationScore float64, emergency bool) int {
	if stakedAmount <= 0 {
		return 0
	}
	value := p.Score(stakedAmount, sinceEngagement, e, reputationScore, emergency)
	score := int(float64(value) / float64(stakedAmount) * 100.0)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func clamp(v int64) float64 {
	if v < 0 {
		return 0
	}
	return float64(v)
}
