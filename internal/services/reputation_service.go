package services

import (
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"decayd/internal/models"
	"decayd/internal/providers"
	"decayd/internal/storage"
	"decayd/internal/structures"
)

const reputationPrefix = "rep/"

type ReputationServiceInterface interface {
	Award(userID string, points float64, reason string) float64
	Penalize(userID string, points float64, reason string) float64
	GetUserReputation(userID string) float64
	TopUsers(limit int) []models.ReputationRecord
	Restore() error
}

// ReputationService tracks per-user decaying trust scores. Decay is lazy:
// an inactive user's score is only corrected when it is next read or
// updated, never by a background task.
type ReputationService struct {
	conf   *structures.Config
	logger providers.Logger
	db     storage.Database
	store  *models.ReputationStore
	now    func() time.Time
}

func NewReputationService(conf *structures.Config, logger providers.Logger, db storage.Database) ReputationServiceInterface {
	return &ReputationService{
		conf:   conf,
		logger: logger,
		db:     db,
		store:  models.NewReputationStore(),
		now:    time.Now,
	}
}

// SetNow overrides the clock. Intended for tests.
func (rs *ReputationService) SetNow(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	rs.now = now
}

// Award raises the user's score by points, capped per update, clamped to
// [0, max]. Returns the resulting score.
func (rs *ReputationService) Award(userID string, points float64, reason string) float64 {
	if points < 0 {
		points = 0
	}
	if points > rs.conf.Reputation.MaxGainPerUpdate {
		points = rs.conf.Reputation.MaxGainPerUpdate
	}
	rec := rs.adjust(userID, points)
	rs.logger.Debugf(providers.TypeApp, "Reputation award %s: +%.2f (%s) -> %.2f", userID, points, reason, rec.Score)
	return rec.Score
}

// Penalize lowers the user's score by points, clamped to [0, max].
func (rs *ReputationService) Penalize(userID string, points float64, reason string) float64 {
	if points < 0 {
		points = 0
	}
	rec := rs.adjust(userID, -points)
	rs.logger.Debugf(providers.TypeApp, "Reputation penalty %s: -%.2f (%s) -> %.2f", userID, points, reason, rec.Score)
	return rec.Score
}

// GetUserReputation returns the current (decayed) score, creating the
// record lazily on first reference.
func (rs *ReputationService) GetUserReputation(userID string) float64 {
	return rs.adjust(userID, 0).Score
}

func (rs *ReputationService) TopUsers(limit int) []models.ReputationRecord {
	now := rs.now()
	all := rs.store.Top(0)
	// Stored scores may be stale; apply the read-side decay to the copies
	// before the final ordering.
	for i := range all {
		all[i].Score = decayedScore(&all[i], rs.conf.Reputation.DecayRatePerDay, now)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].LastUpdatedAt.After(all[j].LastUpdatedAt)
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// adjust applies lazy decay, then delta, then clamps and persists.
func (rs *ReputationService) adjust(userID string, delta float64) models.ReputationRecord {
	now := rs.now()
	maxScore := rs.conf.Reputation.Max

	rec := rs.store.Update(userID,
		func() *models.ReputationRecord {
			return &models.ReputationRecord{
				UserID:        userID,
				Score:         rs.conf.Reputation.InitialScore,
				LastUpdatedAt: now,
			}
		},
		func(rec *models.ReputationRecord) {
			decayed := decayedScore(rec, rs.conf.Reputation.DecayRatePerDay, now)
			if decayed != rec.Score {
				rec.Score = decayed
				rec.LastUpdatedAt = now
			}

			if delta != 0 {
				rec.Score += delta
				rec.LastUpdatedAt = now
			}
			if rec.Score < 0 {
				rec.Score = 0
			}
			if rec.Score > maxScore {
				rec.Score = maxScore
			}
		})

	if err := rs.persist(&rec); err != nil {
		rs.logger.Errorf(providers.TypeApp, "Persisting reputation for %s failed: %s", userID, err)
	}
	return rec
}

// decayedScore applies the once-per-read passive decay: after more than a
// day of inactivity the score loses score*rate*daysElapsed.
func decayedScore(rec *models.ReputationRecord, ratePerDay float64, now time.Time) float64 {
	elapsed := now.Sub(rec.LastUpdatedAt)
	if elapsed <= 24*time.Hour {
		return rec.Score
	}
	days := elapsed.Hours() / 24.0
	score := rec.Score - rec.Score*ratePerDay*days
	if score < 0 {
		score = 0
	}
	return score
}

func (rs *ReputationService) persist(rec *models.ReputationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return rs.db.Put([]byte(reputationPrefix+rec.UserID), data)
}

// Restore loads all reputation records from the durable store.
func (rs *ReputationService) Restore() error {
	return rs.db.IteratePrefix([]byte(reputationPrefix), func(key, value []byte) error {
		var rec models.ReputationRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		rs.store.Put(&rec)
		return nil
	})
}
