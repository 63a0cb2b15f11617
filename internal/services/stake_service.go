package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"decayd/internal/decay"
	"decayd/internal/models"
	"decayd/internal/providers"
	"decayd/internal/storage"
	"decayd/internal/structures"
)

const stakePrefix = "stake/"

type StakeServiceInterface interface {
	OnContentCreated(ev *ContentCreatedEvent) error
	OnEngagement(ev *EngagementEvent) error
	CreateStake(ownerID, contentID string, amount int64) error
	RecordEngagement(contentID string, kind models.EngagementKind, engagerID, eventID string) (int64, error)
	RecomputeAll(ctx context.Context, now time.Time) error
	SetEmergency(contentID string, on bool) error
	GetStakeInfo(contentID string) (*models.StakeInfo, error)
	GetDecayScore(contentID string) (int, error)
	VisibilityScore(contentID string, now time.Time) (int, bool)
	ActiveCount() int
	Restore() error
}

// StakeService owns the set of active stakes and drives each one through
// its lifecycle: created on a content event, recomputed by the periodic
// sweep, and finally written off with a burn once the decayed value
// reaches the floor.
type StakeService struct {
	conf       *structures.Config
	params     decay.Params
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	db         storage.Database
	stakes     *models.StakeStore
	reputation ReputationServiceInterface
	ledger     *storage.LedgerStore
	sink       EventSink
	dedupe     *freecache.Cache
	now        func() time.Time

	tallyMu sync.Mutex
	// dailyRewards caps how much a single engager can earn per UTC day;
	// totalRewards caps lifetime earnings. Both are rebuilt from the
	// ledger on restore.
	dailyRewards map[string]dailyTally
	totalRewards map[string]int64
}

type dailyTally struct {
	day    string
	amount int64
}

func NewStakeService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, db storage.Database, reputation ReputationServiceInterface, ledger *storage.LedgerStore, sink EventSink) StakeServiceInterface {
	return &StakeService{
		conf:         conf,
		params:       decay.NewParams(conf),
		logger:       logger,
		metrics:      metrics,
		db:           db,
		stakes:       models.NewStakeStore(),
		reputation:   reputation,
		ledger:       ledger,
		sink:         sink,
		dedupe:       freecache.NewCache(conf.Stake.DedupeCacheSize * 1024 * 1024),
		now:          time.Now,
		dailyRewards: make(map[string]dailyTally),
		totalRewards: make(map[string]int64),
	}
}

// SetNow overrides the clock. Intended for tests.
func (ss *StakeService) SetNow(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	ss.now = now
}

// OnContentCreated handles the inbound stake event. Delivery is
// at-least-once: a duplicate content id is logged and dropped, not failed
// back to the transport.
func (ss *StakeService) OnContentCreated(ev *ContentCreatedEvent) error {
	if ev.EventID != "" && ss.alreadySeen(ev.EventID) {
		return nil
	}
	err := ss.CreateStake(ev.OwnerID, ev.ContentID, ev.Amount)
	if errors.Is(err, ErrDuplicateStake) {
		ss.logger.Debugf(providers.TypeApp, "Duplicate content created event for %s dropped", ev.ContentID)
		err = nil
	}
	if err == nil && ev.EventID != "" {
		ss.markSeen(ev.EventID)
	}
	return err
}

// OnEngagement handles the inbound engagement event, idempotently.
func (ss *StakeService) OnEngagement(ev *EngagementEvent) error {
	_, err := ss.RecordEngagement(ev.ContentID, ev.Kind, ev.EngagerID, ev.EventID)
	if errors.Is(err, ErrContentNotFound) {
		// Burned or never staked; at-least-once delivery makes this normal.
		ss.logger.Debugf(providers.TypeApp, "Engagement for unknown content %s dropped", ev.ContentID)
		return nil
	}
	return err
}

// CreateStake locks amount tokens against contentID and inserts the stake
// in Active state.
func (ss *StakeService) CreateStake(ownerID, contentID string, amount int64) error {
	if amount < ss.conf.Stake.MinStake || amount > ss.conf.Stake.MaxStake {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrStakeOutOfRange, amount, ss.conf.Stake.MinStake, ss.conf.Stake.MaxStake)
	}
	if ss.stakes.Has(contentID) {
		return fmt.Errorf("%w: %s", ErrDuplicateStake, contentID)
	}

	now := ss.now().UTC()
	stake := models.NewStake(contentID, ownerID, amount, now)
	ss.stakes.Put(stake)
	if err := ss.persist(stake); err != nil {
		ss.stakes.Delete(contentID)
		return err
	}

	if err := ss.ledger.Append(&models.LedgerEntry{
		ID:        uuid.NewString(),
		Kind:      models.EntryStakeLocked,
		ContentID: contentID,
		UserID:    ownerID,
		Amount:    amount,
		At:        now,
	}); err != nil {
		return err
	}

	ss.reputation.Award(ownerID, ss.conf.Reputation.StakeAward, "stake_created")
	ss.metrics.IncStakesCreated()
	ss.logger.Infof(providers.TypeApp, "Stake created: content=%s owner=%s amount=%d", contentID, ownerID, amount)
	return nil
}

// RecordEngagement applies one engagement: the counter increment is atomic,
// the decay clock for visibility resets, and the engager is granted an
// immediate reward proportional to the post-increment current value.
// Returns the reward amount granted (zero when capped or too small).
func (ss *StakeService) RecordEngagement(contentID string, kind models.EngagementKind, engagerID, eventID string) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEngagementKind, kind)
	}
	if eventID != "" && ss.alreadySeen(eventID) {
		return 0, nil
	}

	now := ss.now().UTC()
	var reward int64
	var ownerID string

	err := ss.stakes.Update(contentID, func(stake *models.Stake) error {
		if stake.State.Terminal() {
			return models.ErrStakeNotFound
		}
		prevValue := stake.CurrentValue
		prevEngaged := stake.LastEngagedAt
		prevRecalc := stake.LastRecalculatedAt

		stake.Engagement.Inc(kind)
		stake.LastEngagedAt = now
		stake.LastRecalculatedAt = now

		// The refreshed value reflects the counter state after this
		// increment, so reward and counters stay consistent.
		rep := ss.reputation.GetUserReputation(stake.OwnerID)
		stake.CurrentValue = ss.params.Score(stake.StakedAmount, now.Sub(stake.CreatedAt), engagementOf(stake), rep, stake.EmergencyMode)

		reward = int64(float64(stake.CurrentValue) * ss.kindWeight(kind) * ss.conf.Stake.RewardRate)
		ownerID = stake.OwnerID

		if err := ss.persist(stake); err != nil {
			// Roll back the in-memory mutation so a redelivery of the
			// same event starts from a clean slate.
			stake.Engagement.Dec(kind)
			stake.CurrentValue = prevValue
			stake.LastEngagedAt = prevEngaged
			stake.LastRecalculatedAt = prevRecalc
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrStakeNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrContentNotFound, contentID)
		}
		return 0, err
	}

	// The engagement is durable from here on; only now is the event id
	// recorded, so a transient failure above leaves the redelivery live.
	if eventID != "" {
		ss.markSeen(eventID)
	}

	ss.reputation.Award(ownerID, ss.conf.Reputation.EngagementAward, "engagement_received")

	reward = ss.capReward(engagerID, reward, now)
	if reward <= 0 {
		return 0, nil
	}

	if err := ss.ledger.Append(&models.LedgerEntry{
		ID:        uuid.NewString(),
		Kind:      models.EntryReward,
		ContentID: contentID,
		UserID:    engagerID,
		Amount:    reward,
		At:        now,
	}); err != nil {
		return 0, err
	}
	ss.sink.RewardGranted(engagerID, contentID, reward)
	ss.metrics.IncRewards(reward)
	return reward, nil
}

// RecomputeAll is the periodic sweep: every stake's value and state is
// refreshed from the scoring function, and stakes that reached the floor
// are burned. The sweep checkpoints after each stake and stops cleanly
// between stakes once ctx is cancelled, so a shutdown mid-sweep never
// leaves a value inconsistent with its state.
func (ss *StakeService) RecomputeAll(ctx context.Context, now time.Time) error {
	for _, contentID := range ss.stakes.IDs() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var burned bool
		var burnedAmount int64
		var ownerID string

		err := ss.stakes.Update(contentID, func(stake *models.Stake) error {
			if stake.State.Terminal() {
				return nil
			}

			rep := ss.reputation.GetUserReputation(stake.OwnerID)
			value := ss.params.Score(stake.StakedAmount, now.Sub(stake.CreatedAt), engagementOf(stake), rep, stake.EmergencyMode)
			stake.CurrentValue = value
			stake.LastRecalculatedAt = now

			if value < stake.StakedAmount {
				stake.Advance(models.StateDecaying)
			}
			expireAt := int64(float64(stake.StakedAmount) * ss.conf.Decay.ExpireFraction)
			if value <= expireAt {
				stake.Advance(models.StateExpired)
			}
			if value <= ss.params.FloorValue(stake.StakedAmount) {
				burned = true
				burnedAmount = value
				ownerID = stake.OwnerID
				stake.CurrentValue = 0
				stake.Advance(models.StateBurned)
			}
			return ss.persist(stake)
		})
		if err != nil {
			if errors.Is(err, models.ErrStakeNotFound) {
				continue
			}
			return err
		}

		if burned {
			if err := ss.finalizeBurn(contentID, ownerID, burnedAmount, now); err != nil {
				return err
			}
		}
	}

	ss.metrics.SetActiveStakes(int64(ss.stakes.Len()))
	return nil
}

// finalizeBurn emits the single burn event and removes the stake from the
// active set. The stake's history survives in the ledger.
func (ss *StakeService) finalizeBurn(contentID, ownerID string, amount int64, now time.Time) error {
	if err := ss.ledger.Append(&models.LedgerEntry{
		ID:        uuid.NewString(),
		Kind:      models.EntryBurn,
		ContentID: contentID,
		UserID:    ownerID,
		Amount:    amount,
		At:        now,
	}); err != nil {
		return err
	}

	ss.stakes.Delete(contentID)
	if err := ss.db.Delete([]byte(stakePrefix + contentID)); err != nil {
		return err
	}

	ss.reputation.Penalize(ownerID, ss.conf.Reputation.StakeAward, "stake_burned")
	ss.sink.ContentBurned(contentID, ownerID, amount)
	ss.metrics.IncBurns(amount)
	ss.logger.Infof(providers.TypeSweep, "Burned stake: content=%s owner=%s amount=%d", contentID, ownerID, amount)
	return nil
}

// SetEmergency toggles accelerated decay for flagged content.
func (ss *StakeService) SetEmergency(contentID string, on bool) error {
	err := ss.stakes.Update(contentID, func(stake *models.Stake) error {
		stake.EmergencyMode = on
		return ss.persist(stake)
	})
	if errors.Is(err, models.ErrStakeNotFound) {
		return fmt.Errorf("%w: %s", ErrContentNotFound, contentID)
	}
	return err
}

func (ss *StakeService) GetStakeInfo(contentID string) (*models.StakeInfo, error) {
	stake, ok := ss.stakes.Get(contentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentNotFound, contentID)
	}
	return stake.Info(), nil
}

func (ss *StakeService) GetDecayScore(contentID string) (int, error) {
	score, ok := ss.VisibilityScore(contentID, ss.now().UTC())
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrContentNotFound, contentID)
	}
	return score, nil
}

// VisibilityScore is the 0-100 presentation score, decaying from the last
// engagement. Implements storage.ScoreSource for the eviction sweep.
func (ss *StakeService) VisibilityScore(contentID string, now time.Time) (int, bool) {
	stake, ok := ss.stakes.Get(contentID)
	if !ok || stake.State.Terminal() {
		return 0, false
	}
	rep := ss.reputation.GetUserReputation(stake.OwnerID)
	score := ss.params.VisibilityScore(stake.StakedAmount, now.Sub(stake.LastEngagedAt), engagementOf(stake), rep, stake.EmergencyMode)
	return score, true
}

func (ss *StakeService) ActiveCount() int {
	return ss.stakes.Len()
}

// Restore loads the stake working set from the durable store and rebuilds
// the per-user reward totals from the ledger.
func (ss *StakeService) Restore() error {
	err := ss.db.IteratePrefix([]byte(stakePrefix), func(key, value []byte) error {
		var stake models.Stake
		if err := json.Unmarshal(value, &stake); err != nil {
			return err
		}
		if !stake.State.Terminal() {
			ss.stakes.Put(&stake)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ss.tallyMu.Lock()
	defer ss.tallyMu.Unlock()
	ss.totalRewards = make(map[string]int64)
	ss.dailyRewards = make(map[string]dailyTally)
	today := ss.now().UTC().Format("2006-01-02")
	return ss.ledger.Replay(func(entry *models.LedgerEntry) error {
		if entry.Kind != models.EntryReward {
			return nil
		}
		ss.totalRewards[entry.UserID] += entry.Amount
		// Reward entries from the current UTC day count against the
		// daily cap again, so a restart never resets it.
		if entry.At.UTC().Format("2006-01-02") == today {
			tally := ss.dailyRewards[entry.UserID]
			tally.day = today
			tally.amount += entry.Amount
			ss.dailyRewards[entry.UserID] = tally
		}
		return nil
	})
}

// capReward enforces the per-user daily and lifetime reward limits.
// Returns the amount actually grantable, and tallies it.
func (ss *StakeService) capReward(userID string, reward int64, now time.Time) int64 {
	if reward <= 0 {
		return 0
	}
	ss.tallyMu.Lock()
	defer ss.tallyMu.Unlock()

	if limit := ss.conf.Stake.TotalRewardLimit; limit > 0 {
		left := limit - ss.totalRewards[userID]
		if left <= 0 {
			return 0
		}
		if reward > left {
			reward = left
		}
	}

	if limit := ss.conf.Stake.DailyRewardLimit; limit > 0 {
		day := now.Format("2006-01-02")
		tally := ss.dailyRewards[userID]
		if tally.day != day {
			tally = dailyTally{day: day}
		}
		left := limit - tally.amount
		if left <= 0 {
			return 0
		}
		if reward > left {
			reward = left
		}
		tally.amount += reward
		ss.dailyRewards[userID] = tally
	}

	ss.totalRewards[userID] += reward
	return reward
}

// alreadySeen reports whether eventID was processed inside the dedupe
// window. It does not record the id: that happens in markSeen, only after
// the event has been applied, so a failed attempt stays redeliverable.
func (ss *StakeService) alreadySeen(eventID string) bool {
	_, err := ss.dedupe.Get([]byte(eventID))
	return err == nil
}

func (ss *StakeService) markSeen(eventID string) {
	_ = ss.dedupe.Set([]byte(eventID), []byte{1}, int(ss.conf.Stake.DedupeWindow.Seconds()))
}

func (ss *StakeService) kindWeight(kind models.EngagementKind) float64 {
	switch kind {
	case models.KindLike:
		return ss.params.LikeWeight
	case models.KindComment:
		return ss.params.CommentWeight
	case models.KindShare:
		return ss.params.ShareWeight
	case models.KindView:
		return ss.params.ViewWeight
	}
	return 0
}

func (ss *StakeService) persist(stake *models.Stake) error {
	data, err := json.Marshal(stake)
	if err != nil {
		return err
	}
	return ss.db.Put([]byte(stakePrefix+stake.ContentID), data)
}

func engagementOf(stake *models.Stake) decay.Engagement {
	return decay.Engagement{
		Likes:    stake.Engagement.Likes.Load(),
		Comments: stake.Engagement.Comments.Load(),
		Shares:   stake.Engagement.Shares.Load(),
		Views:    stake.Engagement.Views.Load(),
	}
}
