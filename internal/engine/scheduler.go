package engine

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"decayd/internal/engine/interfaces"
	"decayd/internal/providers"
	"decayd/internal/services"
	"decayd/internal/storage"
	"decayd/internal/structures"
)

// Scheduler drives the periodic work: the decay sweep that recomputes every
// stake and evicts expired content, and the replication retry loop. opsMu
// serializes the jobs with shutdown so a sweep is never cut mid-stake.
type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	stakes     services.StakeServiceInterface
	reputation services.ReputationServiceInterface
	supply     services.SupplyServiceInterface
	node       *storage.Node
	cron       *gron.Cron
	opsMu      sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
}

func (s *Scheduler) Init() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Scheduler.ScoreInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		start := time.Now()
		s.logger.Infof(providers.TypeSweep, "Decay sweep started")
		now := time.Now().UTC()
		if err := s.stakes.RecomputeAll(s.ctx, now); err != nil {
			s.logger.Errorf(providers.TypeSweep, "Stake recompute aborted: %s", err)
			return
		}
		if err := s.node.DecaySweep(s.ctx, now, s.stakes); err != nil {
			s.logger.Errorf(providers.TypeSweep, "Storage sweep aborted: %s", err)
			return
		}
		s.metrics.ObserveSweepDuration(time.Since(start))
		s.logger.Infof(providers.TypeSweep, "Decay sweep finished in %s, %d active stakes", time.Since(start), s.stakes.ActiveCount())
	})

	s.cron.AddFunc(gron.Every(s.config.Scheduler.ReplicationInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.node.RetryReplication(s.ctx)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore rebuilds the in-memory working set from the durable store, then
// verifies the supply aggregates against a fresh ledger replay.
func (s *Scheduler) Restore() error {
	if err := s.stakes.Restore(); err != nil {
		return err
	}
	if err := s.reputation.Restore(); err != nil {
		return err
	}
	if err := s.node.Restore(); err != nil {
		return err
	}
	if err := s.supply.Restore(); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Restored %d stakes, %d content records", s.stakes.ActiveCount(), s.node.Len())
	return nil
}

// Persist flushes the pending replication set and runs a final supply
// verification. Everything else is written through as it changes.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.node.Flush(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing pending replication: %s", err)
		return err
	}
	if err := s.supply.Verify(); err != nil {
		s.logger.Errorf(providers.TypeLedger, "Supply verification failed on shutdown: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, stakes services.StakeServiceInterface, reputation services.ReputationServiceInterface, supply services.SupplyServiceInterface, node *storage.Node) interfaces.SchedulerInterface {
	return &Scheduler{
		config:     config,
		logger:     logger,
		metrics:    metrics,
		stakes:     stakes,
		reputation: reputation,
		supply:     supply,
		node:       node,
	}
}
