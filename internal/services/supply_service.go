package services

import (
	"fmt"
	"sync"

	"decayd/internal/models"
	"decayd/internal/providers"
	"decayd/internal/storage"
	"decayd/internal/structures"
)

type SupplyServiceInterface interface {
	Apply(entry *models.LedgerEntry)
	GetNetworkStats() (models.NetworkSupplyStats, error)
	Restore() error
	Verify() error
}

// SupplyService folds the append-only ledger stream into the network-wide
// supply aggregates. It registers as the ledger observer, so the
// incremental fold sees exactly the entries that were persisted, in order.
// A full replay must reproduce the incrementally-held values; when it does
// not, the service refuses to serve stats until the ledger is repaired.
type SupplyService struct {
	mu      sync.RWMutex
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	ledger  *storage.LedgerStore
	stats   models.NetworkSupplyStats
	corrupt bool
}

func NewSupplyService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, ledger *storage.LedgerStore) SupplyServiceInterface {
	ss := &SupplyService{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		ledger:  ledger,
		stats:   emptyStats(conf),
	}
	ledger.SetObserver(ss)
	return ss
}

func emptyStats(conf *structures.Config) models.NetworkSupplyStats {
	return models.NetworkSupplyStats{TotalSupply: conf.Supply.InitialSupply}
}

// Apply folds one appended entry into the running aggregates.
// Implements storage.LedgerObserver.
func (ss *SupplyService) Apply(entry *models.LedgerEntry) {
	ss.mu.Lock()
	ss.stats.Fold(entry, ss.conf.Supply.InitialSupply)
	stats := ss.stats
	ss.mu.Unlock()

	ss.metrics.SetTotalSupply(stats.TotalSupply)
	ss.metrics.SetTotalBurned(stats.TotalBurned)
	ss.metrics.SetActiveStakes(stats.ActiveStakeCount)
}

func (ss *SupplyService) GetNetworkStats() (models.NetworkSupplyStats, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	if ss.corrupt {
		return models.NetworkSupplyStats{}, ErrLedgerCorruption
	}
	return ss.stats, nil
}

// Restore rebuilds the aggregates from a full ledger replay. Called once
// at startup, before any new entries are appended.
func (ss *SupplyService) Restore() error {
	stats, err := ss.replay()
	if err != nil {
		return err
	}

	ss.mu.Lock()
	ss.stats = stats
	ss.corrupt = false
	ss.mu.Unlock()

	ss.metrics.SetTotalSupply(stats.TotalSupply)
	ss.metrics.SetTotalBurned(stats.TotalBurned)
	ss.metrics.SetActiveStakes(stats.ActiveStakeCount)
	return nil
}

// Verify replays the ledger and compares the result against the running
// aggregates. A mismatch marks the service corrupt: stats queries fail
// with ErrLedgerCorruption until a successful Restore.
func (ss *SupplyService) Verify() error {
	replayed, err := ss.replay()
	if err != nil {
		return err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if replayed != ss.stats {
		ss.corrupt = true
		ss.logger.Errorf(providers.TypeLedger, "Ledger replay mismatch: running=%+v replayed=%+v", ss.stats, replayed)
		return fmt.Errorf("%w: replay disagrees with running aggregates", ErrLedgerCorruption)
	}
	return nil
}

func (ss *SupplyService) replay() (models.NetworkSupplyStats, error) {
	stats := emptyStats(ss.conf)
	err := ss.ledger.Replay(func(entry *models.LedgerEntry) error {
		stats.Fold(entry, ss.conf.Supply.InitialSupply)
		return nil
	})
	if err != nil {
		return models.NetworkSupplyStats{}, fmt.Errorf("%w: %s", ErrLedgerCorruption, err)
	}
	return stats, nil
}
