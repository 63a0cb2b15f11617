package internal

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decayd/internal/controllers"
	"decayd/internal/models"
	"decayd/internal/services"
	"decayd/internal/storage"
	"decayd/internal/structures"
	"decayd/internal/testutil"
)

// --- minimal mocks for routes test ---

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}

type routeTestStakeService struct{}

func (m *routeTestStakeService) OnContentCreated(_ *services.ContentCreatedEvent) error { return nil }
func (m *routeTestStakeService) OnEngagement(_ *services.EngagementEvent) error         { return nil }
func (m *routeTestStakeService) CreateStake(_, _ string, _ int64) error                 { return nil }
func (m *routeTestStakeService) RecordEngagement(_ string, _ models.EngagementKind, _, _ string) (int64, error) {
	return 0, nil
}
func (m *routeTestStakeService) RecomputeAll(_ context.Context, _ time.Time) error { return nil }
func (m *routeTestStakeService) SetEmergency(_ string, _ bool) error               { return nil }
func (m *routeTestStakeService) GetStakeInfo(_ string) (*models.StakeInfo, error)  { return nil, nil }
func (m *routeTestStakeService) GetDecayScore(_ string) (int, error)               { return 0, nil }
func (m *routeTestStakeService) VisibilityScore(_ string, _ time.Time) (int, bool) { return 0, false }
func (m *routeTestStakeService) ActiveCount() int                                  { return 0 }
func (m *routeTestStakeService) Restore() error                                    { return nil }

type routeTestReputationService struct{}

func (m *routeTestReputationService) Award(_ string, _ float64, _ string) float64    { return 0 }
func (m *routeTestReputationService) Penalize(_ string, _ float64, _ string) float64 { return 0 }
func (m *routeTestReputationService) GetUserReputation(_ string) float64             { return 0 }
func (m *routeTestReputationService) TopUsers(_ int) []models.ReputationRecord       { return nil }
func (m *routeTestReputationService) Restore() error                                 { return nil }

type routeTestSupplyService struct{}

func (m *routeTestSupplyService) Apply(_ *models.LedgerEntry) {}
func (m *routeTestSupplyService) GetNetworkStats() (models.NetworkSupplyStats, error) {
	return models.NetworkSupplyStats{}, nil
}
func (m *routeTestSupplyService) Restore() error { return nil }
func (m *routeTestSupplyService) Verify() error  { return nil }

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	logger := &testutil.MockLogger{}
	db := storage.NewMemDB()
	ledger, err := storage.NewLedgerStore(db)
	require.NoError(t, err)
	conf := &structures.Config{
		Storage: structures.StorageConfig{NodeID: "self", ReplicationFactor: 1},
	}
	node := storage.NewNode(conf, db, &testutil.MockCompressor{}, ledger, logger, testutil.NewMockMetrics())

	qc := controllers.NewQueryController(conf, logger, &routeTestStakeService{}, &routeTestReputationService{}, &routeTestSupplyService{}, &routeTestCache{})
	ic := controllers.NewIngestController(logger, &routeTestStakeService{}, node)

	router := InitRoutes(qc, ic, conf)
	routes := router.GetRoutes()

	urls := make(map[string]http.Handler, len(routes))
	for _, route := range routes {
		urls[route.Url] = route.Handler
	}

	for _, url := range []string{"/content", "/engagement", "/emergency", "/stake", "/score", "/reputation", "/top", "/stats"} {
		assert.Contains(t, urls, url)
	}
	assert.Len(t, routes, 8)
}
