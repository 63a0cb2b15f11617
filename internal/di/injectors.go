//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"decayd/internal"
	"decayd/internal/controllers"
	"decayd/internal/engine"
	"decayd/internal/providers"
	"decayd/internal/services"
	"decayd/internal/storage"
	"decayd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		provideDatabase,
		storage.NewZstdCompressor,
		storage.NewLedgerStore,
		provideNode,

		services.NewLoggingEventSink,
		services.NewReputationService,
		services.NewSupplyService,
		services.NewStakeService,

		engine.NewScheduler,
		controllers.NewQueryController,
		controllers.NewIngestController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
