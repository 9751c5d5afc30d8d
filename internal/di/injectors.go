//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"cptrack/internal"
	"cptrack/internal/controllers"
	"cptrack/internal/platform"
	"cptrack/internal/providers"
	"cptrack/internal/services"
	"cptrack/internal/store"
	"cptrack/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewHTTPClientProvider,

		store.NewZstdCompressor,
		store.NewFileStore,

		platform.NewAdapters,

		services.NewIdentityService,
		services.ProvideConfiguredCount,
		services.NewAggregateService,
		services.NewSnapshotService,

		controllers.NewProfileController,
		controllers.NewDashboardController,
		controllers.NewHandleController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
