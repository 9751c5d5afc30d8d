package internal

import (
	"net/http"

	"cptrack/internal/controllers"
	"cptrack/internal/providers"
)

func InitRoutes(
	profileController *controllers.ProfileController,
	dashboardController *controllers.DashboardController,
	handleController *controllers.HandleController,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/profile", http.HandlerFunc(profileController.GetProfile))
	routers.Get("/performance", http.HandlerFunc(profileController.GetPerformance))
	routers.Get("/dashboard", http.HandlerFunc(dashboardController.GetDashboard))
	routers.Post("/dashboard/refresh", http.HandlerFunc(dashboardController.Refresh))
	routers.Get("/handles", http.HandlerFunc(handleController.GetHandles))
	routers.Post("/handles", http.HandlerFunc(handleController.SetHandle))
	return routers
}
