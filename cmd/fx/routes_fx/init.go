package routes_fx

import (
	"go.uber.org/fx"

	"tabiplan/internal/services"
)

var Module = fx.Provide(
	provideRouteService, provideScheduleService)

func provideRouteService() services.RouteServiceInterface {
	return services.NewRouteService()
}

func provideScheduleService(routes services.RouteServiceInterface) services.ScheduleServiceInterface {
	return services.NewScheduleService(routes)
}
