package plans_fx

import (
	"os"

	"go.uber.org/fx"

	"tabiplan/internal/repositories"
	"tabiplan/internal/services"
	"tabiplan/pkg/memcache"
)

var Module = fx.Provide(
	providePlanner, provideItineraryService, providePlanService)

func providePlanner() (services.PlannerServiceInterface, error) {
	return services.NewGeminiPlannerService(os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
}

func provideItineraryService(
	spotRepo repositories.SpotRepository,
	schedule services.ScheduleServiceInterface,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(spotRepo, schedule)
}

func providePlanService(
	planner services.PlannerServiceInterface,
	spots services.SpotServiceInterface,
	itinerary services.ItineraryServiceInterface,
	cache memcache.GeneratedPlanCache,
) services.PlanServiceInterface {
	return services.NewPlanService(planner, spots, itinerary, cache)
}
