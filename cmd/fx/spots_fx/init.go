package spots_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tabiplan/internal/repositories"
	"tabiplan/internal/services"
	"tabiplan/pkg/utils"
)

var Module = fx.Provide(
	provideSpotRepo, provideEmbeddingRepo, provideEmbeddingClient, provideSpotService)

func provideSpotRepo(db *gorm.DB) repositories.SpotRepository {
	return repositories.NewSpotRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.ISpotEmbeddingRepository {
	return repositories.NewSpotEmbeddingRepository(db)
}

func provideEmbeddingClient() utils.EmbeddingClientInterface {
	return utils.NewOpenAIEmbeddingClient()
}

func provideSpotService(
	spotRepo repositories.SpotRepository,
	embeddingRepo repositories.ISpotEmbeddingRepository,
	embedder utils.EmbeddingClientInterface,
) services.SpotServiceInterface {
	return services.NewSpotService(spotRepo, embeddingRepo, embedder)
}
