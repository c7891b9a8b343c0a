package apikey_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tabiplan/internal/repositories"
	"tabiplan/internal/services"
)

var Module = fx.Provide(
	provideApiKeyRepo, provideApiKeyService)

func provideApiKeyRepo(db *gorm.DB) repositories.ApiKeyRepository {
	return repositories.NewApiKeyRepository(db)
}

func provideApiKeyService(repo repositories.ApiKeyRepository) services.ApiKeyServiceInterface {
	return services.NewApiKeyService(repo)
}
