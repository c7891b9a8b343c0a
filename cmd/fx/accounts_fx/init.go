package accounts_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"tabiplan/internal/repositories"
	"tabiplan/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo, provideAccountService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(repo repositories.AccountRepository) services.AccountServiceInterface {
	return services.NewAccountService(repo)
}
