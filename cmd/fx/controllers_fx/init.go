package controllers_fx

import (
	"go.uber.org/fx"

	"tabiplan/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPlansController),
	fx.Provide(controllers.NewSpotsController),
	fx.Provide(controllers.NewAccountsController),
	fx.Provide(controllers.NewApiKeysController))
