package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tabiplan/cmd/fx/accounts_fx"
	"tabiplan/cmd/fx/apikey_fx"
	"tabiplan/cmd/fx/controllers_fx"
	"tabiplan/cmd/fx/db_fx"
	"tabiplan/cmd/fx/memcache_fx"
	"tabiplan/cmd/fx/plans_fx"
	"tabiplan/cmd/fx/routes_fx"
	"tabiplan/cmd/fx/spots_fx"
	"tabiplan/internal/api/controllers"
	"tabiplan/internal/models/db_models"
	"tabiplan/internal/services"
	"tabiplan/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		spots_fx.Module,
		routes_fx.Module,
		plans_fx.Module,
		apikey_fx.Module,
		accounts_fx.Module,
		memcache_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	plansController *controllers.PlansController,
	spotsController *controllers.SpotsController,
	accountsController *controllers.AccountsController,
	apiKeysController *controllers.ApiKeysController,
	apiKeyService services.ApiKeyServiceInterface) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, plansController, spotsController, accountsController, apiKeysController, apiKeyService)

	return r
}

func RegisterRoutes(r *gin.Engine,
	plansController *controllers.PlansController,
	spotsController *controllers.SpotsController,
	accountsController *controllers.AccountsController,
	apiKeysController *controllers.ApiKeysController,
	apiKeyService services.ApiKeyServiceInterface) {

	accountsGroup := r.Group("/accounts")
	accountsGroup.POST("/register", accountsController.Register)
	accountsGroup.POST("/login", accountsController.Login)

	spotsGroup := r.Group("/spots")
	spotsGroup.GET("", spotsController.ListSpots)
	spotsGroup.GET("/:id", spotsController.GetSpotById)

	plansGroup := r.Group("/plans")
	plansGroup.Use(middleware.JWTAuthMiddleware())
	plansGroup.POST("/generate", plansController.GeneratePlan)

	agentGroup := r.Group("/agent/plans")
	agentGroup.Use(middleware.APIKeyAuthMiddleware(apiKeyService))
	agentGroup.POST("/generate", plansController.GeneratePlan)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware(db_models.RoleAdmin))
	adminGroup.POST("/spots", spotsController.CreateSpot)
	adminGroup.PUT("/spots/:id", spotsController.UpdateSpot)
	adminGroup.DELETE("/spots/:id", spotsController.DeleteSpot)
	adminGroup.POST("/api-keys", apiKeysController.CreateApiKey)
}
