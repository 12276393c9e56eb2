package router

import (
	app "github.com/kvenegas/tasks-api/internal/application"
	"github.com/kvenegas/tasks-api/internal/container"
	pginfra "github.com/kvenegas/tasks-api/internal/infrastructure/postgres"
	handlers "github.com/kvenegas/tasks-api/internal/interface/http"
	"github.com/kvenegas/tasks-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers them with the router registry. Called once during startup; all
// request-path dependencies flow through constructors from here on.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	userSvc := app.NewUserService(userRepo, jwt, container.GetRabbitPub(), logger, cfg.AppName)
	authHandler := handlers.NewAuthHandler(userSvc, logger)

	productRepo := pginfra.NewProductRepository(container.GetPGPool())
	productSvc := app.NewProductService(productRepo, logger, container.GetES(), cfg.ESProductsIndex)
	suggestSvc := app.NewSuggestService(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	productHandler := handlers.NewProductHandler(productSvc, suggestSvc, logger)

	r.Add(modules.NewUserModule(authHandler, jwt))
	r.Add(modules.NewProductModule(productHandler, jwt))
	r.Add(modules.NewDebugModule(jwt))
}
