package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/controllers"
	"github.com/nithub/nit-backend/routes"
	"github.com/nithub/nit-backend/services"
)

func main() {
	godotenv.Load()

	app := config.Load()
	log := config.NewLogger()

	if app.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.InitDB(app, log); err != nil {
		log.Fatal().Err(err).Msg("inicialização do banco falhou")
	}
	config.InitRedis(app, log)

	keycloak := services.NewKeycloakClient(
		app.KeycloakServerURL,
		app.KeycloakRealm,
		app.KeycloakClientID,
		app.KeycloakClientSecret,
		app.DefaultTimeout,
		log,
	)
	kong := services.NewKongClient(app.KongAdminURL, app.KongGatewayURL, app.DefaultTimeout, log)

	var fileStorage services.Storage
	if app.UseObjectStorage {
		fileStorage = services.NewObjectStorage(app.SupabaseURL, app.SupabaseKey, app.SupabaseBucket)
	} else {
		fileStorage = services.NewLocalStorage(app.MediaRoot)
	}

	auditor := services.NewAuditor(config.DB, log)
	cache := services.NewCache(config.Redis, log)
	controllers.Setup(auditor, cache, fileStorage, keycloak, kong, log)

	if kong.Configured() {
		go func() {
			if err := kong.RegisterWithRetry(context.Background(), app.KongUpstreamURL, app.KongConsumers); err != nil {
				log.Error().Err(err).Msg("registro no Kong esgotou as tentativas")
			}
		}()
	}

	router := routes.SetupRouter(app, keycloak, log)

	log.Info().Str("port", app.Port).Msg("servidor iniciado")
	if err := router.Run(":" + app.Port); err != nil {
		log.Error().Err(err).Msg("servidor encerrou com erro")
		os.Exit(1)
	}
}
