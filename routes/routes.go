package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nithub/nit-backend/config"
	"github.com/nithub/nit-backend/controllers"
	"github.com/nithub/nit-backend/middleware"
)

// SetupRouter monta o gin.Engine com middlewares e todas as rotas.
func SetupRouter(app *config.App, keycloak middleware.TokenValidator, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	authenticate := middleware.Authenticate(
		&middleware.KeycloakBearerStrategy{
			Keycloak:  keycloak,
			DB:        config.DB,
			DebugAuth: app.EnableDebugAuth,
		},
		&middleware.KongConsumerStrategy{DB: config.DB},
	)

	// Sondas de saúde ficam fora da autenticação.
	router.GET("/health", controllers.HealthCheck)
	router.GET("/health/keycloak", controllers.KeycloakHealth)
	router.GET("/health/kong", controllers.KongHealth)

	api := router.Group("/api/v1")
	api.Use(authenticate)

	// Leituras públicas
	api.GET("/documents/published", controllers.GetPublishedDocuments)
	api.GET("/categories/tree", controllers.GetCategoryTree)
	api.GET("/tags/popular", controllers.GetPopularTags)
	api.GET("/articles", controllers.GetArticles)
	api.GET("/articles/:id", controllers.GetArticle)

	// Escritas e leituras privadas exigem o papel de realm
	// api-access; "service" cobre os consumidores vindos do gateway.
	auth := api.Group("")
	auth.Use(middleware.RequireAuth(), middleware.RequireRoles("api-access", "service"))
	{
		auth.GET("/documents", controllers.GetDocuments)
		auth.GET("/documents/:id", controllers.GetDocument)
		auth.POST("/documents", controllers.CreateDocument)
		auth.PUT("/documents/:id", controllers.UpdateDocument)
		auth.PATCH("/documents/:id", controllers.UpdateDocument)
		auth.POST("/documents/:id/publish", controllers.PublishDocument)
		auth.DELETE("/documents/:id", controllers.DeleteDocument)

		auth.GET("/categories", controllers.GetCategories)
		auth.GET("/categories/:id", controllers.GetCategory)
		auth.GET("/categories/:id/children", controllers.GetCategoryChildren)
		auth.POST("/categories", controllers.CreateCategory)
		auth.PUT("/categories/:id", controllers.UpdateCategory)
		auth.PATCH("/categories/:id", controllers.UpdateCategory)
		auth.DELETE("/categories/:id", controllers.DeleteCategory)

		auth.GET("/tags", controllers.GetTags)
		auth.GET("/tags/:id", controllers.GetTag)
		auth.POST("/tags", controllers.CreateTag)
		auth.PUT("/tags/:id", controllers.UpdateTag)
		auth.PATCH("/tags/:id", controllers.UpdateTag)
		auth.DELETE("/tags/:id", controllers.DeleteTag)

		auth.POST("/articles", controllers.CreateArticle)
		auth.PUT("/articles/:id", controllers.UpdateArticle)
		auth.PATCH("/articles/:id", controllers.UpdateArticle)
		auth.POST("/articles/:id/publish", controllers.PublishArticle)
		auth.POST("/articles/:id/tags", controllers.AddArticleTags)
		auth.DELETE("/articles/:id/tags", controllers.RemoveArticleTags)
		auth.DELETE("/articles/:id", controllers.DeleteArticle)

		auth.GET("/addresses", controllers.GetAddresses)
		auth.GET("/addresses/mine", controllers.GetMyAddress)
		auth.GET("/addresses/:id", controllers.GetAddress)
		auth.POST("/addresses", controllers.CreateAddress)
		auth.PUT("/addresses/:id", controllers.UpdateAddress)
		auth.PATCH("/addresses/:id", controllers.UpdateAddress)
		auth.DELETE("/addresses/:id", controllers.DeleteAddress)

		auth.GET("/users/me", controllers.GetMe)
		auth.POST("/users/onboarding", controllers.CompleteOnboarding)

		auth.GET("/profiles/mine", controllers.GetMyProfile)
		auth.PATCH("/profiles/mine", controllers.UpdateMyProfile)

		auth.GET("/email-settings", controllers.GetEmailSettings)
	}

	staff := api.Group("")
	staff.Use(middleware.RequireStaff(), middleware.RequireRoles("api-access", "service"))
	{
		staff.GET("/users", controllers.GetUsers)
		staff.GET("/users/:id", controllers.GetUser)
		staff.PUT("/users/:id", controllers.UpdateUser)
		staff.PATCH("/users/:id", controllers.UpdateUser)
		staff.DELETE("/users/:id", controllers.DeleteUser)

		staff.POST("/email-settings", controllers.CreateEmailSettings)
		staff.PUT("/email-settings", controllers.UpdateEmailSettings)
		staff.PATCH("/email-settings", controllers.UpdateEmailSettings)
		staff.DELETE("/email-settings", controllers.DeleteEmailSettings)

		staff.DELETE("/documents/:id/hard", controllers.HardDeleteDocument)
	}

	return router
}
