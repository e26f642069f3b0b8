package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/audit"
	"github.com/officemeals/snack-provider-api/internal/auth"
	"github.com/officemeals/snack-provider-api/internal/cache"
	"github.com/officemeals/snack-provider-api/internal/config"
	"github.com/officemeals/snack-provider-api/internal/handlers"
	infraRepo "github.com/officemeals/snack-provider-api/internal/infra/repository"
	"github.com/officemeals/snack-provider-api/internal/middleware"
	ucRating "github.com/officemeals/snack-provider-api/internal/usecase/rating"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ------------------------------
	// infra (singletons)
	// ------------------------------
	verifier := auth.NewVerifier(cfg.JWTSecret)
	guard := auth.NewGuard(verifier)

	providerCache := cache.NewProviderCache(cfg.RedisURL)

	ratingRepo := infraRepo.NewRatingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ------------------------------
	// use cases
	// ------------------------------
	submitRatingUC := ucRating.NewSubmitRating(ratingRepo, auditDispatcher)

	// ------------------------------
	// handlers
	// ------------------------------
	authHandler := handlers.NewAuthHandler(db, verifier)
	meHandler := handlers.NewMeHandler(db)
	providerHandler := handlers.NewProviderHandler(db, providerCache, auditDispatcher)
	foodHandler := handlers.NewFoodHandler(db, providerCache, auditDispatcher)
	ratingHandler := handlers.NewRatingHandler(submitRatingUC, providerCache)
	adminUserHandler := handlers.NewAdminUserHandler(db, guard, auditDispatcher)
	adminStatsHandler := handlers.NewAdminStatsHandler(db)

	api := r.Group("/api")
	{
		// ------------------------------
		// auth
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// public catalog
		// ------------------------------
		api.GET("/providers", middleware.OptionalIdentity(guard), providerHandler.List)
		api.GET("/providers/:id", providerHandler.Get)
		api.GET("/foods", foodHandler.List)
		api.GET("/foods/:id", foodHandler.Get)

		// ------------------------------
		// authenticated
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.Authenticate(guard, auth.CapabilityAuthenticated))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.Update)

			secured.POST("/ratings", ratingHandler.Submit)
		}

		// ------------------------------
		// admin only
		// ------------------------------
		adminOnly := middleware.Authenticate(guard, auth.CapabilityAdmin)

		api.POST("/providers", adminOnly, providerHandler.Create)
		api.PUT("/providers/:id", adminOnly, providerHandler.Update)
		api.DELETE("/providers/:id", adminOnly, providerHandler.Delete)

		api.POST("/foods", adminOnly, foodHandler.Create)
		api.PUT("/foods/:id", adminOnly, foodHandler.Update)
		api.DELETE("/foods/:id", adminOnly, foodHandler.Delete)

		admin := api.Group("/admin")
		admin.Use(adminOnly)
		{
			admin.GET("/users", adminUserHandler.List)
			admin.POST("/users", adminUserHandler.Create)
			admin.GET("/users/:id", adminUserHandler.Get)
			admin.PUT("/users/:id", adminUserHandler.Update)
			admin.DELETE("/users/:id", adminUserHandler.Delete)

			admin.GET("/stats", adminStatsHandler.Stats)
			admin.GET("/recent-activity", adminStatsHandler.RecentActivity)
		}
	}
}
