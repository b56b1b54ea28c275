package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/vetted-api/internal/auth"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/middleware"
	"github.com/ajharbinger/vetted-api/internal/services"
	"github.com/ajharbinger/vetted-api/pkg/config"
)

// NewRouter builds the gin engine with the middleware chain and all routes
func NewRouter(svc *services.Services, cfg *config.Config, log logger.Logger, health *HealthHandler) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		return nil, err
	}

	r.Use(middleware.LoggingMiddleware(log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware(middleware.NewRateLimiter(cfg.RateLimitPerMinute)))
	}

	SetupRoutes(r, svc, cfg, health)
	return r, nil
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, svc *services.Services, cfg *config.Config, health *HealthHandler) {
	authHandler := NewAuthHandler(svc.Auth)
	criteriaHandler := NewCriteriaHandler(svc.Criteria)
	profileHandler := NewProfileHandler(svc.Profiles)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.GET("/health", health.GetHealth)

		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/refresh", authHandler.RefreshToken)
		public.POST("/auth/logout", authHandler.Logout)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(auth.NewJWTService(cfg.JWTSecret)))
	protected.Use(auth.CSRFMiddleware())
	{
		protected.GET("/auth/me", authHandler.Me)

		// Criteria configuration
		protected.GET("/criteria", criteriaHandler.GetCategories)
		protected.GET("/criteria/export", criteriaHandler.Export)
		protected.POST("/criteria/import", criteriaHandler.Import)
		protected.POST("/criteria/reset", criteriaHandler.ResetAll)
		protected.GET("/criteria/:category", criteriaHandler.GetCategory)
		protected.POST("/criteria/:category/reset", criteriaHandler.ResetCategory)
		protected.POST("/criteria/:category/items/:id/toggle", criteriaHandler.ToggleItem)
		protected.PUT("/criteria/:category/items/:id/weight", criteriaHandler.SetWeight)
		protected.POST("/criteria/:category/custom", criteriaHandler.AddCustomItem)
		protected.DELETE("/criteria/:category/custom/:id", criteriaHandler.RemoveCustomItem)

		// Profiles
		protected.GET("/profiles", profileHandler.GetProfiles)
		protected.POST("/profiles", profileHandler.CreateProfile)
		protected.DELETE("/profiles", profileHandler.Clear)
		protected.GET("/profiles/archived", profileHandler.GetArchivedProfiles)
		protected.GET("/profiles/export", profileHandler.Export)
		protected.POST("/profiles/import", profileHandler.Import)
		protected.POST("/profiles/seed", profileHandler.Seed)
		protected.POST("/profiles/regrade", profileHandler.Regrade)
		protected.GET("/profiles/:id", profileHandler.GetProfile)
		protected.DELETE("/profiles/:id", profileHandler.DeleteProfile)
		protected.PUT("/profiles/:id/name", profileHandler.RenameProfile)
		protected.PUT("/profiles/:id/notes", profileHandler.UpdateNotes)
		protected.POST("/profiles/:id/flags/:category", profileHandler.ToggleFlag)
		protected.POST("/profiles/:id/investment", profileHandler.ToggleInvestment)
		protected.GET("/profiles/:id/grade", profileHandler.GetGrade)
		protected.POST("/profiles/:id/archive", profileHandler.ArchiveProfile)
		protected.POST("/profiles/:id/restore", profileHandler.RestoreProfile)
	}
}
