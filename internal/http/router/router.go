package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/docmint-backend/internal/config"
	"github.com/ignatzorin/docmint-backend/internal/http/handlers"
	"github.com/ignatzorin/docmint-backend/internal/http/middleware"
)

// authRateLimit лимит попыток входа и регистрации с одного IP за период API лимита.
const authRateLimit = 5

func SetupRouter(
	cfg *config.Config,
	tokens middleware.AccessTokenParser,
	authHandler *handlers.AuthHandler,
	templateHandler *handlers.TemplateHandler,
	documentHandler *handlers.DocumentHandler,
	insightsHandler *handlers.InsightsHandler,
	billingHandler *handlers.BillingHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	if wsHandler != nil {
		r.GET("/ws", wsHandler.Handle)
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	// Вебхук подписан провайдером, JWT не нужен.
	api.POST("/billing/webhook", billingHandler.Webhook)
	api.GET("/catalog", templateHandler.Catalog)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(authRateLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/accept-disclaimer", authHandler.AcceptDisclaimer)

		protected.GET("/templates", templateHandler.Template)
		protected.GET("/checklist/:country", templateHandler.Checklist)

		protected.POST("/documents/generate",
			middleware.UserRateLimitMiddleware(cfg.GenerateLimitLimit, cfg.GenerateLimitPeriod),
			documentHandler.Generate,
		)
		protected.GET("/documents/list", documentHandler.List)
		protected.GET("/documents/pdf", middleware.UUIDQueryValidator("documentId"), documentHandler.PDF)
		protected.GET("/documents/:id", middleware.UUIDValidator("id"), documentHandler.Get)
		protected.POST("/documents/:id/save", middleware.UUIDValidator("id"), documentHandler.Save)
		protected.DELETE("/documents/:id", middleware.UUIDValidator("id"), documentHandler.Delete)

		if insightsHandler != nil {
			protected.GET("/analytics/dashboard", insightsHandler.Dashboard)
			protected.POST("/ai/analyze", insightsHandler.Analyze)
		}
	}

	return r
}
