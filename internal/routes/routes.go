package routes

import (
	"time"

	"github.com/cerrolargo/camineria-backend/internal/config"
	"github.com/cerrolargo/camineria-backend/internal/handlers"
	"github.com/cerrolargo/camineria-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	zoneHandler *handlers.ZoneHandler,
	reportHandler *handlers.ReportHandler,
	bannerHandler *handlers.BannerHandler,
	notifyHandler *handlers.NotifyHandler,
	summaryHandler *handlers.SummaryHandler,
	alertHandler *handlers.AlertHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Uploaded report photos, served as-is.
	app.Static("/uploads", cfg.StaticRoot+"/uploads")

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public map and banner
	api.Get("/zones", zoneHandler.ListPublic)
	api.Get("/banner", bannerHandler.Get)

	// Public summary report
	api.Get("/report/generate-data", summaryHandler.Data)
	api.Get("/report/download", summaryHandler.Download)

	// Weather alert relay
	inumet := api.Group("/inumet")
	inumet.Get("/alerts/cerro-largo", alertHandler.CerroLargo)
	inumet.Get("/alerts/raw", alertHandler.Raw)

	// Citizen reports. The GET routes are public but widen to hidden
	// reports when an admin token rides along.
	api.Post("/reportes", reportHandler.Create)
	api.Get("/reportes", middleware.OptionalJWT(cfg), reportHandler.List)
	api.Get("/reportes/:id", middleware.OptionalJWT(cfg), reportHandler.Get)

	// WhatsApp pre-registration
	api.Post("/notify/subscribe", notifyHandler.Subscribe)

	// Auth rate limit is stricter: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	admin := api.Group("/admin")
	admin.Post("/login", authLimiter, authHandler.Login)
	admin.Post("/refresh", authLimiter, authHandler.Refresh)
	admin.Post("/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	admin.Get("/check-auth", middleware.JWTProtected(cfg), authHandler.CheckAuth)

	// Zone state management (any authenticated role; per-zone policy is
	// enforced in the service)
	zones := admin.Group("/zones", middleware.JWTProtected(cfg))
	zones.Get("/states", zoneHandler.States)
	zones.Post("/update-state", zoneHandler.UpdateState)
	zones.Post("/bulk-update", zoneHandler.BulkUpdate)

	// Admin-only surface
	adminOnly := admin.Group("", middleware.JWTProtected(cfg), middleware.AdminRequired())
	adminOnly.Post("/users/alcalde", authHandler.CreateAlcalde)
	adminOnly.Get("/users", authHandler.ListUsers)
	adminOnly.Put("/users/:id", authHandler.UpdateUser)
	adminOnly.Delete("/users/:id", authHandler.DeleteUser)
	adminOnly.Put("/banner", bannerHandler.Update)
	adminOnly.Get("/reportes", reportHandler.List)
	adminOnly.Put("/reportes/:id/visible", reportHandler.SetVisible)

	api.Delete("/reportes/:id", middleware.JWTProtected(cfg), middleware.AdminRequired(), reportHandler.Delete)
}
