package main

import (
	"time"

	"portfolio-analytics/internal/auth"
	eventsHttp "portfolio-analytics/internal/events/adapters/http/fiber"
	"portfolio-analytics/internal/logger"
	metricsHttp "portfolio-analytics/internal/metrics/adapters/http/fiber"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "portfolio-analytics/docs"
)

type appDeps struct {
	track     *eventsHttp.TrackHandler
	consent   *eventsHttp.ConsentHandler
	dashboard *metricsHttp.DashboardHandler
	auth      *auth.Service

	loginThrottle *auth.LoginThrottle

	rateLimitPerMinute int
}

func newApp(d appDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "portfolio-analytics",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.RequestLogger())

	// tracking signals arrive from untrusted pages
	if d.rateLimitPerMinute > 0 {
		rl := limiter.New(limiter.Config{
			Max:        d.rateLimitPerMinute,
			Expiration: time.Minute,
		})
		app.Use("/track", rl)
		app.Use("/consent", rl)
	}
	d.track.Register(app)
	d.consent.Register(app)

	auth.NewHandler(d.auth, d.loginThrottle).Register(app)

	dash := app.Group("/dashboard")
	dash.Get("/summary", auth.RequirePermission(d.auth, auth.PermRead), d.dashboard.GetSummary)
	dash.Get("/export", auth.RequirePermission(d.auth, auth.PermExport), d.dashboard.Export)
	dash.Delete("/events", auth.RequirePermission(d.auth, auth.PermManage), d.dashboard.Clear)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app
}
