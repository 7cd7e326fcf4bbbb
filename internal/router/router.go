package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/config"
	"github.com/iliyamo/box-office/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/box-office/internal/logger"     // request logging middleware
	"github.com/iliyamo/box-office/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/box-office/internal/utils"
)

// Handlers groups every handler the operator API exposes.
type Handlers struct {
	Auth    *handler.AuthHandler
	Tickets *handler.TicketHandler
	Reports *handler.ReportHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login endpoint under /v1/auth.  Login does
// not require an existing token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}

// RegisterOperator registers the ticket and report endpoints under /v1.
// Every request is logged through zaplog, including rejected ones.  Routes
// require a valid JWT with the OPERATOR role and are subject to the Redis
// token bucket (nil rdb disables it).
func RegisterOperator(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client, zaplog *zap.Logger) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		logger.RequestLog(zaplog),
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(utils.RoleOperator),
		middleware.NewTokenBucket(cfg.RateLimit, rdb, zaplog),
	)

	// ---- Tickets ----
	g.POST("/tickets", h.Tickets.Buy)
	g.DELETE("/tickets/:serial", h.Tickets.Refund)

	// ---- Reports ----
	g.GET("/events", h.Reports.ListEvents)
	g.GET("/events/:date/:period/:auditorium", h.Reports.Event)
	g.GET("/days/:date", h.Reports.Day)
}

// New builds the echo instance serving the whole operator API.
func New(h Handlers, cfg config.Config, rdb *redis.Client, zaplog *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	RegisterRoutes(e)
	RegisterAuth(e, h.Auth)
	RegisterOperator(e, h, cfg, rdb, zaplog)
	return e
}
