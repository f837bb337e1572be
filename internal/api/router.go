package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/credjud/marketplace/docs"
	"github.com/credjud/marketplace/internal/api/handler"
	"github.com/credjud/marketplace/internal/api/middleware"
	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
	"github.com/credjud/marketplace/internal/infrastructure/http/handlers"
)

// Dependencies is everything the HTTP layer needs. Storage clients stay out
// of it: they are wired into services and readiness checks by main.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Listings ports.ListingService
	Ledger   ports.QuotaLedger

	JWTSecret       string
	ReadinessChecks map[string]handlers.Check
	Logger          zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "credits",
		Registerer: deps.Registerer,
	}))
	e.Use(echomiddleware.CORS())

	// --- Probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.ReadinessChecks)

	e.GET("/", handler.Root)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Auth(deps.JWTSecret)
	api := e.Group("/api")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// --- Credit listings ---
	listingHandler := handler.NewListingHandler(deps.Listings)
	quotaHandler := handler.NewQuotaHandler(deps.Ledger)

	credits := api.Group("/credits")
	credits.GET("", listingHandler.List)
	credits.GET("/acquired", listingHandler.ListAcquired)
	credits.GET("/:id", listingHandler.Get)
	credits.POST("", listingHandler.Create, authn, middleware.Require(domain.OpCreateCredit))
	credits.PUT("/:id", listingHandler.Update, authn, middleware.Require(domain.OpUpdateCredit))
	credits.DELETE("/:id", listingHandler.Delete, authn, middleware.Require(domain.OpDeleteCredit))
	credits.POST("/:id/confirm", quotaHandler.Confirm, authn, middleware.Require(domain.OpReserveQuota))

	// --- Administration ---
	adminHandler := handler.NewAdminHandler(deps.Users)
	api.GET("/admin/dashboard", adminHandler.Dashboard, authn, middleware.Require(domain.OpViewDashboard))
	api.GET("/users", adminHandler.ListUsers, authn, middleware.Require(domain.OpListUsers))
	api.POST("/users/promote", adminHandler.Promote, authn, middleware.Require(domain.OpPromoteUser))

	return e
}

// requestLogger writes one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
