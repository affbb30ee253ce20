// @title                       SkillSwap API
// @version                     1.0
// @description                 Skill exchange backend: user and admin accounts, JWT access/refresh tokens and skill profiles.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/skillswap/skillswap-api/docs"
	"github.com/skillswap/skillswap-api/internal/api/handler"
	"github.com/skillswap/skillswap-api/internal/api/middleware"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// Dependencies are the services the router mounts.
type Dependencies struct {
	Users    ports.AuthService
	Admins   ports.AuthService
	Refresh  ports.RefreshService
	Resolver ports.IdentityResolver
	Profiles ports.ProfileService
	Tokens   middleware.AccessTokenParser

	// Health maps a dependency name to its readiness check.
	Health map[string]handler.Pinger

	// AdminRegistrationOpen leaves POST /api/register/admin unauthenticated.
	// When false only an ADMIN may create another admin.
	AdminRegistrationOpen bool

	// Registry receives the HTTP metrics and serves /metrics. Nil means the
	// prometheus default registry.
	Registry *prometheus.Registry

	Logger zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "skillswap",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}))

	authHandler := handler.NewAuthHandler(deps.Users, deps.Admins, deps.Refresh, deps.Resolver, deps.Logger)
	profileHandler := handler.NewProfileHandler(deps.Profiles, deps.Logger)
	healthHandler := handler.NewHealthHandler(deps.Health)

	requireAuth := middleware.Auth(deps.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/register/user", authHandler.RegisterUser)
	if deps.AdminRegistrationOpen {
		api.POST("/register/admin", authHandler.RegisterAdmin)
	} else {
		api.POST("/register/admin", authHandler.RegisterAdmin, requireAuth, adminOnly)
	}
	api.POST("/login/user", authHandler.LoginUser)
	api.POST("/login/admin", authHandler.LoginAdmin)
	api.POST("/refresh", authHandler.Refresh)
	api.GET("/me", authHandler.Me, requireAuth)

	// --- Principal administration ---
	api.GET("/users", authHandler.ListUsers, requireAuth, adminOnly)
	api.GET("/users/:id", authHandler.GetUser, requireAuth, adminOnly)
	api.GET("/admins", authHandler.ListAdmins, requireAuth, adminOnly)
	api.GET("/admins/:id", authHandler.GetAdmin, requireAuth, adminOnly)

	// --- Profiles ---
	profiles := api.Group("/profiles", requireAuth)
	profiles.PUT("/me", profileHandler.UpsertMine, middleware.RBAC(domain.RoleUser))
	profiles.GET("/me", profileHandler.GetMine, middleware.RBAC(domain.RoleUser))
	profiles.GET("", profileHandler.Search)
	profiles.GET("/:id", profileHandler.Get)
	profiles.DELETE("/:id", profileHandler.Delete)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
