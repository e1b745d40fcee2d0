package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/refhub/referral-service/docs"
	"github.com/refhub/referral-service/internal/api/handler"
	"github.com/refhub/referral-service/internal/api/middleware"
	"github.com/refhub/referral-service/internal/core/domain"
	"github.com/refhub/referral-service/internal/core/ports"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	APIPrefix   string
	CORSOrigins []string
	// MaxResumeBytes sizes the request body limit; multipart overhead is added on top.
	MaxResumeBytes int64

	Auth         ports.AuthService
	Referrals    ports.ReferralService
	LoginLimiter middleware.Limiter
	Checks       map[string]handler.CheckFunc

	// Registerer receives the per-route HTTP metrics. Nil disables them.
	Registerer prometheus.Registerer
	// Gatherer backs GET /metrics. Defaults to the process-wide registry.
	Gatherer prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit(deps.MaxResumeBytes)))
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.Registerer,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
			},
		}))
	}

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Checks)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)     // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(metricsHandler(deps.Gatherer)))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	prefix := strings.TrimSuffix(deps.APIPrefix, "/")
	docs.SwaggerInfo.BasePath = prefix
	api := e.Group(prefix)

	// --- Account routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login, middleware.RateLimit("login", deps.LoginLimiter, deps.Logger))

	// --- Referral routes ---
	referralHandler := handler.NewReferralHandler(deps.Referrals)
	anyRole := middleware.RequireRole(domain.RoleUser, domain.RoleAdmin)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	ref := api.Group("/referral", middleware.Auth(deps.Auth))
	ref.POST("", referralHandler.Create, anyRole)
	ref.GET("", referralHandler.ListAll, adminOnly)
	ref.GET("/my", referralHandler.ListOwn, anyRole)
	ref.GET("/summary", referralHandler.Summary, anyRole)
	ref.GET("/:id", referralHandler.Get, anyRole)
	ref.PUT("/:id", referralHandler.Update, anyRole)
	ref.PUT("/:id/with-resume", referralHandler.UpdateWithResume, anyRole)
	ref.PUT("/:id/status", referralHandler.UpdateStatus, adminOnly)
	ref.DELETE("/:id", referralHandler.Delete, anyRole)
	ref.GET("/:id/resume", referralHandler.Resume, anyRole)
	ref.GET("/:id/activity", referralHandler.Activity, anyRole)

	return e
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// bodyLimit leaves one megabyte of headroom for the multipart envelope and form fields.
func bodyLimit(maxResume int64) string {
	if maxResume <= 0 {
		maxResume = 5 << 20
	}
	return fmt.Sprintf("%dK", maxResume>>10+1024)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
