package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/letteratech/identity-service/docs"
	"github.com/letteratech/identity-service/internal/api/handler"
	"github.com/letteratech/identity-service/internal/api/middleware"
	"github.com/letteratech/identity-service/internal/core/service"
	"github.com/letteratech/identity-service/internal/infrastructure/config"
	mongodb "github.com/letteratech/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/letteratech/identity-service/internal/infrastructure/db/redis"
	"github.com/letteratech/identity-service/internal/infrastructure/mail"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, dispatcher handler.AuditDispatcher, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	identityRepo := mongodb.NewIdentityRepository(db)
	codeStore := redisdb.NewCodeStore(rdb, cfg.CodeTTL)
	mailer := mail.NewLogMailer(log)
	identityService := service.NewIdentityService(identityRepo, codeStore, mailer, cfg.JWTSecret, cfg.TokenTTL, log)

	identityHandler := handler.NewIdentityHandler(identityService, dispatcher)
	authHandler := handler.NewAuthHandler(identityService, dispatcher)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Identity routes ---
	e.POST("/v1/identity/anonymous", identityHandler.IssueAnonymous)
	e.POST("/v1/identity/register", identityHandler.Register)
	e.POST("/v1/identity/verify-email", identityHandler.VerifyEmail)

	// --- Auth routes ---
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/recovery/request", authHandler.RequestRecovery)
	e.POST("/v1/auth/recovery/reset", authHandler.ResetPassword)
	e.POST("/v1/auth/password", authHandler.UpdatePassword, authMiddleware)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
