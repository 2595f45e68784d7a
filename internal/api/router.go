package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/voicify/voicify-api/internal/api/handler"
	"github.com/voicify/voicify-api/internal/api/middleware"
	"github.com/voicify/voicify-api/internal/core/ports"
	"github.com/voicify/voicify-api/internal/core/service"
	"github.com/voicify/voicify-api/internal/infrastructure/config"
	mongodb "github.com/voicify/voicify-api/internal/infrastructure/db/mongo"
	redisdb "github.com/voicify/voicify-api/internal/infrastructure/db/redis"
)

// Deps carries the externally constructed resources the router wires
// together. The artifact store, engine and mailer are passed in so the
// cleanup scheduler and tests can share the same instances.
type Deps struct {
	Mongo  *mongo.Database
	Redis  *redis.Client
	Store  ports.ArtifactStore
	Engine ports.SynthesisEngine
	Mailer ports.Mailer
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("voicify"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(d.Mongo)
	issuer := service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, issuer, d.Mailer, cfg.FrontendURL, cfg.Reset.TokenTTL, d.Log)
	ttsService := service.NewTTSService(d.Engine, d.Store, cfg.TTS.Languages, cfg.TTS.MaxTextLen, d.Log)

	authHandler := handler.NewAuthHandler(authService)
	ttsHandler := handler.NewTTSHandler(ttsService)

	authGuard := middleware.Auth(issuer)
	limiter := redisdb.NewRateLimiter(d.Redis, cfg.Reset.RateLimit, cfg.Reset.RateLimitWindow)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login, middleware.RateLimit(limiter, "login", d.Log))
	auth.GET("/me", authHandler.Me, authGuard)
	auth.POST("/forgot-password", authHandler.ForgotPassword, middleware.RateLimit(limiter, "forgot", d.Log))
	auth.POST("/reset-password/:token", authHandler.ResetPassword)

	// --- TTS routes (bearer auth required) ---
	tts := e.Group("/api/tts", authGuard)
	tts.POST("/convert", ttsHandler.Convert)
	tts.GET("/audio/:filename", ttsHandler.Audio)
	tts.GET("/history", ttsHandler.History)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/api/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/api/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
