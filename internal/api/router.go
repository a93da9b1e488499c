package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/flocknet/social-api/internal/api/handler"
	"github.com/flocknet/social-api/internal/api/middleware"
	"github.com/flocknet/social-api/internal/core/ports"
	"github.com/flocknet/social-api/internal/core/service"
	mongodb "github.com/flocknet/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/flocknet/social-api/internal/infrastructure/db/redis"
)

// Options carries the collaborators the router cannot build itself.
type Options struct {
	Mongo        *mongo.Database
	Redis        *redis.Client
	Media        ports.MediaStore
	MediaCleaner ports.MediaCleaner
	JWTSecret    string
	TokenTTL     time.Duration
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("social"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(opts.Mongo)
	postRepo := mongodb.NewPostRepository(opts.Mongo)
	notifRepo := mongodb.NewNotificationRepository(opts.Mongo)
	feedCache := redisdb.NewFeedCache(opts.Redis, opts.Logger)

	codec := service.NewTokenCodec(opts.JWTSecret, opts.TokenTTL)
	authService := service.NewAuthService(userRepo, codec)
	postService := service.NewPostService(postRepo, userRepo, notifRepo, opts.Media, opts.MediaCleaner, feedCache, opts.Logger)
	notifService := service.NewNotificationService(notifRepo, opts.Logger)

	authHandler := handler.NewAuthHandler(authService, codec.TTL())
	postHandler := handler.NewPostHandler(postService)
	notifHandler := handler.NewNotificationHandler(notifService)

	gate := middleware.Session(func(token string) (string, error) {
		claims, err := codec.Verify(token)
		if err != nil {
			return "", err
		}
		return claims.UserID, nil
	}, userRepo)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, gate)

	// --- Post routes (all gated) ---
	posts := e.Group("/api/posts", gate)
	posts.GET("/all", postHandler.All)
	posts.GET("/following", postHandler.Following)
	posts.GET("/liked", postHandler.Liked)
	posts.GET("/user/:handle", postHandler.ByUser)
	posts.POST("/create", postHandler.Create)
	posts.POST("/like/:id", postHandler.Like)
	posts.POST("/comment/:id", postHandler.Comment)
	posts.DELETE("/:id", postHandler.Delete)

	// --- Notification routes (gated) ---
	notifs := e.Group("/api/notifications", gate)
	notifs.GET("", notifHandler.List)
	notifs.DELETE("", notifHandler.Clear)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Mongo, opts.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
