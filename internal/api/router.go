package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/inkpress/blog-platform/docs"
	"github.com/inkpress/blog-platform/internal/api/handler"
	"github.com/inkpress/blog-platform/internal/api/middleware"
	"github.com/inkpress/blog-platform/internal/core/ports"
	"github.com/inkpress/blog-platform/internal/core/service"
	"github.com/inkpress/blog-platform/internal/infrastructure/config"
	mongodb "github.com/inkpress/blog-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/inkpress/blog-platform/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, media ports.MediaStore, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	views := redisdb.NewViewCounter(rdb)

	accountService := service.NewAccountService(userRepo, media, cfg.JWTSecret, cfg.TokenTTL, log)
	postService := service.NewPostService(postRepo, media, views, log)

	authHandler := handler.NewAuthHandler(accountService)
	postHandler := handler.NewPostHandler(postService)
	authRequired := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authRequired)
	auth.PUT("/profile", authHandler.UpdateProfile, authRequired)

	// --- Post routes ---
	posts := e.Group("/api/posts")
	posts.GET("", postHandler.List)
	posts.GET("/:slug", postHandler.Get)
	posts.POST("", postHandler.Create, authRequired)
	posts.PUT("/:id", postHandler.Update, authRequired)
	posts.DELETE("/:id", postHandler.Delete, authRequired)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
