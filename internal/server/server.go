// Package server contains HTTP handlers for the marketplace API endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tradepost/internal/cache"
	"tradepost/internal/config"
	"tradepost/internal/database"
	"tradepost/internal/middleware"
	"tradepost/internal/models"
	"tradepost/internal/repository"
	"tradepost/internal/service"
	"tradepost/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "tradepost-api"
	tokenAudience = "tradepost-client"
	tokenTTL      = 7 * 24 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	media          storage.MediaStore

	userRepo     repository.UserRepository
	goodsRepo    repository.GoodsRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	messageRepo  repository.MessageRepository

	goodsService    *service.GoodsService
	tradeService    *service.TradeService
	commentService  *service.CommentService
	reactionService *service.ReactionService
	messageService  *service.MessageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	media, err := storage.NewLocalMediaStore(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("media store init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, media)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, media storage.MediaStore) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	goodsRepo := repository.NewGoodsRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	prom := middleware.InitMetrics("tradepost-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		media:          media,
		userRepo:       userRepo,
		goodsRepo:      goodsRepo,
		commentRepo:    commentRepo,
		reactionRepo:   reactionRepo,
		messageRepo:    messageRepo,
	}
	server.goodsService = service.NewGoodsService(goodsRepo, media)
	server.tradeService = service.NewTradeService(goodsRepo)
	server.commentService = service.NewCommentService(goodsRepo, commentRepo)
	server.reactionService = service.NewReactionService(goodsRepo, reactionRepo)
	server.messageService = service.NewMessageService(goodsRepo, messageRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests, and keep test runs unthrottled.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions ||
				s.config.Env == "test" || s.config.Env == "development"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Tradepost Metrics Dashboard",
	}))

	// Uploaded media
	app.Static("/media", s.config.MediaDir)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)
	auth.Get("/status", s.AuthStatus)

	// Public goods routes (browse)
	publicGoods := api.Group("/goods")
	publicGoods.Get("/", s.GetGoodsList)
	publicGoods.Get("/:id/comments", s.GetComments)
	publicGoods.Get("/:id", s.GetGoods)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	goods := protected.Group("/goods")
	goods.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_goods"), s.CreateGoods)
	// Specific /:id/:resource routes BEFORE generic /:id routes
	goods.Post("/:id/purchase", s.PurchaseGoods)
	goods.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	goods.Post("/:id/like", s.LikeGoods)
	goods.Delete("/:id/like", s.UnlikeGoods)
	goods.Post("/:id/favorite", s.FavoriteGoods)
	goods.Delete("/:id/favorite", s.UnfavoriteGoods)
	goods.Get("/:id/messages", s.GetGoodsMessages)
	goods.Post("/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)
	goods.Put("/:id", s.UpdateGoods)
	goods.Delete("/:id", s.DeleteGoods)

	// Per-user listing collections (published, bought, favorites)
	protected.Get("/user-goods/:action", s.GetUserGoods)

	// Comments are deleted by their own ID
	protected.Delete("/comments/:id", s.DeleteComment)

	// Message inbox
	protected.Get("/user/messages", s.GetUserMessages)
	protected.Post("/messages/:id/read", s.MarkMessageRead)

	// Media upload
	protected.Post("/upload", middleware.RateLimit(
		s.redis, 20, time.Minute, "upload"), s.UploadImage)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API degrades without Redis (no cache, no revocation), so
		// readiness only requires the database.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// tokenIdentity is the validated result of parsing an access token.
type tokenIdentity struct {
	userID uint
	jti    string
	exp    int64
}

// bearerToken pulls the raw token out of the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// verifyToken checks the token signature, issuer, audience, subject and the
// Redis revocation list. Every path that turns a token into an identity,
// mandatory or optional, must go through here so a revoked token is dead
// everywhere at once.
func (s *Server) verifyToken(ctx context.Context, tokenString string) (*tokenIdentity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthenticatedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthenticatedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return nil, models.NewUnauthenticatedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return nil, models.NewUnauthenticatedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, models.NewUnauthenticatedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, models.NewUnauthenticatedError("Invalid user ID in token")
	}

	identity := &tokenIdentity{userID: uint(userID)}
	if jti, exists := claims["jti"].(string); exists && jti != "" {
		if s.redis != nil {
			isBlacklisted, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
			if err == nil && isBlacklisted > 0 {
				return nil, models.NewUnauthenticatedError("Token has been revoked")
			}
		}
		identity.jti = jti
	}
	if exp, exists := claims["exp"].(float64); exists {
		identity.exp = int64(exp)
	}
	return identity, nil
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthenticatedError("Authorization required"))
		}

		identity, err := s.verifyToken(c.Context(), tokenString)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		if identity.jti != "" {
			c.Locals("tokenJTI", identity.jti)
		}
		if identity.exp != 0 {
			c.Locals("tokenExp", identity.exp)
		}

		// Store user ID in context
		c.Locals("userID", identity.userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, identity.userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID attempts to extract userID from the Authorization header but
// does not enforce it. Revoked or otherwise invalid tokens count as absent.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return 0, false
	}
	identity, err := s.verifyToken(c.Context(), tokenString)
	if err != nil {
		return 0, false
	}
	return identity.userID, true
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Tradepost API",
		BodyLimit: 10 * 1024 * 1024, // uploads are capped separately
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
