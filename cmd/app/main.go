package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wichananm65/eco-shop-backend/internal/cart"
	"github.com/wichananm65/eco-shop-backend/internal/category"
	"github.com/wichananm65/eco-shop-backend/internal/config"
	"github.com/wichananm65/eco-shop-backend/internal/database"
	"github.com/wichananm65/eco-shop-backend/internal/events"
	"github.com/wichananm65/eco-shop-backend/internal/feedback"
	"github.com/wichananm65/eco-shop-backend/internal/logger"
	"github.com/wichananm65/eco-shop-backend/internal/middleware"
	"github.com/wichananm65/eco-shop-backend/internal/notification"
	"github.com/wichananm65/eco-shop-backend/internal/order"
	"github.com/wichananm65/eco-shop-backend/internal/otp"
	"github.com/wichananm65/eco-shop-backend/internal/payment"
	"github.com/wichananm65/eco-shop-backend/internal/preference"
	"github.com/wichananm65/eco-shop-backend/internal/product"
	"github.com/wichananm65/eco-shop-backend/internal/recommend"
	"github.com/wichananm65/eco-shop-backend/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init("eco-shop-backend", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := database.Open(startupCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		logger.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	if err := database.EnsureSchema(startupCtx, db); err != nil {
		cancel()
		logger.Logger.Fatal().Err(err).Msg("failed to prepare schema")
	}
	cancel()

	var (
		otpStore    otp.Store
		authLimiter fiber.Handler
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		otpStore = otp.NewRedisStore(redisClient)
		authLimiter = middleware.NewRateLimiter(redisClient, "auth", cfg.RateLimitMax, cfg.RateLimitWindow).Middleware()
		logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis for otp codes and rate limiting")
	} else {
		otpStore = otp.NewInMemoryStore()
		authLimiter = middleware.NewLocalLimiter(cfg.RateLimitMax, cfg.RateLimitWindow).Middleware()
		logger.Logger.Warn().Msg("REDIS_ADDR not set, otp codes and rate limits are kept in process")
	}

	var sender notification.Sender = notification.LogSender{}
	if cfg.SMTP.Enabled() {
		sender = notification.NewSMTPSender(cfg.SMTP)
	} else {
		logger.Logger.Warn().Msg("SMTP not configured, emails are written to the log")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			logger.Logger.Fatal().Err(err).Strs("brokers", cfg.KafkaBrokers).Msg("failed to connect to kafka")
		}
		defer kp.Close()
		publisher = kp
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// repositories and services
	productService := product.NewService(product.NewPostgresRepository(db))
	categoryService := category.NewService(category.NewPostgresRepository(db))
	userService := user.NewService(user.NewPostgresRepository(db), otp.NewService(otpStore, cfg.OTPTTL), sender)
	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	feedbackService := feedback.NewService(feedback.NewPostgresRepository(db), productService)
	preferenceService := preference.NewService(preference.NewPostgresRepository(db), productService)
	recommendService := recommend.NewService(userService, preferenceService, productService, recommend.NewMetrics(registry))
	orderService := order.NewService(order.NewPostgresRepository(db), order.Deps{
		Cart:      cartService,
		Catalog:   productService,
		Users:     userService,
		Gateway:   payment.NewClient(cfg.Payment),
		Sender:    sender,
		Publisher: publisher,
	})

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		admin, err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to seed admin account")
		}
		logger.Logger.Info().Int("user_id", admin.ID).Msg("admin account ready")
	}

	userHandler := user.NewHandler(userService, user.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL))
	productHandler := product.NewHandler(productService, cfg.AllowResetProducts)
	categoryHandler := category.NewHandler(categoryService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService)
	feedbackHandler := feedback.NewHandler(feedbackService)
	preferenceHandler := preference.NewHandler(preferenceService)
	recommendHandler := recommend.NewHandler(recommendService)

	app := fiber.New(fiber.Config{
		AppName:      "eco-shop-backend",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	app.Use(recover.New())
	setupCORS(app)
	app.Use(middleware.RequestLogger())
	app.Use(middleware.NewMetrics(registry).Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.Use("/api/v1/sign-in", authLimiter)
	app.Use("/api/v1/sign-up", authLimiter)
	app.Use("/api/v1/otp", authLimiter)

	// public routes
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	feedbackHandler.RegisterPublicRoutes(app)

	// everything below requires a valid token
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	feedbackHandler.RegisterProtectedRoutes(app)
	preferenceHandler.RegisterProtectedRoutes(app)
	recommendHandler.RegisterProtectedRoutes(app)

	adminOnly := middleware.RequireRole(user.RoleAdmin)
	userHandler.RegisterAdminRoutes(app, adminOnly)
	productHandler.RegisterAdminRoutes(app, adminOnly)
	recommendHandler.RegisterAdminRoutes(app, adminOnly)

	go func() {
		<-ctx.Done()
		logger.Logger.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Logger.Info().Str("addr", cfg.Addr).Str("env", cfg.Environment).Msg("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server stopped")
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}
