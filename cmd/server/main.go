package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gorent/internal/config"
	"gorent/internal/handlers"
	"gorent/internal/middleware"
	"gorent/internal/repositories/mongodb"
	"gorent/internal/services"
	"gorent/pkg/cache"
	"gorent/pkg/database"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
	"gorent/pkg/websocket"
	"gorent/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Colors: cfg.App.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer db.Close()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}
	cancelIndex()

	var vehicleCache mongodb.Cache
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("redis unavailable, running without vehicle cache")
	} else {
		vehicleCache = redisCache
		defer redisCache.Close()
	}

	// Repositories
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	vehicleRepo := mongodb.NewVehicleRepository(db.Database, vehicleCache)
	userRepo := mongodb.NewUserRepository(db.Database)
	chatRepo := mongodb.NewChatRepository(db.Database)

	// Live connection fan-out
	wsHandler := websocket.NewHandler(log)
	hub := wsHandler.Hub()

	// Services
	gateway := payment.NewRazorpayGateway(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret)
	bookingService := services.NewBookingService(bookingRepo, vehicleRepo, userRepo, hub, log)
	paymentService := services.NewPaymentService(gateway, bookingRepo, vehicleRepo, bookingService, cfg.Payment.Currency, log)
	chatService := services.NewChatService(chatRepo, bookingRepo, userRepo, hub, log)
	vehicleService := services.NewVehicleService(vehicleRepo, log)
	wsHandler.SetChatGate(chatService)

	janitor := services.NewJanitorService(bookingRepo, cfg.Janitor.SweepInterval, cfg.Janitor.GraceWindow, log)
	janitor.Start()
	defer janitor.Stop()

	// Handlers
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg.Payment.RazorpayKeyID)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	chatHandler := handlers.NewChatHandler(chatService)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())

	auth := middleware.AuthRequired(cfg.Security.JWTSecret)

	api := router.Group("/api")
	{
		routes.SetupBookingRoutes(api, bookingHandler, auth)
		routes.SetupPaymentRoutes(api, paymentHandler, auth)
		routes.SetupVehicleRoutes(api, vehicleHandler, auth)
		routes.SetupChatRoutes(api, chatHandler, auth)
	}

	router.GET("/ws", auth, wsHandler.HandleWebSocket)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
