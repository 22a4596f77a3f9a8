package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/di"
	"github.com/Saadcui/BlockTix/pkg/config"
	"github.com/Saadcui/BlockTix/pkg/database"
	"github.com/Saadcui/BlockTix/pkg/kafka"
	"github.com/Saadcui/BlockTix/pkg/logger"
	"github.com/Saadcui/BlockTix/pkg/middleware"
	pkgredis "github.com/Saadcui/BlockTix/pkg/redis"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

const serviceName = "blocktix-ticket-service"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	logCfg := &logger.Config{
		Level:       logLevel,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting BlockTix Ticket Service...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	// Initialize Redis connection (optional - idempotency is disabled if
	// the connection fails)
	var redisClient *pkgredis.Client
	redisCfg := &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
	redisClient, err = pkgredis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Warn(fmt.Sprintf("Redis connection failed (idempotency disabled): %v", err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))
	}

	// Initialize Kafka producer (optional - lifecycle events are dropped
	// if the brokers are unreachable)
	var producer *kafka.Producer
	producer, err = kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		appLog.Warn(fmt.Sprintf("Kafka connection failed (events disabled): %v", err))
		producer = nil
	} else {
		defer producer.Close()
		appLog.Info("Kafka producer connected")
	}

	// Chain bridge client
	if err := cfg.ValidateChain(); err != nil {
		appLog.Fatal(fmt.Sprintf("Chain configuration invalid: %v", err))
	}
	gateway := chain.NewHTTPGateway(&chain.Config{
		RPCEndpoint:     cfg.Chain.RPCEndpoint,
		ContractAddress: cfg.Chain.ContractAddress,
		SignerAddress:   cfg.Chain.SignerAddress,
		CallTimeout:     cfg.Chain.CallTimeout,
		MaxRetries:      cfg.Chain.MaxRetries,
		RetryInterval:   cfg.Chain.RetryInterval,
	})
	appLog.Info(fmt.Sprintf("Chain bridge configured (%s)", cfg.Chain.RPCEndpoint))

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config:        cfg,
		DB:            db,
		Redis:         redisClient,
		KafkaProducer: producer,
		Gateway:       gateway,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
	}

	// Health and metrics endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Idempotency guard for ticket-mutating POSTs
	var idem gin.HandlerFunc
	if redisClient != nil {
		idem = middleware.Idempotency(&middleware.IdempotencyConfig{
			Redis: redisClient.Client(),
		})
	} else {
		idem = func(c *gin.Context) { c.Next() }
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		eventsGroup := v1.Group("/events")
		{
			eventsGroup.POST("", idem, container.EventHandler.Create)
			eventsGroup.GET("", container.EventHandler.List)
			eventsGroup.GET("/:eventId", container.EventHandler.Get)
		}

		tickets := v1.Group("/tickets")
		{
			tickets.POST("", idem, container.TicketHandler.Issue)
			tickets.GET("", container.TicketHandler.ListByUser)
			tickets.GET("/metadata/:eventId", container.MetadataHandler.Get)
			tickets.GET("/:ticketId", container.TicketHandler.Get)
			tickets.POST("/:ticketId/claim", idem, container.TicketHandler.Claim)
			tickets.POST("/:ticketId/resale", idem, container.TicketHandler.Resale)
			tickets.GET("/:ticketId/qr", container.TicketHandler.QR)
		}
		v1.POST("/verify", container.VerifyHandler.Verify)
	}

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info(fmt.Sprintf("HTTP server listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("HTTP server failed: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error(fmt.Sprintf("Server shutdown failed: %v", err))
	}

	appLog.Info("Server stopped")
}
