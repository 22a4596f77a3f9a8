package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/events"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/internal/worker"
	"github.com/Saadcui/BlockTix/pkg/config"
	"github.com/Saadcui/BlockTix/pkg/database"
	"github.com/Saadcui/BlockTix/pkg/kafka"
	"github.com/Saadcui/BlockTix/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       logLevel,
		ServiceName: "blocktix-mint-retry-worker",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting mint retry worker...")

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
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
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()

	var publisher events.Publisher = events.NopPublisher{}
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID + "-mint-retry",
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		appLog.Warn(fmt.Sprintf("Kafka connection failed (events disabled): %v", err))
	} else {
		defer producer.Close()
		publisher = events.NewKafkaPublisher(producer)
	}

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

	ticketRepo := repository.NewPostgresTicketRepository(db.Pool())

	workerCfg := worker.DefaultMintRetryWorkerConfig()
	workerCfg.CustodyWallet = cfg.Chain.CustodyAddress
	workerCfg.CallTimeout = cfg.Chain.CallTimeout

	w := worker.NewMintRetryWorker(ticketRepo, gateway, publisher, workerCfg)
	if err := w.Start(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Worker start failed: %v", err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down...")
	w.Stop()
	appLog.Info("Worker stopped")
}
