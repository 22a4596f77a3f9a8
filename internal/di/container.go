package di

import (
	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/events"
	"github.com/Saadcui/BlockTix/internal/handler"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/internal/service"
	"github.com/Saadcui/BlockTix/pkg/config"
	"github.com/Saadcui/BlockTix/pkg/database"
	"github.com/Saadcui/BlockTix/pkg/kafka"
	"github.com/Saadcui/BlockTix/pkg/redis"
)

// Container holds all dependencies for the ticket service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Chain
	Gateway chain.Gateway

	// Repositories
	EventRepo  repository.EventRepository
	TicketRepo repository.TicketRepository

	// Events
	Publisher events.Publisher

	// Services
	EventService      service.EventService
	IssuanceService   service.IssuanceService
	CustodyService    service.CustodyService
	ResaleService     service.ResaleService
	EntryProofService service.EntryProofService
	MetadataService   service.MetadataService

	// Handlers
	EventHandler    *handler.EventHandler
	TicketHandler   *handler.TicketHandler
	VerifyHandler   *handler.VerifyHandler
	MetadataHandler *handler.MetadataHandler
	HealthHandler   *handler.HealthHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config        *config.Config
	DB            *database.PostgresDB
	Redis         *redis.Client
	KafkaProducer *kafka.Producer
	Gateway       chain.Gateway
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:      cfg.DB,
		Redis:   cfg.Redis,
		Gateway: cfg.Gateway,
	}

	c.EventRepo = repository.NewPostgresEventRepository(cfg.DB.Pool())
	c.TicketRepo = repository.NewPostgresTicketRepository(cfg.DB.Pool())

	if cfg.KafkaProducer != nil {
		c.Publisher = events.NewKafkaPublisher(cfg.KafkaProducer)
	} else {
		c.Publisher = events.NopPublisher{}
	}

	chainCfg := cfg.Config.Chain
	c.EventService = service.NewEventService(c.EventRepo)
	c.IssuanceService = service.NewIssuanceService(c.EventRepo, c.TicketRepo, c.Gateway, c.Publisher, &service.IssuanceConfig{
		CustodyWallet:   chainCfg.CustodyAddress,
		MintTimeout:     chainCfg.CallTimeout,
		MetadataBaseURL: cfg.Config.App.PublicBaseURL,
	})
	c.CustodyService = service.NewCustodyService(c.TicketRepo, c.Gateway, c.Publisher, &service.CustodyConfig{
		CustodyWallet: chainCfg.CustodyAddress,
		SignerAddress: chainCfg.SignerAddress,
		CallTimeout:   chainCfg.CallTimeout,
	})
	c.ResaleService = service.NewResaleService(c.TicketRepo, c.CustodyService, c.Publisher)
	c.EntryProofService = service.NewEntryProofService(c.TicketRepo, c.Gateway, c.Publisher, &service.EntryProofConfig{
		Secret:           cfg.Config.EntryProof.Secret,
		TokenTTL:         cfg.Config.EntryProof.TokenTTL,
		RefreshInterval:  cfg.Config.EntryProof.RefreshInterval,
		ChainCallTimeout: chainCfg.CallTimeout,
	})
	c.MetadataService = service.NewMetadataService(c.EventRepo)

	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.TicketHandler = handler.NewTicketHandler(c.IssuanceService, c.CustodyService, c.ResaleService, c.EntryProofService)
	c.VerifyHandler = handler.NewVerifyHandler(c.EntryProofService)
	c.MetadataHandler = handler.NewMetadataHandler(c.MetadataService)
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)

	return c
}
