package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/events"
	"github.com/Saadcui/BlockTix/internal/metrics"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/pkg/logger"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// IssuanceService defines the interface for ticket issuance business logic
type IssuanceService interface {
	// IssueTicket sells one ticket for an event, minting its token best-effort
	IssueTicket(ctx context.Context, req *dto.IssueTicketRequest) (*dto.TicketResponse, error)
	// GetTicket retrieves a ticket by ID
	GetTicket(ctx context.Context, ticketID string) (*dto.TicketResponse, error)
	// GetUserTickets retrieves a holder's tickets newest-first
	GetUserTickets(ctx context.Context, userID string) ([]*dto.TicketResponse, error)
}

// issuanceService implements IssuanceService
type issuanceService struct {
	eventRepo     repository.EventRepository
	ticketRepo    repository.TicketRepository
	gateway       chain.Gateway
	publisher     events.Publisher
	custodyWallet string
	mintTimeout   time.Duration
	metadataBase  string
}

// IssuanceConfig contains configuration for the issuance service
type IssuanceConfig struct {
	// CustodyWallet is the platform wallet newly minted tokens are held at.
	CustodyWallet string
	// MintTimeout bounds the inline mint attempt; on expiry the sale
	// stands with mint_status=failed.
	MintTimeout time.Duration
	// MetadataBaseURL is the public base URL metadata URIs are built from.
	MetadataBaseURL string
}

// NewIssuanceService creates a new issuance service
func NewIssuanceService(
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	gateway chain.Gateway,
	publisher events.Publisher,
	cfg *IssuanceConfig,
) IssuanceService {
	mintTimeout := 15 * time.Second
	if cfg.MintTimeout > 0 {
		mintTimeout = cfg.MintTimeout
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &issuanceService{
		eventRepo:     eventRepo,
		ticketRepo:    ticketRepo,
		gateway:       gateway,
		publisher:     publisher,
		custodyWallet: cfg.CustodyWallet,
		mintTimeout:   mintTimeout,
		metadataBase:  cfg.MetadataBaseURL,
	}
}

// IssueTicket sells one ticket. The capacity decrement and the tier charge
// settle atomically in the record store; the chain mint afterwards is
// best-effort and never voids the sale.
func (s *issuanceService) IssueTicket(ctx context.Context, req *dto.IssueTicketRequest) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.issuance.issue_ticket")
	defer span.End()

	if req.EventID == "" {
		return nil, domain.ErrInvalidEventID
	}
	if req.UserID == "" {
		return nil, domain.ErrInvalidUserID
	}

	span.SetAttributes(
		attribute.String("event_id", req.EventID),
		attribute.String("user_id", req.UserID),
	)

	now := time.Now().UTC()
	reserve, err := s.eventRepo.ReserveUnit(ctx, req.EventID, now)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:          uuid.New().String(),
		EventID:     req.EventID,
		UserID:      req.UserID,
		PurchasedAt: now,
		Status:      domain.TicketStatusValid,
		Custodial:   true,
		OwnerWallet: s.custodyWallet,
		MintStatus:  domain.MintStatusPending,
		MetadataURI: s.metadataURI(req.EventID),
		PricePaid:   reserve.UnitPrice,
		PricingTier: reserve.Tier,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		if releaseErr := s.eventRepo.ReleaseUnit(ctx, req.EventID, reserve.Tier); releaseErr != nil {
			logger.Get().Error("failed to release reserved capacity",
				zap.String("event_id", req.EventID),
				zap.Error(releaseErr),
			)
		}
		return nil, err
	}

	s.mintInline(ctx, ticket)

	metrics.TicketIssued(string(reserve.Tier))
	s.publisher.Publish(ctx, events.EventTicketIssued, ticket)

	return dto.TicketFromDomain(ticket), nil
}

// mintInline attempts the chain mint within the configured timeout. The
// ticket row is already committed; a failure here only marks the mint
// failed for the retry worker to pick up.
func (s *issuanceService) mintInline(ctx context.Context, ticket *domain.Ticket) {
	mintCtx, cancel := context.WithTimeout(ctx, s.mintTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.gateway.Mint(mintCtx, s.custodyWallet, ticket.MetadataURI)
	if err != nil {
		metrics.ChainCall("mint", "error", time.Since(start))
		logger.Get().Warn("chain mint failed, sale stands",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)

		ticket.MintStatus = domain.MintStatusFailed
		if updateErr := s.ticketRepo.UpdateMintResult(ctx, ticket.ID, nil, "", domain.MintStatusFailed); updateErr != nil {
			logger.Get().Error("failed to record mint failure",
				zap.String("ticket_id", ticket.ID),
				zap.Error(updateErr),
			)
		}
		s.publisher.Publish(ctx, events.EventTicketMintFailed, ticket)
		return
	}
	metrics.ChainCall("mint", "success", time.Since(start))

	ticket.TokenID = &result.TokenID
	ticket.TxHash = result.TxHash
	ticket.MintStatus = domain.MintStatusMinted
	if err := s.ticketRepo.UpdateMintResult(ctx, ticket.ID, ticket.TokenID, result.TxHash, domain.MintStatusMinted); err != nil {
		logger.Get().Error("failed to record mint result",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
	}
}

// GetTicket retrieves a ticket by ID
func (s *issuanceService) GetTicket(ctx context.Context, ticketID string) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.issuance.get_ticket")
	defer span.End()

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return dto.TicketFromDomain(ticket), nil
}

// GetUserTickets retrieves a holder's tickets newest-first
func (s *issuanceService) GetUserTickets(ctx context.Context, userID string) ([]*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.issuance.get_user_tickets")
	defer span.End()

	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	tickets, err := s.ticketRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.TicketsFromDomain(tickets), nil
}

func (s *issuanceService) metadataURI(eventID string) string {
	return fmt.Sprintf("%s/api/v1/tickets/metadata/%s", s.metadataBase, eventID)
}
