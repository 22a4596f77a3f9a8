package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/events"
	"github.com/Saadcui/BlockTix/internal/metrics"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// CustodyService defines the interface for custody transitions
type CustodyService interface {
	// Claim transfers a custodial ticket's token to the holder's own wallet
	Claim(ctx context.Context, ticketID, wallet string) (*dto.ClaimResponse, error)
	// ReturnToCustody transfers a claimed token back to platform custody
	ReturnToCustody(ctx context.Context, ticketID string) (*dto.TicketResponse, error)
}

// custodyService implements CustodyService
type custodyService struct {
	ticketRepo    repository.TicketRepository
	gateway       chain.Gateway
	publisher     events.Publisher
	custodyWallet string
	signerAddress string
	callTimeout   time.Duration
}

// CustodyConfig contains configuration for the custody service
type CustodyConfig struct {
	// CustodyWallet is the platform wallet custodial tokens live at.
	CustodyWallet string
	// SignerAddress is the bridge signing key. Tokens are transfer-locked
	// on chain; only the platform signer may move them, so an unset
	// signer means no custody transition can ever succeed.
	SignerAddress string
	// CallTimeout bounds each ownership-moving chain call.
	CallTimeout time.Duration
}

// NewCustodyService creates a new custody service
func NewCustodyService(
	ticketRepo repository.TicketRepository,
	gateway chain.Gateway,
	publisher events.Publisher,
	cfg *CustodyConfig,
) CustodyService {
	timeout := 10 * time.Second
	if cfg.CallTimeout > 0 {
		timeout = cfg.CallTimeout
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &custodyService{
		ticketRepo:    ticketRepo,
		gateway:       gateway,
		publisher:     publisher,
		custodyWallet: cfg.CustodyWallet,
		signerAddress: cfg.SignerAddress,
		callTimeout:   timeout,
	}
}

// authorizeTransfer gates every ownership-moving chain call.
func (s *custodyService) authorizeTransfer() error {
	if s.signerAddress == "" {
		return domain.ErrUnauthorizedSigner
	}
	return nil
}

// Claim transfers a custodial ticket's token to the holder's wallet. The
// chain transfer happens first; the record-store transition afterwards is
// the race decider, and the chain contract tolerates a duplicate transfer
// to the same wallet from a lost race.
func (s *custodyService) Claim(ctx context.Context, ticketID, wallet string) (*dto.ClaimResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.custody.claim")
	defer span.End()

	if wallet == "" {
		return nil, domain.ErrMissingWallet
	}

	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.String("wallet", wallet),
	)

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Custodial {
		return nil, domain.ErrAlreadyClaimed
	}
	if !ticket.Minted() {
		return nil, domain.ErrNotMinted
	}
	if err := s.authorizeTransfer(); err != nil {
		return nil, err
	}

	chainCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	receipt, err := s.gateway.ClaimToWallet(chainCtx, *ticket.TokenID, wallet)
	if err != nil {
		metrics.ChainCall("claim", "error", time.Since(start))
		return nil, err
	}
	metrics.ChainCall("claim", "success", time.Since(start))

	if err := s.ticketRepo.MarkClaimed(ctx, ticketID, wallet); err != nil {
		return nil, err
	}

	ticket.Custodial = false
	ticket.OwnerWallet = wallet
	metrics.CustodyTransition("claim")
	s.publisher.Publish(ctx, events.EventTicketClaimed, ticket)

	return &dto.ClaimResponse{
		TicketID:    ticketID,
		OwnerWallet: wallet,
		TxHash:      receipt.TxHash,
	}, nil
}

// ReturnToCustody transfers a claimed token back to the platform wallet.
func (s *custodyService) ReturnToCustody(ctx context.Context, ticketID string) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.custody.return_to_custody")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", ticketID))

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Custodial {
		return nil, domain.ErrNotClaimed
	}
	if !ticket.Minted() {
		return nil, domain.ErrNotMinted
	}
	if err := s.authorizeTransfer(); err != nil {
		return nil, err
	}

	chainCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	if _, err := s.gateway.ReturnToCustody(chainCtx, *ticket.TokenID); err != nil {
		metrics.ChainCall("return", "error", time.Since(start))
		return nil, err
	}
	metrics.ChainCall("return", "success", time.Since(start))

	if err := s.ticketRepo.MarkReturnedToCustody(ctx, ticketID, s.custodyWallet); err != nil {
		return nil, err
	}

	ticket.Custodial = true
	ticket.OwnerWallet = s.custodyWallet
	metrics.CustodyTransition("return")
	s.publisher.Publish(ctx, events.EventTicketReturned, ticket)

	return dto.TicketFromDomain(ticket), nil
}
