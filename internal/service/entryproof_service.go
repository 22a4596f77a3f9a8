package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
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

// EntryProofService defines the interface for entry-proof (QR) tokens
type EntryProofService interface {
	// IssueProof mints a fresh short-lived proof token for a ticket
	IssueProof(ctx context.Context, ticketID string) (*dto.QRResponse, error)
	// VerifyAndRedeem validates a presented proof and redeems the ticket
	VerifyAndRedeem(ctx context.Context, proofToken string) (*dto.VerifyResponse, error)
}

// entryProofService implements EntryProofService
type entryProofService struct {
	ticketRepo  repository.TicketRepository
	gateway     chain.Gateway
	publisher   events.Publisher
	secret      []byte
	tokenTTL    time.Duration
	refreshHint time.Duration
	callTimeout time.Duration
}

// EntryProofConfig contains configuration for the entry-proof service
type EntryProofConfig struct {
	Secret string
	// TokenTTL is the absolute proof expiry.
	TokenTTL time.Duration
	// RefreshInterval is the client hint for re-requesting a proof; must
	// be shorter than TokenTTL so a displayed QR never goes stale.
	RefreshInterval time.Duration
	// ChainCallTimeout bounds the best-effort on-chain redeem.
	ChainCallTimeout time.Duration
}

// NewEntryProofService creates a new entry-proof service
func NewEntryProofService(
	ticketRepo repository.TicketRepository,
	gateway chain.Gateway,
	publisher events.Publisher,
	cfg *EntryProofConfig,
) EntryProofService {
	ttl := 60 * time.Second
	if cfg.TokenTTL > 0 {
		ttl = cfg.TokenTTL
	}
	refresh := 45 * time.Second
	if cfg.RefreshInterval > 0 {
		refresh = cfg.RefreshInterval
	}
	callTimeout := 10 * time.Second
	if cfg.ChainCallTimeout > 0 {
		callTimeout = cfg.ChainCallTimeout
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &entryProofService{
		ticketRepo:  ticketRepo,
		gateway:     gateway,
		publisher:   publisher,
		secret:      []byte(cfg.Secret),
		tokenTTL:    ttl,
		refreshHint: refresh,
		callTimeout: callTimeout,
	}
}

// IssueProof mints a fresh proof token. Every call signs a new token, so
// a screenshot of the QR goes stale within the TTL.
func (s *entryProofService) IssueProof(ctx context.Context, ticketID string) (*dto.QRResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.entryproof.issue")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", ticketID))

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Redeemed() {
		return nil, domain.ErrAlreadyRedeemed
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"ticket_id": ticket.ID,
		"user_id":   ticket.UserID,
		"issued_at": now.UnixMilli(),
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &dto.QRResponse{
		ProofToken:   signed,
		ExpiresIn:    int(s.tokenTTL.Seconds()),
		RefreshAfter: int(s.refreshHint.Seconds()),
	}, nil
}

// VerifyAndRedeem validates a presented proof and marks the ticket used.
// Admission is decided by the record store; the on-chain redeem afterwards
// is best-effort and never turns a visitor away at the gate.
func (s *entryProofService) VerifyAndRedeem(ctx context.Context, proofToken string) (*dto.VerifyResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.entryproof.verify_and_redeem")
	defer span.End()

	ticketID, holderID, err := s.parseProof(proofToken)
	if err != nil {
		metrics.VerifyFailure("invalid_proof")
		return nil, err
	}

	span.SetAttributes(attribute.String("ticket_id", ticketID))

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		metrics.VerifyFailure("not_found")
		return nil, err
	}
	if ticket.Redeemed() {
		metrics.VerifyFailure("already_redeemed")
		return nil, domain.ErrAlreadyRedeemed
	}
	if ticket.UserID != holderID {
		metrics.VerifyFailure("owner_mismatch")
		return nil, domain.ErrOwnerMismatch
	}

	redeemedAt := time.Now().UTC()
	if err := s.ticketRepo.Redeem(ctx, ticketID, holderID, redeemedAt); err != nil {
		metrics.VerifyFailure("lost_race")
		return nil, err
	}

	s.redeemOnChain(ctx, ticket)

	ticket.IsRedeemed = true
	ticket.Status = domain.TicketStatusUsed
	metrics.TicketRedeemed()
	s.publisher.Publish(ctx, events.EventTicketRedeemed, ticket)

	return &dto.VerifyResponse{
		TicketID:   ticket.ID,
		EventID:    ticket.EventID,
		RedeemedAt: redeemedAt.Format(time.RFC3339),
	}, nil
}

// parseProof validates signature and expiry and extracts the bound ticket
// and holder.
func (s *entryProofService) parseProof(proofToken string) (ticketID, holderID string, err error) {
	token, err := jwt.Parse(proofToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidProof
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", domain.ErrInvalidProof
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", domain.ErrInvalidProof
	}

	ticketID, _ = claims["ticket_id"].(string)
	holderID, _ = claims["user_id"].(string)
	if ticketID == "" || holderID == "" {
		return "", "", domain.ErrInvalidProof
	}
	return ticketID, holderID, nil
}

// redeemOnChain mirrors the redemption on chain, best-effort.
func (s *entryProofService) redeemOnChain(ctx context.Context, ticket *domain.Ticket) {
	if !ticket.Minted() {
		return
	}

	chainCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	if _, err := s.gateway.Redeem(chainCtx, *ticket.TokenID); err != nil {
		metrics.ChainCall("redeem", "error", time.Since(start))
		logger.Get().Warn("on-chain redeem failed, admission stands",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
		return
	}
	metrics.ChainCall("redeem", "success", time.Since(start))
}
