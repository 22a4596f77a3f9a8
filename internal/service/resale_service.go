package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/events"
	"github.com/Saadcui/BlockTix/internal/metrics"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// ResaleService defines the interface for the resale marketplace
type ResaleService interface {
	// List puts a ticket up for resale, returning it to custody first if
	// the holder has claimed it
	List(ctx context.Context, ticketID string, price float64) (*dto.TicketResponse, error)
	// Buy reassigns a listed ticket to the buyer
	Buy(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error)
}

// resaleService implements ResaleService
type resaleService struct {
	ticketRepo repository.TicketRepository
	custody    CustodyService
	publisher  events.Publisher
}

// NewResaleService creates a new resale service
func NewResaleService(
	ticketRepo repository.TicketRepository,
	custody CustodyService,
	publisher events.Publisher,
) ResaleService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &resaleService{
		ticketRepo: ticketRepo,
		custody:    custody,
		publisher:  publisher,
	}
}

// List puts a ticket up for resale. Claimed tickets are first returned to
// platform custody so the platform can deliver the token to a future
// buyer; when that chain transfer fails the listing fails with it, leaving
// the ticket claimed and unlisted.
func (s *resaleService) List(ctx context.Context, ticketID string, price float64) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.resale.list")
	defer span.End()

	if price < 0 {
		return nil, domain.ErrInvalidPrice
	}

	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.Float64("price", price),
	)

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Listable() {
		metrics.ResaleOperation("list", "rejected")
		return nil, domain.ErrNotListable
	}

	if !ticket.Custodial {
		if _, err := s.custody.ReturnToCustody(ctx, ticketID); err != nil {
			metrics.ResaleOperation("list", "error")
			return nil, err
		}
	}

	if err := s.ticketRepo.ListForResale(ctx, ticketID, price); err != nil {
		metrics.ResaleOperation("list", "error")
		return nil, err
	}

	metrics.ResaleOperation("list", "success")

	listed, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return dto.TicketFromDomain(listed), nil
}

// Buy reassigns a listed ticket to the buyer and clears the listing. The
// token stays at the custody wallet; the buyer claims it separately.
func (s *resaleService) Buy(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.resale.buy")
	defer span.End()

	if buyerID == "" {
		return nil, domain.ErrMissingBuyer
	}

	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.String("buyer_id", buyerID),
	)

	if err := s.ticketRepo.BuyResale(ctx, ticketID, buyerID); err != nil {
		metrics.ResaleOperation("buy", "error")
		return nil, err
	}
	metrics.ResaleOperation("buy", "success")

	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.EventTicketResold, ticket)

	return dto.TicketFromDomain(ticket), nil
}
