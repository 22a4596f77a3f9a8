package repository

import (
	"context"
	"time"

	"github.com/Saadcui/BlockTix/internal/domain"
)

// ReserveResult carries the outcome of an atomic capacity reservation.
type ReserveResult struct {
	// UnitPrice is the price the reservation was charged.
	UnitPrice float64
	// Tier is the pricing tier that applied at reservation time.
	Tier domain.PricingTier
}

// EventRepository defines the interface for event data access.
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List lists events newest-first
	List(ctx context.Context, limit, offset int) ([]*domain.Event, error)
	// ReserveUnit atomically decrements remaining capacity by one and
	// settles the charged tier in the same statement. Returns
	// domain.ErrSoldOut when no capacity remains and
	// domain.ErrEventNotFound when the event does not exist.
	ReserveUnit(ctx context.Context, eventID string, now time.Time) (*ReserveResult, error)
	// ReleaseUnit returns one unit of capacity, undoing a reservation
	// whose ticket row could not be created.
	ReleaseUnit(ctx context.Context, eventID string, tier domain.PricingTier) error
}

// TicketRepository defines the interface for ticket data access.
type TicketRepository interface {
	// Create creates a new ticket
	Create(ctx context.Context, ticket *domain.Ticket) error
	// GetByID retrieves a ticket by ID
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// GetByUserID retrieves a holder's tickets newest-first
	GetByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error)
	// UpdateMintResult records the outcome of a chain mint attempt
	UpdateMintResult(ctx context.Context, id string, tokenID *int64, txHash string, status domain.MintStatus) error
	// MarkClaimed moves a custodial ticket to a holder wallet. Returns
	// domain.ErrAlreadyClaimed when the ticket is no longer custodial.
	MarkClaimed(ctx context.Context, id, wallet string) error
	// MarkReturnedToCustody moves a claimed ticket back to platform
	// custody. Returns domain.ErrNotClaimed when already custodial.
	MarkReturnedToCustody(ctx context.Context, id, custodyWallet string) error
	// ListForResale marks a custodial, valid, unredeemed ticket for
	// resale at the given price. Returns domain.ErrNotListable when the
	// guard fails.
	ListForResale(ctx context.Context, id string, price float64) error
	// BuyResale reassigns a listed ticket to the buyer and clears the
	// listing. Returns domain.ErrNotForResale when the ticket is not
	// listed.
	BuyResale(ctx context.Context, id, buyerID string) error
	// Redeem marks the ticket used, one way. Returns
	// domain.ErrAlreadyRedeemed or domain.ErrOwnerMismatch after
	// re-checking a failed guard.
	Redeem(ctx context.Context, id, holderID string, at time.Time) error
	// ListMintRetryable returns tickets whose mint is failed, or pending
	// for longer than staleAfter, oldest first.
	ListMintRetryable(ctx context.Context, staleAfter time.Duration, limit int) ([]*domain.Ticket, error)
}
