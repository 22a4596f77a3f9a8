package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// PostgresTicketRepository implements TicketRepository using PostgreSQL.
// Every state transition is a single conditional UPDATE; the guard in the
// WHERE clause is the race decider, not any in-process check.
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

const ticketColumns = `id, event_id, user_id, purchased_at, status, is_redeemed,
	custodial, COALESCE(owner_wallet, '') as owner_wallet,
	token_id, COALESCE(tx_hash, '') as tx_hash, mint_status,
	COALESCE(metadata_uri, '') as metadata_uri,
	is_for_resale, resale_price, price_paid, pricing_tier,
	created_at, updated_at`

// scanTicket scans a row into a Ticket struct
func (r *PostgresTicketRepository) scanTicket(row pgx.Row) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	err := row.Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.UserID,
		&ticket.PurchasedAt,
		&ticket.Status,
		&ticket.IsRedeemed,
		&ticket.Custodial,
		&ticket.OwnerWallet,
		&ticket.TokenID,
		&ticket.TxHash,
		&ticket.MintStatus,
		&ticket.MetadataURI,
		&ticket.IsForResale,
		&ticket.ResalePrice,
		&ticket.PricePaid,
		&ticket.PricingTier,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Create creates a new ticket record
func (r *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_id", ticket.ID),
		attribute.String("event_id", ticket.EventID),
		attribute.String("user_id", ticket.UserID),
	)

	query := `
		INSERT INTO tickets (
			id, event_id, user_id, purchased_at, status, is_redeemed,
			custodial, owner_wallet, token_id, tx_hash, mint_status,
			metadata_uri, is_for_resale, resale_price, price_paid,
			pricing_tier, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.EventID,
		ticket.UserID,
		ticket.PurchasedAt,
		ticket.Status,
		ticket.IsRedeemed,
		ticket.Custodial,
		ticket.OwnerWallet,
		ticket.TokenID,
		ticket.TxHash,
		ticket.MintStatus,
		ticket.MetadataURI,
		ticket.IsForResale,
		ticket.ResalePrice,
		ticket.PricePaid,
		ticket.PricingTier,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket by ID
func (r *PostgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := r.scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// GetByUserID retrieves a holder's tickets newest-first
func (r *PostgresTicketRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.get_by_user_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 ORDER BY purchased_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := r.scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// UpdateMintResult records the outcome of a chain mint attempt
func (r *PostgresTicketRepository) UpdateMintResult(ctx context.Context, id string, tokenID *int64, txHash string, status domain.MintStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.update_mint_result")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_id", id),
		attribute.String("mint_status", string(status)),
	)

	query := `
		UPDATE tickets
		SET token_id = $2, tx_hash = $3, mint_status = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, tokenID, txHash, status)
	if err != nil {
		return fmt.Errorf("failed to update mint result: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// MarkClaimed moves a custodial ticket to the holder's wallet. The
// custodial guard makes concurrent claims settle to exactly one winner.
func (r *PostgresTicketRepository) MarkClaimed(ctx context.Context, id, wallet string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.mark_claimed")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	// Claiming takes the ticket off the resale market: a listing must
	// always point at a custodial ticket.
	query := `
		UPDATE tickets
		SET custodial = false, owner_wallet = $2,
			is_for_resale = false, resale_price = NULL, updated_at = NOW()
		WHERE id = $1 AND custodial = true
	`

	result, err := r.pool.Exec(ctx, query, id, wallet)
	if err != nil {
		return fmt.Errorf("failed to mark claimed: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrAlreadyClaimed
	}
	return nil
}

// MarkReturnedToCustody moves a claimed ticket back to platform custody.
func (r *PostgresTicketRepository) MarkReturnedToCustody(ctx context.Context, id, custodyWallet string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.mark_returned")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	query := `
		UPDATE tickets
		SET custodial = true, owner_wallet = $2, updated_at = NOW()
		WHERE id = $1 AND custodial = false
	`

	result, err := r.pool.Exec(ctx, query, id, custodyWallet)
	if err != nil {
		return fmt.Errorf("failed to mark returned: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrNotClaimed
	}
	return nil
}

// ListForResale lists a ticket for resale. Custody, validity, and the
// unredeemed requirement are all part of the guard, so a listing can never
// race past a redemption.
func (r *PostgresTicketRepository) ListForResale(ctx context.Context, id string, price float64) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.list_for_resale")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	query := `
		UPDATE tickets
		SET is_for_resale = true, resale_price = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'valid' AND NOT is_redeemed AND custodial = true
	`

	result, err := r.pool.Exec(ctx, query, id, price)
	if err != nil {
		return fmt.Errorf("failed to list for resale: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrNotListable
	}
	return nil
}

// BuyResale reassigns a listed ticket to the buyer and clears the listing.
// Ownership on chain is untouched; the ticket stays at the custody wallet.
func (r *PostgresTicketRepository) BuyResale(ctx context.Context, id, buyerID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.buy_resale")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_id", id),
		attribute.String("buyer_id", buyerID),
	)

	query := `
		UPDATE tickets
		SET user_id = $2, is_for_resale = false, resale_price = NULL, updated_at = NOW()
		WHERE id = $1 AND is_for_resale = true AND status = 'valid' AND NOT is_redeemed
	`

	result, err := r.pool.Exec(ctx, query, id, buyerID)
	if err != nil {
		return fmt.Errorf("failed to buy resale: %w", err)
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrNotForResale
	}
	return nil
}

// Redeem marks the ticket used, one way. A failed guard is re-checked to
// tell a replayed proof apart from a proof presented by a stale holder.
func (r *PostgresTicketRepository) Redeem(ctx context.Context, id, holderID string, at time.Time) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.redeem")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	query := `
		UPDATE tickets
		SET is_redeemed = true, status = 'used', is_for_resale = false,
			resale_price = NULL, updated_at = $3
		WHERE id = $1 AND user_id = $2 AND status = 'valid' AND NOT is_redeemed
	`

	result, err := r.pool.Exec(ctx, query, id, holderID, at)
	if err != nil {
		return fmt.Errorf("failed to redeem ticket: %w", err)
	}
	if result.RowsAffected() == 0 {
		ticket, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ticket.Redeemed() {
			return domain.ErrAlreadyRedeemed
		}
		if ticket.UserID != holderID {
			return domain.ErrOwnerMismatch
		}
		return domain.ErrAlreadyRedeemed
	}
	return nil
}

// ListMintRetryable returns tickets whose mint failed, or has been pending
// for longer than staleAfter, oldest first.
func (r *PostgresTicketRepository) ListMintRetryable(ctx context.Context, staleAfter time.Duration, limit int) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.list_mint_retryable")
	defer span.End()

	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE mint_status = 'failed'
			OR (mint_status = 'pending' AND updated_at < NOW() - make_interval(secs => $1))
		ORDER BY updated_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, staleAfter.Seconds(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mint-retryable tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := r.scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}
