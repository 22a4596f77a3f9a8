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

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `id, name, date, time, location, category,
	COALESCE(image, '') as image,
	organizer_id, price, total_tickets, remaining_tickets,
	early_bird_enabled, early_bird_discount_price, early_bird_end_date,
	early_bird_max_tickets, early_bird_sold_count,
	created_at, updated_at`

// scanEvent scans a row into an Event struct
func (r *PostgresEventRepository) scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	var (
		ebEnabled    bool
		ebPrice      float64
		ebEndDate    *time.Time
		ebMaxTickets *int
		ebSoldCount  int
	)

	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.Category,
		&event.Image,
		&event.OrganizerID,
		&event.Price,
		&event.TotalTickets,
		&event.RemainingTickets,
		&ebEnabled,
		&ebPrice,
		&ebEndDate,
		&ebMaxTickets,
		&ebSoldCount,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ebEnabled {
		event.EarlyBird = &domain.EarlyBird{
			Enabled:       true,
			DiscountPrice: ebPrice,
			EndDate:       ebEndDate,
			MaxTickets:    ebMaxTickets,
			SoldCount:     ebSoldCount,
		}
	}

	return event, nil
}

// Create creates a new event record
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.create")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", event.ID))

	var (
		ebEnabled    bool
		ebPrice      float64
		ebEndDate    *time.Time
		ebMaxTickets *int
		ebSoldCount  int
	)
	if eb := event.EarlyBird; eb != nil {
		ebEnabled = eb.Enabled
		ebPrice = eb.DiscountPrice
		ebEndDate = eb.EndDate
		ebMaxTickets = eb.MaxTickets
		ebSoldCount = eb.SoldCount
	}

	query := `
		INSERT INTO events (
			id, name, date, time, location, category, image, organizer_id,
			price, total_tickets, remaining_tickets,
			early_bird_enabled, early_bird_discount_price, early_bird_end_date,
			early_bird_max_tickets, early_bird_sold_count,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15, $16,
			NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Date,
		event.Time,
		event.Location,
		event.Category,
		event.Image,
		event.OrganizerID,
		event.Price,
		event.TotalTickets,
		event.RemainingTickets,
		ebEnabled,
		ebPrice,
		ebEndDate,
		ebMaxTickets,
		ebSoldCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", id))

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := r.scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// List lists events newest-first
func (r *PostgresEventRepository) List(ctx context.Context, limit, offset int) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.list")
	defer span.End()

	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ReserveUnit atomically takes one unit of capacity and settles the charged
// tier. The row lock, the capacity guard, the early-bird evaluation, and the
// quota increment all happen in one statement, so concurrent purchases can
// never oversell or double-spend the early-bird quota.
func (r *PostgresEventRepository) ReserveUnit(ctx context.Context, eventID string, now time.Time) (*ReserveResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.reserve_unit")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := `
		WITH ev AS (
			SELECT id,
				early_bird_enabled
				AND (early_bird_end_date IS NULL OR early_bird_end_date >= $2)
				AND (early_bird_max_tickets IS NULL OR early_bird_sold_count < early_bird_max_tickets)
				AS early_bird_applies
			FROM events
			WHERE id = $1
			FOR UPDATE
		)
		UPDATE events e
		SET remaining_tickets = e.remaining_tickets - 1,
			early_bird_sold_count = e.early_bird_sold_count +
				CASE WHEN ev.early_bird_applies THEN 1 ELSE 0 END,
			updated_at = NOW()
		FROM ev
		WHERE e.id = ev.id AND e.remaining_tickets > 0
		RETURNING
			CASE WHEN ev.early_bird_applies THEN e.early_bird_discount_price ELSE e.price END,
			ev.early_bird_applies
	`

	var (
		unitPrice        float64
		earlyBirdApplied bool
	)
	err := r.pool.QueryRow(ctx, query, eventID, now).Scan(&unitPrice, &earlyBirdApplied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyReserveMiss(ctx, eventID)
		}
		return nil, fmt.Errorf("failed to reserve ticket: %w", err)
	}

	tier := domain.TierRegular
	if earlyBirdApplied {
		tier = domain.TierEarlyBird
	}
	return &ReserveResult{UnitPrice: unitPrice, Tier: tier}, nil
}

// classifyReserveMiss tells a missing event apart from a sold-out one.
func (r *PostgresEventRepository) classifyReserveMiss(ctx context.Context, eventID string) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to reserve ticket: %w", err)
	}
	if !exists {
		return domain.ErrEventNotFound
	}
	return domain.ErrSoldOut
}

// ReleaseUnit undoes a reservation whose ticket could not be recorded.
func (r *PostgresEventRepository) ReleaseUnit(ctx context.Context, eventID string, tier domain.PricingTier) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.release_unit")
	defer span.End()

	query := `
		UPDATE events
		SET remaining_tickets = LEAST(remaining_tickets + 1, total_tickets),
			early_bird_sold_count = GREATEST(early_bird_sold_count - $2, 0),
			updated_at = NOW()
		WHERE id = $1
	`

	earlyBirdUnits := 0
	if tier == domain.TierEarlyBird {
		earlyBirdUnits = 1
	}

	result, err := r.pool.Exec(ctx, query, eventID, earlyBirdUnits)
	if err != nil {
		return fmt.Errorf("failed to release ticket: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
