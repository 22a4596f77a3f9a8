package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// EventService defines the interface for event business logic
type EventService interface {
	// CreateEvent creates a new sellable event
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error)
	// ListEvents lists events newest-first
	ListEvents(ctx context.Context, query *dto.EventListQuery) ([]*dto.EventResponse, error)
}

// eventService implements EventService
type eventService struct {
	eventRepo repository.EventRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

// CreateEvent validates and persists a new event with full capacity.
func (s *eventService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create_event")
	defer span.End()

	if req.Name == "" {
		return nil, domain.ErrInvalidEventName
	}
	if req.Date.IsZero() {
		return nil, domain.ErrInvalidEventDate
	}
	if req.TotalTickets <= 0 {
		return nil, domain.ErrInvalidCapacity
	}
	if req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.EarlyBird != nil {
		if req.EarlyBird.DiscountPrice < 0 || req.EarlyBird.DiscountPrice >= req.Price {
			return nil, domain.ErrInvalidEarlyBird
		}
	}

	category := req.Category
	if category == "" {
		category = domain.CategoryOther
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Date:             req.Date,
		Time:             req.Time,
		Location:         req.Location,
		Category:         category,
		Image:            req.Image,
		OrganizerID:      req.OrganizerID,
		Price:            req.Price,
		TotalTickets:     req.TotalTickets,
		RemainingTickets: req.TotalTickets,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.EarlyBird != nil {
		event.EarlyBird = &domain.EarlyBird{
			Enabled:       true,
			DiscountPrice: req.EarlyBird.DiscountPrice,
			EndDate:       req.EarlyBird.EndDate,
			MaxTickets:    req.EarlyBird.MaxTickets,
		}
	}

	span.SetAttributes(attribute.String("event_id", event.ID))

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return dto.EventFromDomain(event), nil
}

// GetEvent retrieves an event by ID.
func (s *eventService) GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get_event")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", eventID))

	if eventID == "" {
		return nil, domain.ErrInvalidEventID
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return dto.EventFromDomain(event), nil
}

// ListEvents lists events newest-first with clamped pagination.
func (s *eventService) ListEvents(ctx context.Context, query *dto.EventListQuery) ([]*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list_events")
	defer span.End()

	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	events, err := s.eventRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.EventsFromDomain(events), nil
}
