package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
)

func validCreateEventRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Name:         "Summer Gala",
		Date:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Time:         "19:00",
		Location:     "Riverside Hall",
		Category:     domain.CategoryMusic,
		OrganizerID:  "org-1",
		Price:        120,
		TotalTickets: 500,
	}
}

func TestCreateEvent(t *testing.T) {
	var created *domain.Event
	repo := &MockEventRepository{
		CreateFunc: func(ctx context.Context, event *domain.Event) error {
			created = event
			return nil
		},
	}
	svc := NewEventService(repo)

	req := validCreateEventRequest()
	endDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	maxTickets := 50
	req.EarlyBird = &dto.EarlyBirdRequest{
		DiscountPrice: 90,
		EndDate:       &endDate,
		MaxTickets:    &maxTickets,
	}

	resp, err := svc.CreateEvent(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created == nil {
		t.Fatal("event was not persisted")
	}
	if created.RemainingTickets != 500 {
		t.Errorf("RemainingTickets = %d, want full capacity", created.RemainingTickets)
	}
	if created.EarlyBird == nil || !created.EarlyBird.Enabled {
		t.Fatal("early bird tier was not enabled")
	}
	if resp.ID == "" {
		t.Error("response is missing the generated id")
	}
	if resp.EarlyBird == nil || resp.EarlyBird.DiscountPrice != 90 {
		t.Errorf("response early bird = %+v, want discount 90", resp.EarlyBird)
	}
}

func TestCreateEventDefaultsCategory(t *testing.T) {
	var created *domain.Event
	repo := &MockEventRepository{
		CreateFunc: func(ctx context.Context, event *domain.Event) error {
			created = event
			return nil
		},
	}
	svc := NewEventService(repo)

	req := validCreateEventRequest()
	req.Category = ""
	if _, err := svc.CreateEvent(context.Background(), req); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.Category != domain.CategoryOther {
		t.Errorf("Category = %q, want %q", created.Category, domain.CategoryOther)
	}
}

func TestCreateEventValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.CreateEventRequest)
		wantErr error
	}{
		{
			name:    "missing name",
			mutate:  func(req *dto.CreateEventRequest) { req.Name = "" },
			wantErr: domain.ErrInvalidEventName,
		},
		{
			name:    "missing date",
			mutate:  func(req *dto.CreateEventRequest) { req.Date = time.Time{} },
			wantErr: domain.ErrInvalidEventDate,
		},
		{
			name:    "zero capacity",
			mutate:  func(req *dto.CreateEventRequest) { req.TotalTickets = 0 },
			wantErr: domain.ErrInvalidCapacity,
		},
		{
			name:    "negative price",
			mutate:  func(req *dto.CreateEventRequest) { req.Price = -1 },
			wantErr: domain.ErrInvalidPrice,
		},
		{
			name: "discount above regular price",
			mutate: func(req *dto.CreateEventRequest) {
				req.EarlyBird = &dto.EarlyBirdRequest{DiscountPrice: 150}
			},
			wantErr: domain.ErrInvalidEarlyBird,
		},
		{
			name: "negative discount",
			mutate: func(req *dto.CreateEventRequest) {
				req.EarlyBird = &dto.EarlyBirdRequest{DiscountPrice: -10}
			},
			wantErr: domain.ErrInvalidEarlyBird,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockEventRepository{
				CreateFunc: func(ctx context.Context, event *domain.Event) error {
					t.Fatal("invalid event reached the repository")
					return nil
				},
			}
			svc := NewEventService(repo)

			req := validCreateEventRequest()
			tt.mutate(req)

			_, err := svc.CreateEvent(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateEvent error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListEventsClampsPagination(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &MockEventRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*domain.Event, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	svc := NewEventService(repo)

	if _, err := svc.ListEvents(context.Background(), &dto.EventListQuery{Limit: 1000, Offset: -5}); err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if gotLimit != maxListLimit {
		t.Errorf("limit = %d, want clamped to %d", gotLimit, maxListLimit)
	}
	if gotOffset != 0 {
		t.Errorf("offset = %d, want 0", gotOffset)
	}
}

func TestGetEventNotFound(t *testing.T) {
	svc := NewEventService(&MockEventRepository{})

	_, err := svc.GetEvent(context.Background(), "missing")
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("GetEvent error = %v, want %v", err, domain.ErrEventNotFound)
	}
}
