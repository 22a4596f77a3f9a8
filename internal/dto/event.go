package dto

import (
	"time"

	"github.com/Saadcui/BlockTix/internal/domain"
)

// CreateEventRequest represents a request to create an event.
type CreateEventRequest struct {
	Name         string            `json:"name" binding:"required"`
	Date         time.Time         `json:"date" binding:"required"`
	Time         string            `json:"time"`
	Location     string            `json:"location"`
	Category     string            `json:"category"`
	Image        string            `json:"image"`
	OrganizerID  string            `json:"organizerId" binding:"required"`
	Price        float64           `json:"price"`
	TotalTickets int               `json:"totalTickets" binding:"required"`
	EarlyBird    *EarlyBirdRequest `json:"earlyBird,omitempty"`
}

// EarlyBirdRequest configures the optional discounted tier. EndDate and
// MaxTickets are each optional bounds.
type EarlyBirdRequest struct {
	DiscountPrice float64    `json:"discountPrice"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	MaxTickets    *int       `json:"maxTickets,omitempty"`
}

// EventListQuery carries pagination for event listing.
type EventListQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Date             time.Time          `json:"date"`
	Time             string             `json:"time"`
	Location         string             `json:"location"`
	Category         string             `json:"category"`
	Image            string             `json:"image,omitempty"`
	OrganizerID      string             `json:"organizerId"`
	Price            float64            `json:"price"`
	TotalTickets     int                `json:"totalTickets"`
	RemainingTickets int                `json:"remainingTickets"`
	EarlyBird        *EarlyBirdResponse `json:"earlyBird,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// EarlyBirdResponse represents the early-bird tier in API responses.
type EarlyBirdResponse struct {
	DiscountPrice float64    `json:"discountPrice"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	MaxTickets    *int       `json:"maxTickets,omitempty"`
	SoldCount     int        `json:"soldCount"`
}

// EventFromDomain converts a domain Event to an EventResponse.
func EventFromDomain(e *domain.Event) *EventResponse {
	resp := &EventResponse{
		ID:               e.ID,
		Name:             e.Name,
		Date:             e.Date,
		Time:             e.Time,
		Location:         e.Location,
		Category:         e.Category,
		Image:            e.Image,
		OrganizerID:      e.OrganizerID,
		Price:            e.Price,
		TotalTickets:     e.TotalTickets,
		RemainingTickets: e.RemainingTickets,
		CreatedAt:        e.CreatedAt,
	}
	if e.EarlyBird != nil && e.EarlyBird.Enabled {
		resp.EarlyBird = &EarlyBirdResponse{
			DiscountPrice: e.EarlyBird.DiscountPrice,
			EndDate:       e.EarlyBird.EndDate,
			MaxTickets:    e.EarlyBird.MaxTickets,
			SoldCount:     e.EarlyBird.SoldCount,
		}
	}
	return resp
}

// EventsFromDomain converts a slice of domain Events.
func EventsFromDomain(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = EventFromDomain(e)
	}
	return out
}
