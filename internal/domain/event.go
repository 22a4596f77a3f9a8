package domain

import "time"

// Event categories.
const (
	CategoryArt          = "Art"
	CategorySports       = "Sports"
	CategoryFoodAndDrink = "Food And Drink"
	CategoryEducation    = "Education"
	CategoryFestival     = "Festival"
	CategoryMusic        = "Music"
	CategoryOther        = "Other"
)

// Event represents a sellable event with capacity counters. The capacity
// invariant 0 <= RemainingTickets <= TotalTickets is enforced by the
// repository's conditional updates, never by read-then-write in services.
type Event struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Date             time.Time  `json:"date"`
	Time             string     `json:"time"`
	Location         string     `json:"location"`
	Category         string     `json:"category"`
	Image            string     `json:"image"`
	OrganizerID      string     `json:"organizerId"`
	Price            float64    `json:"price"`
	TotalTickets     int        `json:"totalTickets"`
	RemainingTickets int        `json:"remainingTickets"`
	EarlyBird        *EarlyBird `json:"earlyBird,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// EarlyBird is an optional discounted pricing tier. EndDate and MaxTickets
// are each optional; an absent bound passes vacuously, so the tier can be
// time-only, quota-only, or unbounded.
type EarlyBird struct {
	Enabled       bool       `json:"enabled"`
	DiscountPrice float64    `json:"discountPrice"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	MaxTickets    *int       `json:"maxTickets,omitempty"`
	SoldCount     int        `json:"soldCount"`
}

// PricingTier identifies which price an issuance charged.
type PricingTier string

const (
	TierRegular   PricingTier = "regular"
	TierEarlyBird PricingTier = "early_bird"
)

// EarlyBirdActive reports whether the early-bird tier applies at the given
// instant: enabled, before the end date when one is set, and under the
// quota when one is set.
func (e *Event) EarlyBirdActive(now time.Time) bool {
	eb := e.EarlyBird
	if eb == nil || !eb.Enabled {
		return false
	}
	if eb.EndDate != nil && now.After(*eb.EndDate) {
		return false
	}
	if eb.MaxTickets != nil && eb.SoldCount >= *eb.MaxTickets {
		return false
	}
	return true
}

// UnitPrice returns the price a purchase at the given instant would be
// charged, and the tier used.
func (e *Event) UnitPrice(now time.Time) (float64, PricingTier) {
	if e.EarlyBirdActive(now) {
		return e.EarlyBird.DiscountPrice, TierEarlyBird
	}
	return e.Price, TierRegular
}

// SoldOut reports whether no capacity remains.
func (e *Event) SoldOut() bool {
	return e.RemainingTickets <= 0
}
