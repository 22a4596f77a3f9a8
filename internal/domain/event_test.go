package domain

import (
	"testing"
	"time"
)

func intPtr(v int) *int             { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestEarlyBirdActive(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		eb   *EarlyBird
		want bool
	}{
		{"no tier", nil, false},
		{"disabled", &EarlyBird{Enabled: false, DiscountPrice: 50}, false},
		{
			"unbounded tier",
			&EarlyBird{Enabled: true, DiscountPrice: 50},
			true,
		},
		{
			"before end date",
			&EarlyBird{Enabled: true, DiscountPrice: 50, EndDate: timePtr(now.Add(time.Hour))},
			true,
		},
		{
			"at end date",
			&EarlyBird{Enabled: true, DiscountPrice: 50, EndDate: timePtr(now)},
			true,
		},
		{
			"after end date",
			&EarlyBird{Enabled: true, DiscountPrice: 50, EndDate: timePtr(now.Add(-time.Second))},
			false,
		},
		{
			"under quota",
			&EarlyBird{Enabled: true, DiscountPrice: 50, MaxTickets: intPtr(100), SoldCount: 99},
			true,
		},
		{
			"quota exhausted",
			&EarlyBird{Enabled: true, DiscountPrice: 50, MaxTickets: intPtr(100), SoldCount: 100},
			false,
		},
		{
			"time ok but quota exhausted",
			&EarlyBird{
				Enabled:       true,
				DiscountPrice: 50,
				EndDate:       timePtr(now.Add(time.Hour)),
				MaxTickets:    intPtr(10),
				SoldCount:     10,
			},
			false,
		},
		{
			"quota ok but past end date",
			&EarlyBird{
				Enabled:       true,
				DiscountPrice: 50,
				EndDate:       timePtr(now.Add(-time.Hour)),
				MaxTickets:    intPtr(10),
				SoldCount:     0,
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &Event{Price: 100, EarlyBird: tt.eb}
			if got := event.EarlyBirdActive(now); got != tt.want {
				t.Errorf("EarlyBirdActive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnitPrice(t *testing.T) {
	now := time.Now()

	event := &Event{
		Price:     100,
		EarlyBird: &EarlyBird{Enabled: true, DiscountPrice: 60},
	}

	price, tier := event.UnitPrice(now)
	if price != 60 || tier != TierEarlyBird {
		t.Errorf("UnitPrice = %v, %v", price, tier)
	}

	event.EarlyBird.Enabled = false
	price, tier = event.UnitPrice(now)
	if price != 100 || tier != TierRegular {
		t.Errorf("UnitPrice = %v, %v", price, tier)
	}
}

func TestTicketStateHelpers(t *testing.T) {
	ticket := &Ticket{Status: TicketStatusValid}
	if ticket.Minted() {
		t.Error("ticket without token id reported minted")
	}
	if ticket.Redeemed() {
		t.Error("fresh ticket reported redeemed")
	}
	if !ticket.Listable() {
		t.Error("valid unredeemed ticket not listable")
	}

	tokenID := int64(1)
	ticket.TokenID = &tokenID
	if !ticket.Minted() {
		t.Error("ticket with token id not reported minted")
	}

	ticket.Status = TicketStatusUsed
	if !ticket.Redeemed() {
		t.Error("used ticket not reported redeemed")
	}
	if ticket.Listable() {
		t.Error("used ticket reported listable")
	}
}
