// Package events publishes ticket lifecycle events to Kafka. Publishing is
// best-effort everywhere: a broker outage must never fail a sale, a claim,
// or an admission. Failures are logged and counted, nothing more.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/pkg/kafka"
	"github.com/Saadcui/BlockTix/pkg/logger"
)

// Topic for ticket lifecycle events.
const TopicTicketLifecycle = "blocktix.ticket-lifecycle"

// Event names.
const (
	EventTicketIssued     = "ticket.issued"
	EventTicketMintFailed = "ticket.mint_failed"
	EventTicketMinted     = "ticket.minted"
	EventTicketClaimed    = "ticket.claimed"
	EventTicketReturned   = "ticket.returned"
	EventTicketResold     = "ticket.resold"
	EventTicketRedeemed   = "ticket.redeemed"
)

// TicketEvent is the payload published for every lifecycle transition.
// Key is the ticket ID so a ticket's history stays in one partition.
type TicketEvent struct {
	EventType   string    `json:"event_type"`
	TicketID    string    `json:"ticket_id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	TokenID     *int64    `json:"token_id,omitempty"`
	TxHash      string    `json:"tx_hash,omitempty"`
	OwnerWallet string    `json:"owner_wallet,omitempty"`
	PricePaid   float64   `json:"price_paid,omitempty"`
	PricingTier string    `json:"pricing_tier,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher emits ticket lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, eventType string, ticket *domain.Ticket)
}

// KafkaPublisher publishes lifecycle events through a Kafka producer.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a publisher backed by the given producer.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// Publish emits one lifecycle event, best-effort.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, ticket *domain.Ticket) {
	event := &TicketEvent{
		EventType:   eventType,
		TicketID:    ticket.ID,
		EventID:     ticket.EventID,
		UserID:      ticket.UserID,
		TokenID:     ticket.TokenID,
		TxHash:      ticket.TxHash,
		OwnerWallet: ticket.OwnerWallet,
		PricePaid:   ticket.PricePaid,
		PricingTier: string(ticket.PricingTier),
		Timestamp:   time.Now().UTC(),
	}

	if err := p.producer.ProduceJSON(ctx, TopicTicketLifecycle, ticket.ID, event, nil); err != nil {
		logger.Get().Warn("failed to publish ticket event",
			zap.String("event_type", eventType),
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
	}
}

// NopPublisher discards events. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, eventType string, ticket *domain.Ticket) {}
