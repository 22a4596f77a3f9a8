package dto

import (
	"time"

	"github.com/Saadcui/BlockTix/internal/domain"
)

// IssueTicketRequest represents a request to purchase a ticket.
type IssueTicketRequest struct {
	EventID string `json:"eventId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
}

// ClaimRequest represents a request to claim a custodial ticket to a wallet.
type ClaimRequest struct {
	UserWallet string `json:"userWallet" binding:"required"`
}

// ResaleAction identifies a resale operation.
type ResaleAction string

const (
	ResaleActionList ResaleAction = "list"
	ResaleActionBuy  ResaleAction = "buy"
)

// ResaleRequest represents a resale operation on a ticket. Action selects
// which payload fields apply: "list" requires Price, "buy" requires BuyerID.
type ResaleRequest struct {
	Action  ResaleAction `json:"action" binding:"required"`
	Price   *float64     `json:"price,omitempty"`
	BuyerID string       `json:"buyerId,omitempty"`
}

// TicketResponse represents a ticket in API responses.
type TicketResponse struct {
	ID          string     `json:"id"`
	EventID     string     `json:"eventId"`
	UserID      string     `json:"userId"`
	PurchasedAt time.Time  `json:"purchasedAt"`
	Status      string     `json:"status"`
	IsRedeemed  bool       `json:"isRedeemed"`
	Custodial   bool       `json:"custodial"`
	OwnerWallet string     `json:"ownerWallet,omitempty"`
	TokenID     *int64     `json:"tokenId,omitempty"`
	TxHash      string     `json:"txHash,omitempty"`
	MintStatus  string     `json:"mintStatus"`
	MetadataURI string     `json:"metadataUri,omitempty"`
	IsForResale bool       `json:"isForResale"`
	ResalePrice *float64   `json:"resalePrice,omitempty"`
	PricePaid   float64    `json:"pricePaid"`
	PricingTier string     `json:"pricingTier"`
}

// ClaimResponse represents the result of a successful claim.
type ClaimResponse struct {
	TicketID    string `json:"ticketId"`
	OwnerWallet string `json:"ownerWallet"`
	TxHash      string `json:"txHash,omitempty"`
}

// QRResponse carries a freshly issued entry-proof token. RefreshAfter is
// the client hint for requesting the next token, in seconds.
type QRResponse struct {
	ProofToken   string `json:"proofToken"`
	ExpiresIn    int    `json:"expiresIn"`
	RefreshAfter int    `json:"refreshAfter"`
}

// TicketFromDomain converts a domain Ticket to a TicketResponse.
func TicketFromDomain(t *domain.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:          t.ID,
		EventID:     t.EventID,
		UserID:      t.UserID,
		PurchasedAt: t.PurchasedAt,
		Status:      string(t.Status),
		IsRedeemed:  t.IsRedeemed,
		Custodial:   t.Custodial,
		OwnerWallet: t.OwnerWallet,
		TokenID:     t.TokenID,
		TxHash:      t.TxHash,
		MintStatus:  string(t.MintStatus),
		MetadataURI: t.MetadataURI,
		IsForResale: t.IsForResale,
		ResalePrice: t.ResalePrice,
		PricePaid:   t.PricePaid,
		PricingTier: string(t.PricingTier),
	}
}

// TicketsFromDomain converts a slice of domain Tickets.
func TicketsFromDomain(tickets []*domain.Ticket) []*TicketResponse {
	out := make([]*TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketFromDomain(t))
	}
	return out
}
