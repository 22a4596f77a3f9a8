package domain

import "time"

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketStatusValid    TicketStatus = "valid"
	TicketStatusUsed     TicketStatus = "used"
	TicketStatusCanceled TicketStatus = "canceled"
)

// MintStatus tracks the chain-side mint of a ticket's token. The sale is
// authoritative in the record store; a failed mint leaves the ticket valid
// and is retried out-of-band.
type MintStatus string

const (
	MintStatusPending MintStatus = "pending"
	MintStatusMinted  MintStatus = "minted"
	MintStatusFailed  MintStatus = "failed"
)

// Ticket is the record of a sold seat. It is created at purchase, moved
// between platform custody and a holder wallet by the custody transitions,
// re-pointed by resale, and permanently marked used at the gate. Tickets
// are never deleted after redemption; the row is the audit record of
// admission.
type Ticket struct {
	ID          string       `json:"ticketId"`
	EventID     string       `json:"eventId"`
	UserID      string       `json:"userId"`
	PurchasedAt time.Time    `json:"purchaseDate"`
	Status      TicketStatus `json:"status"`
	IsRedeemed  bool         `json:"isRedeemed"`

	// Custody. Custodial tickets live at the platform custody wallet;
	// claimed tickets live at the holder's own wallet.
	Custodial   bool   `json:"custodial"`
	OwnerWallet string `json:"ownerWallet"`

	// Chain mint.
	TokenID     *int64     `json:"tokenId,omitempty"`
	TxHash      string     `json:"txHash,omitempty"`
	MintStatus  MintStatus `json:"mintStatus"`
	MetadataURI string     `json:"metadataUri,omitempty"`

	// Resale.
	IsForResale bool     `json:"isForResale"`
	ResalePrice *float64 `json:"resalePrice,omitempty"`

	// Price actually charged at issuance.
	PricePaid   float64     `json:"pricePaid"`
	PricingTier PricingTier `json:"pricingTier"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Minted reports whether the ticket's token exists on chain.
func (t *Ticket) Minted() bool {
	return t.TokenID != nil
}

// Redeemed reports whether the ticket has been used for admission.
func (t *Ticket) Redeemed() bool {
	return t.IsRedeemed || t.Status == TicketStatusUsed
}

// Listable reports whether the ticket may be listed for resale: valid,
// never redeemed.
func (t *Ticket) Listable() bool {
	return t.Status == TicketStatusValid && !t.IsRedeemed
}
