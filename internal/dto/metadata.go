package dto

import "github.com/Saadcui/BlockTix/internal/domain"

// MetadataAttribute is a single trait in ERC-721 style token metadata.
type MetadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// TokenMetadata is the ERC-721 style metadata document served for an event's
// tickets. Marketplaces and wallets read this shape verbatim.
type TokenMetadata struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image,omitempty"`
	Attributes  []MetadataAttribute `json:"attributes"`
}

// MetadataFromEvent derives token metadata from an event.
func MetadataFromEvent(ev *domain.Event) *TokenMetadata {
	return &TokenMetadata{
		Name:        ev.Name + " Ticket",
		Description: "Admission ticket for " + ev.Name,
		Image:       ev.Image,
		Attributes: []MetadataAttribute{
			{TraitType: "Event", Value: ev.Name},
			{TraitType: "Location", Value: ev.Location},
			{TraitType: "Date", Value: ev.Date.Format("2006-01-02")},
			{TraitType: "Time", Value: ev.Time},
			{TraitType: "Category", Value: ev.Category},
		},
	}
}
