package dto

// VerifyRequest represents a gate-side entry-proof verification request.
type VerifyRequest struct {
	ProofToken string `json:"proofToken" binding:"required"`
}

// VerifyResponse represents a successful admission.
type VerifyResponse struct {
	TicketID   string `json:"ticketId"`
	EventID    string `json:"eventId"`
	RedeemedAt string `json:"redeemedAt"`
}
