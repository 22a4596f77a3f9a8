package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/service"
	"github.com/Saadcui/BlockTix/pkg/response"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// TicketHandler handles ticket HTTP requests
type TicketHandler struct {
	issuance   service.IssuanceService
	custody    service.CustodyService
	resale     service.ResaleService
	entryProof service.EntryProofService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	issuance service.IssuanceService,
	custody service.CustodyService,
	resale service.ResaleService,
	entryProof service.EntryProofService,
) *TicketHandler {
	return &TicketHandler{
		issuance:   issuance,
		custody:    custody,
		resale:     resale,
		entryProof: entryProof,
	}
}

// Issue handles POST /tickets
func (h *TicketHandler) Issue(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.issue")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.IssueTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "eventId and userId are required")
		return
	}

	span.SetAttributes(
		attribute.String("event_id", req.EventID),
		attribute.String("user_id", req.UserID),
	)

	ticket, err := h.issuance.IssueTicket(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, ticket)
}

// ListByUser handles GET /tickets?userId=
func (h *TicketHandler) ListByUser(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.list_by_user")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.Query("userId")
	if userID == "" {
		response.BadRequest(c, "userId query parameter is required")
		return
	}

	tickets, err := h.issuance.GetUserTickets(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tickets)
}

// Get handles GET /tickets/:ticketId
func (h *TicketHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	ticket, err := h.issuance.GetTicket(ctx, c.Param("ticketId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, ticket)
}

// Claim handles POST /tickets/:ticketId/claim
func (h *TicketHandler) Claim(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.claim")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "userWallet is required")
		return
	}

	span.SetAttributes(attribute.String("ticket_id", c.Param("ticketId")))

	result, err := h.custody.Claim(ctx, c.Param("ticketId"), req.UserWallet)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// Resale handles POST /tickets/:ticketId/resale. The action field selects
// between listing and buying; anything else is rejected before any state
// is touched.
func (h *TicketHandler) Resale(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.resale")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ResaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "action is required")
		return
	}

	ticketID := c.Param("ticketId")
	span.SetAttributes(
		attribute.String("ticket_id", ticketID),
		attribute.String("action", string(req.Action)),
	)

	switch req.Action {
	case dto.ResaleActionList:
		if req.Price == nil {
			respondError(c, domain.ErrInvalidPrice)
			return
		}
		ticket, err := h.resale.List(ctx, ticketID, *req.Price)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, ticket)
	case dto.ResaleActionBuy:
		ticket, err := h.resale.Buy(ctx, ticketID, req.BuyerID)
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, ticket)
	default:
		respondError(c, domain.ErrInvalidAction)
	}
}

// QR handles GET /tickets/:ticketId/qr
func (h *TicketHandler) QR(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.qr")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	proof, err := h.entryProof.IssueProof(ctx, c.Param("ticketId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, proof)
}
