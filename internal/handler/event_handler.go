package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/service"
	"github.com/Saadcui/BlockTix/pkg/response"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	events service.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// Create handles POST /events
func (h *EventHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, date, organizerId and totalTickets are required")
		return
	}

	event, err := h.events.CreateEvent(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, event)
}

// Get handles GET /events/:eventId
func (h *EventHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("eventId")
	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := h.events.GetEvent(ctx, eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, event)
}

// List handles GET /events
func (h *EventHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var query dto.EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid pagination parameters")
		return
	}

	events, err := h.events.ListEvents(ctx, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, events)
}
