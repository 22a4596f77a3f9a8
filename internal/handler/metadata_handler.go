package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/service"
	"github.com/Saadcui/BlockTix/pkg/response"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// MetadataHandler serves token metadata
type MetadataHandler struct {
	metadata service.MetadataService
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(metadata service.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadata: metadata}
}

// Get handles GET /tickets/metadata/:eventId. The metadata document is
// served bare, not wrapped in the response envelope, because wallets and
// marketplaces fetch the URI directly and expect the ERC-721 shape.
func (h *MetadataHandler) Get(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.metadata.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	meta, err := h.metadata.GetMetadata(ctx, c.Param("eventId"))
	if err != nil {
		if domain.IsNotFoundError(err) {
			response.NotFound(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
