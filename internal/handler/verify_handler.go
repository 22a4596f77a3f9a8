package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/service"
	"github.com/Saadcui/BlockTix/pkg/response"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// VerifyHandler handles gate-side entry-proof verification
type VerifyHandler struct {
	entryProof service.EntryProofService
}

// NewVerifyHandler creates a new verify handler
func NewVerifyHandler(entryProof service.EntryProofService) *VerifyHandler {
	return &VerifyHandler{entryProof: entryProof}
}

// Verify handles POST /verify
func (h *VerifyHandler) Verify(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.verify")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "proofToken is required")
		return
	}

	result, err := h.entryProof.VerifyAndRedeem(ctx, req.ProofToken)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}
