package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/pkg/response"
)

// respondError maps a service error onto the wire contract. State
// conflicts, sold-out included, are reported as 400 like plain validation
// failures; only owner mismatches get 403 and only chain failures get 500.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, err.Error())
	case domain.IsAuthorizationError(err):
		response.Forbidden(c, err.Error())
	case chain.IsChainError(err):
		response.ChainError(c, err.Error())
	default:
		response.InternalError(c, "internal server error")
	}
}
