package handlers

import (
	"fmt"
	"net/http"

	"github.com/LavaJover/shvark-checkout-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/gin-gonic/gin"
)

func statusForKind(kind domain.FailureKind) int {
	switch kind {
	case domain.KindOwnerNotFound, domain.KindTransactionNotFound, domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindGatewayNotConfigured:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindGatewayRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *CheckoutHandler) writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error("unexpected failure")
		msg = "internal error"
	}
	c.JSON(status, response.ErrorResponse{Error: msg, Kind: kind})
}

func (h *CheckoutHandler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.ErrorResponse{
		Error: fmt.Sprintf("%v: %v", domain.ErrInvalidInput, err),
		Kind:  domain.KindInvalidInput,
	})
}
