package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-checkout-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	chargedto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/charge"
	"github.com/gin-gonic/gin"
)

func (h *CheckoutHandler) GenerateCharge(c *gin.Context) {
	var input chargedto.GenerateChargeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	charge, err := h.ChargeUsecase.GenerateCharge(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, charge)
}

// CheckStatus answers with the synthesized FAILED status when the seller's gateway is unusable.
func (h *CheckoutHandler) CheckStatus(c *gin.Context) {
	out, err := h.ChargeUsecase.CheckStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		if out != nil {
			kind := domain.KindOf(err)
			c.JSON(statusForKind(kind), gin.H{
				"charge": out,
				"error":  err.Error(),
				"kind":   kind,
			})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) PixWebhook(c *gin.Context) {
	var n domain.GatewayNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		h.badRequest(c, err)
		return
	}
	if n.ID == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "notification id is required", Kind: domain.KindInvalidInput})
		return
	}

	out, err := h.ChargeUsecase.HandleNotification(c.Request.Context(), n)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	result, err := h.SettlementUsecase.ConfirmPayment(c.Request.Context(), c.Param("id"), nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.Logger.WithField("actor_id", actorFrom(c).ID).WithField("transaction_id", result.TransactionID).Info("payment confirmed manually")
	c.JSON(http.StatusOK, response.ConfirmResponse{
		SaleID:        result.SaleID,
		TransactionID: result.TransactionID,
		AlreadyPaid:   result.AlreadyPaid,
	})
}
