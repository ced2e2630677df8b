package handlers

import (
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-checkout-service/internal/delivery/http/dto/response"
	settingsdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/settings"
	"github.com/gin-gonic/gin"
)

const defaultAuditPageSize = 50

func (h *CheckoutHandler) SaveSellerSettings(c *gin.Context) {
	var patch settingsdto.IntegrationsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, err)
		return
	}

	saved, err := h.SettingsUsecase.SaveAppSettings(c.Request.Context(), c.Param("sellerId"), &patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.Logger.WithField("actor_id", actorFrom(c).ID).WithField("seller_id", saved.SellerID).Info("seller settings saved")
	c.JSON(http.StatusOK, response.FromAppSettings(saved))
}

func (h *CheckoutHandler) UpdatePlatformSettings(c *gin.Context) {
	var input settingsdto.PlatformSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	saved, err := h.AdminUsecase.UpdatePlatformSettings(c.Request.Context(), actorFrom(c), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPlatformSettings(saved))
}

func (h *CheckoutHandler) UpdateSellerIntegrations(c *gin.Context) {
	var patch settingsdto.IntegrationsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, err)
		return
	}

	saved, err := h.AdminUsecase.UpdateSellerIntegrations(c.Request.Context(), actorFrom(c), c.Param("sellerId"), &patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAppSettings(saved))
}

func (h *CheckoutHandler) ListAuditLog(c *gin.Context) {
	limit := defaultAuditPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.badRequest(c, strconv.ErrSyntax)
			return
		}
		limit = n
	}

	entries, err := h.AdminUsecase.ListAuditLog(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": response.FromAuditEntries(entries)})
}
