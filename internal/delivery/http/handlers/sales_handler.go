package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-checkout-service/internal/delivery/http/dto/response"
	"github.com/gin-gonic/gin"
)

func (h *CheckoutHandler) GetSale(c *gin.Context) {
	sale, err := h.SettlementUsecase.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSale(sale))
}

func (h *CheckoutHandler) ListSales(c *gin.Context) {
	sales, err := h.SettlementUsecase.ListSales(c.Request.Context(), c.Param("sellerId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": response.FromSales(sales)})
}

func (h *CheckoutHandler) GetCustomer(c *gin.Context) {
	customer, err := h.SettlementUsecase.GetCustomer(c.Request.Context(), c.Param("sellerId"), c.Param("email"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCustomer(customer))
}
