package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-checkout-service/internal/delivery/http/dto/response"
	cartdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/cart"
	productdto "github.com/LavaJover/shvark-checkout-service/internal/usecase/dto/product"
	"github.com/gin-gonic/gin"
)

func (h *CheckoutHandler) CreateProduct(c *gin.Context) {
	var input productdto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	product, err := h.ProductUsecase.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromProduct(product))
}

func (h *CheckoutHandler) GetProduct(c *gin.Context) {
	product, err := h.ProductUsecase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromProduct(product))
}

func (h *CheckoutHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.ProductUsecase.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromProduct(product))
}

func (h *CheckoutHandler) RecordCart(c *gin.Context) {
	var input cartdto.RecordCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	cart, err := h.CartUsecase.RecordAbandonedCart(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCart(cart))
}

func (h *CheckoutHandler) UpdateCartStatus(c *gin.Context) {
	var input cartdto.UpdateCartStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}
	input.CartID = c.Param("id")

	cart, err := h.CartUsecase.UpdateCartStatus(c.Request.Context(), &input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCart(cart))
}

func (h *CheckoutHandler) ListCarts(c *gin.Context) {
	carts, err := h.CartUsecase.ListCarts(c.Request.Context(), c.Param("sellerId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carts": response.FromCarts(carts)})
}
