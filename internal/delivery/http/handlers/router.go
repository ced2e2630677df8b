package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-checkout-service/internal/usecase/admin"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/cart"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/charge"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/product"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/settings"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/settlement"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type CheckoutHandler struct {
	ChargeUsecase     charge.ChargeUsecase
	SettlementUsecase settlement.SettlementUsecase
	ProductUsecase    product.ProductUsecase
	CartUsecase       cart.CartUsecase
	SettingsUsecase   settings.SettingsUsecase
	AdminUsecase      admin.AdminUsecase
	Logger            logrus.FieldLogger
}

type RouterConfig struct {
	AdminToken    string
	WebhookSecret string
	Gatherer      prometheus.Gatherer
}

func NewRouter(h *CheckoutHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.Logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/charges", h.GenerateCharge)
		api.GET("/charges/:id/status", h.CheckStatus)
		api.POST("/webhooks/pix", requireWebhookSecret(cfg.WebhookSecret), h.PixWebhook)

		api.POST("/carts", h.RecordCart)
		api.PATCH("/carts/:id", h.UpdateCartStatus)

		api.POST("/products", h.CreateProduct)
		api.GET("/products/:id", h.GetProduct)
		api.GET("/checkout/:slug", h.GetProductBySlug)

		api.GET("/sales/:id", h.GetSale)

		sellers := api.Group("/sellers/:sellerId")
		sellers.GET("/carts", h.ListCarts)
		sellers.GET("/sales", h.ListSales)
		sellers.GET("/customers/:email", h.GetCustomer)
	}

	privileged := api.Group("", requireAdmin(cfg.AdminToken))
	{
		privileged.POST("/charges/:id/confirm", h.ConfirmPayment)
		privileged.PUT("/sellers/:sellerId/settings", h.SaveSellerSettings)
		privileged.PUT("/admin/platform-settings", h.UpdatePlatformSettings)
		privileged.PATCH("/admin/sellers/:sellerId/integrations", h.UpdateSellerIntegrations)
		privileged.GET("/admin/audit-log", h.ListAuditLog)
	}

	return router
}
