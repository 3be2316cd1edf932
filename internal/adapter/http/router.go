package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quangdm/freshcart-api/internal/adapter/http/middleware"
	"github.com/quangdm/freshcart-api/internal/logging"
)

func NewRouter(checkout *CheckoutHandler, payment *PaymentHandler, orders *OrderHandler, cart *CartHandler, th *TokenHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.GET("/cart", authz.Require("orders.read"), cart.GetCart)
		v1.POST("/cart/items", authz.Require("cart.write"), cart.AddItem)
		v1.PUT("/cart/items", authz.Require("cart.write"), cart.UpdateItem)
		v1.DELETE("/cart/items/:skuId", authz.Require("cart.write"), cart.RemoveItem)

		v1.POST("/orders/preview", authz.Require("orders.write"), checkout.PreviewOrder)
		v1.POST("/orders", authz.Require("orders.write"), checkout.CommitOrder)
		v1.GET("/orders", authz.Require("orders.read"), orders.ListOrders)
		v1.GET("/orders/:id", authz.Require("orders.read"), orders.GetOrder)
		v1.POST("/orders/:id/finish", authz.Require("orders.write"), orders.FinishOrder)

		v1.POST("/orders/:id/payment", authz.Require("orders.write"), payment.StartPayment)
		v1.GET("/orders/:id/payment", authz.Require("orders.read"), payment.CheckPayment)
		v1.POST("/orders/:id/payment/fail", authz.Require("orders.write"), payment.FailPayment)
	}

	return r
}
