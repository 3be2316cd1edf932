package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quangdm/freshcart-api/internal/adapter/http/middleware"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

type OrderHandler struct {
	store  usecase.OrderStore
	finish *usecase.FinishOrder
}

func NewOrderHandler(store usecase.OrderStore, finish *usecase.FinishOrder) *OrderHandler {
	return &OrderHandler{store: store, finish: finish}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.store.GetForUser(ctx, orderID, middleware.UserID(c))
	if err != nil || order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	lines, err := h.store.GetLines(ctx, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	lineViews := make([]gin.H, 0, len(lines))
	for _, ln := range lines {
		lineViews = append(lineViews, gin.H{
			"sku_id":      ln.SKUID,
			"count":       ln.Count,
			"price_cents": ln.PriceCents,
			"comment":     ln.Comment,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           order.ID,
		"status":       order.Status,
		"pay_method":   order.PayMethod,
		"total_count":  order.TotalCount,
		"amount_cents": order.AmountCents,
		"trade_id":     order.TradeID,
		"created_at":   order.CreatedAt,
		"lines":        lineViews,
	})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	orders, total, err := h.store.ListForUser(ctx, middleware.UserID(c), page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}

	views := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		views = append(views, gin.H{
			"id":           o.ID,
			"status":       o.Status,
			"pay_method":   o.PayMethod,
			"total_count":  o.TotalCount,
			"amount_cents": o.AmountCents,
			"created_at":   o.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"orders": views, "total": total, "page": page})
}

type finishOrderReq struct {
	Comments map[string]string `json:"comments" binding:"required"`
}

// FinishOrder stores the buyer's reviews and closes the order.
func (h *OrderHandler) FinishOrder(c *gin.Context) {
	var req finishOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	err := h.finish.Execute(ctx, usecase.FinishOrderInput{
		UserID:   middleware.UserID(c),
		OrderID:  c.Param("id"),
		Comments: req.Comments,
	})
	if err != nil {
		writeReason(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK})
}
