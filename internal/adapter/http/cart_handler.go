package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quangdm/freshcart-api/internal/adapter/cache"
	"github.com/quangdm/freshcart-api/internal/adapter/http/middleware"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

type CartHandler struct {
	cart *cache.RedisCartStore
	skus usecase.InventoryLedger
}

func NewCartHandler(cart *cache.RedisCartStore, skus usecase.InventoryLedger) *CartHandler {
	return &CartHandler{cart: cart, skus: skus}
}

type cartItemReq struct {
	SKUID string `json:"skuId" binding:"required"`
	Count int    `json:"count" binding:"required,gt=0"`
}

// AddItem adds to (or tops up) a cart entry. The stock check is advisory;
// checkout does the authoritative one.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	userID := middleware.UserID(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	sku, err := h.skus.GetSKU(ctx, req.SKUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	if sku == nil {
		writeReason(c, usecase.ErrSKUNotFound)
		return
	}

	count := req.Count
	if existing, ok, err := h.cart.Quantity(ctx, userID, req.SKUID); err == nil && ok {
		count += existing
	}
	if count > sku.Stock {
		writeReason(c, usecase.ErrInsufficientStock)
		return
	}

	if err := h.cart.SetQuantity(ctx, userID, req.SKUID, count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK, "count": count})
}

// UpdateItem overwrites a cart entry.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req cartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	sku, err := h.skus.GetSKU(ctx, req.SKUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	if sku == nil {
		writeReason(c, usecase.ErrSKUNotFound)
		return
	}
	if req.Count > sku.Stock {
		writeReason(c, usecase.ErrInsufficientStock)
		return
	}

	if err := h.cart.SetQuantity(ctx, middleware.UserID(c), req.SKUID, req.Count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	skuID := c.Param("skuId")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.cart.Remove(ctx, middleware.UserID(c), skuID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	quantities, err := h.cart.Quantities(ctx, middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK, "items": quantities})
}
