package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quangdm/freshcart-api/internal/adapter/http/middleware"
	domain "github.com/quangdm/freshcart-api/internal/entity"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

type CheckoutHandler struct {
	preview *usecase.PreviewOrder
	commit  *usecase.CommitOrder
	cart    usecase.CartSource
}

func NewCheckoutHandler(preview *usecase.PreviewOrder, commit *usecase.CommitOrder, cart usecase.CartSource) *CheckoutHandler {
	return &CheckoutHandler{preview: preview, commit: commit, cart: cart}
}

type previewReq struct {
	SKUIDs []string `json:"skuIds" binding:"required,min=1"`
	// Count > 0 is the buy-now path: one SKU with an explicit quantity.
	Count int `json:"count"`
}

// PreviewOrder prices the selection before the buyer confirms.
func (h *CheckoutHandler) PreviewOrder(c *gin.Context) {
	var req previewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if req.Count > 0 && len(req.SKUIDs) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.preview.Execute(ctx, usecase.PreviewOrderInput{
		UserID:      middleware.UserID(c),
		SKUIDs:      req.SKUIDs,
		BuyNowCount: req.Count,
	})
	if err != nil {
		writeReason(c, err)
		return
	}

	lines := make([]gin.H, 0, len(out.Lines))
	for _, ln := range out.Lines {
		lines = append(lines, gin.H{
			"sku_id":       ln.SKUID,
			"name":         ln.Name,
			"count":        ln.Count,
			"price_cents":  ln.PriceCents,
			"amount_cents": ln.AmountCents,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"code":               usecase.CodeOK,
		"lines":              lines,
		"total_count":        out.TotalCount,
		"lines_amount_cents": out.LinesAmountCents,
		"shipping_cents":     out.ShippingCents,
		"amount_cents":       out.AmountCents,
	})
}

type commitOrderReq struct {
	AddressID string   `json:"addressId" binding:"required"`
	PayMethod string   `json:"payMethod" binding:"required"`
	SKUIDs    []string `json:"skuIds" binding:"required,min=1"`
}

// CommitOrder turns the buyer's cart selection into a durable order.
func (h *CheckoutHandler) CommitOrder(c *gin.Context) {
	var req commitOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	userID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	quantities, err := h.cart.Quantities(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": usecase.CodeCommitFailed})
		return
	}

	out, err := h.commit.Execute(ctx, usecase.CommitOrderInput{
		UserID:     userID,
		AddressID:  req.AddressID,
		PayMethod:  domain.PayMethod(req.PayMethod),
		SKUIDs:     req.SKUIDs,
		Quantities: quantities,
	})
	if err != nil {
		writeReason(c, err)
		return
	}

	resp := gin.H{
		"code":         usecase.CodeOK,
		"order_id":     out.OrderID,
		"amount_cents": out.AmountCents,
		"total_count":  out.TotalCount,
	}
	if out.CartCleanupFailed {
		resp["warning"] = "cart cleanup failed; committed items may still appear in the cart"
	}
	c.JSON(http.StatusCreated, resp)
}

// writeReason maps flow errors onto HTTP statuses plus the machine-readable
// reason code clients switch on.
func writeReason(c *gin.Context, err error) {
	code := usecase.ReasonCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrAddressInvalid),
		errors.Is(err, usecase.ErrPaymentMethodUnsupported):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrSKUNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrInsufficientStock),
		errors.Is(err, usecase.ErrCommitConflict),
		errors.Is(err, usecase.ErrOrderNotPending):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrPaymentFailed):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{"code": code, "error": err.Error()})
}
