package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quangdm/freshcart-api/internal/adapter/http/middleware"
	"github.com/quangdm/freshcart-api/internal/usecase"
)

type PaymentHandler struct {
	start     *usecase.StartPayment
	reconcile *usecase.ReconcilePayment
	// pollBudget bounds one reconciliation request; the poll loop itself
	// retries pending replies indefinitely within it.
	pollBudget time.Duration
}

func NewPaymentHandler(start *usecase.StartPayment, reconcile *usecase.ReconcilePayment, pollBudget time.Duration) *PaymentHandler {
	if pollBudget <= 0 {
		pollBudget = 60 * time.Second
	}
	return &PaymentHandler{start: start, reconcile: reconcile, pollBudget: pollBudget}
}

// StartPayment hands back the gateway redirect for an unpaid order.
func (h *PaymentHandler) StartPayment(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	locator, err := h.start.Execute(ctx, middleware.UserID(c), orderID)
	if err != nil {
		writeReason(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK, "pay_url": locator})
}

// CheckPayment polls the gateway until the trade is terminal or the request
// budget runs out. Cancellation (client gone, budget spent) stops the loop
// between polls without touching the order.
func (h *PaymentHandler) CheckPayment(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pollBudget)
	defer cancel()

	if err := h.reconcile.PollUntilTerminal(ctx, middleware.UserID(c), orderID); err != nil {
		writeReason(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK, "message": "payment settled"})
}

// FailPayment is the buyer giving up: the explicit UNPAID -> FAILED move.
func (h *PaymentHandler) FailPayment(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.reconcile.FailPayment(ctx, middleware.UserID(c), orderID); err != nil {
		writeReason(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": usecase.CodeOK})
}
