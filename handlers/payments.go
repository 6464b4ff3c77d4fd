package handlers

import (
	"net/http"

	"resto-pos-api/orders"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreatePayment handles POST /api/payments (public — terminals pay unauthenticated)
func (a *API) CreatePayment(c *gin.Context) {
	var req orders.RecordPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	payment, receipt, err := a.Orders.RecordPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"payment": payment, "receipt": receipt})
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RefundPayment handles POST /api/payments/:id/refund (staff)
func (a *API) RefundPayment(c *gin.Context) {
	paymentID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	refund, err := a.Orders.RefundPayment(c.Request.Context(), paymentID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"refund": refund})
}
