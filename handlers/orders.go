package handlers

import (
	"net/http"
	"strconv"

	"resto-pos-api/models"
	"resto-pos-api/orders"
	"resto-pos-api/recommend"
	"resto-pos-api/statemachine"

	"github.com/gin-gonic/gin"
)

// API bundles the services the handlers delegate to.
type API struct {
	Orders   *orders.Service
	RecCache *recommend.Cache
}

// CreateOrder handles POST /api/orders (public ordering)
func (a *API) CreateOrder(c *gin.Context) {
	var req orders.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	order, err := a.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"order": order})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status (staff)
func (a *API) UpdateOrderStatus(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	order, err := a.Orders.TransitionStatus(c.Request.Context(), orderID, req.Status, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"order":             order,
		"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
	})
}

// GetOrder handles GET /api/orders/:id (staff)
func (a *API) GetOrder(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := a.Orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	paid, err := a.Orders.AmountPaid(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"order": order, "amount_paid": paid})
}

// ListOrders handles GET /api/orders (staff), optional ?status= filter
func (a *API) ListOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	list, err := a.Orders.ListOrders(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// GetStateMachineInfo returns the full state machine for documentation
func (a *API) GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To})
	}
	respondData(c, http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusCompleted, models.StatusCancelled},
	})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, models.Invalid("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}
