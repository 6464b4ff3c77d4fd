package handlers

import (
	"net/http"

	"resto-pos-api/config"
	"resto-pos-api/inventory"
	"resto-pos-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListInventory returns all active inventory items (staff)
func ListInventory(c *gin.Context) {
	var items []models.InventoryItem
	query := config.DB.Where("active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&items).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"count": len(items), "items": items})
}

type InventoryItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	CurrentStock float64         `json:"current_stock"`
	MinStock     float64         `json:"min_stock"`
	MaxStock     float64         `json:"max_stock"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	DailyUsage   float64         `json:"daily_usage"`
	LeadTimeDays float64         `json:"lead_time_days"`
}

// AddInventoryItem creates an inventory item (staff)
func AddInventoryItem(c *gin.Context) {
	var req InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	item := models.InventoryItem{
		Name:         req.Name,
		Category:     req.Category,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		MaxStock:     req.MaxStock,
		Unit:         req.Unit,
		CostPerUnit:  req.CostPerUnit,
		DailyUsage:   req.DailyUsage,
		LeadTimeDays: req.LeadTimeDays,
		Active:       true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"item": item})
}

type StockAdjustRequest struct {
	Op       inventory.StockOp `json:"op" binding:"required"`
	Quantity float64           `json:"quantity"`
}

// AdjustStock handles PATCH /api/inventory/:id/stock (staff)
func AdjustStock(c *gin.Context) {
	itemID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}

	item, err := inventory.AdjustStock(config.DB, itemID, req.Op, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"item": item}
	if item.CurrentStock <= item.MinStock {
		// Advisory only: crossing min stock never blocks the adjustment.
		body["low_stock"] = true
	}
	respondData(c, http.StatusOK, body)
}

// GetPredictions handles GET /api/inventory/predictions (staff)
func GetPredictions(c *gin.Context) {
	var items []models.InventoryItem
	if err := config.DB.Where("active = ?", true).Order("id").Find(&items).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"predictions": inventory.Predict(items)})
}
