package handlers

import (
	"net/http"

	"resto-pos-api/config"
	"resto-pos-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetMenu returns available menu items (public)
func GetMenu(c *gin.Context) {
	var items []models.MenuItem
	query := config.DB.Where("available = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.Find(&items).Error; err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetRecommendations returns the cached menu suggestions (public)
func (a *API) GetRecommendations(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"suggestions": a.RecCache.Get()})
}

type MenuItemRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price" binding:"required"`
	Category    string            `json:"category"`
	Available   *bool             `json:"available"`
	Modifiers   []models.Modifier `json:"modifiers"`
}

// AddMenuItem creates a menu item (admin)
func AddMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if req.Price.Sign() < 0 {
		respondErrorBody(c, http.StatusBadRequest, "validation", "price must not be negative")
		return
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   true,
		Modifiers:   req.Modifiers,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := config.DB.Create(&item).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"item": item})
}

// UpdateMenuItem updates a menu item (admin)
func UpdateMenuItem(c *gin.Context) {
	itemID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var item models.MenuItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		respondErrorBody(c, http.StatusNotFound, "not_found", "menu item not found")
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", err.Error())
		return
	}
	if req.Price.Sign() < 0 {
		respondErrorBody(c, http.StatusBadRequest, "validation", "price must not be negative")
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	item.Modifiers = req.Modifiers
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := config.DB.Save(&item).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"item": item})
}

// DeactivateMenuItem handles DELETE /api/menu/:id (admin). Items are never
// deleted — existing order lines reference them — only marked unavailable.
func DeactivateMenuItem(c *gin.Context) {
	itemID, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var item models.MenuItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		respondErrorBody(c, http.StatusNotFound, "not_found", "menu item not found")
		return
	}

	if err := config.DB.Model(&item).Update("available", false).Error; err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"item": item})
}
