package inventory

import (
	"errors"

	"resto-pos-api/models"

	"gorm.io/gorm"
)

type StockOp string

const (
	OpSet      StockOp = "set"
	OpAdd      StockOp = "add"
	OpSubtract StockOp = "subtract"
)

// AdjustStock applies a stock mutation and returns the updated item.
// Crossing at or below min stock is advisory only — it never blocks the
// adjustment.
func AdjustStock(db *gorm.DB, itemID uint, op StockOp, quantity float64) (*models.InventoryItem, error) {
	if quantity < 0 {
		return nil, models.Invalid("quantity must not be negative")
	}

	var item models.InventoryItem
	if err := db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("inventory item")
		}
		return nil, err
	}

	switch op {
	case OpSet:
		item.CurrentStock = quantity
	case OpAdd:
		item.CurrentStock += quantity
	case OpSubtract:
		if quantity > item.CurrentStock {
			return nil, models.Invalid("cannot subtract %.2f: only %.2f in stock", quantity, item.CurrentStock)
		}
		item.CurrentStock -= quantity
	default:
		return nil, models.Invalid("unknown stock operation %q (want set, add or subtract)", op)
	}

	if err := db.Model(&item).Update("current_stock", item.CurrentStock).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// LowStock returns active items at or below their minimum stock level.
func LowStock(db *gorm.DB) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := db.Where("active = ? AND current_stock <= min_stock", true).Find(&items).Error
	return items, err
}
