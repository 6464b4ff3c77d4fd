package inventory

import (
	"fmt"
	"testing"

	"resto-pos-api/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.InventoryItem{}))
	return db
}

func seedItem(t *testing.T, db *gorm.DB, stock, min float64) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{Name: "Onions", CurrentStock: stock, MinStock: min, Unit: "kg", Active: true}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestAdjustStockOps(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, 10, 2)

	got, err := AdjustStock(db, item.ID, OpAdd, 5)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.CurrentStock)

	got, err = AdjustStock(db, item.ID, OpSubtract, 3)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.CurrentStock)

	got, err = AdjustStock(db, item.ID, OpSet, 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.CurrentStock)
}

func TestAdjustStockRejectsOverdraw(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, 2, 1)

	_, err := AdjustStock(db, item.ID, OpSubtract, 3)
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)

	// stock untouched
	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, 2.0, reloaded.CurrentStock)
}

func TestAdjustStockUnknownItemAndOp(t *testing.T) {
	db := newTestDB(t)
	item := seedItem(t, db, 2, 1)

	_, err := AdjustStock(db, 999, OpSet, 1)
	require.Error(t, err)
	assert.IsType(t, &models.NotFoundError{}, err)

	_, err = AdjustStock(db, item.ID, StockOp("divide"), 1)
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)

	_, err = AdjustStock(db, item.ID, OpSet, -1)
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)
}

func TestLowStock(t *testing.T) {
	db := newTestDB(t)
	seedItem(t, db, 1, 2)  // below min
	seedItem(t, db, 10, 2) // healthy

	// Inactive items are excluded even when their stock is low; the flag has
	// to persist as false for that to hold.
	retired := models.InventoryItem{Name: "Retired syrup", CurrentStock: 0, MinStock: 2, Unit: "l", Active: false}
	require.NoError(t, db.Create(&retired).Error)
	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, retired.ID).Error)
	require.False(t, reloaded.Active)

	low, err := LowStock(db)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, 1.0, low[0].CurrentStock)
}
