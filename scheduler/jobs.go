package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resto-pos-api/inventory"
	"resto-pos-api/models"
	"resto-pos-api/notify"
	"resto-pos-api/orders"
	"resto-pos-api/processor"
	"resto-pos-api/recommend"

	"gorm.io/gorm"
)

// Deps is everything the job bodies touch. Each job treats the database as
// its unit of consistency per-write; there are no cross-job transactions.
type Deps struct {
	DB        *gorm.DB
	Processor processor.Processor
	Orders    *orders.Service
	Recommend *recommend.Client
	RecCache  *recommend.Cache
	Notifier  notify.Notifier
	AlertTo   string
	Log       *slog.Logger
}

// Jobs is the static job table: five fixed-cadence jobs, no coordination
// between them.
func Jobs(d Deps) []Job {
	return []Job{
		{Name: "catalog-sync", Spec: "@every 15m", Run: d.syncCatalog},
		{Name: "inventory-sync", Spec: "@every 30m", Run: d.syncInventory},
		{Name: "low-stock-check", Spec: "@every 1h", Run: d.checkLowStock},
		{Name: "daily-report", Spec: "0 6 * * *", Run: d.dailyReport},
		{Name: "recommendation-refresh", Spec: "@every 6h", Run: d.refreshRecommendations},
	}
}

// syncCatalog pulls the processor catalog and upserts menu items by their
// external id.
func (d Deps) syncCatalog(ctx context.Context) error {
	entries, err := d.Processor.PullCatalog(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		var item models.MenuItem
		err := d.DB.WithContext(ctx).Where("external_id = ?", entry.ExternalID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.MenuItem{
				Name:        entry.Name,
				Description: entry.Description,
				Price:       entry.Price,
				Category:    entry.Category,
				Available:   entry.Available,
				ExternalID:  entry.ExternalID,
			}
			if err := d.DB.WithContext(ctx).Create(&item).Error; err != nil {
				d.Log.Warn("catalog upsert failed", "external_id", entry.ExternalID, "error", err)
			}
		case err != nil:
			return err
		default:
			updates := map[string]interface{}{
				"name":        entry.Name,
				"description": entry.Description,
				"price":       entry.Price,
				"category":    entry.Category,
				"available":   entry.Available,
			}
			if err := d.DB.WithContext(ctx).Model(&item).Updates(updates).Error; err != nil {
				d.Log.Warn("catalog update failed", "external_id", entry.ExternalID, "error", err)
			}
		}
	}

	d.Log.Info("catalog sync done", "entries", len(entries))
	return nil
}

// syncInventory pulls stock counts and overwrites current stock for items the
// processor knows about.
func (d Deps) syncInventory(ctx context.Context) error {
	counts, err := d.Processor.PullInventoryCounts(ctx)
	if err != nil {
		return err
	}

	for _, count := range counts {
		res := d.DB.WithContext(ctx).Model(&models.InventoryItem{}).
			Where("external_id = ?", count.ExternalID).
			Update("current_stock", count.Quantity)
		if res.Error != nil {
			d.Log.Warn("inventory count update failed", "external_id", count.ExternalID, "error", res.Error)
		}
	}

	d.Log.Info("inventory sync done", "counts", len(counts))
	return nil
}

// checkLowStock alerts the manager about items at or below minimum stock.
func (d Deps) checkLowStock(ctx context.Context) error {
	items, err := inventory.LowStock(d.DB.WithContext(ctx))
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	msg := fmt.Sprintf("%d items at or below minimum stock:", len(items))
	for _, item := range items {
		msg += fmt.Sprintf(" %s (%.1f %s)", item.Name, item.CurrentStock, item.Unit)
		d.Log.Warn("low stock", "item", item.Name, "current", item.CurrentStock, "min", item.MinStock)
	}
	d.Notifier.Send(d.AlertTo, msg)
	return nil
}

// dailyReport summarizes the previous day and texts it to the manager.
func (d Deps) dailyReport(ctx context.Context) error {
	end := time.Now().Truncate(24 * time.Hour)
	start := end.Add(-24 * time.Hour)

	rep, err := d.Orders.Report(ctx, start, end)
	if err != nil {
		return err
	}

	d.Log.Info("daily report",
		"orders", rep.OrderCount,
		"net_collected", rep.NetCollected.StringFixed(2),
		"top_sellers", rep.TopSellers,
	)
	d.Notifier.Send(d.AlertTo, fmt.Sprintf(
		"Daily report %s: %d orders, $%s collected",
		start.Format("2006-01-02"), rep.OrderCount, rep.NetCollected.StringFixed(2),
	))
	return nil
}

// refreshRecommendations recomputes suggestions from the last week's top
// sellers.
func (d Deps) refreshRecommendations(ctx context.Context) error {
	end := time.Now()
	rep, err := d.Orders.Report(ctx, end.AddDate(0, 0, -7), end)
	if err != nil {
		return err
	}

	suggestions := d.Recommend.Suggest(ctx, rep.TopSellers)
	d.RecCache.Set(suggestions)
	d.Log.Info("recommendations refreshed", "count", len(suggestions))
	return nil
}
