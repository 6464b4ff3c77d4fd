package orders

import (
	"context"
	"time"

	"resto-pos-api/models"

	"github.com/shopspring/decimal"
)

// SalesReport summarizes a reporting window.
type SalesReport struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	OrderCount   int64           `json:"order_count"`
	NetCollected decimal.Decimal `json:"net_collected"` // payments minus refunds
	TopSellers   []string        `json:"top_sellers"`
}

// Report aggregates orders and payments in [start, end).
func (s *Service) Report(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	rep := &SalesReport{Start: start, End: end}

	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", start, end, models.StatusCancelled).
		Count(&rep.OrderCount).Error
	if err != nil {
		return nil, err
	}

	// COALESCE so an empty window reports 0 instead of NULL.
	err = s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", start, end, models.PaymentFailed).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&rep.NetCollected).Error
	if err != nil {
		return nil, err
	}

	type row struct {
		Name string
		Qty  int
	}
	var rows []row
	err = s.db.WithContext(ctx).Model(&models.OrderLine{}).
		Select("order_lines.name AS name, SUM(order_lines.quantity) AS qty").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Group("order_lines.name").
		Order("qty desc").
		Limit(5).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		rep.TopSellers = append(rep.TopSellers, r.Name)
	}

	return rep, nil
}
