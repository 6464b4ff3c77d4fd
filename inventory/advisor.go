package inventory

import (
	"fmt"
	"math"

	"resto-pos-api/models"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// restockFactor sizes the recommended order at one-and-a-half lead times of
// usage, so the next delivery lands before the buffer runs out again.
const restockFactor = 1.5

type Advisory struct {
	ItemID              uint    `json:"item_id"`
	Name                string  `json:"name"`
	DaysRemaining       float64 `json:"days_remaining"`
	RecommendedOrderQty float64 `json:"recommended_order_qty"`
	Urgency             Urgency `json:"urgency"`
	Reason              string  `json:"reason"`
}

// Predict derives a reorder advisory per item. It is a pure function of its
// inputs: same item list, same output, always.
func Predict(items []models.InventoryItem) []Advisory {
	advisories := make([]Advisory, 0, len(items))
	for _, item := range items {
		advisories = append(advisories, predictOne(item))
	}
	return advisories
}

func predictOne(item models.InventoryItem) Advisory {
	usage := item.DailyUsage
	if usage < 1 {
		usage = 1
	}
	daysRemaining := item.CurrentStock / usage

	adv := Advisory{
		ItemID:        item.ID,
		Name:          item.Name,
		DaysRemaining: daysRemaining,
	}

	recommend := math.Ceil(restockFactor*item.DailyUsage*item.LeadTimeDays - item.CurrentStock)
	if recommend < 0 {
		recommend = 0
	}

	switch {
	case daysRemaining <= item.LeadTimeDays:
		adv.Urgency = UrgencyHigh
		adv.RecommendedOrderQty = recommend
		adv.Reason = fmt.Sprintf("stock runs out in %.1f days, before a %.0f-day resupply arrives", daysRemaining, item.LeadTimeDays)
	case daysRemaining <= 2*item.LeadTimeDays:
		adv.Urgency = UrgencyMedium
		adv.RecommendedOrderQty = recommend
		adv.Reason = fmt.Sprintf("stock covers %.1f days, within two lead times", daysRemaining)
	default:
		adv.Urgency = UrgencyLow
		adv.RecommendedOrderQty = 0
		adv.Reason = fmt.Sprintf("stock covers %.1f days", daysRemaining)
	}
	return adv
}
