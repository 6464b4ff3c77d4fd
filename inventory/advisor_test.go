package inventory

import (
	"reflect"
	"testing"

	"resto-pos-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictHighUrgency(t *testing.T) {
	// currentStock=3, dailyUsage=5, leadTime=3 → daysRemaining=0.6 ≤ 3 → high
	items := []models.InventoryItem{
		{ID: 1, Name: "Tomatoes", CurrentStock: 3, DailyUsage: 5, LeadTimeDays: 3},
	}
	advisories := Predict(items)
	require.Len(t, advisories, 1)

	adv := advisories[0]
	assert.Equal(t, UrgencyHigh, adv.Urgency)
	assert.InDelta(t, 0.6, adv.DaysRemaining, 1e-9)
	// ceil(1.5 × 5 × 3 − 3) = ceil(19.5) = 20
	assert.Equal(t, 20.0, adv.RecommendedOrderQty)
	assert.NotEmpty(t, adv.Reason)
}

func TestPredictMediumUrgency(t *testing.T) {
	// daysRemaining=5, leadTime=3: 5 > 3 but ≤ 6 → medium
	items := []models.InventoryItem{
		{ID: 2, Name: "Flour", CurrentStock: 50, DailyUsage: 10, LeadTimeDays: 3},
	}
	adv := Predict(items)[0]
	assert.Equal(t, UrgencyMedium, adv.Urgency)
	// ceil(1.5 × 10 × 3 − 50) = ceil(-5) → floored at 0
	assert.Equal(t, 0.0, adv.RecommendedOrderQty)
}

func TestPredictLowUrgency(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 3, Name: "Salt", CurrentStock: 1000, DailyUsage: 2, LeadTimeDays: 3},
	}
	adv := Predict(items)[0]
	assert.Equal(t, UrgencyLow, adv.Urgency)
	assert.Equal(t, 0.0, adv.RecommendedOrderQty)
}

func TestPredictZeroUsageClampedToOne(t *testing.T) {
	// daysRemaining = currentStock / max(1, dailyUsage)
	items := []models.InventoryItem{
		{ID: 4, Name: "Saffron", CurrentStock: 2, DailyUsage: 0, LeadTimeDays: 3},
	}
	adv := Predict(items)[0]
	assert.InDelta(t, 2.0, adv.DaysRemaining, 1e-9)
	assert.Equal(t, UrgencyHigh, adv.Urgency)
}

func TestPredictDeterministic(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, Name: "Tomatoes", CurrentStock: 3, DailyUsage: 5, LeadTimeDays: 3},
		{ID: 2, Name: "Flour", CurrentStock: 50, DailyUsage: 10, LeadTimeDays: 3},
		{ID: 3, Name: "Salt", CurrentStock: 1000, DailyUsage: 2, LeadTimeDays: 3},
	}
	first := Predict(items)
	for i := 0; i < 10; i++ {
		assert.True(t, reflect.DeepEqual(first, Predict(items)), "Predict must be pure")
	}
}

func TestPredictRecommendNeverNegative(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 5, Name: "Rice", CurrentStock: 100, DailyUsage: 10, LeadTimeDays: 5},
	}
	adv := Predict(items)[0]
	assert.GreaterOrEqual(t, adv.RecommendedOrderQty, 0.0)
}
