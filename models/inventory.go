package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"not null"`
	Category     string          `json:"category"`
	CurrentStock float64         `json:"current_stock"`
	MinStock     float64         `json:"min_stock"`
	MaxStock     float64         `json:"max_stock"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit" gorm:"type:decimal(10,2)"`
	DailyUsage   float64         `json:"daily_usage"`
	LeadTimeDays float64         `json:"lead_time_days"`
	Active       bool            `json:"active"`
	ExternalID   string          `json:"external_id,omitempty" gorm:"index"` // processor inventory id
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
