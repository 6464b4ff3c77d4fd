package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category    string          `json:"category"`
	// Available is flipped off instead of deleting rows: order lines keep
	// referencing menu items forever. No column default: a zero value with a
	// gorm default tag would be dropped from the INSERT and come back true.
	Available  bool       `json:"available"`
	Modifiers  []Modifier `json:"modifiers,omitempty" gorm:"serializer:json"`
	ExternalID string     `json:"external_id,omitempty" gorm:"index"` // processor catalog id
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Modifier is a named add-on with an incremental price.
type Modifier struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
