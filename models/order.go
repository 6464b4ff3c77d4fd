package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderChannel is where the order originated.
type OrderChannel string

const (
	ChannelInPerson OrderChannel = "in_person"
	ChannelOnline   OrderChannel = "online"
)

type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber   string               `json:"order_number" gorm:"uniqueIndex;not null"`
	Channel       OrderChannel         `json:"channel" gorm:"not null;default:'in_person'"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'PENDING'"`
	Subtotal      decimal.Decimal      `json:"subtotal" gorm:"type:decimal(10,2)"`
	Tax           decimal.Decimal      `json:"tax" gorm:"type:decimal(10,2)"`
	Total         decimal.Decimal      `json:"total" gorm:"type:decimal(10,2)"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	CustomerEmail string               `json:"customer_email"`
	Notes         string               `json:"notes"`
	ExternalRef   string               `json:"external_ref,omitempty"` // processor-side order id
	Lines         []OrderLine          `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
	Payments      []Payment            `json:"payments,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type OrderLine struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"` // snapshot at order time
	Name       string          `json:"name"`                                          // snapshot name
	Modifiers  []Modifier      `json:"modifiers,omitempty" gorm:"serializer:json"`
	Note       string          `json:"note"`
}

// OrderStatusHistory tracks every status change for audit
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
