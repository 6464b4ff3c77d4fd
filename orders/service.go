package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resto-pos-api/kitchen"
	"resto-pos-api/models"
	"resto-pos-api/notify"
	"resto-pos-api/processor"
	"resto-pos-api/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service owns the order lifecycle: creation, status transitions, payments
// and refunds. The database is the single source of truth; the processor,
// kitchen channel and SMS notifier hang off it as side effects.
type Service struct {
	db       *gorm.DB
	proc     processor.Processor
	hub      kitchen.Broadcaster
	notifier notify.Notifier
	taxRate  decimal.Decimal
	alertTo  string
	log      *slog.Logger
	locks    *keyedLocks
}

func NewService(db *gorm.DB, proc processor.Processor, hub kitchen.Broadcaster, notifier notify.Notifier, taxRate decimal.Decimal, alertTo string, log *slog.Logger) *Service {
	return &Service{
		db:       db,
		proc:     proc,
		hub:      hub,
		notifier: notifier,
		taxRate:  taxRate,
		alertTo:  alertTo,
		log:      log,
		locks:    newKeyedLocks(),
	}
}

type LineInput struct {
	MenuItemID uint     `json:"menu_item_id" binding:"required"`
	Quantity   int      `json:"quantity" binding:"required,min=1"`
	Modifiers  []string `json:"modifiers"`
	Note       string   `json:"note"`
}

type CreateOrderInput struct {
	Lines         []LineInput         `json:"lines" binding:"required,min=1"`
	Channel       models.OrderChannel `json:"channel"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	CustomerEmail string              `json:"customer_email"`
	Notes         string              `json:"notes"`
}

// CreateOrder validates the lines, snapshots menu prices, computes totals and
// persists order + lines in one transaction. On success the kitchen room gets
// a new-order event with a ready-by estimate.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, models.Invalid("order must contain at least one line")
	}
	channel := in.Channel
	if channel == "" {
		channel = models.ChannelInPerson
	}
	if channel != models.ChannelInPerson && channel != models.ChannelOnline {
		return nil, models.Invalid("unknown channel %q (want in_person or online)", channel)
	}

	var lines []models.OrderLine
	for _, li := range in.Lines {
		if li.Quantity <= 0 {
			return nil, models.Invalid("quantity must be positive")
		}
		var item models.MenuItem
		if err := s.db.WithContext(ctx).First(&item, li.MenuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.Invalid("unknown menu item %d", li.MenuItemID)
			}
			return nil, err
		}
		if !item.Available {
			return nil, models.Invalid("menu item %q is not available", item.Name)
		}

		mods, err := resolveModifiers(item, li.Modifiers)
		if err != nil {
			return nil, err
		}

		lines = append(lines, models.OrderLine{
			MenuItemID: item.ID,
			Quantity:   li.Quantity,
			UnitPrice:  item.Price, // snapshot: later menu price changes never touch this order
			Name:       item.Name,
			Modifiers:  mods,
			Note:       li.Note,
		})
	}

	subtotal, tax, total := computeTotals(lines, s.taxRate)

	order := models.Order{
		OrderNumber:   generateOrderNumber(),
		Channel:       channel,
		Status:        models.StatusPending,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Notes:         in.Notes,
		Lines:         lines,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:  order.ID,
			ToStatus: models.StatusPending,
			Note:     "order placed",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	// Mirror to the processor's order system — best-effort only.
	if ref, err := s.proc.CreateOrderRef(ctx, order.OrderNumber, order.Total); err != nil {
		s.log.Warn("order mirror failed", "order", order.OrderNumber, "error", err)
	} else if ref != "" {
		order.ExternalRef = ref
		if err := s.db.WithContext(ctx).Model(&order).Update("external_ref", ref).Error; err != nil {
			s.log.Warn("saving external ref failed", "order", order.OrderNumber, "error", err)
		}
	}

	readyBy := time.Now().Add(prepEstimate(lines))
	s.hub.Broadcast(kitchen.RoomKitchen, kitchen.Event{
		Type: kitchen.EventNewOrder,
		Data: map[string]interface{}{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"lines":        order.Lines,
			"ready_by":     readyBy,
		},
	})

	return &order, nil
}

// TransitionStatus moves the order through the state machine. The internal
// transition always commits first; mirroring the status to the processor is
// best-effort.
func (s *Service) TransitionStatus(ctx context.Context, orderID uint, newStatus models.OrderStatus, note string) (*models.Order, error) {
	unlock := s.locks.acquire(orderID)
	defer unlock()

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("order")
		}
		return nil, err
	}

	if err := statemachine.CanTransition(order.Status, newStatus); err != nil {
		return nil, err
	}

	return s.transitionLocked(ctx, &order, newStatus, note)
}

// GetOrder loads an order with its lines, payments and history.
func (s *Service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		Preload("StatusHistory").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFound("order")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest-first, optionally filtered by status.
func (s *Service) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var list []models.Order
	q := s.db.WithContext(ctx).Preload("Lines").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

func resolveModifiers(item models.MenuItem, names []string) ([]models.Modifier, error) {
	if len(names) == 0 {
		return nil, nil
	}
	byName := make(map[string]models.Modifier, len(item.Modifiers))
	for _, m := range item.Modifiers {
		byName[m.Name] = m
	}
	var mods []models.Modifier
	for _, name := range names {
		m, ok := byName[name]
		if !ok {
			return nil, models.Invalid("menu item %q has no modifier %q", item.Name, name)
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// generateOrderNumber builds a human-readable unique order number:
// POS-<timestamp>-<random suffix>.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("POS-%s-%s", time.Now().Format("20060102150405"), suffix)
}

// prepEstimate is the kitchen's target: 15 minutes base plus 5 per line.
func prepEstimate(lines []models.OrderLine) time.Duration {
	return time.Duration(15+5*len(lines)) * time.Minute
}
