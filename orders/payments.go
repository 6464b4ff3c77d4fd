package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resto-pos-api/kitchen"
	"resto-pos-api/models"
	"resto-pos-api/processor"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordPaymentInput struct {
	OrderID        uint                 `json:"order_id" binding:"required"`
	Amount         decimal.Decimal      `json:"amount" binding:"required"`
	Method         models.PaymentMethod `json:"method" binding:"required"`
	SourceToken    string               `json:"source_token"`
	IdempotencyKey string               `json:"idempotency_key"`
}

// RecordPayment applies a payment to an order. Card payments go through the
// processor first; a failed charge persists nothing. Replaying a card payment
// with the same idempotency key and amount returns the stored payment instead
// of charging again. When cumulative payments first reach the order total,
// the order moves to CONFIRMED and a payment alert goes out.
func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (*models.Payment, *processor.ChargeResult, error) {
	unlock := s.locks.acquire(in.OrderID)
	defer unlock()

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, in.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NotFound("order")
		}
		return nil, nil, err
	}

	if !in.Amount.IsPositive() {
		return nil, nil, models.Invalid("payment amount must be positive")
	}
	switch in.Method {
	case models.MethodCash, models.MethodCard, models.MethodOther:
	default:
		return nil, nil, models.Invalid("unknown payment method %q", in.Method)
	}
	if order.Status == models.StatusCancelled {
		return nil, nil, models.Conflict("order %s is cancelled", order.OrderNumber)
	}

	var key *string
	if in.Method == models.MethodCard {
		if in.IdempotencyKey == "" {
			return nil, nil, models.Invalid("idempotency_key is required for card payments")
		}
		key = &in.IdempotencyKey

		// Replay: same key must not charge twice.
		var prior models.Payment
		err := s.db.WithContext(ctx).
			Where("order_id = ? AND idempotency_key = ?", order.ID, in.IdempotencyKey).
			First(&prior).Error
		if err == nil {
			if !prior.Amount.Equal(in.Amount) {
				return nil, nil, models.Conflict("idempotency key %q was already used with a different amount", in.IdempotencyKey)
			}
			// Replay must be byte-for-byte the original outcome, receipt included.
			return &prior, &processor.ChargeResult{Reference: prior.ExternalRef, Amount: prior.Amount, Receipt: prior.Receipt}, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
	}

	payment := models.Payment{
		OrderID:        order.ID,
		Amount:         in.Amount,
		Method:         in.Method,
		Status:         models.PaymentCompleted,
		IdempotencyKey: key,
	}

	var receipt *processor.ChargeResult
	if in.Method == models.MethodCard {
		res, err := s.proc.Charge(ctx, in.SourceToken, in.Amount, in.IdempotencyKey)
		if err != nil {
			// Nothing is persisted for a failed charge.
			return nil, nil, err
		}
		receipt = res
		payment.ExternalRef = res.Reference
		payment.Receipt = res.Receipt
	}

	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, nil, models.Conflict("idempotency key %q already in use", in.IdempotencyKey)
		}
		return nil, nil, err
	}

	paid, err := s.AmountPaid(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	if order.Status == models.StatusPending && paid.GreaterThanOrEqual(order.Total) {
		if _, err := s.transitionLocked(ctx, &order, models.StatusConfirmed, "paid in full"); err != nil {
			s.log.Error("confirming paid order failed", "order", order.OrderNumber, "error", err)
		} else {
			s.hub.Broadcast(kitchen.RoomKitchen, kitchen.Event{
				Type: kitchen.EventPaymentAlert,
				Data: map[string]interface{}{
					"order_id":     order.ID,
					"order_number": order.OrderNumber,
					"amount_paid":  paid,
				},
			})
			s.notifier.Send(s.alertTo, fmt.Sprintf("Order %s paid in full ($%s)", order.OrderNumber, paid.StringFixed(2)))
		}
	}

	return &payment, receipt, nil
}

// RefundPayment creates a negative payment row against the original
// payment's order. When the original carries an external reference, the
// processor-side refund must succeed before anything is persisted locally —
// refund correctness beats latency.
func (s *Service) RefundPayment(ctx context.Context, paymentID uint, amount decimal.Decimal) (*models.Payment, error) {
	var original models.Payment
	if err := s.db.WithContext(ctx).First(&original, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("payment")
		}
		return nil, err
	}

	unlock := s.locks.acquire(original.OrderID)
	defer unlock()

	if !amount.IsPositive() {
		return nil, models.Invalid("refund amount must be positive")
	}
	if original.Amount.Sign() <= 0 {
		return nil, models.Invalid("cannot refund a refund")
	}
	if original.Status == models.PaymentFailed {
		return nil, models.Invalid("cannot refund a failed payment")
	}

	refunded, err := s.refundedAgainst(ctx, original.ID)
	if err != nil {
		return nil, err
	}
	remaining := original.Amount.Sub(refunded)
	if amount.GreaterThan(remaining) {
		return nil, models.Conflict("refund of $%s exceeds unrefunded balance of $%s", amount.StringFixed(2), remaining.StringFixed(2))
	}

	refund := models.Payment{
		OrderID:  original.OrderID,
		Amount:   amount.Neg(),
		Method:   original.Method,
		Status:   models.PaymentRefunded,
		RefundOf: &original.ID,
	}

	if original.ExternalRef != "" {
		res, err := s.proc.Refund(ctx, original.ExternalRef, amount)
		if err != nil {
			return nil, err
		}
		refund.ExternalRef = res.Reference
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&refund).Error; err != nil {
			return err
		}
		if refunded.Add(amount).Equal(original.Amount) {
			return tx.Model(&original).Update("status", models.PaymentRefunded).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &refund, nil
}

// AmountPaid sums all non-failed payment rows (refunds count negatively).
func (s *Service) AmountPaid(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("order_id = ? AND status <> ?", orderID, models.PaymentFailed).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error
	return paid, err
}

// refundedAgainst sums refunds already issued against one payment, as a
// positive number.
func (s *Service) refundedAgainst(ctx context.Context, paymentID uint) (decimal.Decimal, error) {
	var refunded decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("refund_of = ?", paymentID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&refunded).Error
	return refunded.Neg(), err
}

// transitionLocked performs a status change while the caller already holds
// the order lock.
func (s *Service) transitionLocked(ctx context.Context, order *models.Order, newStatus models.OrderStatus, note string) (*models.Order, error) {
	prev := order.Status
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("status", newStatus).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   newStatus,
			Note:       note,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	order.Status = newStatus

	s.hub.Broadcast(kitchen.RoomKitchen, kitchen.Event{
		Type: kitchen.EventStatusUpdate,
		Data: map[string]interface{}{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"status":       newStatus,
		},
	})

	if order.ExternalRef != "" {
		if err := s.proc.MirrorOrderStatus(ctx, order.ExternalRef, string(newStatus)); err != nil {
			s.log.Warn("status mirror failed", "order", order.OrderNumber, "error", err)
		}
	}
	return order, nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
