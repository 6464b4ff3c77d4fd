package processor

import (
	"context"
	"errors"
	"log/slog"

	"resto-pos-api/models"

	"github.com/shopspring/decimal"
)

// retrying wraps a Processor and retries Charge/Refund exactly once on an
// Unavailable failure. A timed-out charge may have succeeded upstream, so the
// retry reuses the same idempotency key — the processor's own dedup turns a
// double submit into a replay. Rejections surface immediately.
type retrying struct {
	Processor
	log *slog.Logger
}

func WithRetry(p Processor, log *slog.Logger) Processor {
	return &retrying{Processor: p, log: log}
}

func (r *retrying) Charge(ctx context.Context, sourceToken string, amount decimal.Decimal, idempotencyKey string) (*ChargeResult, error) {
	res, err := r.Processor.Charge(ctx, sourceToken, amount, idempotencyKey)
	if !isUnavailable(err) {
		return res, err
	}
	r.log.Warn("charge unavailable, retrying once", "idempotency_key", idempotencyKey, "error", err)
	return r.Processor.Charge(ctx, sourceToken, amount, idempotencyKey)
}

func (r *retrying) Refund(ctx context.Context, paymentRef string, amount decimal.Decimal) (*RefundResult, error) {
	res, err := r.Processor.Refund(ctx, paymentRef, amount)
	if !isUnavailable(err) {
		return res, err
	}
	r.log.Warn("refund unavailable, retrying once", "payment_ref", paymentRef, "error", err)
	return r.Processor.Refund(ctx, paymentRef, amount)
}

func isUnavailable(err error) bool {
	var pe *models.PaymentError
	return errors.As(err, &pe) && pe.Kind == models.PaymentUnavailableKind
}
