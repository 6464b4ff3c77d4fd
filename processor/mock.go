package processor

import (
	"context"
	"sync"

	"resto-pos-api/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Magic source tokens the mock recognizes, for local testing without a
// processor account.
const (
	TokenDeclined  = "tok_declined"  // always rejected
	TokenFlaky     = "tok_flaky"     // unavailable on first attempt, then succeeds
	TokenTimeout   = "tok_timeout"   // always unavailable
	TokenBadRefund = "ref_no_refund" // refund against this reference is rejected
)

// Mock simulates the card processor. It honors the idempotency contract
// itself: a key that already produced a result replays that exact result.
type Mock struct {
	mu      sync.Mutex
	charges map[string]*ChargeResult // idempotencyKey -> result
	flaky   map[string]int           // idempotencyKey -> attempts seen
}

func NewMock() *Mock {
	return &Mock{
		charges: make(map[string]*ChargeResult),
		flaky:   make(map[string]int),
	}
}

func (m *Mock) Charge(_ context.Context, sourceToken string, amount decimal.Decimal, idempotencyKey string) (*ChargeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prior, ok := m.charges[idempotencyKey]; ok {
		return prior, nil
	}

	switch sourceToken {
	case TokenDeclined:
		return nil, &models.PaymentError{Kind: models.PaymentRejectedKind, Message: "card declined: insufficient funds"}
	case TokenTimeout:
		return nil, &models.PaymentError{Kind: models.PaymentUnavailableKind, Message: "processor timeout"}
	case TokenFlaky:
		m.flaky[idempotencyKey]++
		if m.flaky[idempotencyKey] == 1 {
			return nil, &models.PaymentError{Kind: models.PaymentUnavailableKind, Message: "transient network failure"}
		}
	}

	res := &ChargeResult{
		Reference: "mock_ch_" + uuid.NewString(),
		Amount:    amount,
		Receipt:   "mock_rcpt_" + uuid.NewString(),
	}
	m.charges[idempotencyKey] = res
	return res, nil
}

func (m *Mock) Refund(_ context.Context, paymentRef string, amount decimal.Decimal) (*RefundResult, error) {
	if paymentRef == "" || paymentRef == TokenBadRefund {
		return nil, &models.PaymentError{Kind: models.PaymentRejectedKind, Message: "unknown payment reference"}
	}
	return &RefundResult{
		Reference: "mock_rf_" + uuid.NewString(),
		Amount:    amount,
	}, nil
}

func (m *Mock) CreateOrderRef(_ context.Context, orderNumber string, _ decimal.Decimal) (string, error) {
	return "mock_ord_" + orderNumber, nil
}

func (m *Mock) MirrorOrderStatus(_ context.Context, _ string, _ string) error {
	return nil
}

func (m *Mock) PullCatalog(_ context.Context) ([]CatalogEntry, error) {
	return []CatalogEntry{}, nil
}

func (m *Mock) PullInventoryCounts(_ context.Context) ([]InventoryCount, error) {
	return []InventoryCount{}, nil
}

var _ Processor = (*Mock)(nil)
