package processor

import (
	"context"

	"github.com/shopspring/decimal"
)

// Processor is the external card-processor boundary. The order lifecycle
// service only ever talks to this interface, so the mock and a real SDK
// client are interchangeable.
//
// Charge must be idempotent end-to-end: the same idempotency key submitted
// twice yields the same ChargeResult without a second charge.
type Processor interface {
	Charge(ctx context.Context, sourceToken string, amount decimal.Decimal, idempotencyKey string) (*ChargeResult, error)
	Refund(ctx context.Context, paymentRef string, amount decimal.Decimal) (*RefundResult, error)

	// Order mirroring — best-effort, callers log and swallow failures.
	CreateOrderRef(ctx context.Context, orderNumber string, total decimal.Decimal) (string, error)
	MirrorOrderStatus(ctx context.Context, externalRef string, status string) error

	// Catalog/inventory pulls for the sync jobs.
	PullCatalog(ctx context.Context) ([]CatalogEntry, error)
	PullInventoryCounts(ctx context.Context) ([]InventoryCount, error)
}

type ChargeResult struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Receipt   string          `json:"receipt"`
}

type RefundResult struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
}

type CatalogEntry struct {
	ExternalID  string          `json:"external_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
}

type InventoryCount struct {
	ExternalID string  `json:"external_id"`
	Quantity   float64 `json:"quantity"`
}
