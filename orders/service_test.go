package orders

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"resto-pos-api/kitchen"
	"resto-pos-api/models"
	"resto-pos-api/notify"
	"resto-pos-api/processor"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recorderHub captures broadcasts for assertions.
type recorderHub struct {
	mu     sync.Mutex
	events []kitchen.Event
}

func (r *recorderHub) Broadcast(_ string, e kitchen.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorderHub) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.MenuItem{}, &models.InventoryItem{},
		&models.Order{}, &models.OrderLine{}, &models.Payment{},
		&models.OrderStatusHistory{},
	))
	return db
}

func newTestService(t *testing.T) (*Service, *recorderHub, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	hub := &recorderHub{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	proc := processor.WithRetry(processor.NewMock(), log)
	svc := NewService(db, proc, hub, notify.NopNotifier{}, dec("0.08"), "", log)
	return svc, hub, db
}

func seedMenu(t *testing.T, db *gorm.DB) (burger, salad models.MenuItem) {
	t.Helper()
	burger = models.MenuItem{
		Name: "House Burger", Price: dec("15.99"), Category: "mains", Available: true,
		Modifiers: []models.Modifier{{Name: "extra cheese", Price: dec("1.50")}},
	}
	salad = models.MenuItem{Name: "Seasonal Salad", Price: dec("12.99"), Category: "mains", Available: true}
	require.NoError(t, db.Create(&burger).Error)
	require.NoError(t, db.Create(&salad).Error)
	return burger, salad
}

func createTestOrder(t *testing.T, svc *Service, db *gorm.DB) *models.Order {
	t.Helper()
	burger, salad := seedMenu(t, db)
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Lines: []LineInput{
			{MenuItemID: burger.ID, Quantity: 2},
			{MenuItemID: salad.ID, Quantity: 1},
		},
		Channel: models.ChannelInPerson,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	svc, hub, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "POS-"))
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.Subtotal.Equal(dec("44.97")), "subtotal = %s", order.Subtotal)
	assert.True(t, order.Tax.Equal(dec("3.60")), "tax = %s", order.Tax)
	assert.True(t, order.Total.Equal(dec("48.57")), "total = %s", order.Total)
	assert.Len(t, order.Lines, 2)
	assert.NotEmpty(t, order.ExternalRef) // mirrored to the mock processor

	// order + lines persisted atomically
	var count int64
	db.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Count(&count)
	assert.EqualValues(t, 2, count)

	require.NotEmpty(t, hub.types())
	assert.Equal(t, kitchen.EventNewOrder, hub.types()[0])
}

func TestCreateOrderUnknownItem(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Lines: []LineInput{{MenuItemID: 999, Quantity: 1}},
	})
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)
}

func TestCreateOrderUnavailableItem(t *testing.T) {
	svc, _, db := newTestService(t)
	item := models.MenuItem{Name: "86'd Special", Price: dec("9.99"), Available: false}
	require.NoError(t, db.Create(&item).Error)

	// The unavailable flag must survive the insert as-is.
	var reloaded models.MenuItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	require.False(t, reloaded.Available)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Lines: []LineInput{{MenuItemID: item.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)
}

func TestCreateOrderWithModifiers(t *testing.T) {
	svc, _, db := newTestService(t)
	burger, _ := seedMenu(t, db)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Lines: []LineInput{{MenuItemID: burger.ID, Quantity: 1, Modifiers: []string{"extra cheese"}}},
	})
	require.NoError(t, err)
	// 15.99 + 1.50 = 17.49, tax 1.3992 → 1.40
	assert.True(t, order.Subtotal.Equal(dec("17.49")))
	assert.True(t, order.Total.Equal(dec("18.89")))

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		Lines: []LineInput{{MenuItemID: burger.ID, Quantity: 1, Modifiers: []string{"no such modifier"}}},
	})
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)
}

func TestTransitionStatus(t *testing.T) {
	svc, hub, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	updated, err := svc.TransitionStatus(context.Background(), order.ID, models.StatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Contains(t, hub.types(), kitchen.EventStatusUpdate)

	var history []models.OrderStatusHistory
	db.Where("order_id = ?", order.ID).Find(&history)
	assert.Len(t, history, 2) // placed + confirmed

	// skip-ahead rejected
	_, err = svc.TransitionStatus(context.Background(), order.ID, models.StatusReady, "")
	require.Error(t, err)
	assert.IsType(t, &models.ConflictError{}, err)

	// unknown order
	_, err = svc.TransitionStatus(context.Background(), 9999, models.StatusConfirmed, "")
	require.Error(t, err)
	assert.IsType(t, &models.NotFoundError{}, err)
}

func TestPaymentThreshold(t *testing.T) {
	svc, hub, db := newTestService(t)
	order := createTestOrder(t, svc, db) // total 48.57

	// One cent short: order must stay PENDING.
	_, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.56"), Method: models.MethodCash,
	})
	require.NoError(t, err)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.StatusPending, reloaded.Status)
	assert.NotContains(t, hub.types(), kitchen.EventPaymentAlert)

	// The final cent crosses the threshold.
	_, _, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("0.01"), Method: models.MethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.StatusConfirmed, reloaded.Status)
	assert.Contains(t, hub.types(), kitchen.EventPaymentAlert)
}

func TestCardPaymentRequiresIdempotencyKey(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	_, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCard, SourceToken: "tok_ok",
	})
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)
}

func TestCardDeclinedPersistsNothing(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	_, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCard,
		SourceToken: processor.TokenDeclined, IdempotencyKey: uuid.NewString(),
	})
	require.Error(t, err)
	var payErr *models.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, models.PaymentRejectedKind, payErr.Kind)

	var count int64
	db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Zero(t, count)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.StatusPending, reloaded.Status, "a failed charge must not confirm the order")
}

func TestIdempotentCharge(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)
	key := uuid.NewString()

	first, receipt1, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCard,
		SourceToken: "tok_ok", IdempotencyKey: key,
	})
	require.NoError(t, err)
	require.NotNil(t, receipt1)

	// Replay with the same key and amount: same payment, no new row.
	second, receipt2, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCard,
		SourceToken: "tok_ok", IdempotencyKey: key,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, receipt1.Reference, receipt2.Reference)
	require.NotEmpty(t, receipt1.Receipt)
	assert.Equal(t, receipt1.Receipt, receipt2.Receipt, "replay must return the original receipt")

	var count int64
	db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// Same key, different amount: conflict.
	_, _, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("10.00"), Method: models.MethodCard,
		SourceToken: "tok_ok", IdempotencyKey: key,
	})
	require.Error(t, err)
	assert.IsType(t, &models.ConflictError{}, err)
}

func TestIdempotencyKeyScopedPerOrder(t *testing.T) {
	svc, _, db := newTestService(t)
	first := createTestOrder(t, svc, db)
	second := createTestOrder(t, svc, db)
	key := uuid.NewString()

	_, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: first.ID, Amount: dec("48.57"), Method: models.MethodCard,
		SourceToken: "tok_ok", IdempotencyKey: key,
	})
	require.NoError(t, err)

	// The same key against a different order is a fresh payment, not a replay.
	_, _, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: second.ID, Amount: dec("48.57"), Method: models.MethodCard,
		SourceToken: "tok_ok", IdempotencyKey: key,
	})
	require.NoError(t, err)

	var count int64
	db.Model(&models.Payment{}).Where("order_id = ?", second.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFlakyChargeRetriedOnce(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	// First attempt is unavailable; the retry with the same key succeeds.
	payment, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCard,
		SourceToken: processor.TokenFlaky, IdempotencyKey: uuid.NewString(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.ExternalRef)
}

func TestUnavailableChargeSurfacesAfterRetry(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	_, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCard,
		SourceToken: processor.TokenTimeout, IdempotencyKey: uuid.NewString(),
	})
	require.Error(t, err)
	var payErr *models.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, models.PaymentUnavailableKind, payErr.Kind)
}

func TestRefundBound(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	payment, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCash,
	})
	require.NoError(t, err)

	// Partial refund is fine.
	refund, err := svc.RefundPayment(context.Background(), payment.ID, dec("20.00"))
	require.NoError(t, err)
	assert.True(t, refund.Amount.Equal(dec("-20.00")))

	// More than the unrefunded balance (28.57) is a conflict.
	_, err = svc.RefundPayment(context.Background(), payment.ID, dec("28.58"))
	require.Error(t, err)
	assert.IsType(t, &models.ConflictError{}, err)

	// Refunding exactly the rest marks the original refunded.
	_, err = svc.RefundPayment(context.Background(), payment.ID, dec("28.57"))
	require.NoError(t, err)

	var original models.Payment
	require.NoError(t, db.First(&original, payment.ID).Error)
	assert.Equal(t, models.PaymentRefunded, original.Status)

	paid, err := svc.AmountPaid(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsZero(), "amount paid = %s", paid)
}

func TestRefundExternalFailurePersistsNothing(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	payment := models.Payment{
		OrderID: order.ID, Amount: dec("48.57"),
		Method: models.MethodCard, Status: models.PaymentCompleted,
		ExternalRef: processor.TokenBadRefund,
	}
	require.NoError(t, db.Create(&payment).Error)

	_, err := svc.RefundPayment(context.Background(), payment.ID, dec("10.00"))
	require.Error(t, err)

	var count int64
	db.Model(&models.Payment{}).Where("refund_of = ?", payment.ID).Count(&count)
	assert.Zero(t, count, "a failed external refund must not create a local record")
}

func TestPaymentOnCancelledOrderRejected(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	_, err := svc.TransitionStatus(context.Background(), order.ID, models.StatusCancelled, "customer left")
	require.NoError(t, err)

	_, _, err = svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCash,
	})
	require.Error(t, err)
	assert.IsType(t, &models.ConflictError{}, err)
}

func TestRefundOfRefundRejected(t *testing.T) {
	svc, _, db := newTestService(t)
	order := createTestOrder(t, svc, db)

	payment, _, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID: order.ID, Amount: dec("48.57"), Method: models.MethodCash,
	})
	require.NoError(t, err)

	refund, err := svc.RefundPayment(context.Background(), payment.ID, dec("10.00"))
	require.NoError(t, err)

	_, err = svc.RefundPayment(context.Background(), refund.ID, dec("5.00"))
	require.Error(t, err)
	assert.IsType(t, &models.ValidationError{}, err)

	_, err = svc.RefundPayment(context.Background(), 9999, dec("5.00"))
	require.Error(t, err)
	assert.IsType(t, &models.NotFoundError{}, err)
}
