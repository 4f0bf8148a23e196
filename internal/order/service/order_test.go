package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/prawira/storefront/internal/errors"
	"github.com/prawira/storefront/internal/order/pricing"
	"github.com/prawira/storefront/internal/repository"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(
		t,
		actual.Equal(decimal.RequireFromString(expected)),
		"expected=%s actual=%s",
		expected,
		actual,
	)
}

func TestCheckoutCommitsOrder(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	seeded := seedProduct(t, c, h.queries, "mechanical keyboard", "19.99", 10)
	sess := newSession()

	_, err := h.carts.Add(c, sess, seeded.ID, 2)
	require.NoError(t, err)

	order, err := h.orders.Checkout(c, sess, newCheckout(pricing.ShippingStandard))
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, string(repository.OrderStatusPending), order.Status)
	assert.Equal(t, string(repository.PaymentStatusPending), order.PaymentStatus)
	assertAmount(t, "39.98", order.Subtotal)
	assertAmount(t, "5.99", order.ShippingCost)
	assertAmount(t, "4.00", order.TaxAmount)
	assertAmount(t, "49.97", order.TotalAmount)

	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, seeded.ID, order.OrderItems[0].ProductID)
	assert.Equal(t, int32(2), order.OrderItems[0].Quantity)
	assertAmount(t, "39.98", order.OrderItems[0].LineTotal)

	// stock is decremented exactly once
	row, err := h.queries.FindProductById(c, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(8), row.Stock)

	// confirmation went out with the committed totals
	confirmations := h.sink.Confirmations()
	require.Len(t, confirmations, 1)
	assert.Equal(t, order.OrderNumber, confirmations[0].OrderNumber)
	assert.Equal(t, "ada@example.com", confirmations[0].Recipient)
	assertAmount(t, "49.97", confirmations[0].TotalAmount)
}

func TestCheckoutClearsCarts(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	seeded := seedProduct(t, c, h.queries, "mouse", "9.99", 10)
	sess := newSession()

	_, err := h.carts.Add(c, sess, seeded.ID, 1)
	require.NoError(t, err)

	_, err = h.orders.Checkout(c, sess, newCheckout(pricing.ShippingStandard))
	require.NoError(t, err)

	cart, err := h.carts.Get(c, sess)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int32(0), cart.Count)
	assert.True(t, cart.Total.IsZero())

	durable, err := h.queries.FindUserCartItems(c, *sess.UserID)
	require.NoError(t, err)
	assert.Empty(t, durable)
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	seeded := seedProduct(t, c, h.queries, "limited sneaker", "59.99", 5)

	first := newSession()
	second := newSession()
	_, err := h.carts.Add(c, first, seeded.ID, 3)
	require.NoError(t, err)
	_, err = h.carts.Add(c, second, seeded.ID, 3)
	require.NoError(t, err)

	var wg sync.WaitGroup
	checkout := newCheckout(pricing.ShippingStandard)
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := h.orders.Checkout(c, first, checkout)
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := h.orders.Checkout(c, second, checkout)
		errs <- err
	}()
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, inErrors.ErrInsufficientStock)
		rejected++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	// stock is never negative and never double-decremented
	row, err := h.queries.FindProductById(c, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), row.Stock)
}

func TestCheckoutRejectedWhenLiveStockDropped(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	seeded := seedProduct(t, c, h.queries, "headset", "39.99", 5)
	sess := newSession()

	_, err := h.carts.Add(c, sess, seeded.ID, 3)
	require.NoError(t, err)

	// another order consumed inventory after the add
	affected, err := h.queries.DecrementProductStock(c, repository.DecrementProductStockParams{
		ID:    seeded.ID,
		Stock: 4,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	_, err = h.orders.Checkout(c, sess, newCheckout(pricing.ShippingStandard))
	assert.ErrorIs(t, err, inErrors.ErrInsufficientStock)

	// rejection leaves no order behind
	orders, err := h.queries.FindOrdersByUserId(c, *sess.UserID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	row, err := h.queries.FindProductById(c, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), row.Stock)
}

func TestCheckoutWaivesShippingAboveThreshold(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	seeded := seedProduct(t, c, h.queries, "monitor", "129.99", 3)
	sess := newSession()

	_, err := h.carts.Add(c, sess, seeded.ID, 1)
	require.NoError(t, err)

	order, err := h.orders.Checkout(c, sess, newCheckout(pricing.ShippingExpress))
	require.NoError(t, err)

	assertAmount(t, "129.99", order.Subtotal)
	assert.True(t, order.ShippingCost.IsZero())
	assertAmount(t, "13.00", order.TaxAmount)
	assertAmount(t, "142.99", order.TotalAmount)
}

func TestCommittedTotalsSurviveCatalogPriceChange(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	seeded := seedProduct(t, c, h.queries, "desk lamp", "24.50", 10)
	sess := newSession()

	_, err := h.carts.Add(c, sess, seeded.ID, 2)
	require.NoError(t, err)

	committed, err := h.orders.Checkout(c, sess, newCheckout(pricing.ShippingStandard))
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("99.99")
	err = h.queries.UpdateProductPrice(c, repository.UpdateProductPriceParams{
		ID: seeded.ID,
		Price: pgtype.Numeric{
			Exp:              newPrice.Exponent(),
			InfinityModifier: pgtype.Finite,
			Int:              newPrice.Coefficient(),
			NaN:              false,
			Valid:            true,
		},
	})
	require.NoError(t, err)

	found, err := h.orders.FindOrderByNumber(c, committed.OrderNumber)
	require.NoError(t, err)

	assertAmount(t, "49.00", found.Subtotal)
	assert.True(t, found.TotalAmount.Equal(committed.TotalAmount))

	// the persisted total equals the sum derived from its own item rows
	derived := decimal.Zero
	for _, item := range found.OrderItems {
		derived = derived.Add(item.LineTotal)
		assertAmount(t, "24.50", item.UnitPrice)
	}
	expected := derived.Add(found.ShippingCost).Add(found.TaxAmount)
	assert.True(t, found.TotalAmount.Equal(expected))
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	sess := newSession()
	_, err := h.orders.Checkout(c, sess, newCheckout(pricing.ShippingStandard))
	assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
}

func TestFindOrderByNumberUnknown(t *testing.T) {
	c := testContext()
	h := setup(t, c)
	defer teardown(t, h)

	_, err := h.orders.FindOrderByNumber(c, "ORD-00000000000000-XXXX-ABCDEF")
	assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
}
