package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/prawira/storefront/internal/cart/store"
	inErrors "github.com/prawira/storefront/internal/errors"
	"github.com/prawira/storefront/internal/log"
	"github.com/prawira/storefront/internal/notification"
	"github.com/prawira/storefront/internal/order/ordernumber"
	"github.com/prawira/storefront/internal/order/pricing"
	"github.com/prawira/storefront/internal/order/request"
	"github.com/prawira/storefront/internal/order/response"
	inOtel "github.com/prawira/storefront/internal/otel"
	"github.com/prawira/storefront/internal/product"
	"github.com/prawira/storefront/internal/repository"
	"github.com/prawira/storefront/internal/session"
)

const (
	pgUniqueViolation = "23505"

	// collisions on the random order number suffix are vanishingly rare, a
	// handful of retries is plenty
	maxOrderNumberAttempts = 3
)

// CartAccessor is the slice of the cart service checkout needs: read the
// working cart, and clear it after a successful commit.
type CartAccessor interface {
	Get(c context.Context, sess session.Session) (store.Cart, error)
	Clear(c context.Context, sess session.Session) (store.Cart, error)
}

type OrderService struct {
	pool     *pgxpool.Pool
	queries  *repository.Queries
	products product.Provider
	carts    CartAccessor
	sink     notification.Sink
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	products product.Provider,
	carts CartAccessor,
	sink notification.Sink,
) OrderService {
	return OrderService{
		pool:     pool,
		queries:  queries,
		products: products,
		carts:    carts,
		sink:     sink,
	}
}

// validatedLine is one cart line after re-validation, priced at the live
// catalog price.
type validatedLine struct {
	productID uuid.UUID
	name      string
	unitPrice decimal.Decimal
	quantity  int32
}

// Checkout runs a full checkout attempt: re-validate every cart line against
// the live catalog, price the order, commit it atomically, then clear the
// cart and send the confirmation.
func (s OrderService) Checkout(
	c context.Context,
	sess session.Session,
	reqBody request.Checkout,
) (response.Order, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Checkout").
		Str(log.KeySessionID, sess.ID).
		Str(log.KeyUserID, sess.UserID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting cart").Logger()
	logger.Info().Msg("getting cart")
	cart, err := s.carts.Get(c, sess)
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if cart.IsEmpty() {
		logger.Info().Msg("cart is empty")
		return response.Order{}, inErrors.ErrEmptyCart
	}
	logger.Info().Msgf("got cart with %d items", len(cart.Items))

	logger = logger.With().Str(log.KeyProcess, "validating cart lines").Logger()
	logger.Info().Msg("validating cart lines")
	lines, err := s.validateLines(c, cart)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("validated cart lines")

	quote := s.priceLines(lines, reqBody.ShippingMethod)
	logger = logger.With().
		Str(log.KeyShippingMethod, quote.ShippingMethod).
		Str(log.KeyCartTotal, quote.Total.String()).
		Logger()
	logger.Info().Msgf("priced order total=%s", quote.Total.String())

	logger = logger.With().Str(log.KeyProcess, "committing order").Logger()
	logger.Info().Msg("committing order")
	order, items, err := s.commit(c, *sess.UserID, reqBody, lines, quote)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderNumber, order.OrderNumber).Logger()
	logger.Info().Msgf("committed order orderNumber=%s", order.OrderNumber)

	s.finalize(c, sess, order, reqBody.ShippingEmail)

	return order.Response(items), nil
}

// validateLines re-fetches every product. Add-time checks are advisory only,
// time has passed and other orders may have consumed inventory.
func (s OrderService) validateLines(c context.Context, cart store.Cart) ([]validatedLine, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService validateLines")
	defer span.End()

	lines := make([]validatedLine, len(cart.Items))
	for i, item := range cart.Items {
		snap, err := s.products.Snapshot(c, item.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, inErrors.ErrProductUnavailable
			}
			return nil, fmt.Errorf(
				"failed fetching product snapshot productId=%s with error=%w",
				item.ProductID.String(),
				err,
			)
		}
		if !snap.Active() {
			return nil, inErrors.ErrProductUnavailable
		}
		if snap.Stock < item.Quantity {
			return nil, inErrors.InsufficientStock{
				ProductID: item.ProductID.String(),
				Available: snap.Stock,
				Requested: item.Quantity,
			}
		}
		lines[i] = validatedLine{
			productID: snap.ID,
			name:      snap.Name,
			unitPrice: snap.Price,
			quantity:  item.Quantity,
		}
	}
	return lines, nil
}

func (s OrderService) priceLines(lines []validatedLine, shippingMethod string) pricing.Quote {
	priced := make([]pricing.Line, len(lines))
	for i, line := range lines {
		priced[i] = pricing.Line{UnitPrice: line.unitPrice, Quantity: line.quantity}
	}
	return pricing.NewQuote(priced, shippingMethod)
}

// commit inserts the order, its items and decrements stock inside one
// transaction. An order number collision aborts the transaction, so the whole
// attempt is retried with a fresh number.
func (s OrderService) commit(
	c context.Context,
	userID uuid.UUID,
	reqBody request.Checkout,
	lines []validatedLine,
	quote pricing.Quote,
) (repository.Order, []repository.OrderItem, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService commit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService commit").
		Str(log.KeyUserID, userID.String()).
		Logger()

	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		orderNumber, err := ordernumber.Generate(time.Now(), userID)
		if err != nil {
			return repository.Order{}, nil, err
		}

		order, items, err := s.commitOnce(c, userID, orderNumber, reqBody, lines, quote)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				logger.Info().
					Msgf("order number collision orderNumber=%s attempt=%d, retrying", orderNumber, attempt)
				continue
			}
			return repository.Order{}, nil, err
		}
		return order, items, nil
	}
	return repository.Order{}, nil, inErrors.ErrOrderNumberExhausted
}

func (s OrderService) commitOnce(
	c context.Context,
	userID uuid.UUID,
	orderNumber string,
	reqBody request.Checkout,
	lines []validatedLine,
	quote pricing.Quote,
) (repository.Order, []repository.OrderItem, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService commitOnce")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService commitOnce").
		Str(log.KeyOrderNumber, orderNumber).
		Logger()

	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf(
			"failed initializing transaction with error=%w",
			err,
		)
	}
	defer func() {
		err := tx.Rollback(c)
		if err != nil {
			if errors.Is(err, pgx.ErrTxClosed) {
				return
			}
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	queries := s.queries.WithTx(tx)

	rounded := quote.Rounded()
	order, err := queries.InsertOrder(c, repository.InsertOrderParams{
		ID:                 uuid.New(),
		OrderNumber:        orderNumber,
		UserID:             userID,
		Status:             repository.OrderStatusPending,
		PaymentStatus:      repository.PaymentStatusPending,
		Subtotal:           numericFromDecimal(rounded.Subtotal),
		TaxAmount:          numericFromDecimal(rounded.TaxAmount),
		ShippingCost:       numericFromDecimal(rounded.ShippingFee),
		TotalAmount:        numericFromDecimal(rounded.Total),
		ShippingName:       reqBody.ShippingName,
		ShippingEmail:      reqBody.ShippingEmail,
		ShippingAddress:    reqBody.ShippingAddress,
		ShippingCity:       reqBody.ShippingCity,
		ShippingPostalCode: reqBody.ShippingPostalCode,
		ShippingCountry:    reqBody.ShippingCountry,
		BillingAddress:     reqBody.BillingAddress,
		BillingCity:        reqBody.BillingCity,
		BillingPostalCode:  reqBody.BillingPostalCode,
		BillingCountry:     reqBody.BillingCountry,
		PaymentMethod:      reqBody.PaymentMethod,
		ShippingMethod:     quote.ShippingMethod,
		Notes:              reqBody.Notes,
	})
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed inserting order with error=%w", err)
	}

	args := make([]repository.InsertOrderItemsParams, len(lines))
	items := make([]repository.OrderItem, len(lines))
	for i, line := range lines {
		lineTotal := line.unitPrice.Mul(decimal.NewFromInt32(line.quantity)).Round(2)
		args[i] = repository.InsertOrderItemsParams{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.productID,
			ProductName: line.name,
			UnitPrice:   numericFromDecimal(line.unitPrice),
			Quantity:    line.quantity,
			LineTotal:   numericFromDecimal(lineTotal),
		}
		items[i] = repository.OrderItem{
			ID:          args[i].ID,
			OrderID:     order.ID,
			ProductID:   line.productID,
			ProductName: line.name,
			UnitPrice:   args[i].UnitPrice,
			Quantity:    line.quantity,
			LineTotal:   args[i].LineTotal,
		}
	}
	_, err = queries.InsertOrderItems(c, args)
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed inserting order items with error=%w", err)
	}

	// the conditional decrement is the actual stock safety mechanism, zero
	// affected rows means another order won the race
	for _, line := range lines {
		affected, err := queries.DecrementProductStock(c, repository.DecrementProductStockParams{
			ID:    line.productID,
			Stock: line.quantity,
		})
		if err != nil {
			return repository.Order{}, nil, fmt.Errorf(
				"failed decrementing stock productId=%s with error=%w",
				line.productID.String(),
				err,
			)
		}
		if affected == 0 {
			return repository.Order{}, nil, inErrors.InsufficientStock{
				ProductID: line.productID.String(),
				Requested: line.quantity,
			}
		}
	}

	err = tx.Commit(c)
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return order, items, nil
}

// finalize clears the session and durable carts and sends the confirmation.
// The order is already committed, nothing here may fail the checkout.
func (s OrderService) finalize(
	c context.Context,
	sess session.Session,
	order repository.Order,
	recipient string,
) {
	c, span := inOtel.Tracer.Start(c, "OrderService finalize")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService finalize").
		Str(log.KeySessionID, sess.ID).
		Str(log.KeyOrderNumber, order.OrderNumber).
		Logger()

	logger.Info().Msg("clearing carts")
	_, err := s.carts.Clear(c, sess)
	if err != nil {
		err = fmt.Errorf("failed clearing carts after commit with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("cleared carts")
	}

	logger.Info().Msg("sending order confirmation")
	err = s.sink.Notify(c, notification.Confirmation{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: decimal.NewFromBigInt(order.TotalAmount.Int, order.TotalAmount.Exp),
		Recipient:   recipient,
	})
	if err != nil {
		err = fmt.Errorf("failed sending order confirmation with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("sent order confirmation")
}

// FindOrderByNumber returns the committed order with its items.
func (s OrderService) FindOrderByNumber(
	c context.Context,
	orderNumber string,
) (response.Order, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService FindOrderByNumber")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderByNumber").
		Str(log.KeyOrderNumber, orderNumber).
		Logger()

	logger.Info().Msg("finding order")
	order, err := s.queries.FindOrderByNumber(c, orderNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return response.Order{}, inErrors.ErrOrderNotFound
		}
		err = fmt.Errorf("failed finding orderNumber=%s with error=%w", orderNumber, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	items, err := s.queries.FindOrderItemsByOrderId(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	return order.Response(items), nil
}

// FindOrdersByUserId returns the user's order history, newest first, without
// line items.
func (s OrderService) FindOrdersByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]response.Order, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService FindOrdersByUserId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrdersByUserId").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger.Info().Msg("finding orders")
	orders, err := s.queries.FindOrdersByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("found %d orders", len(orders))

	responses := make([]response.Order, len(orders))
	for i, order := range orders {
		responses[i] = order.Response(nil)
	}
	return responses, nil
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}
