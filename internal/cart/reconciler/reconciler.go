package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/prawira/storefront/internal/cart/store"
	"github.com/prawira/storefront/internal/log"
	inOtel "github.com/prawira/storefront/internal/otel"
	"github.com/prawira/storefront/internal/repository"
)

// Reconciler bridges the session cart and the durable per-user cart. The
// session cart is authoritative while active, the durable cart only exists so
// a shopper survives session loss. Writes replace the durable cart wholesale,
// last write wins, concurrent sessions of the same user are never merged.
type Reconciler struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
}

func New(pool *pgxpool.Pool, queries *repository.Queries) Reconciler {
	return Reconciler{pool: pool, queries: queries}
}

// Load returns the durable cart for the user, rebuilt with derived fields
// recomputed.
func (r Reconciler) Load(c context.Context, userID uuid.UUID) (store.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "Reconciler Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Reconciler Load").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger.Info().Msg("finding durable cart items")
	rows, err := r.queries.FindUserCartItems(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding durable cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}
	logger.Info().Msgf("found %d durable cart items", len(rows))

	items := make([]store.CartItem, len(rows))
	for i, row := range rows {
		items[i] = store.CartItem{
			ProductID:  row.ProductID,
			Name:       row.ProductName,
			UnitPrice:  decimal.NewFromBigInt(row.UnitPrice.Int, row.UnitPrice.Exp),
			Quantity:   row.Quantity,
			StockAtAdd: row.StockAtAdd,
		}
	}
	return store.FromItems(items), nil
}

// Replace overwrites the durable cart for the user with the given session
// cart, delete-then-reinsert inside one transaction. Calling it twice with
// the same cart yields the same durable state.
func (r Reconciler) Replace(c context.Context, userID uuid.UUID, cart store.Cart) error {
	c, span := inOtel.Tracer.Start(c, "Reconciler Replace")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Reconciler Replace").
		Str(log.KeyUserID, userID.String()).
		Int(log.KeyCartCount, len(cart.Items)).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := r.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized transaction")
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

	logger = logger.With().Str(log.KeyProcess, "deleting durable cart").Logger()
	logger.Info().Msg("deleting durable cart")
	deleted, err := r.queries.WithTx(tx).DeleteUserCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed deleting durable cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msgf("deleted %d durable cart items", deleted)

	if len(cart.Items) > 0 {
		logger = logger.With().Str(log.KeyProcess, "inserting durable cart items").Logger()
		logger.Info().Msg("inserting durable cart items")
		args := make([]repository.InsertUserCartItemsParams, len(cart.Items))
		for i, item := range cart.Items {
			args[i] = repository.InsertUserCartItemsParams{
				UserID:      userID,
				ProductID:   item.ProductID,
				ProductName: item.Name,
				UnitPrice: pgtype.Numeric{
					Exp:              item.UnitPrice.Exponent(),
					InfinityModifier: pgtype.Finite,
					Int:              item.UnitPrice.Coefficient(),
					NaN:              false,
					Valid:            true,
				},
				Quantity:   item.Quantity,
				StockAtAdd: item.StockAtAdd,
				Position:   int32(i),
			}
		}
		inserted, err := r.queries.WithTx(tx).InsertUserCartItems(c, args)
		if err != nil {
			err = fmt.Errorf("failed inserting durable cart items with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Msgf("inserted %d durable cart items", inserted)
	}

	logger = logger.With().Str(log.KeyProcess, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("committed transaction")

	return nil
}
