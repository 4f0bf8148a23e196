package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/prawira/storefront/internal/log"
	inOtel "github.com/prawira/storefront/internal/otel"
	"github.com/prawira/storefront/internal/repository"
)

const StatusActive = "active"

var ErrNotFound = errors.New("product not found")

// Snapshot is the catalog's view of a product at a point in time. Prices and
// stock read from it are only advisory, the order commit re-checks both.
type Snapshot struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Stock  int32           `json:"stock"`
	Status string          `json:"status"`
}

func (s Snapshot) Active() bool {
	return s.Status == StatusActive
}

type Provider interface {
	Snapshot(c context.Context, id uuid.UUID) (Snapshot, error)
}

type RepositoryProvider struct {
	queries *repository.Queries
}

func NewRepositoryProvider(queries *repository.Queries) RepositoryProvider {
	return RepositoryProvider{queries: queries}
}

func (p RepositoryProvider) Snapshot(c context.Context, id uuid.UUID) (Snapshot, error) {
	c, span := inOtel.Tracer.Start(c, "RepositoryProvider Snapshot")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RepositoryProvider Snapshot").
		Str(log.KeyProductID, id.String()).
		Logger()

	row, err := p.queries.FindProductById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Info().Msg("product not found")
			return Snapshot{}, ErrNotFound
		}
		err = fmt.Errorf("failed finding product by id=%s with error=%w", id.String(), err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Snapshot{}, err
	}

	return Snapshot{
		ID:     row.ID,
		Name:   row.Name,
		Price:  decimal.NewFromBigInt(row.Price.Int, row.Price.Exp),
		Stock:  row.Stock,
		Status: row.Status,
	}, nil
}
