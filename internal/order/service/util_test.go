package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/prawira/storefront/internal/cart/reconciler"
	cartService "github.com/prawira/storefront/internal/cart/service"
	"github.com/prawira/storefront/internal/notification"
	"github.com/prawira/storefront/internal/order/request"
	"github.com/prawira/storefront/internal/product"
	"github.com/prawira/storefront/internal/repository"
	"github.com/prawira/storefront/internal/session"
)

type testHarness struct {
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	pgContainer    *postgres.PostgresContainer
	redisContainer *testRedis.RedisContainer
	queries        *repository.Queries
	carts          cartService.CartService
	orders         OrderService
	sink           *recordingSink
}

// recordingSink captures confirmations so tests can assert on best-effort
// notification without a broker.
type recordingSink struct {
	mu            sync.Mutex
	confirmations []notification.Confirmation
}

func (s *recordingSink) Notify(_ context.Context, confirmation notification.Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmations = append(s.confirmations, confirmation)
	return nil
}

func (s *recordingSink) Confirmations() []notification.Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Confirmation, len(s.confirmations))
	copy(out, s.confirmations)
	return out
}

func setup(t *testing.T, c context.Context) *testHarness {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_PORT":     "5432",
			"POSTGRES_USER":     "postgres",
		}),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "..", "migrations", "20250814093012_create_table_products.up.sql"),
			filepath.Join("..", "..", "..", "migrations", "20250814101544_create_table_user_carts.up.sql"),
			filepath.Join("..", "..", "..", "migrations", "20250815120833_create_table_orders.up.sql"),
			filepath.Join("..", "..", "..", "migrations", "20250815121209_create_table_order_items.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	queries := repository.New(pool)
	products := product.NewRepositoryProvider(queries)
	carts := cartService.NewCartService(
		session.NewRedisStore(redisClient, time.Hour),
		products,
		reconciler.New(pool, queries),
	)
	sink := &recordingSink{}
	orders := NewOrderService(pool, queries, products, carts, sink)

	return &testHarness{
		pool:           pool,
		redisClient:    redisClient,
		pgContainer:    pgContainer,
		redisContainer: redisContainer,
		queries:        queries,
		carts:          carts,
		orders:         orders,
		sink:           sink,
	}
}

func teardown(t *testing.T, h *testHarness) {
	t.Helper()
	h.redisClient.Close()
	h.pool.Close()
	if err := testcontainers.TerminateContainer(h.pgContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
	if err := testcontainers.TerminateContainer(h.redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}

func seedProduct(
	t *testing.T,
	c context.Context,
	queries *repository.Queries,
	name string,
	price string,
	stock int32,
) repository.Product {
	t.Helper()
	parsed := decimal.RequireFromString(price)
	row, err := queries.InsertProduct(c, repository.InsertProductParams{
		ID:   uuid.New(),
		Name: name,
		Price: pgtype.Numeric{
			Exp:              parsed.Exponent(),
			InfinityModifier: pgtype.Finite,
			Int:              parsed.Coefficient(),
			NaN:              false,
			Valid:            true,
		},
		Stock:  stock,
		Status: product.StatusActive,
	})
	if err != nil {
		t.Fatalf("failed seeding product with error: %s", err)
	}
	return row
}

func newSession() session.Session {
	userID := uuid.New()
	return session.Session{ID: uuid.NewString(), UserID: &userID}
}

func newCheckout(shippingMethod string) request.Checkout {
	return request.Checkout{
		ShippingName:       "Ada Wong",
		ShippingEmail:      "ada@example.com",
		ShippingAddress:    "12 Harbor Street",
		ShippingCity:       "Jakarta",
		ShippingPostalCode: "10110",
		ShippingCountry:    "ID",
		BillingAddress:     "12 Harbor Street",
		BillingCity:        "Jakarta",
		BillingPostalCode:  "10110",
		BillingCountry:     "ID",
		PaymentMethod:      request.PaymentCashOnDelivery,
		ShippingMethod:     shippingMethod,
	}
}
