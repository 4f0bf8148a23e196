package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartController "github.com/prawira/storefront/internal/cart/controller"
	"github.com/prawira/storefront/internal/cart/reconciler"
	cartService "github.com/prawira/storefront/internal/cart/service"
	"github.com/prawira/storefront/internal/config"
	"github.com/prawira/storefront/internal/constants"
	"github.com/prawira/storefront/internal/infra"
	"github.com/prawira/storefront/internal/log"
	"github.com/prawira/storefront/internal/middleware"
	"github.com/prawira/storefront/internal/notification"
	orderController "github.com/prawira/storefront/internal/order/controller"
	orderService "github.com/prawira/storefront/internal/order/service"
	inOtel "github.com/prawira/storefront/internal/otel"
	"github.com/prawira/storefront/internal/product"
	"github.com/prawira/storefront/internal/repository"
	"github.com/prawira/storefront/internal/session"
)

const sessionTTL = 24 * time.Hour

func RunServer(c context.Context) {
	c, span := inOtel.Tracer.Start(c, "RunServer")
	defer span.End()

	cfg := config.Get(c, constants.AppStorefront)

	logger := log.Get(filepath.Join("/var/log/", constants.AppStorefront+".log"), cfg.Application).
		With().
		Str(log.KeyAppName, constants.AppStorefront).
		Str(log.KeyTag, "main RunServer").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppStorefront, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		err = inOtel.ShutdownOtel(c, shutdownFuncs)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	pool := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "closing database").Logger()
		logger.Info().Msg("closing database")
		pool.Close()
		logger.Info().Msg("closed database")
	}()
	queries := repository.New(pool)
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "closing cache").Logger()
		logger.Info().Msg("closing cache")
		err = cache.Close()
		if err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("closed cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	sessions := session.NewRedisStore(cache, sessionTTL)
	products := product.NewRepositoryProvider(queries)
	carts := cartService.NewCartService(
		sessions,
		products,
		reconciler.New(pool, queries),
	)

	channel := cfg.Checkout.ConfirmationChannel
	if channel == "" {
		channel = constants.ChannelOrderConfirmation
	}
	sinks := notification.Multi{
		notification.NewRedisSink(cache, channel),
	}
	if cfg.Checkout.ConfirmationWebhook != "" {
		sinks = append(sinks, notification.NewWebhookSink(cfg.Checkout.ConfirmationWebhook))
	}
	orders := orderService.NewOrderService(pool, queries, products, carts, sinks)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.AppStorefront))
	router.Use(middleware.Logging)
	router.Use(middleware.RecoverPanic)
	router.Use(middleware.Session(cfg.Application))
	router.Handle("/metrics", promhttp.Handler())
	cartController.AttachCartController(router, carts)
	orderController.AttachOrderController(router, orders)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext: func(net.Listener) context.Context {
			lg := logger.With().
				Reset().
				Timestamp().
				Caller().
				Stack().
				Str(log.KeyAppName, constants.AppStorefront).
				Logger()
			c = lg.WithContext(c)
			return c
		},
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down server").Logger()
		logger.Info().Msg("shutting down server")
		err = server.Shutdown(c)
		if err != nil {
			err = fmt.Errorf("failed shutting down server with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("shutdown server")
	}()
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("encounter error=%w while running server", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())

			c = logger.WithContext(c)
			if err := inOtel.ShutdownOtel(c, shutdownFuncs); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				inOtel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
}
