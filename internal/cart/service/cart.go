package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prawira/storefront/internal/cart/store"
	inErrors "github.com/prawira/storefront/internal/errors"
	"github.com/prawira/storefront/internal/log"
	inOtel "github.com/prawira/storefront/internal/otel"
	"github.com/prawira/storefront/internal/product"
	"github.com/prawira/storefront/internal/session"
)

const (
	cartKey       = "cart"
	cartLoadedKey = "cart_loaded"
)

// CartReconciler persists the session cart into the durable per-user store
// and loads it back once per session.
type CartReconciler interface {
	Load(c context.Context, userID uuid.UUID) (store.Cart, error)
	Replace(c context.Context, userID uuid.UUID, cart store.Cart) error
}

type CartService struct {
	sessions   session.Store
	products   product.Provider
	reconciler CartReconciler
}

func NewCartService(
	sessions session.Store,
	products product.Provider,
	reconciler CartReconciler,
) CartService {
	return CartService{sessions: sessions, products: products, reconciler: reconciler}
}

// Get returns the current session cart, loading the durable cart first when
// this session has never been reconciled and the session cart is empty.
func (s CartService) Get(c context.Context, sess session.Session) (store.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService Get")
	defer span.End()

	cart, err := s.resolve(c, sess)
	if err != nil {
		return store.Cart{}, err
	}
	return cart.Snapshot(), nil
}

func (s CartService) Add(
	c context.Context,
	sess session.Session,
	productID uuid.UUID,
	quantity int32,
) (store.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService Add")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Add").
		Str(log.KeySessionID, sess.ID).
		Str(log.KeyProductID, productID.String()).
		Int32(log.KeyQuantity, quantity).
		Logger()

	cart, err := s.resolve(c, sess)
	if err != nil {
		return store.Cart{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "fetching product snapshot").Logger()
	logger.Info().Msg("fetching product snapshot")
	snap, err := s.products.Snapshot(c, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			logger.Info().Msg("product not found")
			return store.Cart{}, inErrors.ErrProductUnavailable
		}
		err = fmt.Errorf("failed fetching product snapshot with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}
	if !snap.Active() {
		logger.Info().Msg("product is inactive")
		return store.Cart{}, inErrors.ErrProductUnavailable
	}
	logger.Info().Msg("fetched product snapshot")

	logger = logger.With().Str(log.KeyProcess, "adding item to cart").Logger()
	logger.Info().Msg("adding item to cart")
	err = cart.Add(snap, quantity)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}
	logger.Info().Msg("added item to cart")

	err = s.persist(c, sess, cart)
	if err != nil {
		return store.Cart{}, err
	}
	return cart.Snapshot(), nil
}

func (s CartService) Update(
	c context.Context,
	sess session.Session,
	productID uuid.UUID,
	quantity int32,
) (store.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Update").
		Str(log.KeySessionID, sess.ID).
		Str(log.KeyProductID, productID.String()).
		Int32(log.KeyQuantity, quantity).
		Logger()

	cart, err := s.resolve(c, sess)
	if err != nil {
		return store.Cart{}, err
	}

	if quantity <= 0 {
		logger.Info().Msg("quantity is zero or below, removing item")
		cart.Remove(productID)
		err = s.persist(c, sess, cart)
		if err != nil {
			return store.Cart{}, err
		}
		return cart.Snapshot(), nil
	}

	if _, ok := cart.Item(productID); !ok {
		logger.Info().Msg("item is not in the cart")
		return store.Cart{}, inErrors.ErrCartItemNotFound
	}

	logger = logger.With().Str(log.KeyProcess, "fetching live stock").Logger()
	logger.Info().Msg("fetching live stock")
	snap, err := s.products.Snapshot(c, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			logger.Info().Msg("product not found")
			return store.Cart{}, inErrors.ErrProductUnavailable
		}
		err = fmt.Errorf("failed fetching live stock with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}
	if !snap.Active() {
		logger.Info().Msg("product is inactive")
		return store.Cart{}, inErrors.ErrProductUnavailable
	}
	logger.Info().Msg("fetched live stock")

	logger = logger.With().Str(log.KeyProcess, "updating item quantity").Logger()
	logger.Info().Msg("updating item quantity")
	err = cart.SetQuantity(productID, quantity, snap.Stock)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}
	logger.Info().Msg("updated item quantity")

	err = s.persist(c, sess, cart)
	if err != nil {
		return store.Cart{}, err
	}
	return cart.Snapshot(), nil
}

func (s CartService) Remove(
	c context.Context,
	sess session.Session,
	productID uuid.UUID,
) (store.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService Remove")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Remove").
		Str(log.KeySessionID, sess.ID).
		Str(log.KeyProductID, productID.String()).
		Logger()

	cart, err := s.resolve(c, sess)
	if err != nil {
		return store.Cart{}, err
	}

	logger.Info().Msg("removing item from cart")
	cart.Remove(productID)
	logger.Info().Msg("removed item from cart")

	err = s.persist(c, sess, cart)
	if err != nil {
		return store.Cart{}, err
	}
	return cart.Snapshot(), nil
}

func (s CartService) Clear(c context.Context, sess session.Session) (store.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService Clear").
		Str(log.KeySessionID, sess.ID).
		Logger()

	cart, err := s.resolve(c, sess)
	if err != nil {
		return store.Cart{}, err
	}

	logger.Info().Msg("clearing cart")
	cart.Clear()
	logger.Info().Msg("cleared cart")

	err = s.persist(c, sess, cart)
	if err != nil {
		return store.Cart{}, err
	}
	return cart.Snapshot(), nil
}

// resolve loads the session cart and runs the once-per-session durable load.
// The loaded flag is stored explicitly because an empty cart and a never
// loaded cart are different states.
func (s CartService) resolve(c context.Context, sess session.Session) (store.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService resolve")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService resolve").
		Str(log.KeySessionID, sess.ID).
		Logger()

	cart := store.New()
	raw, ok, err := s.sessions.Get(c, sess.ID, cartKey)
	if err != nil {
		err = fmt.Errorf("failed getting session cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}
	if ok {
		err = json.Unmarshal(raw, &cart)
		if err != nil {
			err = fmt.Errorf("failed unmarshaling session cart with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return store.Cart{}, err
		}
		cart = store.FromItems(cart.Items)
	}

	if !sess.Authenticated() {
		return cart, nil
	}

	_, loaded, err := s.sessions.Get(c, sess.ID, cartLoadedKey)
	if err != nil {
		err = fmt.Errorf("failed getting session cart loaded flag with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}
	if loaded {
		return cart, nil
	}

	// The durable cart is loaded at most once per session, and only into an
	// empty session cart. A populated session cart stays authoritative and
	// overwrites the durable one on the next persist.
	if cart.IsEmpty() {
		logger = logger.With().Str(log.KeyProcess, "loading durable cart").Logger()
		logger.Info().Msg("loading durable cart into session")
		cart, err = s.reconciler.Load(c, *sess.UserID)
		if err != nil {
			err = fmt.Errorf("failed loading durable cart with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return store.Cart{}, err
		}
		err = s.saveSession(c, sess, cart)
		if err != nil {
			return store.Cart{}, err
		}
		logger.Info().Msg("loaded durable cart into session")
	}

	err = s.sessions.Set(c, sess.ID, cartLoadedKey, []byte("1"))
	if err != nil {
		err = fmt.Errorf("failed setting session cart loaded flag with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return store.Cart{}, err
	}

	return cart, nil
}

// persist writes the session cart and, for authenticated shoppers, replaces
// the durable cart wholesale. Runs after every mutating action.
func (s CartService) persist(c context.Context, sess session.Session, cart store.Cart) error {
	c, span := inOtel.Tracer.Start(c, "CartService persist")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService persist").
		Str(log.KeySessionID, sess.ID).
		Logger()

	err := s.saveSession(c, sess, cart)
	if err != nil {
		return err
	}

	if !sess.Authenticated() {
		return nil
	}

	logger = logger.With().Str(log.KeyProcess, "replacing durable cart").Logger()
	logger.Info().Msg("replacing durable cart")
	err = s.reconciler.Replace(c, *sess.UserID, cart)
	if err != nil {
		err = fmt.Errorf("failed replacing durable cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("replaced durable cart")

	return nil
}

func (s CartService) saveSession(c context.Context, sess session.Session, cart store.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed marshaling session cart with error=%w", err)
	}
	err = s.sessions.Set(c, sess.ID, cartKey, raw)
	if err != nil {
		return fmt.Errorf("failed setting session cart with error=%w", err)
	}
	return nil
}
