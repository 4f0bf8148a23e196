package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prawira/storefront/internal/cart/store"
	inErrors "github.com/prawira/storefront/internal/errors"
	"github.com/prawira/storefront/internal/product"
	"github.com/prawira/storefront/internal/session"
)

type fakeProvider struct {
	snapshots map[uuid.UUID]product.Snapshot
}

func (p fakeProvider) Snapshot(_ context.Context, id uuid.UUID) (product.Snapshot, error) {
	snap, ok := p.snapshots[id]
	if !ok {
		return product.Snapshot{}, product.ErrNotFound
	}
	return snap, nil
}

type fakeReconciler struct {
	durable  map[uuid.UUID]store.Cart
	loads    int
	replaces int
}

func newFakeReconciler() *fakeReconciler {
	return &fakeReconciler{durable: map[uuid.UUID]store.Cart{}}
}

func (r *fakeReconciler) Load(_ context.Context, userID uuid.UUID) (store.Cart, error) {
	r.loads++
	cart, ok := r.durable[userID]
	if !ok {
		return store.New(), nil
	}
	return store.FromItems(cart.Items), nil
}

func (r *fakeReconciler) Replace(_ context.Context, userID uuid.UUID, cart store.Cart) error {
	r.replaces++
	r.durable[userID] = cart.Snapshot()
	return nil
}

func activeSnapshot(price string, stock int32) product.Snapshot {
	return product.Snapshot{
		ID:     uuid.New(),
		Name:   "keyboard",
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Status: product.StatusActive,
	}
}

func guestSession() session.Session {
	return session.Session{ID: uuid.NewString()}
}

func userSession() session.Session {
	userID := uuid.New()
	return session.Session{ID: uuid.NewString(), UserID: &userID}
}

func newService(snaps ...product.Snapshot) (CartService, *fakeReconciler) {
	provider := fakeProvider{snapshots: map[uuid.UUID]product.Snapshot{}}
	for _, snap := range snaps {
		provider.snapshots[snap.ID] = snap
	}
	reconciler := newFakeReconciler()
	return NewCartService(session.NewMemoryStore(), provider, reconciler), reconciler
}

func TestAddToGuestCart(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, reconciler := newService(snap)
	sess := guestSession()

	cart, err := svc.Add(context.Background(), sess, snap.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), cart.Count)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("99.80")))

	// guests never touch the durable cart
	assert.Equal(t, 0, reconciler.loads)
	assert.Equal(t, 0, reconciler.replaces)
}

func TestAddSurvivesAcrossCalls(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, _ := newService(snap)
	sess := guestSession()

	_, err := svc.Add(context.Background(), sess, snap.ID, 2)
	require.NoError(t, err)
	cart, err := svc.Add(context.Background(), sess, snap.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int32(5), cart.Items[0].Quantity)
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Add(context.Background(), guestSession(), uuid.New(), 1)
	assert.ErrorIs(t, err, inErrors.ErrProductUnavailable)
}

func TestAddInactiveProduct(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	snap.Status = "inactive"
	svc, _ := newService(snap)

	_, err := svc.Add(context.Background(), guestSession(), snap.ID, 1)
	assert.ErrorIs(t, err, inErrors.ErrProductUnavailable)
}

func TestAddBeyondStock(t *testing.T) {
	snap := activeSnapshot("49.90", 3)
	svc, _ := newService(snap)
	sess := guestSession()

	_, err := svc.Add(context.Background(), sess, snap.ID, 4)
	assert.ErrorIs(t, err, inErrors.ErrInsufficientStock)

	cart, err := svc.Get(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestUpdateAbsentItem(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, _ := newService(snap)

	_, err := svc.Update(context.Background(), guestSession(), snap.ID, 2)
	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
}

func TestUpdateZeroQuantityRemoves(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, _ := newService(snap)
	sess := guestSession()

	_, err := svc.Add(context.Background(), sess, snap.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Update(context.Background(), sess, snap.ID, 0)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestRemoveAndClearPersist(t *testing.T) {
	first := activeSnapshot("49.90", 10)
	second := activeSnapshot("19.99", 10)
	svc, _ := newService(first, second)
	sess := guestSession()

	_, err := svc.Add(context.Background(), sess, first.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), sess, second.ID, 1)
	require.NoError(t, err)

	cart, err := svc.Remove(context.Background(), sess, first.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	cart, err = svc.Clear(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	cart, err = svc.Get(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestAuthenticatedMutationReplacesDurableCart(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, reconciler := newService(snap)
	sess := userSession()

	_, err := svc.Add(context.Background(), sess, snap.ID, 2)
	require.NoError(t, err)

	require.Equal(t, 1, reconciler.replaces)
	durable := reconciler.durable[*sess.UserID]
	require.Len(t, durable.Items, 1)
	assert.Equal(t, int32(2), durable.Items[0].Quantity)
}

func TestDurableCartLoadedIntoEmptySession(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, reconciler := newService(snap)
	sess := userSession()

	seeded := store.New()
	require.NoError(t, seeded.Add(snap, 3))
	reconciler.durable[*sess.UserID] = seeded

	cart, err := svc.Get(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int32(3), cart.Items[0].Quantity)
}

func TestDurableCartLoadedOncePerSession(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, reconciler := newService(snap)
	sess := userSession()

	seeded := store.New()
	require.NoError(t, seeded.Add(snap, 3))
	reconciler.durable[*sess.UserID] = seeded

	_, err := svc.Get(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, 1, reconciler.loads)

	// clearing empties the session cart, but the load must not fire again
	_, err = svc.Clear(context.Background(), sess)
	require.NoError(t, err)
	cart, err := svc.Get(context.Background(), sess)
	require.NoError(t, err)

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 1, reconciler.loads)
}

func TestPopulatedSessionCartStaysAuthoritative(t *testing.T) {
	sessionSnap := activeSnapshot("49.90", 10)
	durableSnap := activeSnapshot("19.99", 10)
	svc, reconciler := newService(sessionSnap, durableSnap)
	sess := userSession()

	seeded := store.New()
	require.NoError(t, seeded.Add(durableSnap, 5))
	reconciler.durable[*sess.UserID] = seeded

	// the shopper filled the cart as a guest, then logged in on the same
	// session: the populated session cart wins over the durable one
	guest := session.Session{ID: sess.ID}
	_, err := svc.Add(context.Background(), guest, sessionSnap.ID, 1)
	require.NoError(t, err)

	cart, err := svc.Get(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, sessionSnap.ID, cart.Items[0].ProductID)
	assert.Equal(t, 0, reconciler.loads)

	// the next mutation overwrites the durable cart with the session cart
	_, err = svc.Update(context.Background(), sess, sessionSnap.ID, 2)
	require.NoError(t, err)

	// the durable cart now mirrors the session cart
	durable := reconciler.durable[*sess.UserID]
	require.Len(t, durable.Items, 1)
	assert.Equal(t, sessionSnap.ID, durable.Items[0].ProductID)
}

func TestConcurrentSessionsLastWriteWins(t *testing.T) {
	snap := activeSnapshot("49.90", 10)
	svc, reconciler := newService(snap)

	userID := uuid.New()
	first := session.Session{ID: uuid.NewString(), UserID: &userID}
	second := session.Session{ID: uuid.NewString(), UserID: &userID}

	_, err := svc.Add(context.Background(), first, snap.ID, 2)
	require.NoError(t, err)

	// the second session starts empty, loads the durable cart (qty 2), then
	// overwrites the line; its persist wins
	_, err = svc.Update(context.Background(), second, snap.ID, 5)
	require.NoError(t, err)

	durable := reconciler.durable[userID]
	require.Len(t, durable.Items, 1)
	assert.Equal(t, int32(5), durable.Items[0].Quantity)
}
