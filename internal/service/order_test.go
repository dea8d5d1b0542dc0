package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/storage"
)

// placeOrder checks out one unit of productID for userID.
func (f *fixture) placeOrder(t *testing.T, userID string, productID int) domain.Order {
	t.Helper()
	f.cart.Add(f.ctx, productID, 1, domain.VariantSelection{})
	o, err := f.checkout.Complete(f.ctx, userID, f.params())
	require.NoError(t, err)
	f.outbox.Drain()
	return o
}

func TestOrderService_ListForUser_InsertionOrder(t *testing.T) {
	f := newFixture(t)
	a1 := f.placeOrder(t, "alice", 7)
	f.placeOrder(t, "bob", 10)
	a2 := f.placeOrder(t, "alice", 12)

	orders, err := f.orderSvc.ListForUser(f.ctx, "alice")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, a1.ID, orders[0].ID)
	assert.Equal(t, a2.ID, orders[1].ID)

	none, err := f.orderSvc.ListForUser(f.ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOrderService_Get_ScopedToOwner(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)

	_, err := f.orderSvc.Get(f.ctx, o.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	got, err := f.orderSvc.Get(f.ctx, o.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, o.Total, got.Total)
}

func TestOrderService_Cancel(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)

	cancelled, err := f.orderSvc.Cancel(f.ctx, o.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	_, err = f.orderSvc.Cancel(f.ctx, o.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrNotCancellable, "second cancel fails")
	assert.Equal(t, domain.EPRECONDITION, domain.ErrorCode(err))

	stored, _ := f.orderSvc.Get(f.ctx, o.ID, "alice")
	assert.Equal(t, domain.OrderStatusCancelled, stored.Status)

	types := f.events.types()
	assert.Equal(t, domain.OrderCancelled, types[len(types)-1])
}

func TestOrderService_Cancel_Shipped(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)
	_, err := f.orderSvc.AdvanceStatus(f.ctx, o.ID)
	require.NoError(t, err)

	cancelled, err := f.orderSvc.Cancel(f.ctx, o.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestOrderService_Cancel_Delivered(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)
	for i := 0; i < 2; i++ {
		_, err := f.orderSvc.AdvanceStatus(f.ctx, o.ID)
		require.NoError(t, err)
	}

	_, err := f.orderSvc.Cancel(f.ctx, o.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrNotCancellable)

	stored, _ := f.orderSvc.Get(f.ctx, o.ID, "alice")
	assert.Equal(t, domain.OrderStatusDelivered, stored.Status)

	notes := f.outbox.Drain()
	require.NotEmpty(t, notes)
	assert.Equal(t, domain.NotifyError, notes[len(notes)-1].Kind)
}

func TestOrderService_Cancel_NotOwner(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)

	_, err := f.orderSvc.Cancel(f.ctx, o.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = f.orderSvc.Cancel(f.ctx, "DH0", "alice")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	stored, _ := f.orderSvc.Get(f.ctx, o.ID, "alice")
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
}

func TestOrderService_Delete_OtherUserIsNoop(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)
	before, _ := f.orders.List(f.ctx)

	require.NoError(t, f.orderSvc.Delete(f.ctx, o.ID, "bob"))

	after, _ := f.orders.List(f.ctx)
	assert.Equal(t, before, after)
	assert.Empty(t, f.outbox.Drain())
}

func TestOrderService_Delete(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)

	require.NoError(t, f.orderSvc.Delete(f.ctx, o.ID, "alice"))
	_, err := f.orderSvc.Get(f.ctx, o.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	raw, err := f.store.Get(f.ctx, storage.KeyOrders)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestOrderService_DeleteMany(t *testing.T) {
	f := newFixture(t)
	a1 := f.placeOrder(t, "alice", 7)
	b1 := f.placeOrder(t, "bob", 10)
	a2 := f.placeOrder(t, "alice", 12)
	a3 := f.placeOrder(t, "alice", 13)

	require.NoError(t, f.orderSvc.DeleteMany(f.ctx, []string{a1.ID, b1.ID, a3.ID, "DH404"}, "alice"))

	all, _ := f.orders.List(f.ctx)
	ids := make([]string, len(all))
	for i, o := range all {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{b1.ID, a2.ID}, ids)

	notes := f.outbox.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "2 orders have been deleted", notes[0].Message)
}

func TestOrderService_AdvanceStatus(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)

	shipped, err := f.orderSvc.AdvanceStatus(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, shipped.Status)

	delivered, err := f.orderSvc.AdvanceStatus(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)

	_, err = f.orderSvc.AdvanceStatus(f.ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrTerminalStatus)

	_, err = f.orderSvc.AdvanceStatus(f.ctx, "DH404")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_Track_GeocodesOnceAndPersists(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)
	require.Nil(t, o.DeliveryCoordinates)

	tr, err := f.orderSvc.Track(f.ctx, o.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, tr.Order.DeliveryCoordinates)
	require.NotNil(t, tr.DistanceKm)
	assert.InDelta(t, 6.7, *tr.DistanceKm, 1.0)
	assert.NotEmpty(t, tr.ETA)
	assert.Equal(t, 10.772726, tr.Warehouse.Lat)

	require.Len(t, tr.Timeline, 3)
	assert.True(t, tr.Timeline[0].Current)
	assert.True(t, tr.Timeline[0].Reached)
	assert.False(t, tr.Timeline[1].Reached)

	stored, _ := f.orderSvc.Get(f.ctx, o.ID, "alice")
	require.NotNil(t, stored.DeliveryCoordinates, "coordinates are saved back to the order")

	_, err = f.orderSvc.Track(f.ctx, o.ID, "alice")
	require.NoError(t, err)
	assert.Len(t, f.geocoder.Calls, 1)
}

func TestOrderService_Track_GeocodeFailure(t *testing.T) {
	f := newFixture(t)
	f.geocoder.GeocodeFunc = func(context.Context, string) (*domain.Coordinates, error) {
		return nil, errors.New("timeout")
	}
	o := f.placeOrder(t, "alice", 7)

	tr, err := f.orderSvc.Track(f.ctx, o.ID, "alice")
	require.NoError(t, err, "a failed lookup never fails tracking")
	assert.Nil(t, tr.DistanceKm)
	assert.Empty(t, tr.ETA)

	notes := f.outbox.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotifyWarning, notes[0].Kind)
}

func TestOrderService_Track_Cancelled(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "alice", 7)
	_, err := f.orderSvc.Cancel(f.ctx, o.ID, "alice")
	require.NoError(t, err)

	tr, err := f.orderSvc.Track(f.ctx, o.ID, "alice")
	require.NoError(t, err)
	require.Len(t, tr.Timeline, 4)
	assert.Equal(t, domain.OrderStatusCancelled, tr.Timeline[3].Status)
	assert.True(t, tr.Timeline[3].Current)
	assert.Empty(t, tr.ETA)

	_, err = f.orderSvc.Track(f.ctx, o.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderRepository_RestoresFromStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	repo := NewOrderRepository(ctx, store, discardLogger(), nil)
	require.NoError(t, repo.Append(ctx, domain.Order{ID: "DH1", UserID: "u", Status: domain.OrderStatusPending}))
	require.NoError(t, repo.Append(ctx, domain.Order{ID: "DH2", UserID: "u", Status: domain.OrderStatusPending}))

	reloaded := NewOrderRepository(ctx, store, discardLogger(), nil)
	orders, err := reloaded.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "DH1", orders[0].ID)
	assert.Equal(t, "DH2", orders[1].ID)
}

func TestOrderRepository_UpdateAbortLeavesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(ctx, storage.NewMemoryStore(), nil, nil)
	require.NoError(t, repo.Append(ctx, domain.Order{ID: "DH1", Status: domain.OrderStatusPending}))

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "DH1", func(o *domain.Order) error {
		o.Status = domain.OrderStatusShipped
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, _ := repo.List(ctx)
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
}
