package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
	"service-delivery/internal/memstore"
	"service-delivery/internal/service/agent"
	"service-delivery/internal/service/dispatch"
	"service-delivery/internal/service/task"
)

func newCtrl(t *testing.T) *gomock.Controller {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return ctrl
}

func ptr(v float64) *float64 { return &v }

func nycOrder(id string) *domain.Order {
	return &domain.Order{
		ID:                  id,
		RestaurantLatitude:  ptr(40.7128),
		RestaurantLongitude: ptr(-74.0060),
		DeliveryLatitude:    ptr(40.7589),
		DeliveryLongitude:   ptr(-73.9851),
	}
}

type fixture struct {
	store    *memstore.Store
	agents   *agent.Service
	orders   *MockOrdersGateway
	notifier *MockNotifier
	observer *MockDispatchObserver
	svc      *task.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := newCtrl(t)
	store := memstore.New()
	f := &fixture{
		store:    store,
		agents:   agent.NewService(store, time.Second, logx.Nop()),
		orders:   NewMockOrdersGateway(ctrl),
		notifier: NewMockNotifier(ctrl),
		observer: NewMockDispatchObserver(ctrl),
	}
	f.svc = task.NewService(task.Deps{
		Runner:      store,
		Tasks:       store,
		Agents:      f.agents,
		Matcher:     dispatch.NewMatcher(),
		Orders:      f.orders,
		Notifier:    f.notifier,
		Observer:    f.observer,
		Logger:      logx.Nop(),
		Timeout:     time.Second,
		MaxAttempts: 3,
	})
	return f
}

func (f *fixture) agentAt(t *testing.T, userID string, lat, lon float64) *domain.Agent {
	t.Helper()
	ctx := context.Background()
	_, err := f.agents.Register(ctx, userID, "bike")
	require.NoError(t, err)
	a, err := f.agents.UpdateLocation(ctx, userID, lat, lon)
	require.NoError(t, err)
	return a
}

func (f *fixture) available(t *testing.T, userID string) bool {
	t.Helper()
	a, err := f.agents.Get(context.Background(), userID)
	require.NoError(t, err)
	return a.IsAvailable
}

func TestCreate_NoAgentsYieldsPending(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.orders.EXPECT().GetByID(gomock.Any(), "17").Return(nycOrder("17"), nil)
	f.observer.EXPECT().ObserveDispatch(task.OutcomePending)

	got, err := f.svc.Create(context.Background(), " 17 ")
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, got.Status)
	require.Nil(t, got.AgentID)
	require.Equal(t, "17", got.OrderID)
	require.Equal(t, 40.7128, got.PickupLatitude)
	require.Equal(t, -73.9851, got.DeliveryLongitude)
}

func TestCreate_UnlocatedAgentIsNeverSelected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.agents.Register(context.Background(), "u-1", "bike")
	require.NoError(t, err)

	f.orders.EXPECT().GetByID(gomock.Any(), "17").Return(nycOrder("17"), nil)
	f.observer.EXPECT().ObserveDispatch(task.OutcomePending)

	got, err := f.svc.Create(context.Background(), "17")
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, got.Status)
	require.True(t, f.available(t, "u-1"))
}

func TestCreate_AssignsAgentAtPickup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.agentAt(t, "u-1", 40.7128, -74.0060)

	f.orders.EXPECT().GetByID(gomock.Any(), "17").Return(nycOrder("17"), nil)
	f.observer.EXPECT().ObserveDispatch(task.OutcomeAssigned)
	f.notifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev domain.StatusEvent) {
		require.Equal(t, domain.TaskAssigned, ev.Status)
		require.Equal(t, "17", ev.OrderID)
	})

	got, err := f.svc.Create(context.Background(), "17")
	require.NoError(t, err)
	require.Equal(t, domain.TaskAssigned, got.Status)
	require.NotNil(t, got.AgentID)
	require.Equal(t, a.ID, *got.AgentID)
	require.False(t, f.available(t, "u-1"))

	stored, err := f.svc.Get(context.Background(), got.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskAssigned, stored.Status)
}

func TestCreate_NearestWinsRegardlessOfRegistrationOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.agentAt(t, "far", 40.7578, -74.0060)
	near := f.agentAt(t, "near", 40.7218, -74.0060)

	f.orders.EXPECT().GetByID(gomock.Any(), "1").Return(nycOrder("1"), nil)
	f.observer.EXPECT().ObserveDispatch(task.OutcomeAssigned)
	f.notifier.EXPECT().Publish(gomock.Any(), gomock.Any())

	got, err := f.svc.Create(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, near.ID, *got.AgentID)
	require.True(t, f.available(t, "far"))
}

func TestCreate_OrderFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		order   *domain.Order
		err     error
		wantErr error
	}{
		{name: "not found", err: apperr.ErrNotFound, wantErr: apperr.ErrNotFound},
		{name: "nil order", wantErr: apperr.ErrNotFound},
		{name: "collaborator down", err: errors.New("connection refused"), wantErr: apperr.ErrDependency},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.agentAt(t, "u-1", 40.7128, -74.0060)
			f.orders.EXPECT().GetByID(gomock.Any(), "9").Return(tt.order, tt.err)

			_, err := f.svc.Create(context.Background(), "9")
			require.ErrorIs(t, err, tt.wantErr)
			require.True(t, f.available(t, "u-1"))

			n, err := f.store.CountByStatus(context.Background(), domain.TaskPending)
			require.NoError(t, err)
			require.Zero(t, n)
		})
	}
}

func TestCreate_IncompleteOrderListsMissingFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	o := nycOrder("5")
	o.RestaurantLongitude = nil
	o.DeliveryLatitude = nil
	f.orders.EXPECT().GetByID(gomock.Any(), "5").Return(o, nil)

	_, err := f.svc.Create(context.Background(), "5")
	require.ErrorIs(t, err, apperr.ErrIncompleteOrder)

	var d *apperr.Detailed
	require.True(t, errors.As(err, &d))
	require.Equal(t, []string{"restaurant_longitude", "delivery_latitude"}, d.Details["missing_fields"])
}

func TestCreate_BlankOrderID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "   ")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestCreate_LostReservationRetriesThenGivesUp(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	store := memstore.New()
	registry := NewMockAgentRegistry(ctrl)
	orders := NewMockOrdersGateway(ctrl)
	observer := NewMockDispatchObserver(ctrl)

	candidate := domain.Agent{ID: 1, Latitude: ptr(40.7128), Longitude: ptr(-74.0060), IsAvailable: true}
	orders.EXPECT().GetByID(gomock.Any(), "1").Return(nycOrder("1"), nil)
	registry.EXPECT().ListAvailable(gomock.Any(), gomock.Any()).Return([]domain.Agent{candidate}, nil).Times(2)
	registry.EXPECT().Reserve(gomock.Any(), gomock.Any(), int64(1)).Return(apperr.ErrConflict).Times(2)
	observer.EXPECT().ObserveDispatch(task.OutcomeConflict).Times(2)

	svc := task.NewService(task.Deps{
		Runner:      store,
		Tasks:       store,
		Agents:      registry,
		Matcher:     dispatch.NewMatcher(),
		Orders:      orders,
		Notifier:    NewMockNotifier(ctrl),
		Observer:    observer,
		MaxAttempts: 2,
	})

	_, err := svc.Create(context.Background(), "1")
	require.ErrorIs(t, err, apperr.ErrNoAgentAvailable)

	n, err := store.CountByStatus(context.Background(), domain.TaskPending)
	require.NoError(t, err)
	require.Zero(t, n, "rolled back attempts must not leave tasks behind")
}

func TestCreate_LostReservationRetriesWithFreshCandidates(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	store := memstore.New()
	registry := NewMockAgentRegistry(ctrl)
	orders := NewMockOrdersGateway(ctrl)
	notifier := NewMockNotifier(ctrl)

	first := domain.Agent{ID: 1, Latitude: ptr(40.7128), Longitude: ptr(-74.0060)}
	second := domain.Agent{ID: 2, Latitude: ptr(40.73), Longitude: ptr(-74.0060)}

	orders.EXPECT().GetByID(gomock.Any(), "1").Return(nycOrder("1"), nil)
	gomock.InOrder(
		registry.EXPECT().ListAvailable(gomock.Any(), gomock.Any()).Return([]domain.Agent{first, second}, nil),
		registry.EXPECT().Reserve(gomock.Any(), gomock.Any(), int64(1)).Return(apperr.ErrConflict),
		registry.EXPECT().ListAvailable(gomock.Any(), gomock.Any()).Return([]domain.Agent{second}, nil),
		registry.EXPECT().Reserve(gomock.Any(), gomock.Any(), int64(2)).Return(nil),
	)
	notifier.EXPECT().Publish(gomock.Any(), gomock.Any())

	svc := task.NewService(task.Deps{
		Runner:   store,
		Tasks:    store,
		Agents:   registry,
		Matcher:  dispatch.NewMatcher(),
		Orders:   orders,
		Notifier: notifier,
	})

	got, err := svc.Create(context.Background(), "1")
	require.NoError(t, err)
	require.EqualValues(t, 2, *got.AgentID)
}

func TestCreate_StoreErrorIsSurfaced(t *testing.T) {
	t.Parallel()

	ctrl := newCtrl(t)
	store := memstore.New()
	registry := NewMockAgentRegistry(ctrl)
	orders := NewMockOrdersGateway(ctrl)

	boom := errors.New("db down")
	orders.EXPECT().GetByID(gomock.Any(), "1").Return(nycOrder("1"), nil)
	registry.EXPECT().ListAvailable(gomock.Any(), gomock.Any()).Return(nil, boom)

	svc := task.NewService(task.Deps{
		Runner: store, Tasks: store, Agents: registry,
		Matcher: dispatch.NewMatcher(), Orders: orders, Notifier: NewMockNotifier(ctrl),
	})

	_, err := svc.Create(context.Background(), "1")
	require.ErrorIs(t, err, boom)
}

// assigned returns a fixture holding one task assigned to agent "u-1".
func assigned(t *testing.T) (*fixture, *domain.Task) {
	t.Helper()
	f := newFixture(t)
	f.agentAt(t, "u-1", 40.7128, -74.0060)
	f.agentAt(t, "u-2", 10, 10)

	f.orders.EXPECT().GetByID(gomock.Any(), "17").Return(nycOrder("17"), nil)
	f.observer.EXPECT().ObserveDispatch(task.OutcomeAssigned)
	f.notifier.EXPECT().Publish(gomock.Any(), gomock.Any())

	got, err := f.svc.Create(context.Background(), "17")
	require.NoError(t, err)
	require.Equal(t, domain.TaskAssigned, got.Status)
	return f, got
}

func TestUpdateStatus_PickupThenDeliver(t *testing.T) {
	t.Parallel()

	f, created := assigned(t)
	ctx := context.Background()

	var published []domain.TaskStatus
	f.notifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev domain.StatusEvent) {
		published = append(published, ev.Status)
	}).Times(2)

	got, err := f.svc.UpdateStatus(ctx, created.ID, "u-1", domain.TaskPickedUp)
	require.NoError(t, err)
	require.Equal(t, domain.TaskPickedUp, got.Status)
	require.NotNil(t, got.PickupTime)
	require.Nil(t, got.DeliveryTime)
	require.False(t, f.available(t, "u-1"))

	got, err = f.svc.UpdateStatus(ctx, created.ID, "u-1", domain.TaskDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.TaskDelivered, got.Status)
	require.NotNil(t, got.DeliveryTime)
	require.True(t, f.available(t, "u-1"))

	_, err = f.svc.UpdateStatus(ctx, created.ID, "u-1", domain.TaskDelivered)
	require.ErrorIs(t, err, apperr.ErrIllegalTransition)

	require.Equal(t, []domain.TaskStatus{domain.TaskPickedUp, domain.TaskDelivered}, published)
}

func TestUpdateStatus_DeliverFromAssigned(t *testing.T) {
	t.Parallel()

	f, created := assigned(t)
	f.notifier.EXPECT().Publish(gomock.Any(), gomock.Any())

	got, err := f.svc.UpdateStatus(context.Background(), created.ID, "u-1", domain.TaskDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.TaskDelivered, got.Status)
	require.Nil(t, got.PickupTime)
	require.True(t, f.available(t, "u-1"))
}

func TestUpdateStatus_CancelKeepsAgentReserved(t *testing.T) {
	t.Parallel()

	f, created := assigned(t)
	f.notifier.EXPECT().Publish(gomock.Any(), gomock.Any())

	got, err := f.svc.UpdateStatus(context.Background(), created.ID, "u-1", domain.TaskCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.TaskCancelled, got.Status)
	require.NotNil(t, got.AgentID)
	require.False(t, f.available(t, "u-1"))

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, "u-1", domain.TaskPickedUp)
	require.ErrorIs(t, err, apperr.ErrIllegalTransition)
}

func TestUpdateStatus_OtherAgentIsRejected(t *testing.T) {
	t.Parallel()

	f, created := assigned(t)
	ctx := context.Background()

	for _, caller := range []string{"u-2", "stranger"} {
		_, err := f.svc.UpdateStatus(ctx, created.ID, caller, domain.TaskDelivered)
		require.ErrorIs(t, err, apperr.ErrUnauthorized)
	}

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskAssigned, got.Status)
	require.Nil(t, got.DeliveryTime)
	require.False(t, f.available(t, "u-1"))
}

func TestUpdateStatus_InvalidInputs(t *testing.T) {
	t.Parallel()

	f, created := assigned(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, created.ID, "u-1", domain.TaskAssigned)
	require.ErrorIs(t, err, apperr.ErrIllegalTransition)

	_, err = f.svc.UpdateStatus(ctx, created.ID, "u-1", "teleported")
	require.ErrorIs(t, err, apperr.ErrIllegalTransition)

	_, err = f.svc.UpdateStatus(ctx, created.ID, "u-1", "")
	require.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = f.svc.UpdateStatus(ctx, 999, "u-1", domain.TaskDelivered)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateStatus_PendingTaskHasNoOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.agents.Register(context.Background(), "u-1", "bike")
	require.NoError(t, err)
	f.orders.EXPECT().GetByID(gomock.Any(), "3").Return(nycOrder("3"), nil)
	f.observer.EXPECT().ObserveDispatch(task.OutcomePending)

	created, err := f.svc.Create(context.Background(), "3")
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, "u-1", domain.TaskPickedUp)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
