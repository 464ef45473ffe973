package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

func newReallocateFixture() (*ReallocationOrchestrator, *mockReservations, *mockOrders, *mockUsers, *mockWaitlist, *mockPublisher) {
	reservations := &mockReservations{
		AssignFunc: func(_ context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error) {
			return &model.ReservationSlot{
				ID: id, RestaurantID: 7, TableNo: int64Ptr(12),
				Status: model.StatusPending, UserID: &userID,
				OrderID: orderID, PaymentID: paymentID,
			}, nil
		},
		DeleteFunc: func(context.Context, int64) error { return nil },
	}
	orders := &mockOrders{
		ListByUserFunc: func(context.Context, string) ([]model.Order, error) { return nil, nil },
	}
	users := &mockUsers{
		GetFunc: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Kim", Phone: "+15550002222"}, nil
		},
	}
	waitlist := &mockWaitlist{
		NextFunc:   func(context.Context, int64) (string, error) { return "u-2002", nil },
		RemoveFunc: func(context.Context, string) error { return nil },
	}
	events := &mockPublisher{ok: true}

	return NewReallocationOrchestrator(reservations, orders, users, waitlist, events),
		reservations, orders, users, waitlist, events
}

func TestReallocateAssignsNextCandidate(t *testing.T) {
	o, reservations, orders, _, waitlist, events := newReallocateFixture()

	orders.ListByUserFunc = func(_ context.Context, userID string) ([]model.Order, error) {
		return []model.Order{{ID: 611, UserID: userID, PaymentID: "pi_next"}}, nil
	}
	var gotOrderID *int64
	var gotPaymentID *string
	inner := reservations.AssignFunc
	reservations.AssignFunc = func(ctx context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error) {
		gotOrderID, gotPaymentID = orderID, paymentID
		return inner(ctx, id, userID, orderID, paymentID)
	}
	var removed string
	waitlist.RemoveFunc = func(_ context.Context, userID string) error {
		removed = userID
		return nil
	}

	res, err := o.Reallocate(context.Background(), 301, 7)
	if err != nil {
		t.Fatalf("Reallocate: %v", err)
	}
	if res.Status != StatusResultPending || res.UserID != "u-2002" || res.TableNo != 12 {
		t.Fatalf("unexpected result %+v", res)
	}
	if gotOrderID == nil || *gotOrderID != 611 {
		t.Fatal("assignment should carry the candidate's latest order id")
	}
	if gotPaymentID == nil || *gotPaymentID != "pi_next" {
		t.Fatal("assignment should carry the candidate's payment id")
	}
	if removed != "u-2002" {
		t.Fatalf("removed %q from waitlist", removed)
	}
	if len(events.keys) != 1 || events.keys[0] != queue.RoutingKeyReallocationNotice {
		t.Fatalf("published %v", events.keys)
	}
}

func TestReallocateEmptyWaitlistDeletesSlot(t *testing.T) {
	o, reservations, _, users, waitlist, events := newReallocateFixture()

	waitlist.NextFunc = func(context.Context, int64) (string, error) { return "", nil }
	var deleted int64
	reservations.DeleteFunc = func(_ context.Context, id int64) error {
		deleted = id
		return nil
	}
	users.GetFunc = func(context.Context, string) (*model.User, error) {
		t.Fatal("no user lookup on an empty waitlist")
		return nil, nil
	}

	res, err := o.Reallocate(context.Background(), 301, 7)
	if err != nil {
		t.Fatalf("Reallocate: %v", err)
	}
	if res.Status != StatusResultDeleted || res.Message != msgNoWaitlistUsers {
		t.Fatalf("unexpected result %+v", res)
	}
	if deleted != 301 {
		t.Fatalf("deleted slot %d", deleted)
	}
	if len(events.keys) != 0 {
		t.Fatalf("no events expected, got %v", events.keys)
	}
}

func TestReallocateIncompleteUserDataAborts(t *testing.T) {
	o, reservations, _, users, _, _ := newReallocateFixture()

	users.GetFunc = func(_ context.Context, id string) (*model.User, error) {
		return &model.User{ID: id, Name: "Kim"}, nil // no phone
	}
	reservations.AssignFunc = func(context.Context, int64, string, *int64, *string) (*model.ReservationSlot, error) {
		t.Fatal("slot must not be touched when the candidate's data is incomplete")
		return nil, nil
	}

	_, err := o.Reallocate(context.Background(), 301, 7)
	if !errors.Is(err, ErrIncompleteUserData) {
		t.Fatalf("expected ErrIncompleteUserData, got %v", err)
	}
}

func TestReallocateOrderLookupFailureIsTolerated(t *testing.T) {
	o, reservations, orders, _, _, _ := newReallocateFixture()

	orders.ListByUserFunc = func(context.Context, string) ([]model.Order, error) {
		return nil, errors.New("order store down")
	}
	var gotOrderID *int64
	inner := reservations.AssignFunc
	reservations.AssignFunc = func(ctx context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error) {
		gotOrderID = orderID
		return inner(ctx, id, userID, orderID, paymentID)
	}

	res, err := o.Reallocate(context.Background(), 301, 7)
	if err != nil {
		t.Fatalf("Reallocate: %v", err)
	}
	if res.Status != StatusResultPending {
		t.Fatalf("status = %s", res.Status)
	}
	if gotOrderID != nil {
		t.Fatal("assignment should carry no order id when the lookup failed")
	}
}

func TestReallocateRemoveFailureIsDegraded(t *testing.T) {
	o, _, _, _, waitlist, _ := newReallocateFixture()

	waitlist.RemoveFunc = func(context.Context, string) error {
		return errors.New("waitlist store down")
	}

	res, err := o.Reallocate(context.Background(), 301, 7)
	if err != nil {
		t.Fatalf("Reallocate: %v", err)
	}
	if len(res.Degraded) != 1 || res.Degraded[0] != "waitlist removal failed" {
		t.Fatalf("degraded = %v", res.Degraded)
	}
}
