package saga

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

func newCancelFixture() (*CancellationOrchestrator, *mockReservations, *mockOrders, *mockUsers, *mockPayments, *mockPublisher, *syncTrigger) {
	reservations := &mockReservations{
		CancelFunc: func(_ context.Context, id int64) (*gateway.CancelPreImage, error) {
			return &gateway.CancelPreImage{
				ReservationID: id,
				RestaurantID:  7,
				UserID:        "u-1001",
				TableNo:       12,
				RefundAmount:  89.50,
				PaymentID:     strPtr("pi_abc123"),
				OrderID:       int64Ptr(501),
			}, nil
		},
	}
	orders := &mockOrders{
		DeleteFunc: func(context.Context, int64) error { return nil },
	}
	users := &mockUsers{
		GetFunc: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Dana", Phone: "+15550001111"}, nil
		},
	}
	payments := &mockPayments{
		RefundFunc: func(_ context.Context, paymentID string, amount *float64) (*gateway.Refund, error) {
			return &gateway.Refund{ID: "re_1", Amount: *amount, Status: "succeeded"}, nil
		},
	}
	events := &mockPublisher{ok: true}
	trigger := &syncTrigger{}

	o := NewCancellationOrchestrator(reservations, orders, users, payments, events, trigger)
	return o, reservations, orders, users, payments, events, trigger
}

func TestCancelBookingHappyPath(t *testing.T) {
	o, _, orders, _, payments, events, trigger := newCancelFixture()

	var refunded string
	payments.RefundFunc = func(_ context.Context, paymentID string, amount *float64) (*gateway.Refund, error) {
		refunded = paymentID
		return &gateway.Refund{ID: "re_1", Amount: *amount, Status: "succeeded"}, nil
	}
	var deletedOrder int64
	orders.DeleteFunc = func(_ context.Context, id int64) error {
		deletedOrder = id
		return nil
	}

	res, err := o.CancelBooking(context.Background(), 301)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if res.Status != "empty" || res.ReservationID != 301 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.RefundAmount != 89.50 || res.RefundID != "re_1" {
		t.Fatalf("unexpected refund data %+v", res)
	}
	if len(res.Degraded) != 0 {
		t.Fatalf("unexpected degraded notes %v", res.Degraded)
	}
	if refunded != "pi_abc123" {
		t.Fatalf("refunded %q", refunded)
	}
	if deletedOrder != 501 {
		t.Fatalf("deleted order %d", deletedOrder)
	}
	if len(events.keys) != 1 || events.keys[0] != queue.RoutingKeyReservationCancellation {
		t.Fatalf("published %v", events.keys)
	}
	if trigger.calls != 1 || trigger.reservationID != 301 || trigger.restaurantID != 7 {
		t.Fatalf("trigger %+v", trigger)
	}
}

func TestCancelBookingReservationFailureIsTerminal(t *testing.T) {
	o, reservations, _, _, _, events, trigger := newCancelFixture()
	reservations.CancelFunc = func(context.Context, int64) (*gateway.CancelPreImage, error) {
		return nil, &gateway.CollaboratorError{Service: "reservation-store", Status: 404, Message: "reservation not found"}
	}

	if _, err := o.CancelBooking(context.Background(), 301); err == nil {
		t.Fatal("expected error when the reservation cancel fails")
	}
	if len(events.keys) != 0 || trigger.calls != 0 {
		t.Fatal("nothing may run after a terminal cancel failure")
	}
}

func TestCancelBookingRefundFailureIsDegraded(t *testing.T) {
	o, _, orders, _, payments, _, trigger := newCancelFixture()

	payments.RefundFunc = func(context.Context, string, *float64) (*gateway.Refund, error) {
		return nil, errors.New("stripe unavailable")
	}
	orders.DeleteFunc = func(context.Context, int64) error {
		t.Fatal("order must not be deleted when the refund failed")
		return nil
	}

	res, err := o.CancelBooking(context.Background(), 301)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if res.RefundID != "" {
		t.Fatal("no refund id on failure")
	}
	found := false
	for _, note := range res.Degraded {
		if strings.HasPrefix(note, "refund failed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a refund failure note, got %v", res.Degraded)
	}
	if trigger.calls != 1 {
		t.Fatal("reallocation must still be triggered")
	}
}

func TestCancelBookingWithoutPaymentSkipsRefund(t *testing.T) {
	o, reservations, _, _, payments, _, _ := newCancelFixture()

	reservations.CancelFunc = func(_ context.Context, id int64) (*gateway.CancelPreImage, error) {
		return &gateway.CancelPreImage{ReservationID: id, RestaurantID: 7, UserID: "u-1001", TableNo: 12, RefundAmount: 0}, nil
	}
	payments.RefundFunc = func(context.Context, string, *float64) (*gateway.Refund, error) {
		t.Fatal("refund must not run without a payment id")
		return nil, nil
	}

	res, err := o.CancelBooking(context.Background(), 301)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if res.RefundID != "" || len(res.Degraded) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCancelBookingUserLookupFailureIsDegraded(t *testing.T) {
	o, _, _, users, _, events, _ := newCancelFixture()
	users.GetFunc = func(context.Context, string) (*model.User, error) {
		return nil, errors.New("directory down")
	}

	res, err := o.CancelBooking(context.Background(), 301)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if len(res.Degraded) != 1 || res.Degraded[0] != "user lookup failed" {
		t.Fatalf("degraded = %v", res.Degraded)
	}
	// The cancellation event still fires with fallback display data.
	if len(events.keys) != 1 {
		t.Fatalf("published %v", events.keys)
	}
}
