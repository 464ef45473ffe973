// Package saga sequences the booking lifecycle across the
// independently-owned collaborator stores: capacity admission,
// reservation state transitions, cancellation and refund, waitlist
// reallocation, and acceptance of a reallocated table. No transaction
// spans the stores, so each orchestrator is explicit about which steps
// are terminal and which are best-effort: a terminal failure aborts
// the saga, a best-effort failure is logged and folded into the
// result's degraded notes.
package saga

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Fallback display values used when a directory lookup fails on a
// best-effort step.
const fallbackUserName = "Customer"

// ReservationStore is the slice of the Reservation Store the sagas use.
type ReservationStore interface {
	Create(ctx context.Context, req gateway.CreateReservationRequest) (*model.ReservationSlot, error)
	Get(ctx context.Context, id int64) (*model.ReservationSlot, error)
	Cancel(ctx context.Context, id int64) (*gateway.CancelPreImage, error)
	Assign(ctx context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error)
	Confirm(ctx context.Context, oldID int64, req gateway.ConfirmReservationRequest) (*model.ReservationSlot, error)
	Delete(ctx context.Context, id int64) error
}

// OrderStore is the slice of the Order Store the sagas use.
type OrderStore interface {
	Create(ctx context.Context, req gateway.CreateOrderRequest) (*model.Order, error)
	PatchType(ctx context.Context, orderID int64, orderType string) error
	Delete(ctx context.Context, orderID int64) error
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListByRestaurantAndType(ctx context.Context, restaurantID int64, orderType string) ([]model.Order, error)
}

// UserDirectory resolves customer display data.
type UserDirectory interface {
	Get(ctx context.Context, userID string) (*model.User, error)
}

// RestaurantDirectory resolves restaurant display data and capacity.
type RestaurantDirectory interface {
	Get(ctx context.Context, restaurantID int64) (*model.Restaurant, error)
}

// PaymentGateway processes refunds.
type PaymentGateway interface {
	Refund(ctx context.Context, paymentID string, amount *float64) (*gateway.Refund, error)
}

// WaitlistDirectory is the FIFO waitlist per restaurant.
type WaitlistDirectory interface {
	Next(ctx context.Context, restaurantID int64) (string, error)
	Enqueue(ctx context.Context, userID string, restaurantID int64, at time.Time) error
	Remove(ctx context.Context, userID string) error
}

// EventPublisher publishes lifecycle events. A false return is a
// degraded outcome for the caller, never a failure.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) bool
}
