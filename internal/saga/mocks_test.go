package saga

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Hand-written mocks with overridable function fields. A nil field
// means "not expected in this scenario" and fails loudly via panic.

type mockReservations struct {
	CreateFunc  func(ctx context.Context, req gateway.CreateReservationRequest) (*model.ReservationSlot, error)
	GetFunc     func(ctx context.Context, id int64) (*model.ReservationSlot, error)
	CancelFunc  func(ctx context.Context, id int64) (*gateway.CancelPreImage, error)
	AssignFunc  func(ctx context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error)
	ConfirmFunc func(ctx context.Context, oldID int64, req gateway.ConfirmReservationRequest) (*model.ReservationSlot, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockReservations) Create(ctx context.Context, req gateway.CreateReservationRequest) (*model.ReservationSlot, error) {
	return m.CreateFunc(ctx, req)
}
func (m *mockReservations) Get(ctx context.Context, id int64) (*model.ReservationSlot, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockReservations) Cancel(ctx context.Context, id int64) (*gateway.CancelPreImage, error) {
	return m.CancelFunc(ctx, id)
}
func (m *mockReservations) Assign(ctx context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error) {
	return m.AssignFunc(ctx, id, userID, orderID, paymentID)
}
func (m *mockReservations) Confirm(ctx context.Context, oldID int64, req gateway.ConfirmReservationRequest) (*model.ReservationSlot, error) {
	return m.ConfirmFunc(ctx, oldID, req)
}
func (m *mockReservations) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type mockOrders struct {
	CreateFunc                  func(ctx context.Context, req gateway.CreateOrderRequest) (*model.Order, error)
	PatchTypeFunc               func(ctx context.Context, orderID int64, orderType string) error
	DeleteFunc                  func(ctx context.Context, orderID int64) error
	ListByUserFunc              func(ctx context.Context, userID string) ([]model.Order, error)
	ListByRestaurantAndTypeFunc func(ctx context.Context, restaurantID int64, orderType string) ([]model.Order, error)
}

func (m *mockOrders) Create(ctx context.Context, req gateway.CreateOrderRequest) (*model.Order, error) {
	return m.CreateFunc(ctx, req)
}
func (m *mockOrders) PatchType(ctx context.Context, orderID int64, orderType string) error {
	return m.PatchTypeFunc(ctx, orderID, orderType)
}
func (m *mockOrders) Delete(ctx context.Context, orderID int64) error {
	return m.DeleteFunc(ctx, orderID)
}
func (m *mockOrders) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return m.ListByUserFunc(ctx, userID)
}
func (m *mockOrders) ListByRestaurantAndType(ctx context.Context, restaurantID int64, orderType string) ([]model.Order, error) {
	return m.ListByRestaurantAndTypeFunc(ctx, restaurantID, orderType)
}

type mockUsers struct {
	GetFunc func(ctx context.Context, userID string) (*model.User, error)
}

func (m *mockUsers) Get(ctx context.Context, userID string) (*model.User, error) {
	return m.GetFunc(ctx, userID)
}

type mockRestaurants struct {
	GetFunc func(ctx context.Context, restaurantID int64) (*model.Restaurant, error)
}

func (m *mockRestaurants) Get(ctx context.Context, restaurantID int64) (*model.Restaurant, error) {
	return m.GetFunc(ctx, restaurantID)
}

type mockPayments struct {
	RefundFunc func(ctx context.Context, paymentID string, amount *float64) (*gateway.Refund, error)
}

func (m *mockPayments) Refund(ctx context.Context, paymentID string, amount *float64) (*gateway.Refund, error) {
	return m.RefundFunc(ctx, paymentID, amount)
}

type mockWaitlist struct {
	NextFunc    func(ctx context.Context, restaurantID int64) (string, error)
	EnqueueFunc func(ctx context.Context, userID string, restaurantID int64, at time.Time) error
	RemoveFunc  func(ctx context.Context, userID string) error
}

func (m *mockWaitlist) Next(ctx context.Context, restaurantID int64) (string, error) {
	return m.NextFunc(ctx, restaurantID)
}
func (m *mockWaitlist) Enqueue(ctx context.Context, userID string, restaurantID int64, at time.Time) error {
	return m.EnqueueFunc(ctx, userID, restaurantID, at)
}
func (m *mockWaitlist) Remove(ctx context.Context, userID string) error {
	return m.RemoveFunc(ctx, userID)
}

// mockPublisher records every published event and answers with a fixed
// result, so tests can assert both routing keys and degraded notes.
type mockPublisher struct {
	ok   bool
	keys []string
}

func (m *mockPublisher) Publish(_ context.Context, routingKey string, _ interface{}) bool {
	m.keys = append(m.keys, routingKey)
	return m.ok
}

// syncTrigger runs reallocation inline so cancellation tests can
// observe it deterministically.
type syncTrigger struct {
	reservationID int64
	restaurantID  int64
	calls         int
}

func (t *syncTrigger) Trigger(reservationID, restaurantID int64) {
	t.calls++
	t.reservationID = reservationID
	t.restaurantID = restaurantID
}
