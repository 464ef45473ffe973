package saga

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// BookingOrchestrator drives a new booking end to end: order
// placement, capacity admission, reservation creation or waitlisting,
// and the confirmation notification.
type BookingOrchestrator struct {
	reservations ReservationStore
	orders       OrderStore
	users        UserDirectory
	restaurants  RestaurantDirectory
	waitlist     WaitlistDirectory
	admission    *AdmissionController
	events       EventPublisher
	now          func() time.Time
}

// NewBookingOrchestrator wires the orchestrator to its collaborators.
func NewBookingOrchestrator(
	reservations ReservationStore,
	orders OrderStore,
	users UserDirectory,
	restaurants RestaurantDirectory,
	waitlist WaitlistDirectory,
	admission *AdmissionController,
	events EventPublisher,
) *BookingOrchestrator {
	return &BookingOrchestrator{
		reservations: reservations,
		orders:       orders,
		users:        users,
		restaurants:  restaurants,
		waitlist:     waitlist,
		admission:    admission,
		events:       events,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateBookingInput is the request for a new booking. OrderType
// selects between the delivery path and the dine-in path; Count and
// Time are only required for dine-in.
type CreateBookingInput struct {
	RestaurantID int64   `json:"restaurant_id"`
	UserID       string  `json:"user_id"`
	Count        int64   `json:"count"`
	Time         string  `json:"time"`
	PaymentID    string  `json:"payment_id"`
	ItemName     string  `json:"item_name"`
	Quantity     int64   `json:"quantity"`
	OrderPrice   float64 `json:"order_price"`
	OrderType    string  `json:"order_type"`
}

// Booking result statuses. The caller always receives exactly one of
// booked, waitlisted or confirmed on success; failures surface as
// errors from CreateBooking.
const (
	StatusResultBooked     = "booked"
	StatusResultWaitlisted = "waitlisted"
	StatusResultConfirmed  = "confirmed"
)

// CreateBookingResult reports the outcome. Degraded lists best-effort
// steps that failed after the primary effect succeeded; a non-empty
// list maps to HTTP 207 at the boundary.
type CreateBookingResult struct {
	Status        string   `json:"status"`
	ReservationID int64    `json:"reservation_id,omitempty"`
	TableNo       int64    `json:"table_no,omitempty"`
	OrderID       int64    `json:"order_id"`
	Degraded      []string `json:"degraded,omitempty"`
}

// CreateBooking validates the input, places the order, and then either
// confirms the delivery, books a table, or waitlists the requester.
// Order creation and the admission check are terminal failure domains;
// everything after the reservation exists is best-effort.
func (o *BookingOrchestrator) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	if err := validateCreateBooking(in); err != nil {
		return nil, err
	}

	orderType := model.OrderTypeDelivery
	if in.OrderType == model.OrderTypeDineIn {
		orderType = model.OrderTypeDineInPending
	}
	order, err := o.orders.Create(ctx, gateway.CreateOrderRequest{
		UserID:       in.UserID,
		RestaurantID: in.RestaurantID,
		ItemName:     in.ItemName,
		Quantity:     in.Quantity,
		OrderPrice:   in.OrderPrice,
		PaymentID:    in.PaymentID,
		OrderType:    orderType,
	})
	if err != nil {
		return nil, err
	}

	if in.OrderType == model.OrderTypeDelivery {
		return o.confirmDelivery(ctx, in, order)
	}
	return o.bookDineIn(ctx, in, order)
}

// confirmDelivery finishes the delivery path: no reservation is
// involved, only the confirmation event.
func (o *BookingOrchestrator) confirmDelivery(ctx context.Context, in CreateBookingInput, order *model.Order) (*CreateBookingResult, error) {
	res := &CreateBookingResult{Status: StatusResultConfirmed, OrderID: order.ID}

	userName, userPhone := o.displayUser(ctx, in.UserID, res)
	restaurantName := o.displayRestaurant(ctx, in.RestaurantID, res)

	ok := o.events.Publish(ctx, queue.RoutingKeyDeliveryConfirmation, queue.DeliveryConfirmedEvent{
		MessageType:    queue.RoutingKeyDeliveryConfirmation,
		OrderID:        order.ID,
		UserID:         in.UserID,
		UserName:       userName,
		UserPhone:      userPhone,
		RestaurantName: restaurantName,
		ItemName:       in.ItemName,
		Quantity:       in.Quantity,
		OrderPrice:     in.OrderPrice,
	})
	if !ok {
		res.Degraded = append(res.Degraded, "delivery confirmation notification failed")
	}
	return res, nil
}

// bookDineIn runs the admission check and then either books a table or
// enqueues the requester on the waitlist.
func (o *BookingOrchestrator) bookDineIn(ctx context.Context, in CreateBookingInput, order *model.Order) (*CreateBookingResult, error) {
	decision, err := o.admission.Admit(ctx, in.RestaurantID, in.Count)
	if err != nil {
		return nil, err
	}

	if decision == Waitlist {
		// The order stays dine_in_pending until a table frees up.
		if err := o.waitlist.Enqueue(ctx, in.UserID, in.RestaurantID, o.now()); err != nil {
			return nil, err
		}
		res := &CreateBookingResult{Status: StatusResultWaitlisted, OrderID: order.ID}
		userName, userPhone := o.displayUser(ctx, in.UserID, res)
		restaurantName := o.displayRestaurant(ctx, in.RestaurantID, res)
		ok := o.events.Publish(ctx, queue.RoutingKeyWaitlistNotification, queue.WaitlistNotificationEvent{
			MessageType:    queue.RoutingKeyWaitlistNotification,
			UserID:         in.UserID,
			UserName:       userName,
			UserPhone:      userPhone,
			RestaurantID:   in.RestaurantID,
			RestaurantName: restaurantName,
		})
		if !ok {
			res.Degraded = append(res.Degraded, "waitlist notification failed")
		}
		return res, nil
	}

	slot, err := o.reservations.Create(ctx, gateway.CreateReservationRequest{
		RestaurantID: in.RestaurantID,
		UserID:       in.UserID,
		Count:        in.Count,
		Price:        in.OrderPrice,
		Time:         in.Time,
		OrderID:      &order.ID,
		PaymentID:    &in.PaymentID,
	})
	if err != nil {
		return nil, err
	}

	res := &CreateBookingResult{Status: StatusResultBooked, ReservationID: slot.ID, OrderID: order.ID}
	if slot.TableNo != nil {
		res.TableNo = *slot.TableNo
	}

	// The booking itself already succeeded, so a failed order-type
	// patch only degrades the result.
	if err := o.orders.PatchType(ctx, order.ID, model.OrderTypeDineIn); err != nil {
		log.Printf("saga: patch order %d to dine_in failed: %v", order.ID, err)
		res.Degraded = append(res.Degraded, "order type patch failed")
	}

	userName, userPhone := o.displayUser(ctx, in.UserID, res)
	restaurantName := o.displayRestaurant(ctx, in.RestaurantID, res)
	ok := o.events.Publish(ctx, queue.RoutingKeyReservationConfirmation, queue.ReservationConfirmedEvent{
		MessageType:    queue.RoutingKeyReservationConfirmation,
		ReservationID:  slot.ID,
		UserID:         in.UserID,
		UserName:       userName,
		UserPhone:      userPhone,
		RestaurantID:   in.RestaurantID,
		RestaurantName: restaurantName,
		TableNo:        res.TableNo,
		Time:           in.Time,
		Count:          in.Count,
		PaymentID:      in.PaymentID,
		Price:          in.OrderPrice,
	})
	if !ok {
		res.Degraded = append(res.Degraded, "reservation confirmation notification failed")
	}
	return res, nil
}

// displayUser fetches the user's display data, substituting defaults
// when the directory is unreachable.
func (o *BookingOrchestrator) displayUser(ctx context.Context, userID string, res *CreateBookingResult) (name, phone string) {
	u, err := o.users.Get(ctx, userID)
	if err != nil {
		log.Printf("saga: fetch user %s failed: %v", userID, err)
		res.Degraded = append(res.Degraded, "user lookup failed")
		return fallbackUserName, ""
	}
	return u.Name, u.Phone
}

// displayRestaurant fetches the restaurant's display name, substituting
// a numbered default when the directory is unreachable.
func (o *BookingOrchestrator) displayRestaurant(ctx context.Context, restaurantID int64, res *CreateBookingResult) string {
	r, err := o.restaurants.Get(ctx, restaurantID)
	if err != nil {
		log.Printf("saga: fetch restaurant %d failed: %v", restaurantID, err)
		res.Degraded = append(res.Degraded, "restaurant lookup failed")
		return fmt.Sprintf("Restaurant #%d", restaurantID)
	}
	return r.Name
}

func validateCreateBooking(in CreateBookingInput) error {
	switch in.OrderType {
	case model.OrderTypeDineIn, model.OrderTypeDelivery:
	default:
		return &ValidationError{Field: "order_type"}
	}
	if in.RestaurantID == 0 {
		return &ValidationError{Field: "restaurant_id"}
	}
	if in.UserID == "" {
		return &ValidationError{Field: "user_id"}
	}
	if in.ItemName == "" {
		return &ValidationError{Field: "item_name"}
	}
	if in.Quantity <= 0 {
		return &ValidationError{Field: "quantity"}
	}
	if in.OrderPrice <= 0 {
		return &ValidationError{Field: "order_price"}
	}
	if in.PaymentID == "" {
		return &ValidationError{Field: "payment_id"}
	}
	if in.OrderType == model.OrderTypeDineIn {
		if in.Count <= 0 {
			return &ValidationError{Field: "count"}
		}
		if in.Time == "" {
			return &ValidationError{Field: "time"}
		}
	}
	return nil
}
