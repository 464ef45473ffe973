package saga

import (
	"context"
	"math/rand"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/gateway"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// AcceptOrchestrator finalises a reallocated booking once the
// candidate accepts: the PENDING slot is confirmed BOOKED under a
// freshly minted reservation id and the pending order becomes a
// dine_in order.
type AcceptOrchestrator struct {
	reservations ReservationStore
	orders       OrderStore
	users        UserDirectory
	events       EventPublisher
	newID        func() int64
}

// NewAcceptOrchestrator wires the orchestrator to its collaborators.
func NewAcceptOrchestrator(
	reservations ReservationStore,
	orders OrderStore,
	users UserDirectory,
	events EventPublisher,
) *AcceptOrchestrator {
	return &AcceptOrchestrator{
		reservations: reservations,
		orders:       orders,
		users:        users,
		events:       events,
		newID:        func() int64 { return rand.Int63n(800) + 200 },
	}
}

// AcceptBookingInput carries the acceptance of a reallocated table.
// NewReservationID may be pre-assigned; when absent one is generated.
type AcceptBookingInput struct {
	ReservationID    int64   `json:"reservation_id"`
	UserID           string  `json:"user_id"`
	Count            int64   `json:"count"`
	Price            float64 `json:"price"`
	OrderID          *int64  `json:"order_id,omitempty"`
	PaymentID        *string `json:"payment_id,omitempty"`
	BookingTime      *string `json:"booking_time,omitempty"`
	NewReservationID *int64  `json:"new_reservation_id,omitempty"`
}

// AcceptBookingResult reports the confirmed booking under its new
// reservation id.
type AcceptBookingResult struct {
	Status        string   `json:"status"`
	ReservationID int64    `json:"reservation_id"`
	TableNo       int64    `json:"table_no"`
	BookingTime   string   `json:"booking_time,omitempty"`
	Degraded      []string `json:"degraded,omitempty"`
}

// AcceptBooking confirms the PENDING slot as BOOKED, re-keying its
// public id, then patches the order type and notifies the user. The
// confirm and the order patch are terminal; only the notification is
// best-effort.
func (o *AcceptOrchestrator) AcceptBooking(ctx context.Context, in AcceptBookingInput) (*AcceptBookingResult, error) {
	if in.ReservationID == 0 {
		return nil, &ValidationError{Field: "reservation_id"}
	}
	if in.UserID == "" {
		return nil, &ValidationError{Field: "user_id"}
	}
	if in.Count <= 0 {
		return nil, &ValidationError{Field: "count"}
	}

	newID := o.newID()
	if in.NewReservationID != nil {
		newID = *in.NewReservationID
	}

	slot, err := o.reservations.Confirm(ctx, in.ReservationID, gateway.ConfirmReservationRequest{
		NewReservationID: newID,
		Count:            in.Count,
		Price:            in.Price,
		OrderID:          in.OrderID,
		PaymentID:        in.PaymentID,
		BookingTime:      in.BookingTime,
	})
	if err != nil {
		return nil, err
	}

	if in.OrderID != nil {
		if err := o.orders.PatchType(ctx, *in.OrderID, model.OrderTypeDineIn); err != nil {
			return nil, err
		}
	}

	res := &AcceptBookingResult{Status: StatusResultBooked, ReservationID: slot.ID}
	if slot.TableNo != nil {
		res.TableNo = *slot.TableNo
	}
	if slot.Time != nil {
		res.BookingTime = slot.Time.UTC().Format(time.RFC3339)
	} else if in.BookingTime != nil {
		res.BookingTime = *in.BookingTime
	}

	user, err := o.users.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	ok := o.events.Publish(ctx, queue.RoutingKeyReallocationConfirmation, queue.ReallocationConfirmedEvent{
		MessageType:   queue.RoutingKeyReallocationConfirmation,
		ReservationID: slot.ID,
		UserName:      user.Name,
		UserPhone:     user.Phone,
		TableNo:       res.TableNo,
		BookingTime:   res.BookingTime,
	})
	if !ok {
		res.Degraded = append(res.Degraded, "reallocation confirmation notification failed")
	}
	return res, nil
}
