package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationClient talks to the Reservation Store. The store owns the
// slot rows; this client exposes the transition operations the state
// machine sequences (create, cancel, assign, confirm, delete).
type ReservationClient struct {
	base string
	hc   *http.Client
}

// NewReservationClient returns a client rooted at base, e.g.
// "http://localhost:5002".
func NewReservationClient(base string, hc *http.Client) *ReservationClient {
	return &ReservationClient{base: base, hc: hc}
}

// CreateReservationRequest carries the occupancy data for a new
// booking. The store picks a free table itself; table_no may be
// pre-assigned by callers that already know it.
type CreateReservationRequest struct {
	RestaurantID int64   `json:"restaurant_id"`
	UserID       string  `json:"user_id"`
	Count        int64   `json:"count"`
	Price        float64 `json:"price"`
	Time         string  `json:"time"`
	OrderID      *int64  `json:"order_id,omitempty"`
	PaymentID    *string `json:"payment_id,omitempty"`
	TableNo      *int64  `json:"table_no,omitempty"`
}

// CancelPreImage is the occupancy snapshot the store returns
// atomically with nulling the row, so the cancellation saga can refund
// and notify after the slot is already cleared.
type CancelPreImage struct {
	ReservationID int64   `json:"reservation_id"`
	RestaurantID  int64   `json:"restaurant_id"`
	UserID        string  `json:"user_id"`
	TableNo       int64   `json:"table_no"`
	RefundAmount  float64 `json:"refund_amount"`
	PaymentID     *string `json:"payment_id,omitempty"`
	OrderID       *int64  `json:"order_id,omitempty"`
}

// ConfirmReservationRequest finalises a PENDING slot as BOOKED under a
// newly minted reservation id.
type ConfirmReservationRequest struct {
	NewReservationID int64   `json:"new_reservation_id"`
	Count            int64   `json:"count"`
	Price            float64 `json:"price"`
	OrderID          *int64  `json:"order_id,omitempty"`
	PaymentID        *string `json:"payment_id,omitempty"`
	BookingTime      *string `json:"booking_time,omitempty"`
}

// Create books a free table at the restaurant and returns the BOOKED slot.
func (c *ReservationClient) Create(ctx context.Context, req CreateReservationRequest) (*model.ReservationSlot, error) {
	raw, err := do(ctx, c.hc, "reservation-store", http.MethodPost, c.base+"/api/reservations", req)
	if err != nil {
		return nil, err
	}
	var slot model.ReservationSlot
	if err := decodeData("reservation-store", raw, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Get fetches a single slot by id.
func (c *ReservationClient) Get(ctx context.Context, id int64) (*model.ReservationSlot, error) {
	raw, err := do(ctx, c.hc, "reservation-store", http.MethodGet, fmt.Sprintf("%s/api/reservations/%d", c.base, id), nil)
	if err != nil {
		return nil, err
	}
	var slot model.ReservationSlot
	if err := decodeData("reservation-store", raw, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Cancel clears the slot and returns the pre-cancellation occupancy.
func (c *ReservationClient) Cancel(ctx context.Context, id int64) (*CancelPreImage, error) {
	raw, err := do(ctx, c.hc, "reservation-store", http.MethodPatch, fmt.Sprintf("%s/api/reservations/cancel/%d", c.base, id), nil)
	if err != nil {
		return nil, err
	}
	var pre CancelPreImage
	if err := decodeData("reservation-store", raw, &pre); err != nil {
		return nil, err
	}
	return &pre, nil
}

// Assign puts a waitlisted user on the slot with status PENDING,
// carrying forward any recovered order and payment ids.
func (c *ReservationClient) Assign(ctx context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error) {
	body := map[string]interface{}{
		"user_id": userID,
		"status":  model.StatusPending,
	}
	if orderID != nil {
		body["order_id"] = *orderID
	}
	if paymentID != nil {
		body["payment_id"] = *paymentID
	}
	raw, err := do(ctx, c.hc, "reservation-store", http.MethodPatch, fmt.Sprintf("%s/api/reservations/reallocate/%d", c.base, id), body)
	if err != nil {
		return nil, err
	}
	var slot model.ReservationSlot
	if err := decodeData("reservation-store", raw, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Confirm finalises the PENDING slot as BOOKED and re-keys its public
// id to req.NewReservationID.
func (c *ReservationClient) Confirm(ctx context.Context, oldID int64, req ConfirmReservationRequest) (*model.ReservationSlot, error) {
	raw, err := do(ctx, c.hc, "reservation-store", http.MethodPatch, fmt.Sprintf("%s/api/reservations/reallocate_confirm/%d", c.base, oldID), req)
	if err != nil {
		return nil, err
	}
	var slot model.ReservationSlot
	if err := decodeData("reservation-store", raw, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Delete removes the slot row entirely. Only reallocation uses this,
// when the waitlist has no candidate for the freed table.
func (c *ReservationClient) Delete(ctx context.Context, id int64) error {
	_, err := do(ctx, c.hc, "reservation-store", http.MethodDelete, fmt.Sprintf("%s/api/reservations/%d", c.base, id), nil)
	return err
}
