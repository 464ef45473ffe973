package model

import "time"

// Reservation slot statuses. A slot is a physical table's reservation
// record; it is created empty at restaurant setup and cycles between
// these states for the rest of its life.
const (
	StatusEmpty   = "EMPTY"   // no occupant; all occupancy fields are null
	StatusBooked  = "BOOKED"  // confirmed booking
	StatusPending = "PENDING" // assigned to a waitlisted user, not yet confirmed
)

// ReservationSlot records the occupancy of a single table at a
// restaurant. The identity triple (ID, RestaurantID, TableNo) is
// stable per physical table; the remaining fields describe the
// current occupant and are null whenever the slot is empty.
//
// Fields:
//  ID           – reservation.reservation_id, the slot's public identity.
//                 Re-keyed when a reallocated booking is confirmed.
//  RestaurantID – restaurant that owns the table.
//  TableNo      – table number within the restaurant.
//  Status       – EMPTY, BOOKED or PENDING.
//  UserID       – occupant's user id (nullable).
//  Count        – party size (nullable).
//  Price        – booking price, also the refund amount on cancellation (nullable).
//  Time         – booking timestamp (nullable).
//  OrderID      – order placed alongside the booking (nullable).
//  PaymentID    – Stripe payment intent backing the booking (nullable).
type ReservationSlot struct {
	ID           int64      `json:"reservation_id"`
	RestaurantID int64      `json:"restaurant_id"`
	TableNo      *int64     `json:"table_no"`
	Status       string     `json:"status"`
	UserID       *string    `json:"user_id"`
	Count        *int64     `json:"count"`
	Price        *float64   `json:"price"`
	Time         *time.Time `json:"time"`
	OrderID      *int64     `json:"order_id"`
	PaymentID    *string    `json:"payment_id"`
}

// Occupied reports whether any occupancy field carries a value.
func (s *ReservationSlot) Occupied() bool {
	return s.UserID != nil || s.Count != nil || s.Price != nil ||
		s.Time != nil || s.OrderID != nil || s.PaymentID != nil
}

// InvariantHolds checks the slot's status against its occupancy fields:
// EMPTY slots must carry no occupancy data, BOOKED slots must carry at
// least user, count and price, and PENDING slots must have a user
// assigned.
func (s *ReservationSlot) InvariantHolds() bool {
	switch s.Status {
	case StatusEmpty:
		return !s.Occupied()
	case StatusBooked:
		return s.UserID != nil && s.Count != nil && s.Price != nil
	case StatusPending:
		return s.UserID != nil
	default:
		return false
	}
}
