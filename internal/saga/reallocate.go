package saga

import (
	"context"
	"log"

	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// ReallocationOrchestrator fills a freed slot from the restaurant's
// waitlist: next-candidate selection, PENDING assignment, notification
// and waitlist removal. Confirmation to BOOKED happens later, when the
// candidate accepts (AcceptOrchestrator).
type ReallocationOrchestrator struct {
	reservations ReservationStore
	orders       OrderStore
	users        UserDirectory
	waitlist     WaitlistDirectory
	events       EventPublisher
}

// NewReallocationOrchestrator wires the orchestrator to its
// collaborators.
func NewReallocationOrchestrator(
	reservations ReservationStore,
	orders OrderStore,
	users UserDirectory,
	waitlist WaitlistDirectory,
	events EventPublisher,
) *ReallocationOrchestrator {
	return &ReallocationOrchestrator{
		reservations: reservations,
		orders:       orders,
		users:        users,
		waitlist:     waitlist,
		events:       events,
	}
}

// Reallocation result statuses.
const (
	StatusResultPending = "pending" // slot assigned, awaiting acceptance
	StatusResultDeleted = "deleted" // waitlist empty, slot removed
)

// ReallocateResult reports the outcome of one reallocation attempt.
type ReallocateResult struct {
	Status        string   `json:"status"`
	ReservationID int64    `json:"reservation_id"`
	UserID        string   `json:"user_id,omitempty"`
	TableNo       int64    `json:"table_no,omitempty"`
	Message       string   `json:"message,omitempty"`
	Degraded      []string `json:"degraded,omitempty"`
}

// Reallocate assigns the freed slot to the next waitlisted user. When
// the waitlist is empty the slot is deleted outright — an unfilled
// slot is removed rather than left empty indefinitely, so it cannot
// re-enter normal booking flow until externally recreated — and the
// call reports terminal success, not an error. A candidate with
// incomplete directory data fails the reallocation before the slot is
// touched, since the notice could never be delivered.
func (o *ReallocationOrchestrator) Reallocate(ctx context.Context, reservationID, restaurantID int64) (*ReallocateResult, error) {
	candidate, err := o.waitlist.Next(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if candidate == "" {
		if err := o.reservations.Delete(ctx, reservationID); err != nil {
			return nil, err
		}
		return &ReallocateResult{
			Status:        StatusResultDeleted,
			ReservationID: reservationID,
			Message:       msgNoWaitlistUsers,
		}, nil
	}

	user, err := o.users.Get(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if user.Name == "" || user.Phone == "" {
		return nil, ErrIncompleteUserData
	}

	// Recover the candidate's most recent order so its order and
	// payment ids carry into the assignment; having none is fine.
	var orderID *int64
	var paymentID *string
	if orders, err := o.orders.ListByUser(ctx, candidate); err != nil {
		log.Printf("saga: list orders for %s failed: %v", candidate, err)
	} else if len(orders) > 0 {
		latest := orders[0]
		orderID = &latest.ID
		if latest.PaymentID != "" {
			pid := latest.PaymentID
			paymentID = &pid
		}
	}

	slot, err := o.reservations.Assign(ctx, reservationID, candidate, orderID, paymentID)
	if err != nil {
		return nil, err
	}

	res := &ReallocateResult{
		Status:        StatusResultPending,
		ReservationID: reservationID,
		UserID:        candidate,
	}
	if slot.TableNo != nil {
		res.TableNo = *slot.TableNo
	}

	ok := o.events.Publish(ctx, queue.RoutingKeyReallocationNotice, queue.ReallocationNoticeEvent{
		MessageType: queue.RoutingKeyReallocationNotice,
		UserID:      candidate,
		UserName:    user.Name,
		UserPhone:   user.Phone,
		TableNo:     res.TableNo,
	})
	if !ok {
		res.Degraded = append(res.Degraded, "reallocation notice failed")
	}

	// The notice is already out; failing to dequeue must not undo the
	// assignment.
	if err := o.waitlist.Remove(ctx, candidate); err != nil {
		log.Printf("saga: remove %s from waitlist failed: %v", candidate, err)
		res.Degraded = append(res.Degraded, "waitlist removal failed")
	}
	return res, nil
}
