package saga

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
)

// ReallocationTrigger hands a freed slot over to the reallocation
// flow. The cancellation saga treats it as fire-and-forget: the
// trigger's outcome never blocks or fails the cancellation response.
type ReallocationTrigger interface {
	Trigger(reservationID, restaurantID int64)
}

// AsyncReallocationTrigger runs the reallocation orchestrator in its
// own goroutine with a detached, bounded context, logging (not
// escalating) any failure.
type AsyncReallocationTrigger struct {
	Reallocator *ReallocationOrchestrator
	Timeout     time.Duration
}

// Trigger starts the reallocation in the background.
func (t *AsyncReallocationTrigger) Trigger(reservationID, restaurantID int64) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := t.Reallocator.Reallocate(ctx, reservationID, restaurantID); err != nil {
			log.Printf("saga: reallocation for reservation %d failed: %v", reservationID, err)
		}
	}()
}

// CancellationOrchestrator drives a cancellation to completion:
// reservation clearing, refund, order cleanup, notification and the
// reallocation trigger.
type CancellationOrchestrator struct {
	reservations ReservationStore
	orders       OrderStore
	users        UserDirectory
	payments     PaymentGateway
	events       EventPublisher
	reallocation ReallocationTrigger
}

// NewCancellationOrchestrator wires the orchestrator to its
// collaborators.
func NewCancellationOrchestrator(
	reservations ReservationStore,
	orders OrderStore,
	users UserDirectory,
	payments PaymentGateway,
	events EventPublisher,
	reallocation ReallocationTrigger,
) *CancellationOrchestrator {
	return &CancellationOrchestrator{
		reservations: reservations,
		orders:       orders,
		users:        users,
		payments:     payments,
		events:       events,
		reallocation: reallocation,
	}
}

// CancelBookingResult reports a completed cancellation. RefundID is
// empty when no payment was attached or the refund failed; a failed
// refund appears in Degraded so the caller can reconcile.
type CancelBookingResult struct {
	Status        string   `json:"status"`
	ReservationID int64    `json:"reservation_id"`
	RefundAmount  float64  `json:"refund_amount"`
	RefundID      string   `json:"refund_id,omitempty"`
	Degraded      []string `json:"degraded,omitempty"`
}

// CancelBooking cancels the reservation and runs the best-effort tail:
// refund, order deletion, notification, reallocation trigger. Only the
// reservation cancel itself is terminal; once the slot is cleared the
// cancellation is reported successful regardless of what follows.
func (o *CancellationOrchestrator) CancelBooking(ctx context.Context, reservationID int64) (*CancelBookingResult, error) {
	pre, err := o.reservations.Cancel(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	res := &CancelBookingResult{
		Status:        "empty",
		ReservationID: reservationID,
		RefundAmount:  pre.RefundAmount,
	}

	userName := fallbackUserName
	userPhone := ""
	if u, err := o.users.Get(ctx, pre.UserID); err != nil {
		log.Printf("saga: fetch user %s failed: %v", pre.UserID, err)
		res.Degraded = append(res.Degraded, "user lookup failed")
	} else {
		userName = u.Name
		userPhone = u.Phone
	}

	paymentID := ""
	if pre.PaymentID != nil && *pre.PaymentID != "" {
		paymentID = *pre.PaymentID
		refund, err := o.payments.Refund(ctx, paymentID, &pre.RefundAmount)
		if err != nil {
			// The slot is already cleared; surface the failed refund
			// instead of aborting.
			log.Printf("saga: refund %s failed: %v", paymentID, err)
			res.Degraded = append(res.Degraded, fmt.Sprintf("refund failed: %v", err))
		} else {
			res.RefundID = refund.ID
			if pre.OrderID != nil {
				if err := o.orders.Delete(ctx, *pre.OrderID); err != nil {
					log.Printf("saga: delete order %d failed: %v", *pre.OrderID, err)
					res.Degraded = append(res.Degraded, "order cleanup failed")
				}
			}
		}
	}

	ok := o.events.Publish(ctx, queue.RoutingKeyReservationCancellation, queue.ReservationCancelledEvent{
		MessageType:   queue.RoutingKeyReservationCancellation,
		ReservationID: reservationID,
		UserID:        pre.UserID,
		UserName:      userName,
		UserPhone:     userPhone,
		TableNo:       pre.TableNo,
		RefundAmount:  pre.RefundAmount,
		PaymentID:     paymentID,
	})
	if !ok {
		res.Degraded = append(res.Degraded, "cancellation notification failed")
	}

	o.reallocation.Trigger(reservationID, pre.RestaurantID)
	return res, nil
}
