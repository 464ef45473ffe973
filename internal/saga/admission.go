package saga

import (
	"context"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Decision is the admission controller's verdict for a dine-in request.
type Decision int

const (
	// Admit means a table is available and the booking proceeds.
	Admit Decision = iota
	// Waitlist means the restaurant is at capacity and the requester
	// is queued instead.
	Waitlist
)

func (d Decision) String() string {
	if d == Admit {
		return "ADMIT"
	}
	return "WAITLIST"
}

// AdmissionController decides whether a dine-in request gets a table
// immediately or goes on the waitlist. The check is count-then-decide:
// it reads the restaurant capacity and the current number of active
// dine_in orders, with no lock spanning the read and the subsequent
// reservation write. Concurrent admissions can therefore race past
// capacity; this is a known consistency gap of the platform, not
// something this controller hides.
type AdmissionController struct {
	restaurants RestaurantDirectory
	orders      OrderStore
}

// NewAdmissionController wires the controller to its two reads.
func NewAdmissionController(restaurants RestaurantDirectory, orders OrderStore) *AdmissionController {
	return &AdmissionController{restaurants: restaurants, orders: orders}
}

// Admit returns Admit iff the count of active dine_in orders for the
// restaurant is below its capacity. requestedCount (party size) is
// accepted for interface stability but does not factor into the
// arithmetic: capacity is compared against order count, not seated
// covers.
func (a *AdmissionController) Admit(ctx context.Context, restaurantID, requestedCount int64) (Decision, error) {
	_ = requestedCount

	restaurant, err := a.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return Waitlist, err
	}
	active, err := a.orders.ListByRestaurantAndType(ctx, restaurantID, model.OrderTypeDineIn)
	if err != nil {
		return Waitlist, err
	}
	if int64(len(active)) < restaurant.Capacity {
		return Admit, nil
	}
	return Waitlist, nil
}
