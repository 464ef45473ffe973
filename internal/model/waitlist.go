package model

import "time"

// WaitlistEntry is a user queued for a table at a restaurant. Entries
// are FIFO per restaurant and owned by the external Waitlist
// Directory; the sagas only enqueue, ask for the next candidate and
// remove.
type WaitlistEntry struct {
	UserID       string    `json:"user_id"`
	RestaurantID int64     `json:"restaurant_id"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}
