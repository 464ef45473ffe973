package model

// Restaurant holds the subset of the Restaurant Directory record used
// by the sagas: the display name for notifications and the capacity
// the admission controller compares against.
type Restaurant struct {
	ID       int64  `json:"restaurant_id"`
	Name     string `json:"name"`
	Capacity int64  `json:"capacity"`
}
