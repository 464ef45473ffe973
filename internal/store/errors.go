// Package store is the Reservation Store: the narrowly-scoped record
// service that owns the reservation slot rows. The sagas reach it
// through the collaborator gateway; the store itself knows nothing
// about orchestration and only enforces row-level transition
// mechanics (pre-image capture on cancel, identity re-key on confirm,
// free-table selection on create).
package store

import "errors"

// ErrSlotNotFound is returned when no reservation row matches the
// requested id. Handlers translate this into an HTTP 404 response.
var ErrSlotNotFound = errors.New("reservation not found")

// ErrNoFreeTable is returned when a create request finds no EMPTY
// slot at the restaurant. Handlers translate this into an HTTP 409
// response.
var ErrNoFreeTable = errors.New("no free table")
