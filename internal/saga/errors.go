package saga

import "errors"

// ValidationError rejects malformed input before any side effect has
// happened. Handlers translate it into HTTP 400.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// ErrIncompleteUserData aborts a reallocation when the candidate's
// directory record lacks a name or phone number: without them the
// notification cannot be sent, so the reservation is left untouched.
var ErrIncompleteUserData = errors.New("incomplete user details")

// ErrNoWaitlistUsers is carried in the reallocation result message
// when the waitlist is drained; it is a terminal success, not an
// error.
const msgNoWaitlistUsers = "no users in waitlist"
