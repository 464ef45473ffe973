package model

// User holds the display data the sagas need about a customer when
// composing notifications. The authoritative record lives in the
// external User Directory.
type User struct {
	ID    string `json:"user_id"`
	Name  string `json:"customer_name"`
	Phone string `json:"phone_number"`
}
