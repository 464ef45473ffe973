package model

import "time"

// Order types. Dine-in orders are created as dine_in_pending and
// patched to dine_in only once a table is confirmed; delivery orders
// never transition.
const (
	OrderTypeDineInPending = "dine_in_pending"
	OrderTypeDineIn        = "dine_in"
	OrderTypeDelivery      = "delivery"
)

// Order mirrors a row in the external Order Store. The saga only
// creates, patches and deletes these records; it never owns them.
//
// Fields:
//  ID           – orders.order_id.
//  UserID       – customer who placed the order.
//  RestaurantID – restaurant the order is against.
//  ItemName     – ordered item.
//  Quantity     – number of items.
//  OrderPrice   – total order price.
//  PaymentID    – Stripe payment intent for the order.
//  OrderType    – dine_in_pending, dine_in or delivery.
//  CreatedAt    – creation timestamp.
type Order struct {
	ID           int64     `json:"order_id"`
	UserID       string    `json:"user_id"`
	RestaurantID int64     `json:"restaurant_id"`
	ItemName     string    `json:"item_name"`
	Quantity     int64     `json:"quantity"`
	OrderPrice   float64   `json:"order_price"`
	PaymentID    string    `json:"payment_id"`
	OrderType    string    `json:"order_type"`
	CreatedAt    time.Time `json:"created_at"`
}
