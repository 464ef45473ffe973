package queue

// Routing keys for lifecycle events. The notification service binds a
// durable queue per key on the topic exchange; each key doubles as the
// message_type the SMS template table is keyed by.
const (
	RoutingKeyReservationConfirmation  = "reservation.confirmation"
	RoutingKeyReservationCancellation  = "reservation.cancellation"
	RoutingKeyReallocationNotice       = "reallocation.notice"
	RoutingKeyReallocationConfirmation = "reallocation.confirmation"
	RoutingKeyWaitlistNotification     = "waitlist.notification"
	RoutingKeyDeliveryConfirmation     = "delivery.order.confirmation"
)

// ExchangeName is the topic exchange all lifecycle events flow through.
const ExchangeName = "notification_topic"

// ReservationConfirmedEvent is published when a booking is created
// with a table immediately available.
type ReservationConfirmedEvent struct {
	MessageType    string  `json:"message_type"`
	ReservationID  int64   `json:"reservation_id"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	UserPhone      string  `json:"user_phone"`
	RestaurantID   int64   `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
	TableNo        int64   `json:"table_no"`
	Time           string  `json:"time"`
	Count          int64   `json:"count"`
	PaymentID      string  `json:"payment_id"`
	Price          float64 `json:"price"`
}

// ReservationCancelledEvent is published after a reservation is
// cancelled; refund_amount is the pre-cancellation price.
type ReservationCancelledEvent struct {
	MessageType   string  `json:"message_type"`
	ReservationID int64   `json:"reservation_id"`
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	UserPhone     string  `json:"user_phone"`
	TableNo       int64   `json:"table_no"`
	RefundAmount  float64 `json:"refund_amount"`
	PaymentID     string  `json:"payment_id"`
}

// ReallocationNoticeEvent tells a waitlisted user a table has been
// assigned to them pending their acceptance.
type ReallocationNoticeEvent struct {
	MessageType string `json:"message_type"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	UserPhone   string `json:"user_phone"`
	TableNo     int64  `json:"table_no"`
}

// ReallocationConfirmedEvent is published when a reallocated user
// accepts the booking and the slot is finalised under its new id.
type ReallocationConfirmedEvent struct {
	MessageType   string `json:"message_type"`
	ReservationID int64  `json:"reservation_id"`
	UserName      string `json:"user_name"`
	UserPhone     string `json:"user_phone"`
	TableNo       int64  `json:"table_no"`
	BookingTime   string `json:"booking_time"`
}

// WaitlistNotificationEvent tells a user their dine-in request was
// queued because the restaurant is at capacity.
type WaitlistNotificationEvent struct {
	MessageType    string `json:"message_type"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	UserPhone      string `json:"user_phone"`
	RestaurantID   int64  `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
}

// DeliveryConfirmedEvent confirms a delivery order. Driver details are
// filled in later by the out-of-scope delivery flow.
type DeliveryConfirmedEvent struct {
	MessageType    string  `json:"message_type"`
	OrderID        int64   `json:"order_id"`
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	UserPhone      string  `json:"user_phone"`
	RestaurantName string  `json:"restaurant_name"`
	ItemName       string  `json:"item_name"`
	Quantity       int64   `json:"quantity"`
	OrderPrice     float64 `json:"order_price"`
}
