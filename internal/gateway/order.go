package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// OrderClient talks to the Order Store.
type OrderClient struct {
	base string
	hc   *http.Client
}

// NewOrderClient returns a client rooted at base.
func NewOrderClient(base string, hc *http.Client) *OrderClient {
	return &OrderClient{base: base, hc: hc}
}

// CreateOrderRequest carries a new order. OrderType must be delivery
// or dine_in_pending at creation time; dine_in is only reachable via
// PatchType once a table is confirmed.
type CreateOrderRequest struct {
	UserID       string  `json:"user_id"`
	RestaurantID int64   `json:"restaurant_id"`
	ItemName     string  `json:"item_name"`
	Quantity     int64   `json:"quantity"`
	OrderPrice   float64 `json:"order_price"`
	PaymentID    string  `json:"payment_id"`
	OrderType    string  `json:"order_type"`
}

// Create inserts a new order and returns the stored record.
func (c *OrderClient) Create(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	raw, err := do(ctx, c.hc, "order-store", http.MethodPost, c.base+"/api/orders", req)
	if err != nil {
		return nil, err
	}
	var ord model.Order
	if err := decodeData("order-store", raw, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// PatchType updates an order's type, e.g. dine_in_pending -> dine_in
// after a table is confirmed.
func (c *OrderClient) PatchType(ctx context.Context, orderID int64, orderType string) error {
	body := map[string]string{"order_type": orderType}
	_, err := do(ctx, c.hc, "order-store", http.MethodPatch, fmt.Sprintf("%s/api/orders/%d/type", c.base, orderID), body)
	return err
}

// Delete removes an order, used after a successful refund.
func (c *OrderClient) Delete(ctx context.Context, orderID int64) error {
	_, err := do(ctx, c.hc, "order-store", http.MethodDelete, fmt.Sprintf("%s/api/orders/%d", c.base, orderID), nil)
	return err
}

// ListByUser returns the user's orders, most recent first. A 404 from
// the store means the user simply has no orders and yields an empty
// slice, not an error.
func (c *OrderClient) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	raw, err := do(ctx, c.hc, "order-store", http.MethodGet, c.base+"/api/orders/user/"+url.PathEscape(userID), nil)
	if err != nil {
		var ce *CollaboratorError
		if errors.As(err, &ce) && ce.NotFound() {
			return nil, nil
		}
		return nil, err
	}
	var data struct {
		Orders []model.Order `json:"orders"`
	}
	if err := decodeData("order-store", raw, &data); err != nil {
		return nil, err
	}
	return data.Orders, nil
}

// ListByRestaurantAndType returns the restaurant's orders filtered by
// order type. The admission controller counts dine_in orders through
// this call. A 404 means zero matching orders.
func (c *OrderClient) ListByRestaurantAndType(ctx context.Context, restaurantID int64, orderType string) ([]model.Order, error) {
	u := fmt.Sprintf("%s/api/orders/restaurant/%d?type=%s", c.base, restaurantID, url.QueryEscape(orderType))
	raw, err := do(ctx, c.hc, "order-store", http.MethodGet, u, nil)
	if err != nil {
		var ce *CollaboratorError
		if errors.As(err, &ce) && ce.NotFound() {
			return nil, nil
		}
		return nil, err
	}
	var data struct {
		Orders []model.Order `json:"orders"`
	}
	if err := decodeData("order-store", raw, &data); err != nil {
		return nil, err
	}
	return data.Orders, nil
}
