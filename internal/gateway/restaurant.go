package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RestaurantClient talks to the Restaurant Directory for display names
// and seating capacity.
type RestaurantClient struct {
	base string
	hc   *http.Client
}

// NewRestaurantClient returns a client rooted at base.
func NewRestaurantClient(base string, hc *http.Client) *RestaurantClient {
	return &RestaurantClient{base: base, hc: hc}
}

// Get fetches a restaurant record.
func (c *RestaurantClient) Get(ctx context.Context, restaurantID int64) (*model.Restaurant, error) {
	raw, err := do(ctx, c.hc, "restaurant-directory", http.MethodGet, fmt.Sprintf("%s/api/restaurants/%d", c.base, restaurantID), nil)
	if err != nil {
		return nil, err
	}
	var r model.Restaurant
	if err := decodeData("restaurant-directory", raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
