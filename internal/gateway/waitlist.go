package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// WaitlistClient talks to the Waitlist Directory, a FIFO queue of
// users waiting for a table per restaurant.
type WaitlistClient struct {
	base string
	hc   *http.Client
}

// NewWaitlistClient returns a client rooted at base.
func NewWaitlistClient(base string, hc *http.Client) *WaitlistClient {
	return &WaitlistClient{base: base, hc: hc}
}

// Next returns the user id of the next candidate for the restaurant.
// An empty waitlist is not an error: a 404 from the directory or its
// "none" sentinel both yield ("", nil).
func (c *WaitlistClient) Next(ctx context.Context, restaurantID int64) (string, error) {
	u := fmt.Sprintf("%s/waitlist/next?restaurant_id=%d", c.base, restaurantID)
	raw, err := do(ctx, c.hc, "waitlist-directory", http.MethodGet, u, nil)
	if err != nil {
		var ce *CollaboratorError
		if errors.As(err, &ce) && ce.NotFound() {
			return "", nil
		}
		return "", err
	}
	var data struct {
		UserID string `json:"user_id"`
	}
	if err := decodeData("waitlist-directory", raw, &data); err != nil {
		return "", err
	}
	if data.UserID == "" || data.UserID == "none" {
		return "", nil
	}
	return data.UserID, nil
}

// Enqueue appends a user to the restaurant's waitlist.
func (c *WaitlistClient) Enqueue(ctx context.Context, userID string, restaurantID int64, at time.Time) error {
	entry := model.WaitlistEntry{
		UserID:       userID,
		RestaurantID: restaurantID,
		EnqueuedAt:   at.UTC(),
	}
	_, err := do(ctx, c.hc, "waitlist-directory", http.MethodPost, c.base+"/waitlist", entry)
	return err
}

// Remove takes a user off the waitlist after they have been assigned a
// table.
func (c *WaitlistClient) Remove(ctx context.Context, userID string) error {
	_, err := do(ctx, c.hc, "waitlist-directory", http.MethodDelete, c.base+"/waitlist/"+url.PathEscape(userID), nil)
	return err
}
