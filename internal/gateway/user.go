package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// UserClient talks to the User Directory for customer display data.
type UserClient struct {
	base string
	hc   *http.Client
}

// NewUserClient returns a client rooted at base.
func NewUserClient(base string, hc *http.Client) *UserClient {
	return &UserClient{base: base, hc: hc}
}

// Get fetches a user's name and phone number.
func (c *UserClient) Get(ctx context.Context, userID string) (*model.User, error) {
	raw, err := do(ctx, c.hc, "user-directory", http.MethodGet, c.base+"/api/user/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := decodeData("user-directory", raw, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = userID
	}
	return &u, nil
}
