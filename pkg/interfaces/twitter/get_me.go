package twitter

import (
	"context"
	"fmt"
	"net/http"
)

// GetMe returns the authenticated user. It doubles as a credentials check.
func (c *TwitterClient) GetMe(ctx context.Context) (*User, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, c.config.MeEndpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var userResp UserResponse
	if err := c.decodeResponse(resp, &userResp); err != nil {
		return nil, err
	}
	if userResp.Data == nil {
		if len(userResp.Errors) > 0 {
			return nil, &userResp.Errors[0]
		}
		return nil, fmt.Errorf("authenticated user lookup returned no data")
	}
	return userResp.Data, nil
}
