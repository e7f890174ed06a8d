package api

import (
	"context"
	"net/http"

	"cinepoll/internal/domain/user"
)

// ProfileInput carries the editable profile fields. Zero-valued fields are
// omitted so the server only touches what the user changed.
type ProfileInput struct {
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Cinemas    []string `json:"preferred_cinemas,omitempty"`
	IsVerified bool     `json:"is_verified,omitempty"`
}

// UpdateProfile replaces profile fields and returns the canonical record.
func (c *Client) UpdateProfile(ctx context.Context, input ProfileInput) (user.User, error) {
	var updated user.User
	err := c.do(ctx, http.MethodPut, "/profile/", true, input, &updated, "Failed to update profile")
	return updated, err
}
