package user

import "strings"

// User is the client-held record of the authenticated identity. It is the
// shape persisted to the state store between runs.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Cinemas   []string `json:"preferredCinemas,omitempty"`
	IsAdmin   bool     `json:"isAdmin,omitempty"`
}

// DisplayName synthesizes a presentable name from first/last name, falling
// back to the email address.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return u.Email
}
