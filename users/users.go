package users

import (
	"strings"
	"time"
)

// Role is a named permission bundle assigned to a user by the API.
type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Group is a set of users sharing roles.
type Group struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User is the profile returned by /users/me. The session layer only cares
// whether one is present; the views display it.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	Roles     []Role    `json:"roles,omitempty"`
	Groups    []Group   `json:"groups,omitempty"`
}

// DisplayName is the name shown in the page header.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.Username); name != "" {
		return name
	}
	return u.Email
}

// HasRole checks if the user has been granted the named role
func (u *User) HasRole(name string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}
