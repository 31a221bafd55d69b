package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// InternalUser represents a user account stored in the internal database.
// PasswordHash is empty for accounts created through an identity provider.
type InternalUser struct {
	UserID          string    `json:"user_id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	PasswordHash    string    `json:"password_hash,omitempty"`
	Provider        string    `json:"provider"`
	Role            string    `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	ModifiedAt      time.Time `json:"modified_at"`
}

// DisplayName returns "First Last", falling back to the email address.
func (u *InternalUser) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
