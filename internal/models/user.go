package models

import "github.com/maimon495/gratitude/internal/constants"

// User is the signed-in identity
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Provider    string `json:"provider"`
}

// Greeting returns the display name, falling back to a generic one.
func (u User) Greeting() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return constants.DefaultDisplayName
}
