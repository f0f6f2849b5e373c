package models

import "time"

// User is a Linear workspace member.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName,omitempty"`
	Email       string     `json:"email,omitempty"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	Active      bool       `json:"active,omitempty"`
	Admin       bool       `json:"admin,omitempty"`
	Timezone    string     `json:"timezone,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitzero"`
	UpdatedAt   time.Time  `json:"updatedAt,omitzero"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}
