package domain

import "time"

type Registration struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	EventID   uint      `json:"event_id"`
	QRCode    string    `json:"qr_code"`
	CheckedIn bool      `json:"checked_in"`
	User      *User     `json:"user,omitempty"`
	Event     *Event    `json:"event,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	EventRoleOwner  = "OWNER"
	EventRoleAdmin  = "ADMIN"
	EventRoleMember = "MEMBER"
)

// EventRole is a supplementary per-event authorization grant.
type EventRole struct {
	ID      uint   `json:"id"`
	EventID uint   `json:"event_id"`
	UserID  uint   `json:"user_id"`
	Role    string `json:"role"`
	User    *User  `json:"user,omitempty"`
}

func ValidEventRole(role string) bool {
	switch role {
	case EventRoleOwner, EventRoleAdmin, EventRoleMember:
		return true
	}

	return false
}
