package domain

import "time"

const (
	EventStatusPending   = "PENDING"
	EventStatusApproved  = "APPROVED"
	EventStatusRejected  = "REJECTED"
	EventStatusCancelled = "CANCELLED"
)

type Event struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      string    `json:"status"`
	QRCode      string    `json:"qr_code"`
	ShareURL    string    `json:"share_url"`
	CreatedBy   uint      `json:"created_by"`
	Creator     *User     `json:"creator,omitempty"`

	// RegistrationCount is populated by list queries that join registrations.
	RegistrationCount int64 `json:"registration_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidEventStatus(status string) bool {
	switch status {
	case EventStatusPending, EventStatusApproved, EventStatusRejected, EventStatusCancelled:
		return true
	}

	return false
}
