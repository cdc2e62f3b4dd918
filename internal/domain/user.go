package domain

import "time"

const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleStudent   = "STUDENT"
)

type User struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Organization string    `json:"organization,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanCreateEvents reports whether the user may create events at all.
func (u User) CanCreateEvents() bool {
	return u.Role == RoleAdmin || u.Role == RoleOrganizer
}

// EventsAutoApproved reports whether events created by this user skip the
// admin approval queue.
func (u User) EventsAutoApproved() bool {
	return u.Role == RoleAdmin || u.Role == RoleOrganizer
}

// CanManageEvent reports whether the user may approve, delete or inspect
// registrations of the given event. Admins manage everything, organizers
// only what they created.
func (u User) CanManageEvent(ev Event) bool {
	if u.Role == RoleAdmin {
		return true
	}

	return u.Role == RoleOrganizer && ev.CreatedBy == u.ID
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOrganizer, RoleStudent:
		return true
	}

	return false
}
