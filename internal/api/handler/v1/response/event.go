package response

import "github.com/hungtabe/ezevent-api/internal/domain"

type EventResponse struct {
	Event domain.Event `json:"event"`
}

type EventsResponse struct {
	Events []domain.Event `json:"events"`
	Total  int            `json:"total"`
}

// AvailableEvent augments an event with the caller's registration state.
type AvailableEvent struct {
	domain.Event
	IsRegistered   bool `json:"is_registered"`
	RegistrationID uint `json:"registration_id,omitempty"`
}

type AvailableEventsResponse struct {
	Events []AvailableEvent `json:"events"`
	Total  int              `json:"total"`
}

type EventRolesResponse struct {
	Roles []domain.EventRole `json:"roles"`
}
