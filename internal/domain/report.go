package domain

import "time"

// EventReport holds attendance figures for a single event.
type EventReport struct {
	EventID            uint    `json:"event_id"`
	TotalRegistrations int64   `json:"total_registrations"`
	TotalCheckins      int64   `json:"total_checkins"`
	AttendanceRate     float64 `json:"attendance_rate"`
}

// AggregateReport sums attendance figures across all events visible to the
// caller (admin: everything, organizer: own events).
type AggregateReport struct {
	TotalEvents        int64   `json:"total_events"`
	PendingEvents      int64   `json:"pending_events"`
	ApprovedEvents     int64   `json:"approved_events"`
	TotalRegistrations int64   `json:"total_registrations"`
	TotalCheckins      int64   `json:"total_checkins"`
	AttendanceRate     float64 `json:"attendance_rate"`
}

type EventSummary struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	StartTime        time.Time `json:"start_time"`
	ParticipantCount int64     `json:"participant_count"`
}

// OrganizerStats is the organizer dashboard payload.
type OrganizerStats struct {
	TotalEvents           int64          `json:"total_events"`
	ActiveEvents          int64          `json:"active_events"`
	UpcomingEvents        int64          `json:"upcoming_events"`
	CompletedEvents       int64          `json:"completed_events"`
	TotalParticipants     int64          `json:"total_participants"`
	CheckedInParticipants int64          `json:"checked_in_participants"`
	RecentEvents          []EventSummary `json:"recent_events"`
}
