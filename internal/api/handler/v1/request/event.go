package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errEndBeforeStart = errors.New("end_time must be after start_time")

type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.StartTime, validation.Required),
		validation.Field(&req.EndTime, validation.Required),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Location, validation.Length(0, 200)),
	)
	if err != nil {
		return err
	}

	if !req.EndTime.After(req.StartTime) {
		return errEndBeforeStart
	}

	return nil
}

type ApproveEventRequest struct {
	EventID uint   `json:"event_id"`
	Status  string `json:"status"`
}

func (req *ApproveEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Status, validation.Required, validation.In("APPROVED", "REJECTED")),
	)
}

type DeleteEventRequest struct {
	ID uint `json:"id"`
}

func (req *DeleteEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ID, validation.Required, validation.Min(uint(1))),
	)
}

type GrantEventRoleRequest struct {
	EventID uint   `json:"event_id"`
	UserID  uint   `json:"user_id"`
	Role    string `json:"role"`
}

func (req *GrantEventRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Role, validation.Required, validation.In("OWNER", "ADMIN", "MEMBER")),
	)
}
