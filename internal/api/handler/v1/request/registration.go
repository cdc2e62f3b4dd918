package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RegisterRequest struct {
	// UserID is optional; when omitted the caller registers themselves.
	UserID  uint `json:"user_id,omitempty"`
	EventID uint `json:"event_id"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
	)
}

type RegisterByQRRequest struct {
	QRCode string `json:"qr_code"`
}

func (req *RegisterByQRRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRCode, validation.Required),
	)
}

type CheckInRequest struct {
	QRCode string `json:"qr_code"`
	// EventID is optional; when set the scan is rejected unless the
	// registration belongs to that event.
	EventID uint `json:"event_id,omitempty"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRCode, validation.Required),
	)
}
