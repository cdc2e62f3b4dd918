package response

import "github.com/hungtabe/ezevent-api/internal/domain"

// RegisterResponse carries the stored registration together with its scan
// token, both raw and rendered as a QR image for display.
type RegisterResponse struct {
	Registration domain.Registration `json:"registration"`
	QRCodeImage  string              `json:"qr_code_image"`
	QRCodeData   string              `json:"qr_code_data"`
}

type CheckInResponse struct {
	Message      string              `json:"message"`
	Registration domain.Registration `json:"registration"`
}

type RegistrationsResponse struct {
	Registrations []domain.Registration `json:"registrations"`
	Total         int                   `json:"total"`
}
