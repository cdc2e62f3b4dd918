package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/pkg/token"
	"github.com/hungtabe/ezevent-api/internal/repository"
)

var (
	ErrAlreadyRegistered    = repository.ErrAlreadyRegistered
	ErrAlreadyCheckedIn     = repository.ErrAlreadyCheckedIn
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrEventNotApproved     = errors.New("event is not approved")
	ErrNotStudent           = errors.New("only students can register by scanning an event QR code")
	ErrWrongEvent           = errors.New("QR code does not belong to this event")
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration domain.Registration) (domain.Registration, error)
	FindByQRCode(ctx context.Context, qrCode string) (domain.Registration, error)
	MarkCheckedIn(ctx context.Context, id uint) (domain.Registration, error)
	FindByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) ([]domain.Registration, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Registration, error)
}

type RegistrationEventRepository interface {
	FindByQRCode(ctx context.Context, qrCode string) (domain.Event, error)
}

type RegistrationService struct {
	repo      RegistrationRepository
	eventRepo RegistrationEventRepository
}

func NewRegistrationService(repo RegistrationRepository, eventRepo RegistrationEventRepository) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		eventRepo: eventRepo,
	}
}

// Register claims a seat for the user. The one-registration-per-user-per-event
// rule is enforced by the storage layer's unique index; a duplicate attempt
// surfaces as ErrAlreadyRegistered. Each registration gets its own fresh scan
// token, never the event's.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID uint) (domain.Registration, error) {
	qrToken, err := token.New()
	if err != nil {
		return domain.Registration{}, fmt.Errorf("token.New -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Registration{
		UserID:  userID,
		EventID: eventID,
		QRCode:  qrToken,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			return domain.Registration{}, ErrAlreadyRegistered
		}
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Registration{}, ErrEventNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// RegisterByQR is the self-service path: a student scans an event's QR code.
// Only students may use it, and only for approved events.
func (s *RegistrationService) RegisterByQR(ctx context.Context, caller domain.User, eventQRCode string) (domain.Registration, error) {
	if caller.Role != domain.RoleStudent {
		return domain.Registration{}, ErrNotStudent
	}

	event, err := s.eventRepo.FindByQRCode(ctx, eventQRCode)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Registration{}, ErrEventNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.eventRepo.FindByQRCode -> %w", err)
	}

	if event.Status != domain.EventStatusApproved {
		return domain.Registration{}, ErrEventNotApproved
	}

	return s.Register(ctx, caller.ID, event.ID)
}

// CheckIn marks a registration as attended, exactly once. The lookup is by
// the registration's own token; eventID, when non-zero, scopes the scan to a
// single event. A second scan is a conflict, not a no-op.
func (s *RegistrationService) CheckIn(ctx context.Context, qrCode string, eventID uint) (domain.Registration, error) {
	registration, err := s.repo.FindByQRCode(ctx, qrCode)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return domain.Registration{}, ErrRegistrationNotFound
		}

		return domain.Registration{}, fmt.Errorf("s.repo.FindByQRCode -> %w", err)
	}

	if eventID != 0 && registration.EventID != eventID {
		return domain.Registration{}, ErrWrongEvent
	}

	updated, err := s.repo.MarkCheckedIn(ctx, registration.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCheckedIn) {
			return domain.Registration{}, ErrAlreadyCheckedIn
		}

		return domain.Registration{}, fmt.Errorf("s.repo.MarkCheckedIn -> %w", err)
	}

	return updated, nil
}

func (s *RegistrationService) ListByEvent(ctx context.Context, eventID uint, onlyCheckedIn bool) ([]domain.Registration, error) {
	registrations, err := s.repo.FindByEventID(ctx, eventID, onlyCheckedIn)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return registrations, nil
}

func (s *RegistrationService) ListByUser(ctx context.Context, userID uint) ([]domain.Registration, error) {
	registrations, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return registrations, nil
}
