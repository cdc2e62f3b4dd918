package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/pkg/token"
	"github.com/hungtabe/ezevent-api/internal/repository"
)

var (
	ErrEventNotFound = repository.ErrEventNotFound
	ErrNotEventOwner = errors.New("event does not belong to this user")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event, baseURL string) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindByQRCode(ctx context.Context, qrCode string) (domain.Event, error)
	UpdateStatus(ctx context.Context, id uint, status string) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	FindApproved(ctx context.Context) ([]domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	FindByCreator(ctx context.Context, userID uint) ([]domain.Event, error)
	FindAvailable(ctx context.Context, now time.Time) ([]domain.Event, error)
	GrantRole(ctx context.Context, role domain.EventRole) (domain.EventRole, error)
	FindRolesByEventID(ctx context.Context, eventID uint) ([]domain.EventRole, error)
}

type EventService struct {
	repo    EventRepository
	baseURL string
}

func NewEventService(repo EventRepository, baseURL string) *EventService {
	return &EventService{
		repo:    repo,
		baseURL: baseURL,
	}
}

// CreateEvent stores a new event for the given creator. Privileged creators
// (admin, organizer) skip the approval queue. The event QR token is generated
// here, synchronously, so no event ever exists without one.
func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, creator domain.User) (domain.Event, error) {
	event.CreatedBy = creator.ID
	if creator.EventsAutoApproved() {
		event.Status = domain.EventStatusApproved
	} else {
		event.Status = domain.EventStatusPending
	}

	qrToken, err := token.New()
	if err != nil {
		return domain.Event{}, fmt.Errorf("token.New -> %w", err)
	}
	event.QRCode = qrToken

	created, err := s.repo.Create(ctx, event, s.baseURL)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// SetStatus applies an admin approval decision. PENDING moves to APPROVED or
// REJECTED; there is no transition into CANCELLED.
func (s *EventService) SetStatus(ctx context.Context, eventID uint, status string) (domain.Event, error) {
	updated, err := s.repo.UpdateStatus(ctx, eventID, status)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID uint, caller domain.User) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !caller.CanManageEvent(event) {
		return ErrNotEventOwner
	}

	if err = s.repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// GetEventByQRCode resolves an event scan token, the preflight of the
// registration-by-scan flow.
func (s *EventService) GetEventByQRCode(ctx context.Context, qrCode string) (domain.Event, error) {
	event, err := s.repo.FindByQRCode(ctx, qrCode)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByQRCode -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListPublicEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindApproved -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListAllEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListMyEvents(ctx context.Context, userID uint) ([]domain.Event, error) {
	events, err := s.repo.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCreator -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListAvailableEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAvailable(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAvailable -> %w", err)
	}

	return events, nil
}

func (s *EventService) GrantEventRole(ctx context.Context, role domain.EventRole) (domain.EventRole, error) {
	if _, err := s.repo.FindByID(ctx, role.EventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.EventRole{}, ErrEventNotFound
		}

		return domain.EventRole{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	granted, err := s.repo.GrantRole(ctx, role)
	if err != nil {
		return domain.EventRole{}, fmt.Errorf("s.repo.GrantRole -> %w", err)
	}

	return granted, nil
}

func (s *EventService) ListEventRoles(ctx context.Context, eventID uint) ([]domain.EventRole, error) {
	roles, err := s.repo.FindRolesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRolesByEventID -> %w", err)
	}

	return roles, nil
}
