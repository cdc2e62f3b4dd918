package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event, baseURL string) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindByQRCode(ctx context.Context, qrCode string) (dao.Event, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
	FindAllByStatus(ctx context.Context, status string) ([]dao.Event, error)
	FindAll(ctx context.Context) ([]dao.EventWithCount, error)
	FindByCreator(ctx context.Context, userID uint) ([]dao.Event, error)
	FindAvailable(ctx context.Context, now time.Time) ([]dao.EventWithCount, error)
	FindRecentByCreator(ctx context.Context, userID uint, limit int) ([]dao.EventWithCount, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByCreator(ctx context.Context, userID uint) (int64, error)
	CountByStatusAndCreator(ctx context.Context, status string, userID uint) (int64, error)
	CountActiveByCreator(ctx context.Context, userID uint, now time.Time) (int64, error)
	CountUpcomingByCreator(ctx context.Context, userID uint, from, until time.Time) (int64, error)
	InsertRole(ctx context.Context, role dao.EventRole) (dao.EventRole, error)
	FindRolesByEventID(ctx context.Context, eventID uint) ([]dao.EventRole, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event, baseURL string) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Name:        event.Name,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		Location:    event.Location,
		ImageURL:    event.ImageURL,
		Status:      event.Status,
		QRCode:      event.QRCode,
		CreatedBy:   event.CreatedBy,
	}, baseURL)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	event := eventDaoToDomain(found)
	if found.Creator.ID != 0 {
		creator := userDaoToDomain(found.Creator)
		event.Creator = &creator
	}

	return event, nil
}

func (r *EventRepository) FindByQRCode(ctx context.Context, qrCode string) (domain.Event, error) {
	found, err := r.dao.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByQRCode -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uint, status string) (domain.Event, error) {
	updated, err := r.dao.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return eventDaoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) FindApproved(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAllByStatus(ctx, domain.EventStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllByStatus -> %w", err)
	}

	return eventsDaoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return eventsWithCountToDomain(found), nil
}

func (r *EventRepository) FindByCreator(ctx context.Context, userID uint) ([]domain.Event, error) {
	found, err := r.dao.FindByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCreator -> %w", err)
	}

	return eventsDaoToDomain(found), nil
}

func (r *EventRepository) FindAvailable(ctx context.Context, now time.Time) ([]domain.Event, error) {
	found, err := r.dao.FindAvailable(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAvailable -> %w", err)
	}

	return eventsWithCountToDomain(found), nil
}

func (r *EventRepository) FindRecentByCreator(ctx context.Context, userID uint, limit int) ([]domain.Event, error) {
	found, err := r.dao.FindRecentByCreator(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRecentByCreator -> %w", err)
	}

	return eventsWithCountToDomain(found), nil
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	return r.dao.Count(ctx)
}

func (r *EventRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.dao.CountByStatus(ctx, status)
}

func (r *EventRepository) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	return r.dao.CountByCreator(ctx, userID)
}

func (r *EventRepository) CountByStatusAndCreator(ctx context.Context, status string, userID uint) (int64, error) {
	return r.dao.CountByStatusAndCreator(ctx, status, userID)
}

func (r *EventRepository) CountActiveByCreator(ctx context.Context, userID uint, now time.Time) (int64, error) {
	return r.dao.CountActiveByCreator(ctx, userID, now)
}

func (r *EventRepository) CountUpcomingByCreator(ctx context.Context, userID uint, from, until time.Time) (int64, error) {
	return r.dao.CountUpcomingByCreator(ctx, userID, from, until)
}

func (r *EventRepository) GrantRole(ctx context.Context, role domain.EventRole) (domain.EventRole, error) {
	created, err := r.dao.InsertRole(ctx, dao.EventRole{
		EventID: role.EventID,
		UserID:  role.UserID,
		Role:    role.Role,
	})
	if err != nil {
		return domain.EventRole{}, fmt.Errorf("r.dao.InsertRole -> %w", err)
	}

	return eventRoleDaoToDomain(created), nil
}

func (r *EventRepository) FindRolesByEventID(ctx context.Context, eventID uint) ([]domain.EventRole, error) {
	found, err := r.dao.FindRolesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRolesByEventID -> %w", err)
	}

	roles := make([]domain.EventRole, 0, len(found))
	for _, role := range found {
		roles = append(roles, eventRoleDaoToDomain(role))
	}

	return roles, nil
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Location:    e.Location,
		ImageURL:    e.ImageURL,
		Status:      e.Status,
		QRCode:      e.QRCode,
		ShareURL:    e.ShareURL,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func eventsDaoToDomain(daoEvents []dao.Event) []domain.Event {
	events := make([]domain.Event, 0, len(daoEvents))
	for _, e := range daoEvents {
		events = append(events, eventDaoToDomain(e))
	}

	return events
}

func eventsWithCountToDomain(rows []dao.EventWithCount) []domain.Event {
	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		event := eventDaoToDomain(row.Event)
		event.RegistrationCount = row.RegistrationCount
		events = append(events, event)
	}

	return events
}

func eventRoleDaoToDomain(role dao.EventRole) domain.EventRole {
	result := domain.EventRole{
		ID:      role.ID,
		EventID: role.EventID,
		UserID:  role.UserID,
		Role:    role.Role,
	}
	if role.User.ID != 0 {
		user := userDaoToDomain(role.User)
		result.User = &user
	}

	return result
}
