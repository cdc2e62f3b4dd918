package repository

import (
	"context"
	"fmt"

	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/repository/dao"
)

var (
	ErrAlreadyRegistered    = dao.ErrAlreadyRegistered
	ErrAlreadyCheckedIn     = dao.ErrAlreadyCheckedIn
	ErrRegistrationNotFound = dao.ErrRegistrationNotFound
)

type RegistrationDAO interface {
	Insert(ctx context.Context, registration dao.Registration) (dao.Registration, error)
	FindByQRCode(ctx context.Context, qrCode string) (dao.Registration, error)
	MarkCheckedIn(ctx context.Context, id uint) (dao.Registration, error)
	FindByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) ([]dao.Registration, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Registration, error)
	CountByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) (int64, error)
	Count(ctx context.Context, onlyCheckedIn bool) (int64, error)
	CountByCreator(ctx context.Context, creatorID uint, onlyCheckedIn bool) (int64, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, registration domain.Registration) (domain.Registration, error) {
	created, err := r.dao.Insert(ctx, dao.Registration{
		UserID:  registration.UserID,
		EventID: registration.EventID,
		QRCode:  registration.QRCode,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return registrationDaoToDomain(created), nil
}

func (r *RegistrationRepository) FindByQRCode(ctx context.Context, qrCode string) (domain.Registration, error) {
	found, err := r.dao.FindByQRCode(ctx, qrCode)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByQRCode -> %w", err)
	}

	return registrationDaoToDomain(found), nil
}

func (r *RegistrationRepository) MarkCheckedIn(ctx context.Context, id uint) (domain.Registration, error) {
	updated, err := r.dao.MarkCheckedIn(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.MarkCheckedIn -> %w", err)
	}

	return registrationDaoToDomain(updated), nil
}

func (r *RegistrationRepository) FindByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) ([]domain.Registration, error) {
	found, err := r.dao.FindByEventID(ctx, eventID, onlyCheckedIn)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

func (r *RegistrationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return registrationsDaoToDomain(found), nil
}

func (r *RegistrationRepository) CountByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) (int64, error) {
	return r.dao.CountByEventID(ctx, eventID, onlyCheckedIn)
}

func (r *RegistrationRepository) Count(ctx context.Context, onlyCheckedIn bool) (int64, error) {
	return r.dao.Count(ctx, onlyCheckedIn)
}

func (r *RegistrationRepository) CountByCreator(ctx context.Context, creatorID uint, onlyCheckedIn bool) (int64, error) {
	return r.dao.CountByCreator(ctx, creatorID, onlyCheckedIn)
}

func registrationDaoToDomain(reg dao.Registration) domain.Registration {
	result := domain.Registration{
		ID:        reg.ID,
		UserID:    reg.UserID,
		EventID:   reg.EventID,
		QRCode:    reg.QRCode,
		CheckedIn: reg.CheckedIn,
		CreatedAt: reg.CreatedAt,
	}
	if reg.User.ID != 0 {
		user := userDaoToDomain(reg.User)
		result.User = &user
	}
	if reg.Event.ID != 0 {
		event := eventDaoToDomain(reg.Event)
		result.Event = &event
	}

	return result
}

func registrationsDaoToDomain(daoRegs []dao.Registration) []domain.Registration {
	registrations := make([]domain.Registration, 0, len(daoRegs))
	for _, reg := range daoRegs {
		registrations = append(registrations, registrationDaoToDomain(reg))
	}

	return registrations
}
