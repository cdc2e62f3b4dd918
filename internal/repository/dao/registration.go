package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrAlreadyCheckedIn     = errors.New("already checked in")
	ErrRegistrationNotFound = errors.New("registration not found")
)

type Registration struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint `gorm:"not null;uniqueIndex:idx_registrations_user_event"`
	EventID uint `gorm:"not null;uniqueIndex:idx_registrations_user_event"`

	// QRCode is the per-registration check-in token, distinct from the
	// owning event's QR code.
	QRCode    string `gorm:"unique;not null"`
	CheckedIn bool   `gorm:"not null;default:false"`

	User  User  `gorm:"foreignKey:UserID"`
	Event Event `gorm:"foreignKey:EventID"`

	CreatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Insert relies on the composite unique index to reject a second
// registration for the same (user, event) pair, so there is no pre-read the
// insert could race against.
func (d *RegistrationDAO) Insert(ctx context.Context, registration Registration) (Registration, error) {
	result := d.db.WithContext(ctx).Create(&registration)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) {
			if err.Code == pgerrcode.UniqueViolation &&
				strings.Contains(err.Message, `"idx_registrations_user_event"`) {
				return Registration{}, ErrAlreadyRegistered
			}
			if err.Code == pgerrcode.ForeignKeyViolation {
				return Registration{}, ErrEventNotFound
			}
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByQRCode(ctx context.Context, qrCode string) (Registration, error) {
	var registration Registration

	result := d.db.WithContext(ctx).First(&registration, "qr_code = ?", qrCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return registration, nil
}

// MarkCheckedIn flips checked_in in a single conditional update. The row
// count decides between success and "already checked in", so two concurrent
// scans can never both succeed.
func (d *RegistrationDAO) MarkCheckedIn(ctx context.Context, id uint) (Registration, error) {
	result := d.db.WithContext(ctx).Model(&Registration{}).
		Where("id = ? AND checked_in = ?", id, false).
		Update("checked_in", true)
	if result.Error != nil {
		return Registration{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Registration{}, ErrAlreadyCheckedIn
	}

	var registration Registration
	if err := d.db.WithContext(ctx).First(&registration, id).Error; err != nil {
		return Registration{}, err
	}

	return registration, nil
}

func (d *RegistrationDAO) FindByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) ([]Registration, error) {
	var registrations []Registration

	query := d.db.WithContext(ctx).Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at DESC")
	if onlyCheckedIn {
		query = query.Where("checked_in = ?", true)
	}

	result := query.Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) FindByUserID(ctx context.Context, userID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

func (d *RegistrationDAO) CountByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) (int64, error) {
	var count int64

	query := d.db.WithContext(ctx).Model(&Registration{}).Where("event_id = ?", eventID)
	if onlyCheckedIn {
		query = query.Where("checked_in = ?", true)
	}

	result := query.Count(&count)

	return count, result.Error
}

func (d *RegistrationDAO) Count(ctx context.Context, onlyCheckedIn bool) (int64, error) {
	var count int64

	query := d.db.WithContext(ctx).Model(&Registration{})
	if onlyCheckedIn {
		query = query.Where("checked_in = ?", true)
	}

	result := query.Count(&count)

	return count, result.Error
}

func (d *RegistrationDAO) CountByCreator(ctx context.Context, creatorID uint, onlyCheckedIn bool) (int64, error) {
	var count int64

	query := d.db.WithContext(ctx).Model(&Registration{}).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("events.created_by = ?", creatorID)
	if onlyCheckedIn {
		query = query.Where("registrations.checked_in = ?", true)
	}

	result := query.Count(&count)

	return count, result.Error
}
