package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventRoleNotFound = errors.New("event role not found")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string

	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null"`
	Location  string
	ImageURL  string

	Status string `gorm:"not null;default:PENDING"` // "PENDING", "APPROVED", "REJECTED" or "CANCELLED"

	// QRCode identifies the event for registration-by-scan. It is not the
	// per-registration check-in token.
	QRCode   string `gorm:"unique;not null"`
	ShareURL string

	CreatedBy uint `gorm:"index;not null"`
	Creator   User `gorm:"foreignKey:CreatedBy"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventRole struct {
	ID uint `gorm:"primaryKey"`

	EventID uint   `gorm:"index;not null"`
	UserID  uint   `gorm:"not null"`
	Role    string `gorm:"not null"` // "OWNER", "ADMIN" or "MEMBER"
	User    User   `gorm:"foreignKey:UserID"`

	CreatedAt time.Time `gorm:"not null"`
}

// EventWithCount is the row shape of list queries that join registrations.
type EventWithCount struct {
	Event
	RegistrationCount int64
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

// Insert creates the event and writes its share URL (which embeds the
// generated ID) in the same transaction.
func (d *EventDAO) Insert(ctx context.Context, event Event, baseURL string) (Event, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		event.ShareURL = fmt.Sprintf("%v/events/%v", baseURL, event.ID)

		return tx.Model(&Event{}).Where("id = ?", event.ID).Update("share_url", event.ShareURL).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).Preload("Creator").First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByQRCode(ctx context.Context, qrCode string) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "qr_code = ?", qrCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) UpdateStatus(ctx context.Context, id uint, status string) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) FindAllByStatus(ctx context.Context, status string) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("start_time DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// FindAll returns every event regardless of status, each with its
// registration count.
func (d *EventDAO) FindAll(ctx context.Context) ([]EventWithCount, error) {
	var rows []EventWithCount

	result := d.db.WithContext(ctx).Model(&Event{}).
		Select("events.*, count(registrations.id) AS registration_count").
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id").
		Group("events.id").
		Order("start_time DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *EventDAO) FindByCreator(ctx context.Context, userID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("start_time DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// FindAvailable returns approved events that have not ended yet, soonest
// first, each with its registration count.
func (d *EventDAO) FindAvailable(ctx context.Context, now time.Time) ([]EventWithCount, error) {
	var rows []EventWithCount

	result := d.db.WithContext(ctx).Model(&Event{}).
		Select("events.*, count(registrations.id) AS registration_count").
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id").
		Where("events.status = ? AND events.end_time >= ?", "APPROVED", now).
		Group("events.id").
		Order("start_time ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *EventDAO) FindRecentByCreator(ctx context.Context, userID uint, limit int) ([]EventWithCount, error) {
	var rows []EventWithCount

	result := d.db.WithContext(ctx).Model(&Event{}).
		Select("events.*, count(registrations.id) AS registration_count").
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id").
		Where("events.created_by = ?", userID).
		Group("events.id").
		Order("start_time DESC").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *EventDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).Count(&count)

	return count, result.Error
}

func (d *EventDAO) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).Where("status = ?", status).Count(&count)

	return count, result.Error
}

func (d *EventDAO) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).Where("created_by = ?", userID).Count(&count)

	return count, result.Error
}

func (d *EventDAO) CountByStatusAndCreator(ctx context.Context, status string, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("status = ? AND created_by = ?", status, userID).
		Count(&count)

	return count, result.Error
}

func (d *EventDAO) CountActiveByCreator(ctx context.Context, userID uint, now time.Time) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("created_by = ? AND end_time >= ?", userID, now).
		Count(&count)

	return count, result.Error
}

func (d *EventDAO) CountUpcomingByCreator(ctx context.Context, userID uint, from, until time.Time) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("created_by = ? AND start_time >= ? AND start_time <= ?", userID, from, until).
		Count(&count)

	return count, result.Error
}

func (d *EventDAO) InsertRole(ctx context.Context, role EventRole) (EventRole, error) {
	result := d.db.WithContext(ctx).Create(&role)
	if result.Error != nil {
		return EventRole{}, result.Error
	}

	return role, nil
}

func (d *EventDAO) FindRolesByEventID(ctx context.Context, eventID uint) ([]EventRole, error) {
	var roles []EventRole

	result := d.db.WithContext(ctx).Preload("User").
		Where("event_id = ?", eventID).
		Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}
