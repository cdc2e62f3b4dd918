package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("skipping dao tests, dockertest unavailable: %v", err)
		os.Exit(0)
	}

	if err = pool.Client.Ping(); err != nil {
		log.Printf("skipping dao tests, docker unavailable: %v", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=ezevent_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=ezevent_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func mustInsertUser(t *testing.T, email string) User {
	t.Helper()

	user, err := NewUserDAO(testDB).Insert(context.Background(), User{
		Email:    email,
		Password: "hashed",
		Role:     "STUDENT",
		Name:     "Test User",
	})
	require.NoError(t, err)

	return user
}

func mustInsertEvent(t *testing.T, creatorID uint, qrCode, status string) Event {
	t.Helper()

	now := time.Now()
	event, err := NewEventDAO(testDB).Insert(context.Background(), Event{
		Name:      "Test Event",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(3 * time.Hour),
		Status:    status,
		QRCode:    qrCode,
		CreatedBy: creatorID,
	}, "http://localhost:8080")
	require.NoError(t, err)

	return event
}

func TestUserDAO_Insert_DuplicateEmail(t *testing.T) {
	mustInsertUser(t, "dup@example.com")

	_, err := NewUserDAO(testDB).Insert(context.Background(), User{
		Email:    "dup@example.com",
		Password: "hashed",
		Role:     "STUDENT",
	})

	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestEventDAO_Insert_WritesShareURL(t *testing.T) {
	creator := mustInsertUser(t, "creator@example.com")

	event := mustInsertEvent(t, creator.ID, "evt-share-url", "APPROVED")

	assert.Equal(t, fmt.Sprintf("http://localhost:8080/events/%v", event.ID), event.ShareURL)

	fetched, err := NewEventDAO(testDB).FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ShareURL, fetched.ShareURL)
	assert.Equal(t, creator.ID, fetched.Creator.ID)
}

func TestEventDAO_UpdateStatus(t *testing.T) {
	creator := mustInsertUser(t, "approver@example.com")
	event := mustInsertEvent(t, creator.ID, "evt-pending", "PENDING")

	updated, err := NewEventDAO(testDB).UpdateStatus(context.Background(), event.ID, "APPROVED")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", updated.Status)

	_, err = NewEventDAO(testDB).UpdateStatus(context.Background(), 999999, "APPROVED")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegistrationDAO_Insert_Duplicate(t *testing.T) {
	user := mustInsertUser(t, "attendee@example.com")
	event := mustInsertEvent(t, user.ID, "evt-dup-reg", "APPROVED")

	registrationDAO := NewRegistrationDAO(testDB)

	_, err := registrationDAO.Insert(context.Background(), Registration{
		UserID:  user.ID,
		EventID: event.ID,
		QRCode:  "reg-tok-1",
	})
	require.NoError(t, err)

	_, err = registrationDAO.Insert(context.Background(), Registration{
		UserID:  user.ID,
		EventID: event.ID,
		QRCode:  "reg-tok-2",
	})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegistrationDAO_Insert_UnknownEvent(t *testing.T) {
	user := mustInsertUser(t, "lost@example.com")

	_, err := NewRegistrationDAO(testDB).Insert(context.Background(), Registration{
		UserID:  user.ID,
		EventID: 999999,
		QRCode:  "reg-tok-3",
	})

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegistrationDAO_MarkCheckedIn_ExactlyOnce(t *testing.T) {
	user := mustInsertUser(t, "scanner@example.com")
	event := mustInsertEvent(t, user.ID, "evt-checkin", "APPROVED")

	registrationDAO := NewRegistrationDAO(testDB)

	registration, err := registrationDAO.Insert(context.Background(), Registration{
		UserID:  user.ID,
		EventID: event.ID,
		QRCode:  "reg-tok-checkin",
	})
	require.NoError(t, err)

	const scans = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := registrationDAO.MarkCheckedIn(context.Background(), registration.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, ErrAlreadyCheckedIn):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, scans-1, conflicts)

	fetched, err := registrationDAO.FindByQRCode(context.Background(), "reg-tok-checkin")
	require.NoError(t, err)
	assert.True(t, fetched.CheckedIn)
}

func TestRegistrationDAO_CountByCreator(t *testing.T) {
	organizer := mustInsertUser(t, "counter@example.com")
	attendee := mustInsertUser(t, "counted@example.com")
	event := mustInsertEvent(t, organizer.ID, "evt-count", "APPROVED")

	registrationDAO := NewRegistrationDAO(testDB)

	registration, err := registrationDAO.Insert(context.Background(), Registration{
		UserID:  attendee.ID,
		EventID: event.ID,
		QRCode:  "reg-tok-count",
	})
	require.NoError(t, err)

	total, err := registrationDAO.CountByCreator(context.Background(), organizer.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	checkedIn, err := registrationDAO.CountByCreator(context.Background(), organizer.ID, true)
	require.NoError(t, err)
	assert.Zero(t, checkedIn)

	_, err = registrationDAO.MarkCheckedIn(context.Background(), registration.ID)
	require.NoError(t, err)

	checkedIn, err = registrationDAO.CountByCreator(context.Background(), organizer.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), checkedIn)
}

func TestEventDAO_FindAvailable(t *testing.T) {
	creator := mustInsertUser(t, "available@example.com")

	now := time.Now()
	eventDAO := NewEventDAO(testDB)

	upcoming := mustInsertEvent(t, creator.ID, "evt-upcoming", "APPROVED")

	_, err := eventDAO.Insert(context.Background(), Event{
		Name:      "Ended Event",
		StartTime: now.Add(-3 * time.Hour),
		EndTime:   now.Add(-time.Hour),
		Status:    "APPROVED",
		QRCode:    "evt-ended",
		CreatedBy: creator.ID,
	}, "http://localhost:8080")
	require.NoError(t, err)

	rows, err := eventDAO.FindAvailable(context.Background(), now)
	require.NoError(t, err)

	ids := make(map[uint]bool, len(rows))
	for _, row := range rows {
		ids[row.ID] = true
		assert.Equal(t, "APPROVED", row.Status)
	}
	assert.True(t, ids[upcoming.ID])

	for _, row := range rows {
		assert.False(t, row.EndTime.Before(now))
	}
}
