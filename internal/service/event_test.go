package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/repository"
)

type mockEventRepo struct {
	createFn             func(ctx context.Context, event domain.Event, baseURL string) (domain.Event, error)
	findByIDFn           func(ctx context.Context, id uint) (domain.Event, error)
	findByQRCodeFn       func(ctx context.Context, qrCode string) (domain.Event, error)
	updateStatusFn       func(ctx context.Context, id uint, status string) (domain.Event, error)
	deleteFn             func(ctx context.Context, id uint) error
	findApprovedFn       func(ctx context.Context) ([]domain.Event, error)
	findAllFn            func(ctx context.Context) ([]domain.Event, error)
	findByCreatorFn      func(ctx context.Context, userID uint) ([]domain.Event, error)
	findAvailableFn      func(ctx context.Context, now time.Time) ([]domain.Event, error)
	grantRoleFn          func(ctx context.Context, role domain.EventRole) (domain.EventRole, error)
	findRolesByEventIDFn func(ctx context.Context, eventID uint) ([]domain.EventRole, error)
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event, baseURL string) (domain.Event, error) {
	return m.createFn(ctx, event, baseURL)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockEventRepo) FindByQRCode(ctx context.Context, qrCode string) (domain.Event, error) {
	return m.findByQRCodeFn(ctx, qrCode)
}

func (m *mockEventRepo) UpdateStatus(ctx context.Context, id uint, status string) (domain.Event, error) {
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockEventRepo) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

func (m *mockEventRepo) FindApproved(ctx context.Context) ([]domain.Event, error) {
	return m.findApprovedFn(ctx)
}

func (m *mockEventRepo) FindAll(ctx context.Context) ([]domain.Event, error) {
	return m.findAllFn(ctx)
}

func (m *mockEventRepo) FindByCreator(ctx context.Context, userID uint) ([]domain.Event, error) {
	return m.findByCreatorFn(ctx, userID)
}

func (m *mockEventRepo) FindAvailable(ctx context.Context, now time.Time) ([]domain.Event, error) {
	return m.findAvailableFn(ctx, now)
}

func (m *mockEventRepo) GrantRole(ctx context.Context, role domain.EventRole) (domain.EventRole, error) {
	return m.grantRoleFn(ctx, role)
}

func (m *mockEventRepo) FindRolesByEventID(ctx context.Context, eventID uint) ([]domain.EventRole, error) {
	return m.findRolesByEventIDFn(ctx, eventID)
}

func TestEventService_CreateEvent(t *testing.T) {
	t.Run("organizer events are approved immediately", func(t *testing.T) {
		var stored domain.Event
		repo := &mockEventRepo{
			createFn: func(_ context.Context, event domain.Event, baseURL string) (domain.Event, error) {
				stored = event
				assert.Equal(t, "http://localhost:8080", baseURL)
				event.ID = 4
				return event, nil
			},
		}
		svc := NewEventService(repo, "http://localhost:8080")

		created, err := svc.CreateEvent(context.Background(),
			domain.Event{Name: "Demo Day"},
			domain.User{ID: 2, Role: domain.RoleOrganizer},
		)

		require.NoError(t, err)
		assert.Equal(t, uint(4), created.ID)
		assert.Equal(t, domain.EventStatusApproved, stored.Status)
		assert.Equal(t, uint(2), stored.CreatedBy)
		assert.Len(t, stored.QRCode, 32)
	})

	t.Run("admin events are approved immediately", func(t *testing.T) {
		repo := &mockEventRepo{
			createFn: func(_ context.Context, event domain.Event, _ string) (domain.Event, error) {
				assert.Equal(t, domain.EventStatusApproved, event.Status)
				return event, nil
			},
		}
		svc := NewEventService(repo, "http://localhost:8080")

		_, err := svc.CreateEvent(context.Background(),
			domain.Event{Name: "Town Hall"},
			domain.User{ID: 1, Role: domain.RoleAdmin},
		)

		require.NoError(t, err)
	})

	t.Run("unprivileged creators start in the approval queue", func(t *testing.T) {
		repo := &mockEventRepo{
			createFn: func(_ context.Context, event domain.Event, _ string) (domain.Event, error) {
				assert.Equal(t, domain.EventStatusPending, event.Status)
				return event, nil
			},
		}
		svc := NewEventService(repo, "http://localhost:8080")

		_, err := svc.CreateEvent(context.Background(),
			domain.Event{Name: "Study Group"},
			domain.User{ID: 9, Role: domain.RoleStudent},
		)

		require.NoError(t, err)
	})

	t.Run("each event gets its own token", func(t *testing.T) {
		seen := make(map[string]bool)
		repo := &mockEventRepo{
			createFn: func(_ context.Context, event domain.Event, _ string) (domain.Event, error) {
				seen[event.QRCode] = true
				return event, nil
			},
		}
		svc := NewEventService(repo, "http://localhost:8080")

		for i := 0; i < 5; i++ {
			_, err := svc.CreateEvent(context.Background(),
				domain.Event{Name: "Repeat"},
				domain.User{ID: 2, Role: domain.RoleOrganizer},
			)
			require.NoError(t, err)
		}

		assert.Len(t, seen, 5)
	})
}

func TestEventService_SetStatus(t *testing.T) {
	t.Run("applies the decision", func(t *testing.T) {
		repo := &mockEventRepo{
			updateStatusFn: func(_ context.Context, id uint, status string) (domain.Event, error) {
				assert.Equal(t, uint(4), id)
				assert.Equal(t, domain.EventStatusApproved, status)
				return domain.Event{ID: 4, Status: status}, nil
			},
		}
		svc := NewEventService(repo, "")

		updated, err := svc.SetStatus(context.Background(), 4, domain.EventStatusApproved)

		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusApproved, updated.Status)
	})

	t.Run("unknown event surfaces as not found", func(t *testing.T) {
		repo := &mockEventRepo{
			updateStatusFn: func(_ context.Context, _ uint, _ string) (domain.Event, error) {
				return domain.Event{}, repository.ErrEventNotFound
			},
		}
		svc := NewEventService(repo, "")

		_, err := svc.SetStatus(context.Background(), 999, domain.EventStatusRejected)

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	event := domain.Event{ID: 4, CreatedBy: 2}

	t.Run("organizer deletes own event", func(t *testing.T) {
		deleted := false
		repo := &mockEventRepo{
			findByIDFn: func(_ context.Context, _ uint) (domain.Event, error) {
				return event, nil
			},
			deleteFn: func(_ context.Context, id uint) error {
				deleted = true
				assert.Equal(t, uint(4), id)
				return nil
			},
		}
		svc := NewEventService(repo, "")

		err := svc.DeleteEvent(context.Background(), 4, domain.User{ID: 2, Role: domain.RoleOrganizer})

		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("organizer cannot delete someone else's event", func(t *testing.T) {
		repo := &mockEventRepo{
			findByIDFn: func(_ context.Context, _ uint) (domain.Event, error) {
				return event, nil
			},
		}
		svc := NewEventService(repo, "")

		err := svc.DeleteEvent(context.Background(), 4, domain.User{ID: 3, Role: domain.RoleOrganizer})

		assert.ErrorIs(t, err, ErrNotEventOwner)
	})

	t.Run("admin deletes any event", func(t *testing.T) {
		repo := &mockEventRepo{
			findByIDFn: func(_ context.Context, _ uint) (domain.Event, error) {
				return event, nil
			},
			deleteFn: func(_ context.Context, _ uint) error {
				return nil
			},
		}
		svc := NewEventService(repo, "")

		err := svc.DeleteEvent(context.Background(), 4, domain.User{ID: 1, Role: domain.RoleAdmin})

		require.NoError(t, err)
	})

	t.Run("unknown event surfaces as not found", func(t *testing.T) {
		repo := &mockEventRepo{
			findByIDFn: func(_ context.Context, _ uint) (domain.Event, error) {
				return domain.Event{}, repository.ErrEventNotFound
			},
		}
		svc := NewEventService(repo, "")

		err := svc.DeleteEvent(context.Background(), 999, domain.User{ID: 1, Role: domain.RoleAdmin})

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventService_GrantEventRole(t *testing.T) {
	t.Run("grants after verifying the event exists", func(t *testing.T) {
		repo := &mockEventRepo{
			findByIDFn: func(_ context.Context, id uint) (domain.Event, error) {
				assert.Equal(t, uint(4), id)
				return domain.Event{ID: 4}, nil
			},
			grantRoleFn: func(_ context.Context, role domain.EventRole) (domain.EventRole, error) {
				role.ID = 1
				return role, nil
			},
		}
		svc := NewEventService(repo, "")

		granted, err := svc.GrantEventRole(context.Background(), domain.EventRole{
			EventID: 4,
			UserID:  5,
			Role:    domain.EventRoleMember,
		})

		require.NoError(t, err)
		assert.Equal(t, uint(1), granted.ID)
		assert.Equal(t, domain.EventRoleMember, granted.Role)
	})

	t.Run("rejects grants on unknown events", func(t *testing.T) {
		repo := &mockEventRepo{
			findByIDFn: func(_ context.Context, _ uint) (domain.Event, error) {
				return domain.Event{}, repository.ErrEventNotFound
			},
		}
		svc := NewEventService(repo, "")

		_, err := svc.GrantEventRole(context.Background(), domain.EventRole{EventID: 999, UserID: 5})

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
