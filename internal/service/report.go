package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hungtabe/ezevent-api/internal/domain"
)

const upcomingWindow = 7 * 24 * time.Hour

type ReportRegistrationRepository interface {
	CountByEventID(ctx context.Context, eventID uint, onlyCheckedIn bool) (int64, error)
	Count(ctx context.Context, onlyCheckedIn bool) (int64, error)
	CountByCreator(ctx context.Context, creatorID uint, onlyCheckedIn bool) (int64, error)
}

type ReportEventRepository interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByCreator(ctx context.Context, userID uint) (int64, error)
	CountByStatusAndCreator(ctx context.Context, status string, userID uint) (int64, error)
	CountActiveByCreator(ctx context.Context, userID uint, now time.Time) (int64, error)
	CountUpcomingByCreator(ctx context.Context, userID uint, from, until time.Time) (int64, error)
	FindRecentByCreator(ctx context.Context, userID uint, limit int) ([]domain.Event, error)
}

type ReportService struct {
	registrationRepo ReportRegistrationRepository
	eventRepo        ReportEventRepository
}

func NewReportService(registrationRepo ReportRegistrationRepository, eventRepo ReportEventRepository) *ReportService {
	return &ReportService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
	}
}

func (s *ReportService) EventReport(ctx context.Context, eventID uint) (domain.EventReport, error) {
	total, err := s.registrationRepo.CountByEventID(ctx, eventID, false)
	if err != nil {
		return domain.EventReport{}, fmt.Errorf("s.registrationRepo.CountByEventID -> %w", err)
	}

	checkins, err := s.registrationRepo.CountByEventID(ctx, eventID, true)
	if err != nil {
		return domain.EventReport{}, fmt.Errorf("s.registrationRepo.CountByEventID -> %w", err)
	}

	return domain.EventReport{
		EventID:            eventID,
		TotalRegistrations: total,
		TotalCheckins:      checkins,
		AttendanceRate:     attendanceRate(checkins, total),
	}, nil
}

// AggregateReport sums figures over every event the caller can see: all of
// them for admins, own events for organizers.
func (s *ReportService) AggregateReport(ctx context.Context, caller domain.User) (domain.AggregateReport, error) {
	var (
		report domain.AggregateReport
		err    error
	)

	if caller.Role == domain.RoleAdmin {
		if report.TotalEvents, err = s.eventRepo.Count(ctx); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.eventRepo.Count -> %w", err)
		}
		if report.PendingEvents, err = s.eventRepo.CountByStatus(ctx, domain.EventStatusPending); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.eventRepo.CountByStatus -> %w", err)
		}
		if report.ApprovedEvents, err = s.eventRepo.CountByStatus(ctx, domain.EventStatusApproved); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.eventRepo.CountByStatus -> %w", err)
		}
		if report.TotalRegistrations, err = s.registrationRepo.Count(ctx, false); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.registrationRepo.Count -> %w", err)
		}
		if report.TotalCheckins, err = s.registrationRepo.Count(ctx, true); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.registrationRepo.Count -> %w", err)
		}
	} else {
		if report.TotalEvents, err = s.eventRepo.CountByCreator(ctx, caller.ID); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.eventRepo.CountByCreator -> %w", err)
		}
		if report.PendingEvents, err = s.eventRepo.CountByStatusAndCreator(ctx, domain.EventStatusPending, caller.ID); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.eventRepo.CountByStatusAndCreator -> %w", err)
		}
		if report.ApprovedEvents, err = s.eventRepo.CountByStatusAndCreator(ctx, domain.EventStatusApproved, caller.ID); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.eventRepo.CountByStatusAndCreator -> %w", err)
		}
		if report.TotalRegistrations, err = s.registrationRepo.CountByCreator(ctx, caller.ID, false); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.registrationRepo.CountByCreator -> %w", err)
		}
		if report.TotalCheckins, err = s.registrationRepo.CountByCreator(ctx, caller.ID, true); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("s.registrationRepo.CountByCreator -> %w", err)
		}
	}

	report.AttendanceRate = attendanceRate(report.TotalCheckins, report.TotalRegistrations)

	return report, nil
}

func (s *ReportService) OrganizerStats(ctx context.Context, organizerID uint) (domain.OrganizerStats, error) {
	now := time.Now()

	var (
		stats domain.OrganizerStats
		err   error
	)

	if stats.TotalEvents, err = s.eventRepo.CountByCreator(ctx, organizerID); err != nil {
		return domain.OrganizerStats{}, fmt.Errorf("s.eventRepo.CountByCreator -> %w", err)
	}
	if stats.ActiveEvents, err = s.eventRepo.CountActiveByCreator(ctx, organizerID, now); err != nil {
		return domain.OrganizerStats{}, fmt.Errorf("s.eventRepo.CountActiveByCreator -> %w", err)
	}
	if stats.UpcomingEvents, err = s.eventRepo.CountUpcomingByCreator(ctx, organizerID, now, now.Add(upcomingWindow)); err != nil {
		return domain.OrganizerStats{}, fmt.Errorf("s.eventRepo.CountUpcomingByCreator -> %w", err)
	}
	if stats.TotalParticipants, err = s.registrationRepo.CountByCreator(ctx, organizerID, false); err != nil {
		return domain.OrganizerStats{}, fmt.Errorf("s.registrationRepo.CountByCreator -> %w", err)
	}
	if stats.CheckedInParticipants, err = s.registrationRepo.CountByCreator(ctx, organizerID, true); err != nil {
		return domain.OrganizerStats{}, fmt.Errorf("s.registrationRepo.CountByCreator -> %w", err)
	}
	stats.CompletedEvents = stats.TotalEvents - stats.ActiveEvents

	recent, err := s.eventRepo.FindRecentByCreator(ctx, organizerID, 5)
	if err != nil {
		return domain.OrganizerStats{}, fmt.Errorf("s.eventRepo.FindRecentByCreator -> %w", err)
	}

	stats.RecentEvents = make([]domain.EventSummary, 0, len(recent))
	for _, event := range recent {
		stats.RecentEvents = append(stats.RecentEvents, domain.EventSummary{
			ID:               event.ID,
			Name:             event.Name,
			StartTime:        event.StartTime,
			ParticipantCount: event.RegistrationCount,
		})
	}

	return stats, nil
}

// attendanceRate is checkins/total as a percentage, one decimal place,
// zero when there are no registrations.
func attendanceRate(checkins, total int64) float64 {
	if total == 0 {
		return 0
	}

	return math.Round(float64(checkins)/float64(total)*1000) / 10
}
