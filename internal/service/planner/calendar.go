package planner

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// AddCalendar registers an external calendar as a sync target.
func (s *Service) AddCalendar(ctx context.Context, input AddCalendarInput) (*domain.ExternalCalendar, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cal := domain.ExternalCalendar{
		ID:          s.newID(),
		Type:        input.Type,
		CalendarID:  input.CalendarID,
		AccessToken: input.AccessToken,
		CreatedAt:   s.now(),
	}

	err := s.update(ctx, func(doc *domain.PlannerDoc) error {
		doc.ExternalCalendars = append(doc.ExternalCalendars, cal)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("external calendar added", "calendar_id", cal.ID, "type", cal.Type)
	return &cal, nil
}

// RemoveCalendar deletes a registered calendar.
func (s *Service) RemoveCalendar(ctx context.Context, calendarID string) error {
	if calendarID == "" {
		return domain.NewValidationError("calendar_id", "required")
	}

	return s.update(ctx, func(doc *domain.PlannerDoc) error {
		for i := range doc.ExternalCalendars {
			if doc.ExternalCalendars[i].ID == calendarID {
				doc.ExternalCalendars = append(doc.ExternalCalendars[:i], doc.ExternalCalendars[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("calendar %s: %w", calendarID, domain.ErrNotFound)
	})
}

// ListCalendars returns the registered calendars.
func (s *Service) ListCalendars(ctx context.Context) ([]domain.ExternalCalendar, error) {
	var cals []domain.ExternalCalendar
	err := s.view(ctx, func(doc *domain.PlannerDoc) error {
		cals = doc.ExternalCalendars
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cals, nil
}

// ExportICal renders the sessions within [from, to] as an RFC 5545 calendar.
// All timestamps are UTC.
func (s *Service) ExportICal(ctx context.Context, from, to string) (string, error) {
	username, err := s.username(ctx)
	if err != nil {
		return "", err
	}

	sessions, err := s.Sessions(ctx, from, to)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//StudyHall//Study Schedule//EN")
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(fmt.Sprintf("StudyHall Schedule - %s", username))
	cal.SetXWRTimezone("UTC")

	now := s.now().UTC()
	for _, sess := range sessions {
		start, err := sessionTime(sess.Date, sess.StartTime)
		if err != nil {
			s.log.Warn("skipping unparsable session in export", "session_id", sess.ID, "error", err)
			continue
		}
		end, err := sessionTime(sess.Date, sess.EndTime)
		if err != nil {
			s.log.Warn("skipping unparsable session in export", "session_id", sess.ID, "error", err)
			continue
		}

		event := cal.AddEvent(sess.ID)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("Study: %s", sess.Subject))
		event.SetDescription(fmt.Sprintf("Study session for %s\nDuration: %d minutes", sess.Subject, sess.DurationMinutes))
	}

	return cal.Serialize(), nil
}

func sessionTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(domain.DateLayout+" "+domain.ClockLayout, date+" "+clock, time.UTC)
}

// SyncCalendars pushes the next 30 days of sessions to every registered
// calendar. Provider integration is not wired up; each target is marked
// attempted and its last_synced timestamp is refreshed.
func (s *Service) SyncCalendars(ctx context.Context) ([]domain.SyncResult, error) {
	today := s.today().Format(domain.DateLayout)
	end := s.today().AddDate(0, 0, 30).Format(domain.DateLayout)

	if _, err := s.ExportICal(ctx, today, end); err != nil {
		return nil, fmt.Errorf("render schedule: %w", err)
	}

	var results []domain.SyncResult
	err := s.update(ctx, func(doc *domain.PlannerDoc) error {
		now := s.now()
		for i := range doc.ExternalCalendars {
			cal := &doc.ExternalCalendars[i]
			results = append(results, domain.SyncResult{
				CalendarID: cal.ID,
				Type:       cal.Type,
				Message:    fmt.Sprintf("%s sync not implemented yet", cal.Type),
			})
			cal.LastSynced = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
