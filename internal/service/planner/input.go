package planner

import (
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

// AddBlockInput holds the parameters for registering a weekly study block.
type AddBlockInput struct {
	DayOfWeek int    // 0 = Monday .. 6 = Sunday
	StartTime string // "15:04"
	EndTime   string
}

// Validate checks all fields and collects all errors.
func (i *AddBlockInput) Validate() error {
	var errs []domain.FieldError

	if i.DayOfWeek < 0 || i.DayOfWeek > 6 {
		errs = append(errs, domain.FieldError{Field: "day_of_week", Message: "must be between 0 (Monday) and 6 (Sunday)"})
	}

	start, startErr := time.Parse(domain.ClockLayout, i.StartTime)
	if startErr != nil {
		errs = append(errs, domain.FieldError{Field: "start_time", Message: "must be HH:MM"})
	}
	end, endErr := time.Parse(domain.ClockLayout, i.EndTime)
	if endErr != nil {
		errs = append(errs, domain.FieldError{Field: "end_time", Message: "must be HH:MM"})
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		errs = append(errs, domain.FieldError{Field: "end_time", Message: "must be after start_time"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdatePreferencesInput holds partial preference updates; nil fields are
// left unchanged.
type UpdatePreferencesInput struct {
	SessionLengthMinutes *int
	BreakLengthMinutes   *int
	MaxDailyStudyMinutes *int
	CalendarSyncEnabled  *bool
}

// Validate checks all fields and collects all errors.
func (i *UpdatePreferencesInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionLengthMinutes != nil && *i.SessionLengthMinutes < MinSessionMinutes {
		errs = append(errs, domain.FieldError{Field: "study_session_length", Message: "must be at least 15 minutes"})
	}
	if i.BreakLengthMinutes != nil && *i.BreakLengthMinutes < 0 {
		errs = append(errs, domain.FieldError{Field: "break_length", Message: "must be non-negative"})
	}
	if i.MaxDailyStudyMinutes != nil && *i.MaxDailyStudyMinutes <= 0 {
		errs = append(errs, domain.FieldError{Field: "max_daily_study_time", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// BuildScheduleInput holds the parameters for rebuilding the study schedule.
type BuildScheduleInput struct {
	StartDate string // "2006-01-02"; empty means today
	DaysAhead int    // 0 falls back to the configured horizon
	Homework  []domain.HomeworkItem
	Tests     []domain.Test
}

// Validate checks all fields and collects all errors.
func (i *BuildScheduleInput) Validate() error {
	var errs []domain.FieldError

	if i.StartDate != "" {
		if _, err := time.Parse(domain.DateLayout, i.StartDate); err != nil {
			errs = append(errs, domain.FieldError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if i.DaysAhead < 0 || i.DaysAhead > 90 {
		errs = append(errs, domain.FieldError{Field: "days_ahead", Message: "must be between 0 and 90"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AddCalendarInput holds the parameters for registering an external calendar.
type AddCalendarInput struct {
	Type        domain.CalendarType
	CalendarID  string
	AccessToken string
}

// Validate checks all fields and collects all errors.
func (i *AddCalendarInput) Validate() error {
	var errs []domain.FieldError

	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be google, apple, or ical"})
	}
	if i.CalendarID == "" {
		errs = append(errs, domain.FieldError{Field: "calendar_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
