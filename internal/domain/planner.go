package domain

import (
	"time"
)

// DateLayout is the wire format for civil dates (homework due dates, session dates).
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for times of day inside a study block.
const ClockLayout = "15:04"

// StudyBlock is a recurring weekly availability window.
// DayOfWeek follows the feed convention: 0 = Monday .. 6 = Sunday.
type StudyBlock struct {
	ID        string    `json:"id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// StudyPreferences is the per-user scheduling preferences singleton.
type StudyPreferences struct {
	SessionLengthMinutes int  `json:"study_session_length"`
	BreakLengthMinutes   int  `json:"break_length"`
	MaxDailyStudyMinutes int  `json:"max_daily_study_time"`
	CalendarSyncEnabled  bool `json:"calendar_sync_enabled"`
}

// DefaultStudyPreferences returns the preferences applied before the user
// customizes anything.
func DefaultStudyPreferences() StudyPreferences {
	return StudyPreferences{
		SessionLengthMinutes: 45,
		BreakLengthMinutes:   15,
		MaxDailyStudyMinutes: 180,
	}
}

// SessionTypeStudy is the only session type the packer emits.
const SessionTypeStudy = "study"

// ScheduledSession is one concrete study session derived by the packer.
// The persisted session list is fully replaced on every schedule rebuild.
type ScheduledSession struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration"`
	Subject         string    `json:"subject"`
	Type            string    `json:"type"`
	CreatedAt       time.Time `json:"created_at"`
}

// HomeworkItem is a read-only row from the external homework feed.
type HomeworkItem struct {
	ID               string `json:"id"`
	Subject          string `json:"subject"`
	Description      string `json:"description"`
	DueDate          string `json:"date"`
	Done             bool   `json:"done"`
	EstimatedMinutes int    `json:"estimated_time"`
}

// PriorityLevel buckets homework by urgency.
type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
)

// PrioritizedHomework is a homework item enriched with its computed priority.
// Lower score means higher priority.
type PrioritizedHomework struct {
	HomeworkItem
	PriorityScore float64       `json:"priority_score"`
	DaysUntilDue  int           `json:"days_until_due"`
	PriorityLevel PriorityLevel `json:"priority_level"`
}

// Test is an upcoming test from the external feed, used for subject selection.
type Test struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// CalendarType identifies an external calendar provider.
type CalendarType string

const (
	CalendarGoogle CalendarType = "google"
	CalendarApple  CalendarType = "apple"
	CalendarICal   CalendarType = "ical"
)

func (t CalendarType) IsValid() bool {
	switch t {
	case CalendarGoogle, CalendarApple, CalendarICal:
		return true
	}
	return false
}

// ExternalCalendar is a registered sync target. Actual provider sync is a stub.
type ExternalCalendar struct {
	ID          string       `json:"id"`
	Type        CalendarType `json:"type"`
	CalendarID  string       `json:"calendar_id"`
	AccessToken string       `json:"access_token,omitempty"`
	LastSynced  *time.Time   `json:"last_synced,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SyncResult reports the outcome of one calendar's sync attempt.
type SyncResult struct {
	CalendarID string       `json:"id"`
	Type       CalendarType `json:"type"`
	Message    string       `json:"message,omitempty"`
	Err        string       `json:"error,omitempty"`
}

// PlannerDoc is the persisted planner document for one user.
type PlannerDoc struct {
	StudyBlocks        []StudyBlock          `json:"study_blocks"`
	ScheduledSessions  []ScheduledSession    `json:"scheduled_sessions"`
	ExternalCalendars  []ExternalCalendar    `json:"external_calendars"`
	HomeworkPriorities []PrioritizedHomework `json:"homework_priorities"`
	Preferences        StudyPreferences      `json:"preferences"`
}

// NewPlannerDoc returns the default planner document.
func NewPlannerDoc() *PlannerDoc {
	return &PlannerDoc{Preferences: DefaultStudyPreferences()}
}
