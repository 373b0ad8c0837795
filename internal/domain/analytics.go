package domain

import (
	"time"
)

// Period selects the reporting window for study data.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// SessionStats holds per-grade counters for one completed flashcard session.
type SessionStats struct {
	Failed int `json:"failed"`
	Hard   int `json:"hard"`
	Good   int `json:"good"`
	Easy   int `json:"easy"`
	Total  int `json:"total"`
}

// Correct returns the number of cards counted as known (good or easy).
func (s SessionStats) Correct() int { return s.Good + s.Easy }

// StudySessionRecord is one tracked flashcard study session.
type StudySessionRecord struct {
	ID              string       `json:"id"`
	Type            string       `json:"type"`
	SetID           string       `json:"set_id"`
	SetName         string       `json:"set_name"`
	Subject         string       `json:"subject"`
	Date            time.Time    `json:"date"`
	DayOfWeek       int          `json:"day_of_week"` // 0 = Monday .. 6 = Sunday
	HourOfDay       int          `json:"hour_of_day"`
	DurationSeconds int          `json:"duration"`
	Stats           SessionStats `json:"stats"`
	Performance     float64      `json:"performance"`
}

// SubjectPerformance aggregates review outcomes per subject.
type SubjectPerformance struct {
	Sessions         int     `json:"sessions"`
	TotalCards       int     `json:"total_cards"`
	CorrectCards     int     `json:"correct_cards"`
	TotalTimeSeconds int     `json:"total_time"`
	Mastery          float64 `json:"mastery"`
}

// BucketStats aggregates activity for one day/week/month bucket.
type BucketStats struct {
	StudyTimeSeconds int      `json:"study_time"`
	CardsReviewed    int      `json:"cards_reviewed"`
	CorrectCards     int      `json:"correct_cards"`
	Sessions         int      `json:"sessions"`
	DaysStudied      []string `json:"days_studied,omitempty"`
}

// StudyHabits holds preferences derived from session history.
type StudyHabits struct {
	BestStudyHour    *int     `json:"best_study_time"`
	BestStudyDays    []int    `json:"best_study_days"`
	FavoriteSubjects []string `json:"favorite_subjects"`
}

// AnalyticsDoc is the persisted analytics document for one user.
type AnalyticsDoc struct {
	Sessions           []StudySessionRecord           `json:"study_sessions"`
	SubjectPerformance map[string]*SubjectPerformance `json:"subject_performance"`
	DailyStats         map[string]*BucketStats        `json:"daily_stats"`
	WeeklyStats        map[string]*BucketStats        `json:"weekly_stats"`
	MonthlyStats       map[string]*BucketStats        `json:"monthly_stats"`
	StudyStreak        int                            `json:"study_streak"`
	LastStudyDate      string                         `json:"last_study_date,omitempty"`
	TotalStudySeconds  int                            `json:"total_study_time"`
	Habits             StudyHabits                    `json:"preferences"`
}

// NewAnalyticsDoc returns the empty analytics document.
func NewAnalyticsDoc() *AnalyticsDoc {
	return &AnalyticsDoc{
		SubjectPerformance: map[string]*SubjectPerformance{},
		DailyStats:         map[string]*BucketStats{},
		WeeklyStats:        map[string]*BucketStats{},
		MonthlyStats:       map[string]*BucketStats{},
	}
}

// ActivitySeries is time-bucketed study activity for charts.
type ActivitySeries struct {
	Labels        []string `json:"labels"`
	Minutes       []int    `json:"data"`
	CardsReviewed []int    `json:"cards_reviewed"`
}

// SubjectSeries is per-subject mastery data for a radar chart.
type SubjectSeries struct {
	Labels  []string  `json:"labels"`
	Mastery []float64 `json:"data"`
	Hours   []float64 `json:"time"`
	Cards   []int     `json:"cards"`
}

// ProgressSeries tracks the mastered/learning/not-started split over time.
type ProgressSeries struct {
	Labels     []string `json:"labels"`
	Mastered   []int    `json:"mastered"`
	Learning   []int    `json:"learning"`
	NotStarted []int    `json:"not_started"`
}

// HeatmapCell is one day-of-week x hour-of-day activity cell (minutes studied).
type HeatmapCell struct {
	Day   int `json:"day"`
	Hour  int `json:"hour"`
	Value int `json:"value"`
}

// StudyReport is the aggregate returned for a reporting period.
// All series are present even when no data exists (zero-filled, never nil).
type StudyReport struct {
	TotalTime     string         `json:"total_time"`
	CardsReviewed int            `json:"cards_reviewed"`
	Accuracy      int            `json:"accuracy"`
	Streak        int            `json:"streak"`
	Activity      ActivitySeries `json:"activity"`
	Subjects      SubjectSeries  `json:"subjects"`
	Progress      ProgressSeries `json:"progress"`
	Heatmap       []HeatmapCell  `json:"heatmap"`
}

// DifficultCard is a card ranked by derived difficulty (1-10).
type DifficultCard struct {
	ID         string `json:"id"`
	SetID      string `json:"set_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Subject    string `json:"subject"`
	Difficulty int    `json:"difficulty"`
}

// Recommendation is one rule-based study nudge.
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// SetProgress summarizes one flashcard set for the dashboard.
type SetProgress struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	CardCount   int    `json:"card_count"`
	Mastery     int    `json:"mastery"`
	LastStudied string `json:"last_studied,omitempty"`
	DueCards    int    `json:"due_cards"`
}
