package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/heartmarshall/studyhall-backend/internal/domain"
)

func periodStart(now time.Time, period domain.Period) time.Time {
	switch period {
	case domain.PeriodMonth:
		return now.AddDate(0, 0, -30)
	case domain.PeriodYear:
		return now.AddDate(0, 0, -365)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// StudyData assembles the aggregate report for the period: headline totals
// over the filtered window plus activity, subject, progress, and heatmap
// series. Unknown periods fall back to a week.
func (s *Service) StudyData(ctx context.Context, period domain.Period) (*domain.StudyReport, error) {
	if !period.IsValid() {
		period = domain.PeriodWeek
	}

	now := s.now().UTC()
	start := civilDate(periodStart(now, period))

	var report *domain.StudyReport
	err := s.view(ctx, func(doc *domain.AnalyticsDoc) error {
		var filtered []domain.StudySessionRecord
		for _, sess := range doc.Sessions {
			if !civilDate(sess.Date).Before(start) {
				filtered = append(filtered, sess)
			}
		}

		totalSeconds, cards, correct := 0, 0, 0
		for _, sess := range filtered {
			totalSeconds += sess.DurationSeconds
			cards += sess.Stats.Total
			correct += sess.Stats.Correct()
		}
		totalMinutes := totalSeconds / 60

		accuracy := 0
		if cards > 0 {
			accuracy = int(math.Round(float64(correct) / float64(cards) * 100))
		}

		report = &domain.StudyReport{
			TotalTime:     fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60),
			CardsReviewed: cards,
			Accuracy:      accuracy,
			Streak:        doc.StudyStreak,
			Activity:      activitySeries(filtered, now, period),
			Subjects:      subjectSeries(doc.SubjectPerformance),
			Progress:      s.progressSeries(ctx, doc, now, period),
			Heatmap:       heatmapCells(filtered),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// activitySeries buckets filtered sessions into days (week), weeks (month),
// or months (year), oldest bucket first.
func activitySeries(sessions []domain.StudySessionRecord, now time.Time, period domain.Period) domain.ActivitySeries {
	nowDate := civilDate(now)

	switch period {
	case domain.PeriodMonth:
		series := domain.ActivitySeries{
			Labels:        make([]string, 0, 4),
			Minutes:       make([]int, 4),
			CardsReviewed: make([]int, 4),
		}
		for i := 3; i >= 0; i-- {
			weekStart := now.AddDate(0, 0, -(((int(now.Weekday())+6)%7)+7*i+7))
			weekEnd := weekStart.AddDate(0, 0, 6)
			series.Labels = append(series.Labels,
				fmt.Sprintf("%s-%s", weekStart.Format("02/01"), weekEnd.Format("02/01")))
		}
		for _, sess := range sessions {
			daysAgo := int(nowDate.Sub(civilDate(sess.Date)).Hours() / 24)
			if daysAgo < 0 || daysAgo >= 28 {
				continue
			}
			idx := 3 - daysAgo/7
			series.Minutes[idx] += sess.DurationSeconds / 60
			series.CardsReviewed[idx] += sess.Stats.Total
		}
		return series

	case domain.PeriodYear:
		series := domain.ActivitySeries{
			Labels:        make([]string, 0, 12),
			Minutes:       make([]int, 12),
			CardsReviewed: make([]int, 12),
		}
		for i := 11; i >= 0; i-- {
			series.Labels = append(series.Labels, now.AddDate(0, 0, -30*i).Format("Jan"))
		}
		for _, sess := range sessions {
			monthsAgo := (now.Year()-sess.Date.Year())*12 + int(now.Month()) - int(sess.Date.Month())
			if monthsAgo < 0 || monthsAgo >= 12 {
				continue
			}
			idx := 11 - monthsAgo
			series.Minutes[idx] += sess.DurationSeconds / 60
			series.CardsReviewed[idx] += sess.Stats.Total
		}
		return series

	default: // week
		series := domain.ActivitySeries{
			Labels:        make([]string, 0, 7),
			Minutes:       make([]int, 7),
			CardsReviewed: make([]int, 7),
		}
		for i := 6; i >= 0; i-- {
			series.Labels = append(series.Labels, now.AddDate(0, 0, -i).Format("Mon"))
		}
		for _, sess := range sessions {
			daysAgo := int(nowDate.Sub(civilDate(sess.Date)).Hours() / 24)
			if daysAgo < 0 || daysAgo >= 7 {
				continue
			}
			idx := 6 - daysAgo
			series.Minutes[idx] += sess.DurationSeconds / 60
			series.CardsReviewed[idx] += sess.Stats.Total
		}
		return series
	}
}

// subjectSeries builds the radar-chart series from subjects with at least
// one session, in alphabetical order.
func subjectSeries(perf map[string]*domain.SubjectPerformance) domain.SubjectSeries {
	var labels []string
	for subject, stats := range perf {
		if stats.Sessions > 0 {
			labels = append(labels, subject)
		}
	}
	if len(labels) == 0 {
		return domain.SubjectSeries{
			Labels:  []string{"No data yet"},
			Mastery: []float64{0},
			Hours:   []float64{0},
			Cards:   []int{0},
		}
	}
	sort.Strings(labels)

	series := domain.SubjectSeries{Labels: labels}
	for _, subject := range labels {
		stats := perf[subject]
		series.Mastery = append(series.Mastery, stats.Mastery)
		series.Hours = append(series.Hours, math.Round(float64(stats.TotalTimeSeconds)/3600*10)/10)
		series.Cards = append(series.Cards, stats.TotalCards)
	}
	return series
}

func progressLabelFormat(period domain.Period) string {
	switch period {
	case domain.PeriodMonth:
		return "02 Jan"
	case domain.PeriodYear:
		return "Jan 2006"
	default:
		return "Mon"
	}
}

// progressSeries reconstructs the mastered/learning/not-started split for
// each day of the period. Session performance stands in for per-card
// mastery: every card of a studied set inherits the session score.
func (s *Service) progressSeries(ctx context.Context, doc *domain.AnalyticsDoc, now time.Time, period domain.Period) domain.ProgressSeries {
	start := civilDate(periodStart(now, period))
	end := civilDate(now)
	format := progressLabelFormat(period)

	cardsBySet := map[string][]string{}
	totalCards := 0
	if sets, err := s.sets.ListSets(ctx); err == nil {
		for _, set := range sets {
			ids := make([]string, 0, len(set.Cards))
			for i := range set.Cards {
				ids = append(ids, set.Cards[i].ID)
			}
			cardsBySet[set.ID] = ids
			totalCards += len(ids)
		}
	}

	sessions := make([]domain.StudySessionRecord, len(doc.Sessions))
	copy(sessions, doc.Sessions)
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Date.Before(sessions[j].Date) })

	// mastery[cardID] is a date-ordered trail of proxy mastery levels.
	type point struct {
		date    time.Time
		mastery float64
	}
	trail := map[string][]point{}
	for _, sess := range sessions {
		sessDate := civilDate(sess.Date)
		if sessDate.Before(start) {
			continue
		}
		ids, ok := cardsBySet[sess.SetID]
		if !ok {
			continue
		}
		level := math.Min(1.0, sess.Performance/100)
		for _, id := range ids {
			trail[id] = append(trail[id], point{date: sessDate, mastery: level})
		}
	}

	series := domain.ProgressSeries{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		series.Labels = append(series.Labels, d.Format(format))

		mastered, learning := 0, 0
		for _, points := range trail {
			latest := 0.0
			for _, p := range points {
				if !p.date.After(d) {
					latest = p.mastery
				}
			}
			switch {
			case latest >= 0.7:
				mastered++
			case latest > 0:
				learning++
			}
		}
		notStarted := totalCards - mastered - learning
		if notStarted < 0 {
			notStarted = 0
		}
		series.Mastered = append(series.Mastered, mastered)
		series.Learning = append(series.Learning, learning)
		series.NotStarted = append(series.NotStarted, notStarted)
	}
	return series
}

// heatmapCells aggregates session minutes into every day-of-week x hour
// cell; any activity shows as at least 1.
func heatmapCells(sessions []domain.StudySessionRecord) []domain.HeatmapCell {
	type key struct{ day, hour int }
	minutes := map[key]int{}
	counts := map[key]int{}

	for _, sess := range sessions {
		k := key{day: sess.DayOfWeek, hour: sess.HourOfDay}
		minutes[k] += sess.DurationSeconds / 60
		counts[k]++
	}

	cells := make([]domain.HeatmapCell, 0, 7*24)
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			k := key{day: day, hour: hour}
			value := minutes[k]
			if counts[k] > 0 && value == 0 {
				value = 1
			}
			cells = append(cells, domain.HeatmapCell{Day: day, Hour: hour, Value: value})
		}
	}
	return cells
}
