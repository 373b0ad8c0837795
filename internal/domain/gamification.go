package domain

import "time"

// MaxActivityHistory caps the per-user point activity log.
const MaxActivityHistory = 100

// LoginStreak tracks consecutive daily logins and the resulting multiplier.
type LoginStreak struct {
	Current    int     `json:"current"`
	Max        int     `json:"max"`
	LastLogin  string  `json:"last_login,omitempty"` // civil date YYYY-MM-DD
	FlameLevel int     `json:"flame_level"`
	Multiplier float64 `json:"multiplier"`
}

// Achievement is a one-time unlock recorded on the profile.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Points      int       `json:"points"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// BadgeRarity orders badges from common to legendary.
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Badge is a collectible award with a rarity tier and optional item rewards.
type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Rarity      BadgeRarity `json:"rarity"`
	EarnedAt    time.Time   `json:"earned_at"`
}

// Booster is a time-limited consumable inventory item.
type Booster struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	EarnedAt  time.Time `json:"earned_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the booster is still usable at the given time.
func (b Booster) Active(now time.Time) bool {
	return b.ExpiresAt.After(now)
}

const BoosterStreakShield = "streak_shield"

// Inventory holds unlockable cosmetics and consumable boosters.
type Inventory struct {
	Boosters []Booster `json:"boosters"`
	Avatars  []string  `json:"avatars"`
	Themes   []string  `json:"themes"`
}

// ActivityEntry is one row of the capped point activity log.
type ActivityEntry struct {
	Action string    `json:"action"`
	Points int       `json:"points"`
	XP     int       `json:"xp"`
	Date   time.Time `json:"date"`
}

// QuestPeriod distinguishes daily from weekly quests.
type QuestPeriod string

const (
	QuestDaily  QuestPeriod = "daily"
	QuestWeekly QuestPeriod = "weekly"
)

// Quest is one active daily or weekly objective.
type Quest struct {
	ID          string      `json:"id"`
	Period      QuestPeriod `json:"period"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Action      string      `json:"action"`
	Target      int         `json:"target"`
	Progress    int         `json:"progress"`
	XP          int         `json:"xp"`
	Completed   bool        `json:"completed"`
	AssignedFor string      `json:"assigned_for"` // YYYY-MM-DD for daily, YYYY-Wnn for weekly
}

// StudyPlan tracks exercise work toward an upcoming test.
type StudyPlan struct {
	ID                 string    `json:"id"`
	TestName           string    `json:"test_name"`
	TestDate           string    `json:"test_date"` // civil date YYYY-MM-DD
	Subject            string    `json:"subject"`
	NumExercises       int       `json:"num_exercises"`
	ExercisesCompleted int       `json:"exercises_completed"`
	LastExerciseDate   string    `json:"last_exercise_date,omitempty"` // civil date
	Completed          bool      `json:"completed"`
	CreatedAt          time.Time `json:"created_at"`
}

// GamificationStats are lifetime action counters used by achievements and quests.
type GamificationStats struct {
	CardsReviewed     int      `json:"cards_reviewed"`
	CorrectReviews    int      `json:"correct_reviews"`
	SessionsCompleted int      `json:"sessions_completed"`
	PerfectSessions   int      `json:"perfect_sessions"`
	StudyStreak       int      `json:"study_streak"`
	LastStudyDate     string   `json:"last_study_date,omitempty"` // civil date
	SetsStudied       []string `json:"sets_studied,omitempty"`
	HomeworkDone      int      `json:"homework_done"`
	GradesViewed      int      `json:"grades_viewed"`
	TimetableChecks   int      `json:"timetable_checks"`
	MessagesSent      int      `json:"messages_sent"`
	LoginDays         int      `json:"login_days"`
	EarlyBirdLogins   int      `json:"early_bird_logins"`
	NightOwlLogins    int      `json:"night_owl_logins"`
	PlansCreated      int      `json:"plans_created"`
	PlansCompleted    int      `json:"plans_completed"`
	ExercisesDone     int      `json:"exercises_done"`
}

// HasStudiedSet reports whether the set id is already in the studied list.
func (s *GamificationStats) HasStudiedSet(setID string) bool {
	for _, id := range s.SetsStudied {
		if id == setID {
			return true
		}
	}
	return false
}

// GamificationDoc is the persisted gamification profile for one user.
type GamificationDoc struct {
	Points       int               `json:"points"`
	XP           int               `json:"xp"`
	Level        int               `json:"level"`
	NextLevelXP  int               `json:"next_level_xp"`
	Streak       LoginStreak       `json:"streak"`
	Achievements []Achievement     `json:"achievements"`
	Badges       []Badge           `json:"badges"`
	Inventory    Inventory         `json:"inventory"`
	Activity     []ActivityEntry   `json:"activity_history"`
	Quests       []Quest           `json:"quests"`
	Plans        []*StudyPlan      `json:"study_plans"`
	Stats        GamificationStats `json:"stats"`
	LastAwarded  map[string]string `json:"last_awarded,omitempty"` // action -> civil date
}

// NewGamificationDoc returns a fresh level-1 profile.
func NewGamificationDoc() *GamificationDoc {
	return &GamificationDoc{
		Level:       1,
		NextLevelXP: 100,
		Streak:      LoginStreak{Multiplier: 1.0},
		Inventory: Inventory{
			Avatars: []string{"default"},
			Themes:  []string{"default"},
		},
	}
}

// HasAchievement reports whether the achievement id is already unlocked.
func (d *GamificationDoc) HasAchievement(id string) bool {
	for _, a := range d.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// HasBadge reports whether the badge id is already earned.
func (d *GamificationDoc) HasBadge(id string) bool {
	for _, b := range d.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// TakeBooster removes and returns the first unexpired booster of the given type.
func (d *GamificationDoc) TakeBooster(typ string, now time.Time) (Booster, bool) {
	for i, b := range d.Inventory.Boosters {
		if b.Type == typ && b.Active(now) {
			d.Inventory.Boosters = append(d.Inventory.Boosters[:i], d.Inventory.Boosters[i+1:]...)
			return b, true
		}
	}
	return Booster{}, false
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	Level      int    `json:"level"`
	XP         int    `json:"xp"`
	Points     int    `json:"points"`
	FlameLevel int    `json:"flame_level"`
	Rank       int    `json:"rank"`
}
