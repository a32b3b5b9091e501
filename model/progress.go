package model

import "time"

// StatBucket aggregates scores for one category or persona.
// AvgScore is always TotalScore / Count.
type StatBucket struct {
	Count      int     `bson:"count" json:"count"`
	TotalScore float64 `bson:"total_score" json:"total_score"`
	AvgScore   float64 `bson:"avg_score" json:"avg_score"`
}

// ProgressRecord is the one-per-user gamification document. It is
// created at registration and only ever rewritten as a whole by
// the progress service; Revision guards against concurrent writers.
type ProgressRecord struct {
	UserID                   string                `bson:"user_id" json:"user_id"`
	TotalSessions            int                   `bson:"total_sessions" json:"total_sessions"`
	CategoryStats            map[string]StatBucket `bson:"category_stats" json:"category_stats"`
	PersonaStats             map[string]StatBucket `bson:"persona_stats" json:"persona_stats"`
	ScoresHistory            []float64             `bson:"scores_history" json:"scores_history"`
	ScoreTimestamps          []string              `bson:"score_timestamps" json:"score_timestamps"`
	AverageScore             float64               `bson:"average_score" json:"average_score"`
	PracticeDates            []string              `bson:"practice_dates" json:"practice_dates"`
	TotalPracticeTimeMinutes float64               `bson:"total_practice_time_minutes" json:"total_practice_time_minutes"`
	CurrentStreakDays        int                   `bson:"current_streak_days" json:"current_streak_days"`
	LongestStreakDays        int                   `bson:"longest_streak_days" json:"longest_streak_days"`
	LastPracticeDate         time.Time             `bson:"last_practice_date" json:"last_practice_date"`
	MilestonesAchieved       []string              `bson:"milestones_achieved" json:"milestones_achieved"`
	Level                    int                   `bson:"level" json:"level"`
	ExperiencePoints         int                   `bson:"experience_points" json:"experience_points"`
	DailyGoal                int                   `bson:"daily_goal" json:"daily_goal"`
	WeeklyGoal               int                   `bson:"weekly_goal" json:"weekly_goal"`
	Revision                 int64                 `bson:"revision" json:"-"`
}

// Defaults for per-user goal targets, applied at registration.
const (
	DefaultDailyGoal  = 3
	DefaultWeeklyGoal = 15
)

// NewProgressRecord returns the zeroed record created at signup.
func NewProgressRecord(userID string) *ProgressRecord {
	return &ProgressRecord{
		UserID:             userID,
		CategoryStats:      map[string]StatBucket{},
		PersonaStats:       map[string]StatBucket{},
		ScoresHistory:      []float64{},
		ScoreTimestamps:    []string{},
		PracticeDates:      []string{},
		MilestonesAchieved: []string{},
		Level:              1,
		DailyGoal:          DefaultDailyGoal,
		WeeklyGoal:         DefaultWeeklyGoal,
	}
}

// HasPracticeDate reports whether the given YYYY-MM-DD date is already
// in the practice date set.
func (p *ProgressRecord) HasPracticeDate(date string) bool {
	for _, d := range p.PracticeDates {
		if d == date {
			return true
		}
	}
	return false
}

// HasMilestone reports whether the milestone id has already been awarded.
func (p *ProgressRecord) HasMilestone(id string) bool {
	for _, m := range p.MilestonesAchieved {
		if m == id {
			return true
		}
	}
	return false
}
