package model

// ConditionKind names the stat a milestone condition compares against.
type ConditionKind string

const (
	ConditionTotalSessions      ConditionKind = "total_sessions"
	ConditionAnyScoreAtLeast    ConditionKind = "any_score_at_least"
	ConditionCurrentStreakDays  ConditionKind = "current_streak_days"
	ConditionDistinctCategories ConditionKind = "distinct_categories"
	ConditionDistinctPersonas   ConditionKind = "distinct_personas"
	ConditionAverageScore       ConditionKind = "average_score"
)

// MilestoneCondition is a declarative threshold check against a
// ProgressRecord. MinSessions only applies to average-score conditions,
// so a single lucky session cannot unlock them.
type MilestoneCondition struct {
	Kind        ConditionKind
	Threshold   float64
	MinSessions int
}

// MilestoneDefinition is one entry of the static achievement catalog.
type MilestoneDefinition struct {
	ID          string
	Name        string
	Description string
	XP          int
	Icon        string
	Condition   MilestoneCondition
}

// MilestoneAward is what the caller gets back for each newly unlocked
// milestone, for user-facing notification.
type MilestoneAward struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
	Icon        string `json:"icon"`
}

// MilestoneStatus is a catalog entry combined with whether the given
// user has unlocked it.
type MilestoneStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
	Icon        string `json:"icon"`
	Achieved    bool   `json:"achieved"`
}
