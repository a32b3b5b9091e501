package dto

// UpdateGoalsRequest sets the per-user daily/weekly practice targets.
type UpdateGoalsRequest struct {
	DailyGoal  int `json:"daily_goal" binding:"required,min=1,max=50"`
	WeeklyGoal int `json:"weekly_goal" binding:"required,min=1,max=200"`
}
