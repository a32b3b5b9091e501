package usecase

import (
	"fmt"
	"log"
	"main/model"
	"main/utils"
)

// Milestones is the static achievement catalog. It is process-wide,
// read-only configuration; every user is evaluated against the same
// rules. Conditions are declarative descriptors interpreted by
// evaluateCondition rather than executable checks.
var Milestones = []model.MilestoneDefinition{
	{
		ID:          "first_session",
		Name:        "First Steps",
		Description: "Complete your first practice session",
		XP:          50,
		Icon:        "🎯",
		Condition:   model.MilestoneCondition{Kind: model.ConditionTotalSessions, Threshold: 1},
	},
	{
		ID:          "10_sessions",
		Name:        "Consistent Learner",
		Description: "Complete 10 practice sessions",
		XP:          100,
		Icon:        "📚",
		Condition:   model.MilestoneCondition{Kind: model.ConditionTotalSessions, Threshold: 10},
	},
	{
		ID:          "50_sessions",
		Name:        "Dedicated MSL",
		Description: "Complete 50 practice sessions",
		XP:          500,
		Icon:        "🏆",
		Condition:   model.MilestoneCondition{Kind: model.ConditionTotalSessions, Threshold: 50},
	},
	{
		ID:          "perfect_score",
		Name:        "Perfect Response",
		Description: "Score 95+ on any question",
		XP:          200,
		Icon:        "💯",
		Condition:   model.MilestoneCondition{Kind: model.ConditionAnyScoreAtLeast, Threshold: 95},
	},
	{
		ID:          "7_day_streak",
		Name:        "Week Warrior",
		Description: "Practice for 7 consecutive days",
		XP:          300,
		Icon:        "🔥",
		Condition:   model.MilestoneCondition{Kind: model.ConditionCurrentStreakDays, Threshold: 7},
	},
	{
		ID:          "all_categories",
		Name:        "Well Rounded",
		Description: "Practice all 7 categories",
		XP:          250,
		Icon:        "🌟",
		Condition:   model.MilestoneCondition{Kind: model.ConditionDistinctCategories, Threshold: 7},
	},
	{
		ID:          "all_personas",
		Name:        "People Person",
		Description: "Practice with all 3 personas",
		XP:          150,
		Icon:        "👥",
		Condition:   model.MilestoneCondition{Kind: model.ConditionDistinctPersonas, Threshold: 3},
	},
	{
		ID:          "high_achiever",
		Name:        "High Achiever",
		Description: "Maintain 80+ average score",
		XP:          400,
		Icon:        "⭐",
		Condition:   model.MilestoneCondition{Kind: model.ConditionAverageScore, Threshold: 80, MinSessions: 5},
	},
}

func evaluateCondition(cond model.MilestoneCondition, record *model.ProgressRecord) (bool, error) {
	switch cond.Kind {
	case model.ConditionTotalSessions:
		return float64(record.TotalSessions) >= cond.Threshold, nil
	case model.ConditionAnyScoreAtLeast:
		for _, score := range record.ScoresHistory {
			if score >= cond.Threshold {
				return true, nil
			}
		}
		return false, nil
	case model.ConditionCurrentStreakDays:
		return float64(record.CurrentStreakDays) >= cond.Threshold, nil
	case model.ConditionDistinctCategories:
		return float64(len(record.CategoryStats)) >= cond.Threshold, nil
	case model.ConditionDistinctPersonas:
		return float64(len(record.PersonaStats)) >= cond.Threshold, nil
	case model.ConditionAverageScore:
		return record.AverageScore >= cond.Threshold && record.TotalSessions >= cond.MinSessions, nil
	default:
		return false, fmt.Errorf("unknown milestone condition kind %q", cond.Kind)
	}
}

// EvaluateMilestones checks the catalog against the record and applies
// every newly satisfied milestone: the id joins MilestonesAchieved, its
// XP joins ExperiencePoints, and the award is returned for user-facing
// notification. Already-achieved ids are skipped, so re-running on an
// unchanged record awards nothing. A rule that fails to evaluate is
// logged and skipped; it must not block the other milestones.
func EvaluateMilestones(record *model.ProgressRecord) []model.MilestoneAward {
	var newlyAchieved []model.MilestoneAward

	for _, milestone := range Milestones {
		if record.HasMilestone(milestone.ID) {
			continue
		}

		satisfied, err := evaluateCondition(milestone.Condition, record)
		if err != nil {
			log.Printf("Error checking milestone %s: %v", milestone.ID, err)
			utils.TrackError("gamification", "milestone_check_failed")
			continue
		}
		if !satisfied {
			continue
		}

		record.MilestonesAchieved = append(record.MilestonesAchieved, milestone.ID)
		record.ExperiencePoints += milestone.XP
		utils.TrackMilestoneAwarded(milestone.ID)

		newlyAchieved = append(newlyAchieved, model.MilestoneAward{
			ID:          milestone.ID,
			Name:        milestone.Name,
			Description: milestone.Description,
			XP:          milestone.XP,
			Icon:        milestone.Icon,
		})
	}

	record.Level = CalculateLevel(record.ExperiencePoints)

	return newlyAchieved
}

// MilestonesWithStatus returns the full catalog flagged with which
// entries the given achieved set contains.
func MilestonesWithStatus(achieved []string) []model.MilestoneStatus {
	achievedSet := make(map[string]struct{}, len(achieved))
	for _, id := range achieved {
		achievedSet[id] = struct{}{}
	}

	statuses := make([]model.MilestoneStatus, 0, len(Milestones))
	for _, milestone := range Milestones {
		_, ok := achievedSet[milestone.ID]
		statuses = append(statuses, model.MilestoneStatus{
			ID:          milestone.ID,
			Name:        milestone.Name,
			Description: milestone.Description,
			XP:          milestone.XP,
			Icon:        milestone.Icon,
			Achieved:    ok,
		})
	}

	return statuses
}
