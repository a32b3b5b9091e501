package dto

import (
	"main/model"
	"main/usecase"
)

// EvaluateRequest is one practice answer submitted for scoring.
// DurationSeconds is how long the user spent on the answer; when the
// client does not time it, the server falls back to an estimate.
type EvaluateRequest struct {
	QuestionID      int    `json:"question_id" binding:"required"`
	PersonaID       string `json:"persona_id" binding:"required"`
	UserResponse    string `json:"user_response" binding:"required"`
	DurationSeconds int    `json:"duration_seconds" binding:"omitempty,min=0,max=7200"`
}

// EvaluateResponse pairs the evaluation outcome with any milestones
// the interaction unlocked.
type EvaluateResponse struct {
	SessionID               string                 `json:"session_id"`
	Score                   float64                `json:"score"`
	Feedback                string                 `json:"feedback"`
	PrioritiesCovered       []string               `json:"priorities_covered"`
	EngagementPointsCovered []string               `json:"engagement_points_covered"`
	MissingPoints           []string               `json:"missing_points"`
	NewMilestones           []model.MilestoneAward `json:"new_milestones"`
}

func ToEvaluateResponse(sessionID string, eval usecase.Evaluation, awards []model.MilestoneAward) EvaluateResponse {
	if awards == nil {
		awards = []model.MilestoneAward{}
	}
	return EvaluateResponse{
		SessionID:               sessionID,
		Score:                   eval.Score,
		Feedback:                eval.Feedback,
		PrioritiesCovered:       eval.PrioritiesCovered,
		EngagementPointsCovered: eval.EngagementPointsCovered,
		MissingPoints:           eval.MissingPoints,
		NewMilestones:           awards,
	}
}
