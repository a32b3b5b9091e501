package handler

import (
	"errors"
	"log"
	"strconv"
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultDurationSeconds is assumed when the client does not report
// how long the answer took.
const DefaultDurationSeconds = 300

// EvaluatePracticeHandler scores one practice answer, stores the full
// session record and folds the result into the user's progress.
func EvaluatePracticeHandler(c *gin.Context, catalogRepo *repository.CatalogRepo, practiceRepo *repository.PracticeRepo, progressService *usecase.ProgressService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid evaluation request")
		return
	}

	ctx := c.Request.Context()

	question, err := catalogRepo.GetQuestionByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, repository.ErrCatalogEntryNotFound) {
			utils.NotFound(c, "Question not found")
			return
		}
		utils.InternalError(c, "Failed to fetch question")
		return
	}

	persona, err := catalogRepo.GetPersonaByID(ctx, req.PersonaID)
	if err != nil {
		if errors.Is(err, repository.ErrCatalogEntryNotFound) {
			utils.NotFound(c, "Persona not found")
			return
		}
		utils.InternalError(c, "Failed to fetch persona")
		return
	}

	evaluation := usecase.ScoreResponse(question, persona, req.UserResponse)

	duration := req.DurationSeconds
	if duration <= 0 {
		duration = DefaultDurationSeconds
	}

	now := time.Now()
	session := &model.PracticeSession{
		SessionID:       uuid.New().String(),
		UserID:          userID.(string),
		QuestionID:      question.ID,
		PersonaID:       persona.ID,
		Category:        question.Category,
		UserResponse:    req.UserResponse,
		Score:           evaluation.Score,
		Feedback:        evaluation.Feedback,
		DurationSeconds: duration,
		Timestamp:       now,
	}

	if err := practiceRepo.CreatePracticeSession(ctx, session); err != nil {
		utils.InternalError(c, "Failed to store practice session")
		return
	}

	awards, err := progressService.ApplyInteraction(ctx, usecase.Interaction{
		UserID:          session.UserID,
		Category:        session.Category,
		PersonaID:       session.PersonaID,
		Score:           session.Score,
		OccurredAt:      now,
		DurationSeconds: duration,
	})
	if err != nil {
		// The session is stored; progress can be reconciled later.
		log.Printf("Failed to apply interaction for user %s: %v", session.UserID, err)
		utils.InternalError(c, "Failed to update progress")
		return
	}

	utils.Success(c, dto.ToEvaluateResponse(session.SessionID, evaluation, awards))
}

func GetPracticeHistoryHandler(c *gin.Context, practiceRepo *repository.PracticeRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			utils.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	sessions, err := practiceRepo.GetUserPracticeSessions(c.Request.Context(), userID.(string), limit)
	if err != nil {
		utils.InternalError(c, "Failed to fetch practice history")
		return
	}

	utils.Success(c, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}
