package handler

import (
	"errors"

	"main/dto"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetProgressHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	record, err := progressService.GetSnapshot(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			utils.NotFound(c, "Progress record not found")
			return
		}
		utils.InternalError(c, "Failed to fetch progress")
		return
	}

	utils.Success(c, record)
}

func GetDetailedProgressHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	detailed, err := progressService.GetDetailedProgress(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			utils.NotFound(c, "Progress record not found")
			return
		}
		utils.InternalError(c, "Failed to fetch detailed progress")
		return
	}

	utils.Success(c, detailed)
}

func GetTimelineHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	timeline, err := progressService.GetTimeline(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			utils.NotFound(c, "Progress record not found")
			return
		}
		utils.InternalError(c, "Failed to fetch timeline")
		return
	}

	utils.Success(c, gin.H{
		"timeline": timeline,
		"count":    len(timeline),
	})
}

func GetHeatmapHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	heatmap, err := progressService.GetHeatmap(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			utils.NotFound(c, "Progress record not found")
			return
		}
		utils.InternalError(c, "Failed to fetch heatmap")
		return
	}

	utils.Success(c, gin.H{"heatmap": heatmap})
}

func GetMilestonesHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	milestones, err := progressService.GetMilestones(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			utils.NotFound(c, "Progress record not found")
			return
		}
		utils.InternalError(c, "Failed to fetch milestones")
		return
	}

	utils.Success(c, gin.H{"milestones": milestones})
}

func UpdateGoalsHandler(c *gin.Context, progressService *usecase.ProgressService) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	var req dto.UpdateGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid goal targets")
		return
	}

	record, err := progressService.UpdateGoals(c.Request.Context(), userID.(string), req.DailyGoal, req.WeeklyGoal)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			utils.NotFound(c, "Progress record not found")
			return
		}
		utils.InternalError(c, "Failed to update goals")
		return
	}

	utils.Success(c, gin.H{
		"daily_goal":  record.DailyGoal,
		"weekly_goal": record.WeeklyGoal,
	})
}
