package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetActiveSessionsHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	sessions, err := sessionRepo.GetUserActiveSessions(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, "Failed to fetch active sessions")
		return
	}

	utils.Success(c, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func LogoutAllHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	if err := sessionRepo.EndAllUserSessions(c.Request.Context(), userID.(string)); err != nil {
		utils.InternalError(c, "Failed to end sessions")
		return
	}

	utils.Success(c, gin.H{"message": "All sessions ended"})
}
