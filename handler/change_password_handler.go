package handler

import (
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,password"`
}

func ChangePasswordHandler(c *gin.Context, userRepo *repository.UserRepo, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "New password does not meet requirements")
		return
	}

	ctx := c.Request.Context()

	user, err := userRepo.FindUser(ctx, userID.(string))
	if err != nil || user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	match, err := services.VerifyPassword(user.Password, req.OldPassword)
	if err != nil || !match {
		utils.TrackAuthAttempt("failure", "password_change")
		utils.Unauthorized(c, "Current password is incorrect")
		return
	}

	if req.OldPassword == req.NewPassword {
		utils.BadRequest(c, "New password must be different from the current one")
		return
	}

	hashed, err := services.HashPassword(req.NewPassword)
	if err != nil {
		utils.InternalError(c, "Failed to process new password")
		return
	}

	if err := userRepo.UpdateUserPassword(ctx, user.UserID, hashed); err != nil {
		utils.InternalError(c, "Failed to update password")
		return
	}

	// Changing the password ends every other login session.
	if err := sessionRepo.EndAllUserSessions(ctx, user.UserID); err != nil {
		utils.TrackError("session", "end_all_failed")
	}

	utils.TrackAuthAttempt("success", "password_change")
	utils.Success(c, gin.H{"message": "Password updated successfully"})
}
