package handler

import (
	"main/dto"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetUserProfileHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	user, err := userRepo.FindUser(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, "Failed to fetch user profile")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, dto.ToUserProfileResponse(user))
}
