package handler

import (
	"log"
	"time"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type RegistrationRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
}

// RegistrationHandler creates the user account and its zeroed progress
// record. The progress record must exist before the first scored
// interaction; the progress service refuses to apply interactions for
// unknown users.
func RegistrationHandler(c *gin.Context, userRepo *repository.UserRepo, progressRepo *repository.ProgressRepo) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid request")
		return
	}

	hashedPassword, err := services.HashPassword(req.Password)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user := &model.User{
		UserID:    utils.GenerateUserID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}

	ctx := c.Request.Context()
	if _, err := userRepo.AddUser(ctx, user); err != nil {
		if err.Error() == "username already exists" {
			utils.Conflict(c, "username already exists")
			return
		}
		log.Printf("Failed to create user: %v", err)
		utils.InternalError(c, "failed to create user")
		return
	}

	if err := progressRepo.CreateProgress(ctx, model.NewProgressRecord(user.UserID)); err != nil {
		log.Printf("Failed to create progress record for user %s: %v", user.UserID, err)
		utils.InternalError(c, "failed to initialize user progress")
		return
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "failed to generate refresh token")
		return
	}

	utils.Created(c, gin.H{
		"message": "user registered successfully",
		"user_id": user.UserID,
		"token":   token,
		"refresh": refreshToken,
	})
}
