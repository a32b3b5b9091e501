package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

type TwoFactorVerifyRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

type TwoFactorDisableRequest struct {
	Code string `json:"code" binding:"required"`
}

// Enable2FAHandler generates a TOTP secret for the user. The secret
// only becomes active once Verify2FAHandler confirms a valid code.
func Enable2FAHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	ctx := c.Request.Context()

	user, err := userRepo.FindUser(ctx, userID.(string))
	if err != nil || user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	if user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "MSL Trainer",
		AccountName: user.Username,
	})
	if err != nil {
		utils.InternalError(c, "Failed to generate 2FA secret")
		return
	}

	if err := userRepo.UpdateTwoFactor(ctx, user.UserID, false, key.Secret(), nil); err != nil {
		utils.InternalError(c, "Failed to store 2FA secret")
		return
	}

	utils.Success(c, gin.H{
		"secret": key.Secret(),
		"qr_url": key.URL(),
	})
}

// Verify2FAHandler activates 2FA after the user proves possession of
// the secret, and returns one-time recovery codes.
func Verify2FAHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	var req TwoFactorVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid verification code")
		return
	}

	ctx := c.Request.Context()

	user, err := userRepo.FindUser(ctx, userID.(string))
	if err != nil || user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	if user.TwoFactorSecret == "" {
		utils.BadRequest(c, "2FA setup has not been started")
		return
	}

	if !totp.Validate(req.Code, user.TwoFactorSecret) {
		utils.TrackAuthAttempt("failure", "2fa_verify")
		utils.Unauthorized(c, "Invalid verification code")
		return
	}

	recoveryCodes, err := utils.GenerateRecoveryCodes()
	if err != nil {
		utils.InternalError(c, "Failed to generate recovery codes")
		return
	}

	if err := userRepo.UpdateTwoFactor(ctx, user.UserID, true, user.TwoFactorSecret, utils.HashRecoveryCodes(recoveryCodes)); err != nil {
		utils.InternalError(c, "Failed to enable 2FA")
		return
	}

	utils.TrackAuthAttempt("success", "2fa_verify")
	utils.Success(c, gin.H{
		"message":        "2FA enabled successfully",
		"recovery_codes": recoveryCodes,
	})
}

// Disable2FAHandler turns 2FA off given a valid TOTP or recovery code.
func Disable2FAHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Invalid session")
		return
	}

	var req TwoFactorDisableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	ctx := c.Request.Context()

	user, err := userRepo.FindUser(ctx, userID.(string))
	if err != nil || user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	if !user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is not enabled")
		return
	}

	valid := totp.Validate(req.Code, user.TwoFactorSecret)
	if !valid {
		hashed := utils.HashString(req.Code)
		for _, rc := range user.RecoveryCodes {
			if rc == hashed {
				valid = true
				break
			}
		}
	}
	if !valid {
		utils.TrackAuthAttempt("failure", "2fa_disable")
		utils.Unauthorized(c, "Invalid code")
		return
	}

	if err := userRepo.UpdateTwoFactor(ctx, user.UserID, false, "", nil); err != nil {
		utils.InternalError(c, "Failed to disable 2FA")
		return
	}

	utils.TrackAuthAttempt("success", "2fa_disable")
	utils.Success(c, gin.H{"message": "2FA disabled successfully"})
}
