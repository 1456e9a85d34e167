package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"viajei/internal/models/request_models"
	"viajei/internal/services"
	"viajei/pkg/middleware"
	"viajei/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
	lockout        *middleware.Lockout
}

func NewAccountController(accountService services.AccountServiceInterface, lockout *middleware.Lockout) *AccountController {
	return &AccountController{
		accountService: accountService,
		lockout:        lockout,
	}
}

// SignUp godoc
// @Summary Create an account
// @Description Register with name, email and password. Terms of use must be accepted.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Sign up payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /auth/signup [post]
func (a *AccountController) SignUp(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.accountService.SignUp(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			a.lockout.Fail(c)
		}
		utils.HandleServiceError(c, err)
		return
	}

	a.lockout.Succeed(c)
	utils.RespondCreated(c, resp, "Account created successfully")
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password and receive an access and refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			a.lockout.Fail(c)
		}
		utils.HandleServiceError(c, err)
		return
	}

	a.lockout.Succeed(c)
	utils.RespondSuccess(c, resp, "Login successful")
}

// Refresh godoc
// @Summary Rotate tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/refresh [post]
func (a *AccountController) Refresh(c *gin.Context) {
	var req request_models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	tokens, err := a.accountService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, tokens, "Token refreshed")
}

// Logout godoc
// @Summary Log out
// @Description Invalidate the stored refresh token
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	if err := a.accountService.Logout(c.Request.Context(), userId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Logged out successfully")
}

// GetProfile godoc
// @Summary Get own profile
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /auth/profile [get]
func (a *AccountController) GetProfile(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	user, err := a.accountService.Profile(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "Profile fetched successfully")
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Only the fields present in the body are changed
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /auth/profile [put]
func (a *AccountController) UpdateProfile(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := a.accountService.UpdateProfile(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "Profile updated successfully")
}

// UpdatePassword godoc
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /auth/password [put]
func (a *AccountController) UpdatePassword(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := a.accountService.UpdatePassword(c.Request.Context(), userId, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Password updated successfully")
}

// DeleteAccount godoc
// @Summary Delete own account
// @Description Removes the user together with their itineraries, ratings and achievements
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /auth/account [delete]
func (a *AccountController) DeleteAccount(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	if err := a.accountService.DeleteAccount(c.Request.Context(), userId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Account deleted successfully")
}

// PublicProfile godoc
// @Summary Get a public profile
// @Description Returns 404 unless the user made their profile public
// @Tags Auth
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /auth/public/{userId} [get]
func (a *AccountController) PublicProfile(c *gin.Context) {
	userId, ok := uuidParam(c, "userId", "user")
	if !ok {
		return
	}
	profile, err := a.accountService.PublicProfile(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "Profile fetched successfully")
}
