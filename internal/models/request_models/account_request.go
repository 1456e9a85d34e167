package request_models

import "viajei/internal/models/db_models"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

type SignUpRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,min=6,max=128"`
	AcceptedTerms bool   `json:"acceptedTerms" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateProfileRequest struct {
	Name          *string                    `json:"name" binding:"omitempty,min=2,max=100"`
	Avatar        *string                    `json:"avatar" binding:"omitempty,url"`
	Preferences   *db_models.UserPreferences `json:"preferences"`
	PublicProfile *bool                      `json:"publicProfile"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,max=128"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
}
