package response_models

import (
	"github.com/google/uuid"
	"viajei/internal/models/db_models"
	"viajei/pkg/utils"
)

type AuthResponse struct {
	Message string          `json:"message,omitempty"`
	User    *db_models.User `json:"user"`
	utils.TokenPair
}

type PublicProfileStats struct {
	TotalItineraries     int `json:"totalItineraries"`
	CompletedItineraries int `json:"completedItineraries"`
	Countries            int `json:"countries"`
}

type PublicProfile struct {
	ID          uuid.UUID                 `json:"_id"`
	Name        string                    `json:"name"`
	Avatar      *string                   `json:"avatar"`
	IsPremium   bool                      `json:"isPremium"`
	MemberSince int64                     `json:"memberSince"`
	Preferences db_models.UserPreferences `json:"preferences"`
	TotalPoints int64                     `json:"totalPoints"`
	Stats       PublicProfileStats        `json:"stats"`
	Itineraries []db_models.Itinerary     `json:"itineraries"`
}
