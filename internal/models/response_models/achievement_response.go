package response_models

import (
	"time"

	"github.com/google/uuid"
	"viajei/internal/models/db_models"
)

type AchievementProgress struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Points      int        `json:"points"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

type MyAchievements struct {
	TotalPoints   int                   `json:"totalPoints"`
	UnlockedCount int                   `json:"unlockedCount"`
	TotalCount    int                   `json:"totalCount"`
	Achievements  []AchievementProgress `json:"achievements"`
}

type CheckAchievements struct {
	Message         string                  `json:"message"`
	NewAchievements []db_models.Achievement `json:"newAchievements"`
}

type ItineraryStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Planned    int `json:"planned"`
}

type DestinationStats struct {
	Countries int `json:"countries"`
	Cities    int `json:"cities"`
}

type DayStats struct {
	TotalTraveled     int `json:"totalTraveled"`
	AverageTripLength int `json:"averageTripLength"`
}

type BudgetStats struct {
	TotalSpent     float64 `json:"totalSpent"`
	AveragePerTrip float64 `json:"averagePerTrip"`
}

type SocialStats struct {
	SharedItineraries        int `json:"sharedItineraries"`
	CollaborativeItineraries int `json:"collaborativeItineraries"`
	TotalCollaborators       int `json:"totalCollaborators"`
}

type AchievementTotals struct {
	Total  int `json:"total"`
	Points int `json:"points"`
}

type RatingStats struct {
	Total int `json:"total"`
	// AverageScore is formatted with one decimal, "0" without ratings.
	AverageScore string `json:"averageScore"`
}

type UserStats struct {
	Itineraries  ItineraryStats    `json:"itineraries"`
	Destinations DestinationStats  `json:"destinations"`
	Days         DayStats          `json:"days"`
	Budget       BudgetStats       `json:"budget"`
	Social       SocialStats       `json:"social"`
	Achievements AchievementTotals `json:"achievements"`
	Ratings      RatingStats       `json:"ratings"`
}

type LeaderboardUser struct {
	Name          string  `json:"name"`
	Avatar        *string `json:"avatar"`
	PublicProfile bool    `json:"publicProfile"`
}

type LeaderboardEntry struct {
	Position          int             `json:"position"`
	UserID            uuid.UUID       `json:"_id"`
	TotalPoints       int64           `json:"totalPoints"`
	AchievementsCount int64           `json:"achievementsCount"`
	User              LeaderboardUser `json:"user"`
}
