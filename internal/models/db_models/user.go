package db_models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	BaseModel
	Name          string          `gorm:"size:100;not null" json:"name"`
	Email         string          `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string          `json:"-"`
	Avatar        *string         `json:"avatar"`
	Role          string          `gorm:"default:user" json:"role"`
	IsPremium     bool            `json:"isPremium"`
	RefreshToken  string          `json:"-"`
	LastLogin     *time.Time      `json:"lastLogin"`
	AcceptedTerms bool            `json:"acceptedTerms"`
	Preferences   UserPreferences `gorm:"type:jsonb;serializer:json" json:"preferences"`
	PublicProfile bool            `gorm:"default:false;index" json:"publicProfile"`

	SavedItineraries pq.StringArray `gorm:"type:text[]" json:"savedItineraries"`
}

type UserPreferences struct {
	TravelStyle string   `json:"travelStyle,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	BudgetLevel string   `json:"budgetLevel,omitempty"`
	Pace        string   `json:"pace,omitempty"`
}

// HasSaved reports whether the itinerary id is in the user's saved list.
func (u *User) HasSaved(itineraryID string) bool {
	for _, id := range u.SavedItineraries {
		if id == itineraryID {
			return true
		}
	}
	return false
}
