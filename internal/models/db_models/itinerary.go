package db_models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ItineraryStatus string

const (
	StatusDraft      ItineraryStatus = "rascunho"
	StatusPlanning   ItineraryStatus = "planejando"
	StatusConfirmed  ItineraryStatus = "confirmado"
	StatusInProgress ItineraryStatus = "em_andamento"
	StatusCompleted  ItineraryStatus = "concluido"
)

var ItineraryStatuses = []ItineraryStatus{StatusDraft, StatusPlanning, StatusConfirmed, StatusInProgress, StatusCompleted}

type BudgetLevel string

const (
	BudgetEconomic BudgetLevel = "economico"
	BudgetMedium   BudgetLevel = "medio"
	BudgetLuxury   BudgetLevel = "luxo"
)

type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

type Itinerary struct {
	BaseModel
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_itineraries_owner_created,priority:1" json:"owner"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"ownerInfo,omitempty"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Destination Destination     `gorm:"embedded;embeddedPrefix:destination_" json:"destination"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Duration    int             `json:"duration"`
	Budget      Budget          `gorm:"embedded;embeddedPrefix:budget_" json:"budget"`
	Preferences TripPreferences `gorm:"type:jsonb;serializer:json" json:"preferences"`

	Days          datatypes.JSONSlice[Day]          `gorm:"type:jsonb" json:"days"`
	Expenses      datatypes.JSONSlice[Expense]      `gorm:"type:jsonb" json:"expenses"`
	Collaborators datatypes.JSONSlice[Collaborator] `gorm:"type:jsonb" json:"collaborators"`

	Status        ItineraryStatus `gorm:"size:20;default:rascunho;index" json:"status"`
	IsPublic      bool            `gorm:"index:idx_itineraries_public_views,priority:1" json:"isPublic"`
	GeneratedByAI bool            `gorm:"column:generated_by_ai" json:"generatedByAI"`
	AIPrompt      *string         `gorm:"column:ai_prompt" json:"aiPrompt,omitempty"`
	Rating        RatingSummary   `gorm:"type:jsonb;serializer:json" json:"rating"`
	PublicLink    *string         `gorm:"uniqueIndex" json:"publicLink,omitempty"`
	Likes         pq.StringArray  `gorm:"type:text[]" json:"likes"`
	Photos        pq.StringArray  `gorm:"type:text[]" json:"photos"`
	Views         int64           `gorm:"default:0;index:idx_itineraries_public_views,priority:2" json:"views"`
	LastEditedBy  *uuid.UUID      `gorm:"type:uuid" json:"lastEditedBy,omitempty"`
	LastEditedAt  time.Time       `json:"lastEditedAt"`
}

type Destination struct {
	City       string  `gorm:"index" json:"city"`
	Country    string  `json:"country"`
	CoverImage *string `json:"coverImage,omitempty"`
}

type Budget struct {
	Level          BudgetLevel `gorm:"size:20;default:medio" json:"level"`
	EstimatedTotal float64     `json:"estimatedTotal"`
	Spent          float64     `json:"spent"`
	Currency       string      `gorm:"size:3;default:BRL" json:"currency"`
	LastUpdated    time.Time   `json:"lastUpdated"`
}

type TripPreferences struct {
	Interests   []string `json:"interests"`
	TravelStyle string   `json:"travelStyle,omitempty"`
	Pace        string   `json:"pace,omitempty"`
}

// RatingSummary mirrors the owner's own rating. Only the owner-rates-own-itinerary path writes it.
type RatingSummary struct {
	Score   *int       `json:"score"`
	Comment string     `json:"comment,omitempty"`
	Photos  []string   `json:"photos,omitempty"`
	RatedAt *time.Time `json:"ratedAt,omitempty"`
}

type Collaborator struct {
	UserID     uuid.UUID  `json:"user"`
	Permission Permission `json:"permission"`
	AddedAt    time.Time  `json:"addedAt"`
}

// TripDuration is the inclusive day count between two dates.
func TripDuration(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours()/24)) + 1
}

// BeforeSave keeps Duration consistent with the date range.
func (i *Itinerary) BeforeSave(tx *gorm.DB) error {
	i.RecomputeDuration()
	return nil
}

func (i *Itinerary) RecomputeDuration() {
	if !i.StartDate.IsZero() && !i.EndDate.IsZero() {
		i.Duration = TripDuration(i.StartDate, i.EndDate)
	}
}

func (i *Itinerary) IsOwner(userID uuid.UUID) bool {
	return i.OwnerID == userID
}

func (i *Itinerary) Collaborator(userID uuid.UUID) (Collaborator, bool) {
	for _, c := range i.Collaborators {
		if c.UserID == userID {
			return c, true
		}
	}
	return Collaborator{}, false
}

func (i *Itinerary) LikedBy(userID string) bool {
	for _, id := range i.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func (i *Itinerary) IsCompleted() bool {
	return i.Status == StatusCompleted
}

func (i *Itinerary) Touch(editor uuid.UUID, now time.Time) {
	i.LastEditedBy = &editor
	i.LastEditedAt = now
}
