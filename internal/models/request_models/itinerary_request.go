package request_models

import "viajei/internal/models/db_models"

type DestinationInput struct {
	City       string  `json:"city" binding:"required,max=100"`
	Country    string  `json:"country" binding:"required,max=100"`
	CoverImage *string `json:"coverImage" binding:"omitempty,url"`
}

type BudgetInput struct {
	Level          string   `json:"level" binding:"omitempty,budget_level"`
	EstimatedTotal *float64 `json:"estimatedTotal" binding:"omitempty,gte=0"`
	Currency       string   `json:"currency" binding:"omitempty,len=3"`
}

type PreferencesInput struct {
	Interests   []string `json:"interests"`
	TravelStyle string   `json:"travelStyle" binding:"omitempty,travel_style"`
	Pace        string   `json:"pace" binding:"omitempty,pace"`
}

// Dates accept YYYY-MM-DD or RFC3339.
type CreateItineraryRequest struct {
	Title       string            `json:"title" binding:"required,min=3,max=200"`
	Destination DestinationInput  `json:"destination" binding:"required"`
	StartDate   string            `json:"startDate" binding:"required"`
	EndDate     string            `json:"endDate" binding:"required"`
	Budget      *BudgetInput      `json:"budget"`
	Preferences *PreferencesInput `json:"preferences"`
	Days        []db_models.Day   `json:"days"`
	Status      string            `json:"status" binding:"omitempty,itinerary_status"`
	IsPublic    bool              `json:"isPublic"`
}

type GenerateItineraryRequest struct {
	Destination DestinationInput  `json:"destination" binding:"required"`
	StartDate   string            `json:"startDate" binding:"required"`
	EndDate     string            `json:"endDate" binding:"required"`
	Budget      *BudgetInput      `json:"budget"`
	Preferences *PreferencesInput `json:"preferences"`
}

// UpdateItineraryRequest only touches the fields present in the body.
type UpdateItineraryRequest struct {
	Title       *string           `json:"title" binding:"omitempty,min=1,max=200"`
	Destination *DestinationInput `json:"destination"`
	StartDate   *string           `json:"startDate"`
	EndDate     *string           `json:"endDate"`
	Budget      *BudgetInput      `json:"budget"`
	Preferences *PreferencesInput `json:"preferences"`
	Days        *[]db_models.Day  `json:"days"`
	Status      *string           `json:"status" binding:"omitempty,itinerary_status"`
	IsPublic    *bool             `json:"isPublic"`
}

type AddCollaboratorRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Permission string `json:"permission" binding:"omitempty,permission"`
}

type AddPhotosRequest struct {
	Photos []string `json:"photos" binding:"required,min=1,max=20,dive,url"`
}

type ExpenseRequest struct {
	Date        *string  `json:"date"`
	Category    string   `json:"category" binding:"required,expense_category"`
	Description string   `json:"description" binding:"required,max=200"`
	Amount      *float64 `json:"amount" binding:"required,gte=0"`
	Currency    string   `json:"currency" binding:"omitempty,len=3"`
	Receipt     *string  `json:"receipt" binding:"omitempty,url"`
}

type UpdateExpenseRequest struct {
	Date        *string  `json:"date"`
	Category    *string  `json:"category" binding:"omitempty,expense_category"`
	Description *string  `json:"description" binding:"omitempty,max=200"`
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
	Currency    *string  `json:"currency" binding:"omitempty,len=3"`
	Receipt     *string  `json:"receipt"`
}
