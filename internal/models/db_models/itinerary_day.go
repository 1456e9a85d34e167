package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Day struct {
	ID          uuid.UUID  `json:"id"`
	Date        time.Time  `json:"date"`
	DayNumber   int        `json:"dayNumber"`
	Title       string     `json:"title"`
	Activities  []Activity `json:"activities"`
	DailyBudget float64    `json:"dailyBudget"`
	Notes       string     `json:"notes"`
}

type Activity struct {
	ID            uuid.UUID     `json:"id"`
	Time          string        `json:"time"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	Location      *Location     `json:"location,omitempty"`
	EstimatedCost float64       `json:"estimatedCost"`
	Duration      int           `json:"duration"`
	Category      string        `json:"category"`
	BookingLinks  []BookingLink `json:"bookingLinks,omitempty"`
	Completed     bool          `json:"completed"`
}

type Location struct {
	Name        string       `json:"name,omitempty"`
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type BookingLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// EnsureIDs assigns ids to days and activities that arrived without one.
func EnsureIDs(days []Day) {
	for d := range days {
		if days[d].ID == uuid.Nil {
			days[d].ID = uuid.New()
		}
		for a := range days[d].Activities {
			if days[d].Activities[a].ID == uuid.Nil {
				days[d].Activities[a].ID = uuid.New()
			}
		}
	}
}
