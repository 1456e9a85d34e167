package response_models

import (
	"time"

	"github.com/google/uuid"
	"viajei/internal/models/db_models"
)

// BudgetSnapshot is returned after every expense mutation.
type BudgetSnapshot struct {
	Estimated float64 `json:"estimated"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Currency  string  `json:"currency"`
}

type ExpenseMutation struct {
	Message       string             `json:"message"`
	Expense       *db_models.Expense `json:"expense,omitempty"`
	BudgetSummary BudgetSnapshot     `json:"budgetSummary"`
}

type BudgetOverview struct {
	Estimated   float64               `json:"estimated"`
	Spent       float64               `json:"spent"`
	Remaining   float64               `json:"remaining"`
	Percentage  string                `json:"percentage"`
	Currency    string                `json:"currency"`
	Level       db_models.BudgetLevel `json:"level"`
	LastUpdated time.Time             `json:"lastUpdated"`
}

type CategoryItem struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

type CategoryTotal struct {
	Total float64        `json:"total"`
	Count int            `json:"count"`
	Items []CategoryItem `json:"items"`
}

type ExpenseBreakdown struct {
	Total      int                                          `json:"total"`
	ByCategory map[db_models.ExpenseCategory]*CategoryTotal `json:"byCategory"`
	Recent     []db_models.Expense                          `json:"recent"`
}

type BudgetSummary struct {
	Budget       BudgetOverview   `json:"budget"`
	Expenses     ExpenseBreakdown `json:"expenses"`
	DailyAverage string           `json:"dailyAverage"`
}

type BudgetEstimate struct {
	EstimatedTotal float64            `json:"estimatedTotal"`
	DailyAverage   float64            `json:"dailyAverage"`
	Breakdown      map[string]float64 `json:"breakdown"`
}
