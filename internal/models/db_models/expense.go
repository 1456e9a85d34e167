package db_models

import (
	"time"

	"github.com/google/uuid"
)

type ExpenseCategory string

const (
	ExpenseLodging    ExpenseCategory = "hospedagem"
	ExpenseFood       ExpenseCategory = "alimentacao"
	ExpenseTransport  ExpenseCategory = "transporte"
	ExpenseAttraction ExpenseCategory = "atracao"
	ExpenseShopping   ExpenseCategory = "compras"
	ExpenseOther      ExpenseCategory = "outro"
)

var ExpenseCategories = []ExpenseCategory{ExpenseLodging, ExpenseFood, ExpenseTransport, ExpenseAttraction, ExpenseShopping, ExpenseOther}

// Expense is embedded in an itinerary. Its ID never changes once assigned.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Category    ExpenseCategory `json:"category"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Receipt     *string         `json:"receipt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
