package services

import (
	"fmt"
	"sort"
	"time"

	"viajei/internal/models/db_models"
	"viajei/internal/models/response_models"
)

const recentExpenseCount = 10

// dailyBaseCosts are per-day costs in BRL by budget level.
var dailyBaseCosts = map[db_models.BudgetLevel]map[string]float64{
	db_models.BudgetEconomic: {"hospedagem": 100, "alimentacao": 80, "transporte": 50, "atracoes": 70},
	db_models.BudgetMedium:   {"hospedagem": 250, "alimentacao": 150, "transporte": 100, "atracoes": 150},
	db_models.BudgetLuxury:   {"hospedagem": 600, "alimentacao": 350, "transporte": 200, "atracoes": 300},
}

// EstimateBudget prices a trip of the given number of days. Unknown levels fall back to medio.
func EstimateBudget(level db_models.BudgetLevel, days int) response_models.BudgetEstimate {
	costs, ok := dailyBaseCosts[level]
	if !ok {
		costs = dailyBaseCosts[db_models.BudgetMedium]
	}

	breakdown := make(map[string]float64, len(costs))
	var daily float64
	for k, v := range costs {
		breakdown[k] = v
		daily += v
	}
	if days < 0 {
		days = 0
	}
	return response_models.BudgetEstimate{
		EstimatedTotal: daily * float64(days),
		DailyAverage:   daily,
		Breakdown:      breakdown,
	}
}

// RecomputeSpent folds the expense amounts into budget.spent and stamps lastUpdated.
// Currencies are summed as raw numbers.
func RecomputeSpent(itinerary *db_models.Itinerary, now time.Time) float64 {
	var spent float64
	for _, e := range itinerary.Expenses {
		spent += e.Amount
	}
	itinerary.Budget.Spent = spent
	itinerary.Budget.LastUpdated = now
	return spent
}

func budgetSnapshot(itinerary *db_models.Itinerary) response_models.BudgetSnapshot {
	return response_models.BudgetSnapshot{
		Estimated: itinerary.Budget.EstimatedTotal,
		Spent:     itinerary.Budget.Spent,
		Remaining: itinerary.Budget.EstimatedTotal - itinerary.Budget.Spent,
		Currency:  itinerary.Budget.Currency,
	}
}

// BuildBudgetSummary is the read-only budget view of an itinerary. Remaining may be negative.
func BuildBudgetSummary(itinerary *db_models.Itinerary) response_models.BudgetSummary {
	b := itinerary.Budget

	percentage := "0"
	if b.EstimatedTotal > 0 {
		percentage = fmt.Sprintf("%.1f", b.Spent/b.EstimatedTotal*100)
	}
	daily := "0"
	if itinerary.Duration > 0 {
		daily = fmt.Sprintf("%.2f", b.Spent/float64(itinerary.Duration))
	}

	byCategory := make(map[db_models.ExpenseCategory]*response_models.CategoryTotal)
	for _, e := range itinerary.Expenses {
		total, ok := byCategory[e.Category]
		if !ok {
			total = &response_models.CategoryTotal{Items: []response_models.CategoryItem{}}
			byCategory[e.Category] = total
		}
		total.Total += e.Amount
		total.Count++
		total.Items = append(total.Items, response_models.CategoryItem{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount,
			Date:        e.Date,
		})
	}

	recent := make([]db_models.Expense, len(itinerary.Expenses))
	copy(recent, itinerary.Expenses)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > recentExpenseCount {
		recent = recent[:recentExpenseCount]
	}

	return response_models.BudgetSummary{
		Budget: response_models.BudgetOverview{
			Estimated:   b.EstimatedTotal,
			Spent:       b.Spent,
			Remaining:   b.EstimatedTotal - b.Spent,
			Percentage:  percentage,
			Currency:    b.Currency,
			Level:       b.Level,
			LastUpdated: b.LastUpdated,
		},
		Expenses: response_models.ExpenseBreakdown{
			Total:      len(itinerary.Expenses),
			ByCategory: byCategory,
			Recent:     recent,
		},
		DailyAverage: daily,
	}
}
