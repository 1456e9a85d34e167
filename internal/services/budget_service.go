package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"viajei/internal/logging"
	"viajei/internal/models/db_models"
	"viajei/internal/models/request_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

type BudgetServiceInterface interface {
	AddExpense(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.ExpenseRequest) (*response_models.ExpenseMutation, error)
	UpdateExpense(ctx context.Context, actor, itineraryId, expenseId uuid.UUID, req request_models.UpdateExpenseRequest) (*response_models.ExpenseMutation, error)
	DeleteExpense(ctx context.Context, actor, itineraryId, expenseId uuid.UUID) (*response_models.ExpenseMutation, error)
	Summary(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.BudgetSummary, error)
}

type BudgetService struct {
	itineraryRepo repositories.ItineraryRepository
	now           func() time.Time
}

func NewBudgetService(itineraryRepo repositories.ItineraryRepository) BudgetServiceInterface {
	return &BudgetService{
		itineraryRepo: itineraryRepo,
		now:           time.Now,
	}
}

func findExpense(itinerary *db_models.Itinerary, expenseId uuid.UUID) int {
	for i, e := range itinerary.Expenses {
		if e.ID == expenseId {
			return i
		}
	}
	return -1
}

// persist recomputes the ledger and saves the itinerary in one step.
func (b *BudgetService) persist(ctx context.Context, actor uuid.UUID, itinerary *db_models.Itinerary) error {
	now := b.now()
	RecomputeSpent(itinerary, now)
	itinerary.Touch(actor, now)
	if err := b.itineraryRepo.Save(ctx, itinerary); err != nil {
		return fmt.Errorf("save itinerary %s: %w: %w", itinerary.ID, utils.ErrDatabaseError, err)
	}
	return nil
}

func (b *BudgetService) AddExpense(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.ExpenseRequest) (*response_models.ExpenseMutation, error) {
	itinerary, err := loadItinerary(ctx, b.itineraryRepo, actor, itineraryId, accessWrite)
	if err != nil {
		return nil, err
	}

	now := b.now()
	expense := db_models.Expense{
		ID:          uuid.New(),
		Date:        now,
		Category:    db_models.ExpenseCategory(req.Category),
		Description: req.Description,
		Currency:    itinerary.Budget.Currency,
		Receipt:     req.Receipt,
		CreatedAt:   now,
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Currency != "" {
		expense.Currency = req.Currency
	}
	if req.Date != nil && *req.Date != "" {
		if expense.Date, err = utils.ParseDate(*req.Date); err != nil {
			return nil, err
		}
	}

	itinerary.Expenses = append(itinerary.Expenses, expense)
	if err := b.persist(ctx, actor, itinerary); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("itinerary_id", itineraryId.String()).
		Float64("amount", expense.Amount).
		Str("currency", expense.Currency).
		Msg("expense added")

	return &response_models.ExpenseMutation{
		Message:       "Gasto adicionado com sucesso",
		Expense:       &expense,
		BudgetSummary: budgetSnapshot(itinerary),
	}, nil
}

func (b *BudgetService) UpdateExpense(ctx context.Context, actor, itineraryId, expenseId uuid.UUID, req request_models.UpdateExpenseRequest) (*response_models.ExpenseMutation, error) {
	itinerary, err := loadItinerary(ctx, b.itineraryRepo, actor, itineraryId, accessWrite)
	if err != nil {
		return nil, err
	}

	idx := findExpense(itinerary, expenseId)
	if idx < 0 {
		return nil, utils.ErrExpenseNotFound
	}
	expense := &itinerary.Expenses[idx]

	if req.Date != nil && *req.Date != "" {
		date, err := utils.ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = date
	}
	if req.Category != nil && *req.Category != "" {
		expense.Category = db_models.ExpenseCategory(*req.Category)
	}
	if req.Description != nil && *req.Description != "" {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Currency != nil && *req.Currency != "" {
		expense.Currency = *req.Currency
	}
	if req.Receipt != nil {
		expense.Receipt = req.Receipt
	}

	if err := b.persist(ctx, actor, itinerary); err != nil {
		return nil, err
	}

	updated := itinerary.Expenses[idx]
	return &response_models.ExpenseMutation{
		Message:       "Gasto atualizado com sucesso",
		Expense:       &updated,
		BudgetSummary: budgetSnapshot(itinerary),
	}, nil
}

func (b *BudgetService) DeleteExpense(ctx context.Context, actor, itineraryId, expenseId uuid.UUID) (*response_models.ExpenseMutation, error) {
	itinerary, err := loadItinerary(ctx, b.itineraryRepo, actor, itineraryId, accessWrite)
	if err != nil {
		return nil, err
	}

	idx := findExpense(itinerary, expenseId)
	if idx < 0 {
		return nil, utils.ErrExpenseNotFound
	}
	itinerary.Expenses = append(itinerary.Expenses[:idx], itinerary.Expenses[idx+1:]...)

	if err := b.persist(ctx, actor, itinerary); err != nil {
		return nil, err
	}

	return &response_models.ExpenseMutation{
		Message:       "Gasto deletado com sucesso",
		BudgetSummary: budgetSnapshot(itinerary),
	}, nil
}

func (b *BudgetService) Summary(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.BudgetSummary, error) {
	itinerary, err := loadItinerary(ctx, b.itineraryRepo, actor, itineraryId, accessRead)
	if err != nil {
		return nil, err
	}
	summary := BuildBudgetSummary(itinerary)
	return &summary, nil
}
