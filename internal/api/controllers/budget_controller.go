package controllers

import (
	"github.com/gin-gonic/gin"
	"viajei/internal/models/request_models"
	"viajei/internal/services"
	"viajei/pkg/utils"
)

type BudgetController struct {
	budgetService services.BudgetServiceInterface
}

func NewBudgetController(budgetService services.BudgetServiceInterface) *BudgetController {
	return &BudgetController{budgetService: budgetService}
}

// AddExpense godoc
// @Summary Add an expense
// @Description Owner or edit collaborator. Returns the expense and the refreshed budget snapshot.
// @Tags Budget
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.ExpenseRequest true "Expense"
// @Success 201 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/expenses [post]
func (b *BudgetController) AddExpense(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	var req request_models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := b.budgetService.AddExpense(c.Request.Context(), userId, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, result, result.Message)
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags Budget
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param expenseId path string true "Expense ID"
// @Param request body request_models.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/expenses/{expenseId} [put]
func (b *BudgetController) UpdateExpense(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	expenseId, ok := uuidParam(c, "expenseId", "expense")
	if !ok {
		return
	}
	var req request_models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := b.budgetService.UpdateExpense(c.Request.Context(), userId, id, expenseId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, result.Message)
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags Budget
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param expenseId path string true "Expense ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/expenses/{expenseId} [delete]
func (b *BudgetController) DeleteExpense(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	expenseId, ok := uuidParam(c, "expenseId", "expense")
	if !ok {
		return
	}

	result, err := b.budgetService.DeleteExpense(c.Request.Context(), userId, id, expenseId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, result.Message)
}

// Summary godoc
// @Summary Budget summary
// @Description Estimated, spent and remaining totals with a per category breakdown
// @Tags Budget
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/budget-summary [get]
func (b *BudgetController) Summary(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	summary, err := b.budgetService.Summary(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, summary, "Budget summary fetched successfully")
}
