package controllers

import (
	"github.com/gin-gonic/gin"
	"viajei/internal/services"
	"viajei/pkg/utils"
)

type AchievementController struct {
	achievementService services.AchievementServiceInterface
}

func NewAchievementController(achievementService services.AchievementServiceInterface) *AchievementController {
	return &AchievementController{achievementService: achievementService}
}

// MyAchievements godoc
// @Summary Achievement catalog with the caller's progress
// @Tags Achievement
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /achievements/my-achievements [get]
func (a *AchievementController) MyAchievements(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := a.achievementService.MyAchievements(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Achievements fetched successfully")
}

// Stats godoc
// @Summary Travel statistics of the caller
// @Tags Achievement
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /achievements/stats [get]
func (a *AchievementController) Stats(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := a.achievementService.Stats(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "Stats fetched successfully")
}

// Leaderboard godoc
// @Summary Points leaderboard
// @Tags Achievement
// @Produce json
// @Param limit query int false "Maximum entries" default(50) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Router /achievements/leaderboard [get]
func (a *AchievementController) Leaderboard(c *gin.Context) {
	limit, ok := intQuery(c, "limit", services.DefaultLeaderboardLimit)
	if !ok {
		return
	}
	entries, err := a.achievementService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entries, "Leaderboard fetched successfully")
}

// Check godoc
// @Summary Evaluate achievements now
// @Description Runs every rule synchronously and returns the newly unlocked achievements
// @Tags Achievement
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /achievements/check [post]
func (a *AchievementController) Check(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	unlocked, err := a.achievementService.EvaluateAndUnlock(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"newAchievements": unlocked}, "Achievements checked")
}
