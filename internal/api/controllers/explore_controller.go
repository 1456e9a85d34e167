package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"viajei/internal/repositories"
	"viajei/internal/services"
	"viajei/pkg/utils"
)

type ExploreController struct {
	exploreService services.ExploreServiceInterface
}

func NewExploreController(exploreService services.ExploreServiceInterface) *ExploreController {
	return &ExploreController{exploreService: exploreService}
}

func feedFilter(c *gin.Context) (repositories.PublicFeedFilter, bool) {
	page, limit, ok := pageQuery(c, services.DefaultFeedLimit)
	if !ok {
		return repositories.PublicFeedFilter{}, false
	}
	minDuration, ok := intQuery(c, "minDuration", 0)
	if !ok {
		return repositories.PublicFeedFilter{}, false
	}
	maxDuration, ok := intQuery(c, "maxDuration", 0)
	if !ok {
		return repositories.PublicFeedFilter{}, false
	}
	minRating, ok := floatQuery(c, "minRating")
	if !ok {
		return repositories.PublicFeedFilter{}, false
	}

	return repositories.PublicFeedFilter{
		ListOptions: repositories.ListOptions{
			Page:   page,
			Limit:  limit,
			SortBy: c.Query("sortBy"),
			Asc:    strings.EqualFold(c.Query("order"), "asc"),
		},
		Country:     strings.TrimSpace(c.Query("country")),
		City:        strings.TrimSpace(c.Query("city")),
		BudgetLevel: c.Query("budgetLevel"),
		MinDuration: minDuration,
		MaxDuration: maxDuration,
		MinRating:   minRating,
		Completed:   c.Query("completed") == "true",
		Search:      strings.TrimSpace(c.Query("search")),
	}, true
}

// Feed godoc
// @Summary Public itinerary feed
// @Description Public itineraries of public profiles. Returned itineraries get a view counted.
// @Tags Explore
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20) maximum(50)
// @Param country query string false "Country, case-insensitive substring"
// @Param city query string false "City, case-insensitive substring"
// @Param budgetLevel query string false "economico, medio or luxo"
// @Param minDuration query int false "Minimum days"
// @Param maxDuration query int false "Maximum days"
// @Param minRating query number false "Minimum owner score"
// @Param completed query bool false "Only completed trips"
// @Param search query string false "Matches title, city or country"
// @Param sortBy query string false "createdAt, views, rating or duration"
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} utils.APIResponse
// @Router /explore/itineraries [get]
func (e *ExploreController) Feed(c *gin.Context) {
	filter, ok := feedFilter(c)
	if !ok {
		return
	}

	feed, err := e.exploreService.Feed(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, feed, "Itineraries fetched successfully")
}

// Featured godoc
// @Summary Featured itineraries
// @Description Completed public trips rated 4 or more, most viewed first
// @Tags Explore
// @Produce json
// @Param limit query int false "Maximum results" default(10) maximum(20)
// @Success 200 {object} utils.APIResponse
// @Router /explore/featured [get]
func (e *ExploreController) Featured(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	itineraries, err := e.exploreService.Featured(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, itineraries, "Featured itineraries fetched successfully")
}

// PopularDestinations godoc
// @Summary Popular destinations
// @Tags Explore
// @Produce json
// @Param limit query int false "Maximum results" default(10) maximum(20)
// @Success 200 {object} utils.APIResponse
// @Router /explore/popular-destinations [get]
func (e *ExploreController) PopularDestinations(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	rows, err := e.exploreService.PopularDestinations(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, rows, "Popular destinations fetched successfully")
}

// ToggleLike godoc
// @Summary Like or unlike a public itinerary
// @Tags Explore
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /explore/like/{id} [post]
func (e *ExploreController) ToggleLike(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	result, err := e.exploreService.ToggleLike(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Like updated")
}

// ToggleSave godoc
// @Summary Bookmark or unbookmark a public itinerary
// @Tags Explore
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /explore/save/{id} [post]
func (e *ExploreController) ToggleSave(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	result, err := e.exploreService.ToggleSave(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Bookmark updated")
}

// Saved godoc
// @Summary Bookmarked itineraries
// @Tags Explore
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20) maximum(50)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /explore/saved [get]
func (e *ExploreController) Saved(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	page, limit, ok := pageQuery(c, services.DefaultFeedLimit)
	if !ok {
		return
	}

	saved, err := e.exploreService.Saved(c.Request.Context(), userId, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, saved, "Saved itineraries fetched successfully")
}
