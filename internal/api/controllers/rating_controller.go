package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"viajei/internal/models/db_models"
	"viajei/internal/models/request_models"
	"viajei/internal/services"
	"viajei/pkg/utils"
)

type RatingController struct {
	ratingService services.RatingServiceInterface
}

func NewRatingController(ratingService services.RatingServiceInterface) *RatingController {
	return &RatingController{ratingService: ratingService}
}

// CreateOrUpdate godoc
// @Summary Rate an itinerary
// @Description Owner or collaborator. A second rating by the same user updates the first.
// @Tags Rating
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.RatingRequest true "Rating"
// @Success 201 {object} utils.APIResponse
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ratings/{id} [post]
func (r *RatingController) CreateOrUpdate(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	var req request_models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := r.ratingService.CreateOrUpdate(c.Request.Context(), userId, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	utils.RespondWithStatus(c, status, result.Rating, result.Message)
}

// ListByItinerary godoc
// @Summary Ratings of an itinerary
// @Description Paginated ratings with count, average, distribution and recommendation rate
// @Tags Rating
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /ratings/{id}/all [get]
func (r *RatingController) ListByItinerary(c *gin.Context) {
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	page, limit, ok := pageQuery(c, services.DefaultRatingPageSize)
	if !ok {
		return
	}

	list, err := r.ratingService.ListByItinerary(c.Request.Context(), currentUser(c), id, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, list, "Ratings fetched successfully")
}

// MyRating godoc
// @Summary Own rating of an itinerary
// @Tags Rating
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ratings/{id}/my-rating [get]
func (r *RatingController) MyRating(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	rating, err := r.ratingService.MyRating(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, rating, "Rating fetched successfully")
}

// MyRatings godoc
// @Summary All ratings written by the caller
// @Tags Rating
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ratings/my-ratings [get]
func (r *RatingController) MyRatings(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	ratings, err := r.ratingService.MyRatings(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, ratings, "Ratings fetched successfully")
}

// Delete godoc
// @Summary Delete a rating
// @Description Author only
// @Tags Rating
// @Produce json
// @Param id path string true "Rating ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ratings/{id} [delete]
func (r *RatingController) Delete(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "rating")
	if !ok {
		return
	}

	if err := r.ratingService.Delete(c.Request.Context(), userId, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Rating deleted successfully")
}

// ToggleLike godoc
// @Summary Like or unlike a rating
// @Tags Rating
// @Produce json
// @Param id path string true "Rating ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ratings/{id}/like [post]
func (r *RatingController) ToggleLike(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "rating")
	if !ok {
		return
	}

	result, err := r.ratingService.ToggleLike(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Like updated")
}

// AddOwnerReview godoc
// @Summary Review a completed trip
// @Description Owner only. The itinerary must be concluido.
// @Tags Rating
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.OwnerReviewRequest true "Review"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/rating [post]
func (r *RatingController) AddOwnerReview(c *gin.Context) {
	r.ownerReview(c, r.ratingService.AddOwnerReview, "Review added successfully")
}

// UpdateOwnerReview godoc
// @Summary Update the trip review
// @Tags Rating
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.OwnerReviewRequest true "Review"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/rating [put]
func (r *RatingController) UpdateOwnerReview(c *gin.Context) {
	r.ownerReview(c, r.ratingService.UpdateOwnerReview, "Review updated successfully")
}

func (r *RatingController) ownerReview(
	c *gin.Context,
	apply func(ctx context.Context, actor, itineraryId uuid.UUID, req request_models.OwnerReviewRequest) (*db_models.RatingSummary, error),
	message string,
) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	var req request_models.OwnerReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	summary, err := apply(c.Request.Context(), userId, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, summary, message)
}

// ClearOwnerReview godoc
// @Summary Remove the trip review
// @Tags Rating
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/rating [delete]
func (r *RatingController) ClearOwnerReview(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	if err := r.ratingService.ClearOwnerReview(c.Request.Context(), userId, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Review removed successfully")
}
