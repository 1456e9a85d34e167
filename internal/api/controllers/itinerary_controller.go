package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"viajei/internal/models/request_models"
	"viajei/internal/repositories"
	"viajei/internal/services"
	"viajei/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	embeddingService services.EmbeddingServiceInterface
}

func NewItineraryController(
	itineraryService services.ItineraryServiceInterface,
	embeddingService services.EmbeddingServiceInterface,
) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		embeddingService: embeddingService,
	}
}

// List godoc
// @Summary List own and shared itineraries
// @Description Itineraries the caller owns or collaborates on, paginated
// @Tags Itinerary
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10) maximum(50)
// @Param sortBy query string false "createdAt, startDate, title or duration"
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries [get]
func (i *ItineraryController) List(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	page, limit, ok := pageQuery(c, services.DefaultPageLimit)
	if !ok {
		return
	}

	list, err := i.itineraryService.List(c.Request.Context(), userId, repositories.ListOptions{
		Page:   page,
		Limit:  limit,
		SortBy: c.Query("sortBy"),
		Asc:    strings.EqualFold(c.Query("order"), "asc"),
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, list, "Itineraries fetched successfully")
}

// Get godoc
// @Summary Get an itinerary
// @Tags Itinerary
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [get]
func (i *ItineraryController) Get(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	detail, err := i.itineraryService.Get(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Itinerary fetched successfully")
}

// Create godoc
// @Summary Create an itinerary
// @Description The budget is estimated from the level and duration when no total is given
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.CreateItineraryRequest true "Itinerary"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries [post]
func (i *ItineraryController) Create(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.CreateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	itinerary, err := i.itineraryService.Create(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, itinerary, "Itinerary created successfully")
}

// Generate godoc
// @Summary Generate an itinerary
// @Description Builds a day-by-day plan with the configured generator and stores it as a draft
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.GenerateItineraryRequest true "Trip parameters"
// @Success 201 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/generate [post]
func (i *ItineraryController) Generate(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.GenerateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	itinerary, err := i.itineraryService.Generate(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, itinerary, "Itinerary generated successfully")
}

// Update godoc
// @Summary Update an itinerary
// @Description Owner or edit collaborator. Only the fields present in the body are changed.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.UpdateItineraryRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [put]
func (i *ItineraryController) Update(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	var req request_models.UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	itinerary, err := i.itineraryService.Update(c.Request.Context(), userId, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, itinerary, "Itinerary updated successfully")
}

// Delete godoc
// @Summary Delete an itinerary
// @Tags Itinerary
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id} [delete]
func (i *ItineraryController) Delete(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	if err := i.itineraryService.Delete(c.Request.Context(), userId, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Itinerary deleted successfully")
}

// Duplicate godoc
// @Summary Duplicate an itinerary
// @Description Copies a readable itinerary into the caller's account as a draft
// @Tags Itinerary
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/duplicate [post]
func (i *ItineraryController) Duplicate(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	itinerary, err := i.itineraryService.Duplicate(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, itinerary, "Itinerary duplicated successfully")
}

// AddCollaborator godoc
// @Summary Add a collaborator
// @Description Owner only. The collaborator is looked up by email.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.AddCollaboratorRequest true "Collaborator"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/collaborators [post]
func (i *ItineraryController) AddCollaborator(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	var req request_models.AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	itinerary, collaborator, err := i.itineraryService.AddCollaborator(c.Request.Context(), userId, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{
		"itinerary":    itinerary,
		"collaborator": collaborator,
	}, "Collaborator added successfully")
}

// RemoveCollaborator godoc
// @Summary Remove a collaborator
// @Tags Itinerary
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param collaboratorId path string true "Collaborator user ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/collaborators/{collaboratorId} [delete]
func (i *ItineraryController) RemoveCollaborator(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	collaboratorId, ok := uuidParam(c, "collaboratorId", "collaborator")
	if !ok {
		return
	}

	itinerary, err := i.itineraryService.RemoveCollaborator(c.Request.Context(), userId, id, collaboratorId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, itinerary, "Collaborator removed successfully")
}

// AddPhotos godoc
// @Summary Attach photos
// @Description Appends already uploaded photo URLs to the itinerary
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param request body request_models.AddPhotosRequest true "Photo URLs"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/photos [post]
func (i *ItineraryController) AddPhotos(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	var req request_models.AddPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	itinerary, err := i.itineraryService.AddPhotos(c.Request.Context(), userId, id, req.Photos)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, itinerary, "Photos added successfully")
}

// ListRated godoc
// @Summary List reviewed itineraries
// @Description The caller's itineraries that carry an owner review
// @Tags Itinerary
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/rated/list [get]
func (i *ItineraryController) ListRated(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	itineraries, err := i.itineraryService.ListRated(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, itineraries, "Rated itineraries fetched successfully")
}

// Similar godoc
// @Summary Find similar public itineraries
// @Tags Itinerary
// @Produce json
// @Param id path string true "Itinerary ID"
// @Param limit query int false "Maximum results" default(5)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/similar [get]
func (i *ItineraryController) Similar(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}

	similar, err := i.embeddingService.Similar(c.Request.Context(), userId, id, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, similar, "Similar itineraries fetched successfully")
}
