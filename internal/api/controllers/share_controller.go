package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"viajei/internal/services"
	"viajei/pkg/utils"
)

type ShareController struct {
	shareService services.ShareServiceInterface
}

func NewShareController(shareService services.ShareServiceInterface) *ShareController {
	return &ShareController{shareService: shareService}
}

// CreateLink godoc
// @Summary Create a share link
// @Description Owner only. Reuses the existing token and makes the itinerary public.
// @Tags Share
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/share [post]
func (s *ShareController) CreateLink(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	link, err := s.shareService.Link(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, link, "Share link generated successfully")
}

// Revoke godoc
// @Summary Revoke the share link
// @Tags Share
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{id}/share [delete]
func (s *ShareController) Revoke(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	if err := s.shareService.Revoke(c.Request.Context(), userId, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Share link revoked successfully")
}

// QRCode godoc
// @Summary QR code of the share link
// @Tags Share
// @Produce png
// @Param id path string true "Itinerary ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /itineraries/{id}/share/qr [get]
func (s *ShareController) QRCode(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "itinerary")
	if !ok {
		return
	}

	png, err := s.shareService.QRCode(c.Request.Context(), userId, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetShared godoc
// @Summary Open a shared itinerary
// @Description Anonymous read by share token. Private fields are removed.
// @Tags Share
// @Produce json
// @Param shareId path string true "Share token"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /shared/{shareId} [get]
func (s *ShareController) GetShared(c *gin.Context) {
	itinerary, err := s.shareService.GetShared(c.Request.Context(), c.Param("shareId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, itinerary, "Itinerary fetched successfully")
}

// CopyShared godoc
// @Summary Copy a shared itinerary
// @Description Creates a draft copy in the caller's account
// @Tags Share
// @Produce json
// @Param shareId path string true "Share token"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /shared/{shareId}/copy [post]
func (s *ShareController) CopyShared(c *gin.Context) {
	userId, ok := requireUser(c)
	if !ok {
		return
	}

	itinerary, err := s.shareService.Copy(c.Request.Context(), userId, c.Param("shareId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, itinerary, "Itinerary copied successfully")
}
