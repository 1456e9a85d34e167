package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"viajei/pkg/middleware"
	"viajei/pkg/utils"
)

type AdminController struct {
	lockout *middleware.Lockout
}

func NewAdminController(lockout *middleware.Lockout) *AdminController {
	return &AdminController{lockout: lockout}
}

// BlockedIPs godoc
// @Summary Locked out client addresses
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/blocked-ips [get]
func (a *AdminController) BlockedIPs(c *gin.Context) {
	blocked, err := a.lockout.Blocked(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to list blocked addresses")
		return
	}
	utils.RespondSuccess(c, gin.H{"count": len(blocked), "blocked": blocked}, "Blocked addresses fetched successfully")
}
