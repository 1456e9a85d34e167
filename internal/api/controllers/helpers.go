package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"viajei/pkg/utils"
)

// currentUser reads the caller set by the auth middleware. Routes without auth get uuid.Nil.
func currentUser(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	id := currentUser(c)
	if id == uuid.Nil {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// intQuery returns def for an absent parameter and fails the request on a malformed one.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}

func floatQuery(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}

// pageQuery reads page and limit. Values below 1 are rejected, large limits are clamped by the services.
func pageQuery(c *gin.Context, defLimit int) (int, int, bool) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return 0, 0, false
	}
	if page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
		return 0, 0, false
	}
	limit, ok := intQuery(c, "limit", defLimit)
	if !ok {
		return 0, 0, false
	}
	if limit < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Limit must be greater than 0")
		return 0, 0, false
	}
	return page, limit, true
}

func bindError(c *gin.Context, err error) {
	utils.RespondError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
}
