package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"viajei/internal/logging"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// RespondErrorWithData is used when the client needs structured details, e.g. lockout expiry.
func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrItineraryNotFound):
		RespondError(c, http.StatusNotFound, "Itinerary not found")
	case errors.Is(err, ErrExpenseNotFound):
		RespondError(c, http.StatusNotFound, "Expense not found")
	case errors.Is(err, ErrRatingNotFound):
		RespondError(c, http.StatusNotFound, "Rating not found")
	case errors.Is(err, ErrUserNotFound):
		RespondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrShareLinkNotFound), errors.Is(err, ErrNotPublic):
		RespondError(c, http.StatusNotFound, "Itinerary not found or not public")
	case errors.Is(err, ErrNotOwner):
		RespondError(c, http.StatusForbidden, "Only the owner can perform this action")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "You do not have permission to access this itinerary")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrDuplicate):
		RespondError(c, http.StatusConflict, "Record already exists")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, ErrAlreadyCollaborator):
		RespondError(c, http.StatusBadRequest, "User is already a collaborator of this itinerary")
	case errors.Is(err, ErrSelfCollaborator):
		RespondError(c, http.StatusBadRequest, "The owner cannot be added as a collaborator")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrGeneratorUnavailable):
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("generator error")
		RespondError(c, http.StatusServiceUnavailable, "Itinerary generation is temporarily unavailable")
	case errors.Is(err, ErrDatabaseError):
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("unhandled service error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
