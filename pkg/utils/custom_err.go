package utils

import "errors"

var (
	ErrItineraryNotFound    = errors.New("itinerary not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrRatingNotFound       = errors.New("rating not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrShareLinkNotFound    = errors.New("share link not found")
	ErrNotPublic            = errors.New("itinerary is not public")
	ErrForbidden            = errors.New("forbidden")
	ErrNotOwner             = errors.New("only the owner can perform this action")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrAlreadyCollaborator  = errors.New("user is already a collaborator")
	ErrSelfCollaborator     = errors.New("owner cannot be a collaborator")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidPage          = errors.New("invalid page parameter")
	ErrInvalidPageSize      = errors.New("invalid page size parameter")
	ErrDuplicate            = errors.New("duplicate record")
	ErrDatabaseError        = errors.New("database error")
	ErrGeneratorUnavailable = errors.New("itinerary generator unavailable")
)
