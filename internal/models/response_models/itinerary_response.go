package response_models

import (
	"github.com/google/uuid"
	"viajei/internal/models/db_models"
)

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

type ItineraryList struct {
	Itineraries []db_models.Itinerary `json:"itineraries"`
	Pagination  Pagination            `json:"pagination"`
}

type ShareLink struct {
	ShareURL string `json:"shareUrl"`
	ShareID  string `json:"shareId"`
}

type SimilarItinerary struct {
	Itinerary  db_models.Itinerary `json:"itinerary"`
	Similarity float64             `json:"similarity"`
}

type ToggleLike struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type ToggleSave struct {
	Saved      bool `json:"saved"`
	SavedCount int  `json:"savedCount"`
}

type CollaboratorView struct {
	UserID     uuid.UUID            `json:"user"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Avatar     *string              `json:"avatar"`
	Permission db_models.Permission `json:"permission"`
}

type ItineraryDetail struct {
	Itinerary     *db_models.Itinerary `json:"itinerary"`
	Collaborators []CollaboratorView   `json:"collaborators"`
	CanEdit       bool                 `json:"canEdit"`
}
