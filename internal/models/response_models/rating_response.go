package response_models

import "viajei/internal/models/db_models"

type ItineraryRatingStats struct {
	TotalRatings       int64       `json:"totalRatings"`
	AverageScore       string      `json:"averageScore"`
	Distribution       map[int]int `json:"distribution"`
	RecommendationRate string      `json:"recommendationRate"`
}

type RatingList struct {
	Ratings    []db_models.Rating   `json:"ratings"`
	Stats      ItineraryRatingStats `json:"stats"`
	Pagination Pagination           `json:"pagination"`
}

type RatingMutation struct {
	Created bool              `json:"-"`
	Message string            `json:"message"`
	Rating  *db_models.Rating `json:"rating"`
}
