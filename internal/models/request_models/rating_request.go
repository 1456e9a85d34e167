package request_models

type RatingRequest struct {
	Score          int      `json:"score" binding:"required,min=1,max=5"`
	Comment        *string  `json:"comment" binding:"omitempty,max=1000"`
	Photos         []string `json:"photos" binding:"omitempty,max=20,dive,url"`
	Highlights     []string `json:"highlights" binding:"omitempty,dive,highlight"`
	WouldRecommend *bool    `json:"wouldRecommend"`
	TravelDate     *string  `json:"travelDate"`
}

// OwnerReviewRequest edits the rating summary stored on the itinerary itself.
type OwnerReviewRequest struct {
	Score   *int     `json:"score" binding:"omitempty,min=1,max=5"`
	Comment *string  `json:"comment" binding:"omitempty,max=1000"`
	Photos  []string `json:"photos" binding:"omitempty,dive,url"`
}
