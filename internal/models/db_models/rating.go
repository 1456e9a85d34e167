package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Rating is unique per (itinerary, user).
type Rating struct {
	BaseModel
	ItineraryID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_itinerary_user,priority:1" json:"itinerary"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_itinerary_user,priority:2;index" json:"user"`
	User           *User          `gorm:"foreignKey:UserID" json:"userInfo,omitempty"`
	Score          int            `gorm:"type:int;not null;check:score >= 1 AND score <= 5;index" json:"score"`
	Comment        string         `gorm:"type:text" json:"comment"`
	Photos         pq.StringArray `gorm:"type:text[]" json:"photos"`
	Highlights     pq.StringArray `gorm:"type:text[]" json:"highlights"`
	WouldRecommend bool           `gorm:"not null" json:"wouldRecommend"`
	TravelDate     *time.Time     `json:"travelDate,omitempty"`
	Likes          pq.StringArray `gorm:"type:text[]" json:"likes"`
}

func (r *Rating) LikesCount() int {
	return len(r.Likes)
}
