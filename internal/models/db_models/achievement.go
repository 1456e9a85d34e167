package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Achievement is unique per (user, type) and never changes after it is unlocked.
type Achievement struct {
	BaseModel
	UserID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_achievements_user_type,priority:1" json:"user"`
	Type        string            `gorm:"size:40;not null;uniqueIndex:idx_achievements_user_type,priority:2" json:"type"`
	Title       string            `gorm:"not null" json:"title"`
	Description string            `gorm:"not null" json:"description"`
	Icon        string            `gorm:"not null" json:"icon"`
	Points      int               `gorm:"not null;default:10" json:"points"`
	UnlockedAt  time.Time         `gorm:"index" json:"unlockedAt"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
}
