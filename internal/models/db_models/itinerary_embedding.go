package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ItineraryEmbedding struct {
	ItineraryID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	City        string          `gorm:"index"`
	Country     string
	Content     string
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}
