package embedding_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"viajei/internal/embeddings"
	"viajei/internal/repositories"
	"viajei/internal/services"
)

var Module = fx.Provide(
	provideEmbeddingRepo,
	embeddings.New,
	provideEmbeddingService,
)

func provideEmbeddingRepo(db *gorm.DB) repositories.ItineraryEmbeddingRepository {
	return repositories.NewItineraryEmbeddingRepository(db)
}

func provideEmbeddingService(
	itineraryRepo repositories.ItineraryRepository,
	embeddingRepo repositories.ItineraryEmbeddingRepository,
	embedder embeddings.Embedder,
) services.EmbeddingServiceInterface {
	return services.NewEmbeddingService(itineraryRepo, embeddingRepo, embedder)
}
