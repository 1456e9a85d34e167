package embeddings

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
	"viajei/internal/config"
	"viajei/internal/models/db_models"
)

// Dimensions matches the itinerary_embeddings.embedding column.
const Dimensions = 1536

type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	m := openai.SmallEmbedding3
	if model != "" {
		m = openai.EmbeddingModel(model)
	}
	return &OpenAIEmbedder{client: openai.NewClient(apiKey), model: m}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      e.model,
		Dimensions: Dimensions,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: empty response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

// HashEmbedder derives a unit vector from word hashes. It needs no network
// and keeps similar-itinerary search usable without an embeddings key.
type HashEmbedder struct{}

func (HashEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector(textToVector(text)), nil
}

func textToVector(text string) []float32 {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	vector := make([]float32, Dimensions)

	for _, word := range words {
		hash := hashWord(word)
		for i := 0; i < Dimensions; i++ {
			vector[i] += float32(math.Sin(float64(hash+uint32(i))) * 0.1)
		}
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}
	return vector
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return h.Sum32()
}

func New(cfg *config.Config) Embedder {
	if strings.EqualFold(cfg.Embeddings.Provider, "openai") && cfg.Embeddings.APIKey != "" {
		return NewOpenAIEmbedder(cfg.Embeddings.APIKey, cfg.Embeddings.Model)
	}
	return HashEmbedder{}
}

// Document is the text indexed for an itinerary: destination, title, preferences and activity titles.
func Document(it *db_models.Itinerary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. %s, %s. ", it.Title, it.Destination.City, it.Destination.Country)
	fmt.Fprintf(&b, "orçamento %s. ", it.Budget.Level)
	if len(it.Preferences.Interests) > 0 {
		fmt.Fprintf(&b, "interesses: %s. ", strings.Join(it.Preferences.Interests, ", "))
	}
	if it.Preferences.TravelStyle != "" {
		fmt.Fprintf(&b, "estilo %s. ", it.Preferences.TravelStyle)
	}
	for _, day := range it.Days {
		for _, act := range day.Activities {
			b.WriteString(act.Title)
			b.WriteString(". ")
		}
	}
	return strings.TrimSpace(b.String())
}
