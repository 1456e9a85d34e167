package embeddings

import (
	"context"
	"math"
	"strings"
	"testing"

	"viajei/internal/models/db_models"
)

func TestHashEmbedderIsDeterministicUnitVector(t *testing.T) {
	ctx := context.Background()
	a, err := HashEmbedder{}.Embed(ctx, "Praia e museus em Lisboa")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashEmbedder{}.Embed(ctx, "  praia E MUSEUS em lisboa ")

	av, bv := a.Slice(), b.Slice()
	if len(av) != Dimensions {
		t.Fatalf("len = %d, want %d", len(av), Dimensions)
	}

	var norm float64
	for i := range av {
		if av[i] != bv[i] {
			t.Fatalf("vectors differ at %d", i)
		}
		norm += float64(av[i]) * float64(av[i])
	}
	if math.Abs(norm-1) > 1e-3 {
		t.Errorf("norm = %v, want 1", norm)
	}
}

func TestHashEmbedderEmptyText(t *testing.T) {
	v, err := HashEmbedder{}.Embed(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range v.Slice() {
		if x != 0 {
			t.Fatal("empty text should map to the zero vector")
		}
	}
}

func TestDocument(t *testing.T) {
	it := &db_models.Itinerary{
		Title:       "Férias",
		Destination: db_models.Destination{City: "Lisboa", Country: "Portugal"},
		Budget:      db_models.Budget{Level: db_models.BudgetMedium},
		Preferences: db_models.TripPreferences{Interests: []string{"museus", "praia"}},
		Days: []db_models.Day{{Activities: []db_models.Activity{{Title: "Torre de Belém"}}}},
	}
	doc := Document(it)
	for _, want := range []string{"Lisboa", "Portugal", "museus, praia", "Torre de Belém", "medio"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document %q missing %q", doc, want)
		}
	}
}
