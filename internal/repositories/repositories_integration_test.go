//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"viajei/internal/embeddings"
	dbm "viajei/internal/models/db_models"
	"viajei/internal/testinfra"
)

func seedUser(t *testing.T, repo UserRepository, email string, public bool) *dbm.User {
	t.Helper()
	u := &dbm.User{Name: "Viajante", Email: email, PasswordHash: "x", PublicProfile: public}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func seedItinerary(t *testing.T, repo ItineraryRepository, owner uuid.UUID, city string, public bool) *dbm.Itinerary {
	t.Helper()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	it := &dbm.Itinerary{
		OwnerID:     owner,
		Title:       "Roteiro em " + city,
		Destination: dbm.Destination{City: city, Country: "Brasil"},
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		Duration:    4,
		Budget:      dbm.Budget{Level: dbm.BudgetMedium, EstimatedTotal: 2000, Currency: "BRL"},
		Status:      dbm.StatusDraft,
		IsPublic:    public,
	}
	if err := repo.Create(context.Background(), it); err != nil {
		t.Fatalf("create itinerary: %v", err)
	}
	return it
}

func TestRepositoriesAgainstPostgres(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	itineraries := NewItineraryRepository(db)
	ratings := NewRatingRepository(db)
	achievements := NewAchievementRepository(db)
	vectors := NewItineraryEmbeddingRepository(db)

	alice := seedUser(t, users, "alice@example.com", true)
	bob := seedUser(t, users, "bob@example.com", false)

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, &dbm.User{Name: "Outra", Email: "alice@example.com", PasswordHash: "x"})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			t.Errorf("err = %v, want ErrDuplicatedKey", err)
		}
	})

	floripa := seedItinerary(t, itineraries, alice.ID, "Florianópolis", true)
	curitiba := seedItinerary(t, itineraries, alice.ID, "Curitiba", false)
	hiddenOwner := seedItinerary(t, itineraries, bob.ID, "Florianópolis", true)

	t.Run("find by id", func(t *testing.T) {
		got, err := itineraries.FindById(ctx, floripa.ID)
		if err != nil || got == nil {
			t.Fatalf("FindById = %v, %v", got, err)
		}
		if got.Destination.City != "Florianópolis" || got.Budget.Level != dbm.BudgetMedium {
			t.Errorf("itinerary = %+v", got)
		}
		missing, err := itineraries.FindById(ctx, uuid.New())
		if err != nil || missing != nil {
			t.Errorf("missing = %v, %v", missing, err)
		}
	})

	t.Run("public feed hides private profiles", func(t *testing.T) {
		feed, total, err := itineraries.ListPublicFeed(ctx, PublicFeedFilter{City: "floria"})
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 || len(feed) != 1 || feed[0].ID != floripa.ID {
			t.Fatalf("feed = %d items (total %d)", len(feed), total)
		}
		if feed[0].Owner == nil || feed[0].Owner.Name != "Viajante" {
			t.Errorf("owner not preloaded: %+v", feed[0].Owner)
		}
	})

	t.Run("views", func(t *testing.T) {
		if err := itineraries.IncrementViews(ctx, []uuid.UUID{floripa.ID, curitiba.ID}); err != nil {
			t.Fatal(err)
		}
		if err := itineraries.IncrementViews(ctx, []uuid.UUID{floripa.ID}); err != nil {
			t.Fatal(err)
		}
		got, _ := itineraries.FindById(ctx, floripa.ID)
		if got.Views != 2 {
			t.Errorf("views = %d, want 2", got.Views)
		}
	})

	t.Run("accessible includes owned only", func(t *testing.T) {
		list, total, err := itineraries.ListAccessible(ctx, alice.ID, ListOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 || len(list) != 2 {
			t.Errorf("accessible = %d (total %d), want 2", len(list), total)
		}
	})

	t.Run("ratings are unique per user", func(t *testing.T) {
		first := &dbm.Rating{ItineraryID: floripa.ID, UserID: bob.ID, Score: 5, WouldRecommend: true}
		if err := ratings.Create(ctx, first); err != nil {
			t.Fatal(err)
		}
		again := &dbm.Rating{ItineraryID: floripa.ID, UserID: bob.ID, Score: 3}
		if err := ratings.Create(ctx, again); !errors.Is(err, gorm.ErrDuplicatedKey) {
			t.Errorf("second rating err = %v, want ErrDuplicatedKey", err)
		}
		other := &dbm.Rating{ItineraryID: floripa.ID, UserID: alice.ID, Score: 5, WouldRecommend: false}
		if err := ratings.Create(ctx, other); err != nil {
			t.Fatal(err)
		}

		buckets, err := ratings.ScoreBuckets(ctx, floripa.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(buckets) != 1 || buckets[0].Score != 5 || buckets[0].Count != 2 || buckets[0].Recommended != 1 {
			t.Errorf("buckets = %+v", buckets)
		}
	})

	t.Run("achievements unlock once", func(t *testing.T) {
		unlock := func(user uuid.UUID, kind string, points int) bool {
			created, err := achievements.CreateIfAbsent(ctx, &dbm.Achievement{
				UserID: user, Type: kind, Title: kind, Description: kind, Icon: "*",
				Points: points, UnlockedAt: time.Now(),
			})
			if err != nil {
				t.Fatal(err)
			}
			return created
		}
		if !unlock(alice.ID, "first_trip", 10) {
			t.Fatal("first unlock not created")
		}
		if unlock(alice.ID, "first_trip", 10) {
			t.Error("duplicate unlock created a row")
		}
		unlock(alice.ID, "explorer", 25)
		unlock(bob.ID, "first_trip", 10)

		totals, err := achievements.Totals(ctx, alice.ID)
		if err != nil {
			t.Fatal(err)
		}
		if totals.Count != 2 || totals.Points != 35 {
			t.Errorf("totals = %+v", totals)
		}

		board, err := achievements.Leaderboard(ctx, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(board) != 2 || board[0].UserID != alice.ID || board[0].TotalPoints != 35 {
			t.Errorf("leaderboard = %+v", board)
		}
	})

	t.Run("nearest public embeddings", func(t *testing.T) {
		embedder := embeddings.HashEmbedder{}
		index := func(it *dbm.Itinerary, text string) {
			vec, err := embedder.Embed(ctx, text)
			if err != nil {
				t.Fatal(err)
			}
			row := &dbm.ItineraryEmbedding{
				ItineraryID: it.ID,
				City:        it.Destination.City,
				Country:     it.Destination.Country,
				Content:     text,
				Embedding:   vec,
			}
			if err := vectors.Upsert(ctx, row); err != nil {
				t.Fatal(err)
			}
		}
		index(floripa, "praia surf ilha")
		index(curitiba, "praia surf ilha")
		index(hiddenOwner, "museu teatro parque")
		index(hiddenOwner, "praia surf lagoa")

		query, _ := embedder.Embed(ctx, "praia surf ilha")
		rows, err := vectors.Nearest(ctx, query, floripa.ID, 5)
		if err != nil {
			t.Fatal(err)
		}
		// curitiba is private and floripa is the excluded source.
		if len(rows) != 1 || rows[0].ItineraryID != hiddenOwner.ID {
			t.Fatalf("nearest = %+v", rows)
		}
		if rows[0].Similarity <= 0 {
			t.Errorf("similarity = %v", rows[0].Similarity)
		}

		if err := vectors.Delete(ctx, hiddenOwner.ID); err != nil {
			t.Fatal(err)
		}
		rows, _ = vectors.Nearest(ctx, query, floripa.ID, 5)
		if len(rows) != 0 {
			t.Errorf("nearest after delete = %+v", rows)
		}
	})
}
