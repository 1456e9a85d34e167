package services

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"viajei/internal/models/db_models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type achievementFixture struct {
	users        *fakeUsers
	itineraries  *fakeItineraries
	ratings      *fakeRatings
	achievements *fakeAchievements
	svc          *AchievementService
}

func newAchievementFixture() *achievementFixture {
	users := newFakeUsers()
	f := &achievementFixture{
		users:        users,
		itineraries:  newFakeItineraries(users),
		ratings:      newFakeRatings(),
		achievements: newFakeAchievements(users),
	}
	f.svc = NewAchievementService(f.itineraries, f.ratings, f.achievements).(*AchievementService)
	f.svc.now = fixedClock(date("2024-06-01"))
	return f
}

// trip is planned two months ahead so neither lead-time rule fires.
func trip(owner uuid.UUID, status db_models.ItineraryStatus, estimated, spent float64) db_models.Itinerary {
	return db_models.Itinerary{
		BaseModel: db_models.BaseModel{CreatedAt: date("2024-01-01").Unix()},
		OwnerID:   owner,
		Title:     "Viagem",
		StartDate: date("2024-03-01"),
		EndDate:   date("2024-03-04"),
		Status:    status,
		Budget:    db_models.Budget{Level: db_models.BudgetMedium, EstimatedTotal: estimated, Spent: spent, Currency: "BRL"},
	}
}

func types(achievements []db_models.Achievement) []string {
	out := make([]string, len(achievements))
	for i, a := range achievements {
		out[i] = a.Type
	}
	return out
}

func TestEvaluateAndUnlockFirstItinerary(t *testing.T) {
	f := newAchievementFixture()
	owner := uuid.New()
	it := f.itineraries.put(trip(owner, db_models.StatusDraft, 1000, 0))

	if it.Duration != 4 {
		t.Fatalf("Duration = %d, want 4", it.Duration)
	}

	unlocked, err := f.svc.EvaluateAndUnlock(context.Background(), owner)
	if err != nil {
		t.Fatalf("EvaluateAndUnlock() error = %v", err)
	}
	if got := types(unlocked); !slices.Equal(got, []string{"first_itinerary"}) {
		t.Errorf("unlocked = %v, want [first_itinerary]", got)
	}
	if unlocked[0].Points != 10 || unlocked[0].Title != "Primeiro Passo" {
		t.Errorf("achievement = %+v", unlocked[0])
	}
}

func TestEvaluateAndUnlockIsIdempotent(t *testing.T) {
	f := newAchievementFixture()
	owner := uuid.New()
	f.itineraries.put(trip(owner, db_models.StatusDraft, 1000, 0))

	if _, err := f.svc.EvaluateAndUnlock(context.Background(), owner); err != nil {
		t.Fatal(err)
	}
	again, err := f.svc.EvaluateAndUnlock(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("second evaluation unlocked %v", types(again))
	}

	stored, _ := f.achievements.ListByUser(context.Background(), owner)
	if len(stored) != 1 {
		t.Errorf("stored %d achievements, want 1", len(stored))
	}
}

func TestEvaluateAndUnlockCompletedTrips(t *testing.T) {
	f := newAchievementFixture()
	owner := uuid.New()
	for i := 0; i < 3; i++ {
		f.itineraries.put(trip(owner, db_models.StatusCompleted, 1000, 500))
	}
	for i := 0; i < 2; i++ {
		f.itineraries.put(trip(owner, db_models.StatusCompleted, 1000, 1500))
	}

	unlocked, err := f.svc.EvaluateAndUnlock(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"first_itinerary",
		"itinerary_master",
		"first_trip_complete",
		"seasoned_traveler",
		"budget_conscious",
		"budget_keeper",
	}
	if got := types(unlocked); !slices.Equal(got, want) {
		t.Errorf("unlocked = %v, want %v", got, want)
	}
}

func TestEvaluateAndUnlockConcurrentCallsUnlockOnce(t *testing.T) {
	f := newAchievementFixture()
	owner := uuid.New()
	for i := 0; i < 5; i++ {
		f.itineraries.put(trip(owner, db_models.StatusCompleted, 1000, 500))
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlocked, err := f.svc.EvaluateAndUnlock(context.Background(), owner)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			total += len(unlocked)
			mu.Unlock()
		}()
	}
	wg.Wait()

	stored, _ := f.achievements.ListByUser(context.Background(), owner)
	if total != len(stored) {
		t.Errorf("reported %d unlocks, stored %d", total, len(stored))
	}
	seen := map[string]bool{}
	for _, a := range stored {
		if seen[a.Type] {
			t.Errorf("duplicate achievement %s", a.Type)
		}
		seen[a.Type] = true
	}
}

func TestSatisfiedAchievementsLeadTime(t *testing.T) {
	tests := []struct {
		name    string
		created string
		start   string
		want    string
		notWant string
	}{
		{"planned months ahead", "2024-01-01", "2024-04-15", "early_bird", "spontaneous"},
		{"last minute", "2024-02-28", "2024-03-01", "spontaneous", "early_bird"},
		{"neither", "2024-01-01", "2024-03-01", "", "early_bird"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := db_models.Itinerary{
				BaseModel: db_models.BaseModel{CreatedAt: date(tt.created).Unix()},
				StartDate: date(tt.start),
				EndDate:   date(tt.start).AddDate(0, 0, 2),
			}
			got := satisfiedAchievements([]db_models.Itinerary{it}, nil)
			if tt.want != "" && !slices.Contains(got, tt.want) {
				t.Errorf("got %v, missing %s", got, tt.want)
			}
			if slices.Contains(got, tt.notWant) {
				t.Errorf("got %v, should not contain %s", got, tt.notWant)
			}
		})
	}
}

func repeat(n int, build func(i int) db_models.Itinerary) []db_models.Itinerary {
	out := make([]db_models.Itinerary, n)
	for i := range out {
		out[i] = build(i)
	}
	return out
}

func finished(level db_models.BudgetLevel, duration int) db_models.Itinerary {
	return db_models.Itinerary{
		Status:   db_models.StatusCompleted,
		Duration: duration,
		Budget:   db_models.Budget{Level: level, EstimatedTotal: 1000, Spent: 1200},
	}
}

func planned(created, start string) db_models.Itinerary {
	return db_models.Itinerary{
		BaseModel: db_models.BaseModel{CreatedAt: date(created).Unix()},
		StartDate: date(start),
	}
}

func TestSatisfiedAchievementsThresholds(t *testing.T) {
	link := "token"
	empty := ""
	plain := func(int) db_models.Itinerary { return db_models.Itinerary{} }
	completed := func(int) db_models.Itinerary { return finished(db_models.BudgetMedium, 5) }
	withinBudget := func(int) db_models.Itinerary {
		it := finished(db_models.BudgetMedium, 5)
		it.Budget.Spent = it.Budget.EstimatedTotal
		return it
	}
	shared := func(int) db_models.Itinerary { return db_models.Itinerary{PublicLink: &link} }
	withCollaborator := func(int) db_models.Itinerary {
		return db_models.Itinerary{Collaborators: []db_models.Collaborator{{UserID: uuid.New(), Permission: db_models.PermissionView}}}
	}
	weekend := func(i int) db_models.Itinerary { return finished(db_models.BudgetMedium, 2+i%2) }
	ratings := func(n int) []db_models.Rating { return make([]db_models.Rating, n) }

	tests := []struct {
		name        string
		itineraries []db_models.Itinerary
		ratings     []db_models.Rating
		rule        string
		want        bool
	}{
		{"first itinerary", repeat(1, plain), nil, "first_itinerary", true},
		{"no itinerary", nil, nil, "first_itinerary", false},
		{"five itineraries", repeat(5, plain), nil, "itinerary_master", true},
		{"four itineraries", repeat(4, plain), nil, "itinerary_master", false},
		{"ten itineraries", repeat(10, plain), nil, "world_traveler", true},
		{"nine itineraries", repeat(9, plain), nil, "world_traveler", false},
		{"one completed", repeat(1, completed), nil, "first_trip_complete", true},
		{"only drafts", repeat(3, plain), nil, "first_trip_complete", false},
		{"five completed", repeat(5, completed), nil, "seasoned_traveler", true},
		{"four completed", repeat(4, completed), nil, "seasoned_traveler", false},
		{"ten completed", repeat(10, completed), nil, "globe_trotter", true},
		{"nine completed", repeat(9, completed), nil, "globe_trotter", false},
		{"spent equals estimate", repeat(1, withinBudget), nil, "budget_conscious", true},
		{"over budget", repeat(3, completed), nil, "budget_conscious", false},
		{"three within budget", repeat(3, withinBudget), nil, "budget_keeper", true},
		{"two within budget", repeat(2, withinBudget), nil, "budget_keeper", false},
		{"completed luxury", []db_models.Itinerary{finished(db_models.BudgetLuxury, 5)}, nil, "luxury_traveler", true},
		{"planned luxury", []db_models.Itinerary{{Budget: db_models.Budget{Level: db_models.BudgetLuxury}}}, nil, "luxury_traveler", false},
		{"five shared", repeat(5, shared), nil, "social_butterfly", true},
		{"four shared", repeat(4, shared), nil, "social_butterfly", false},
		{"empty links", repeat(5, func(int) db_models.Itinerary { return db_models.Itinerary{PublicLink: &empty} }), nil, "social_butterfly", false},
		{"one collaborator", repeat(1, withCollaborator), nil, "collaborator", true},
		{"no collaborators", repeat(5, plain), nil, "collaborator", false},
		{"five with collaborators", repeat(5, withCollaborator), nil, "team_player", true},
		{"four with collaborators", repeat(4, withCollaborator), nil, "team_player", false},
		{"fifty photos", repeat(2, func(int) db_models.Itinerary { return db_models.Itinerary{Photos: make([]string, 25)} }), nil, "photographer", true},
		{"forty nine photos", []db_models.Itinerary{{Photos: make([]string, 25)}, {Photos: make([]string, 24)}}, nil, "photographer", false},
		{"five ratings", nil, ratings(5), "reviewer", true},
		{"four ratings", nil, ratings(4), "reviewer", false},
		{"five weekend trips", repeat(5, weekend), nil, "weekend_warrior", true},
		{"four weekend trips", repeat(4, weekend), nil, "weekend_warrior", false},
		{"one day trips", repeat(5, func(int) db_models.Itinerary { return finished(db_models.BudgetMedium, 1) }), nil, "weekend_warrior", false},
		{"four day trips", repeat(5, func(int) db_models.Itinerary { return finished(db_models.BudgetMedium, 4) }), nil, "weekend_warrior", false},
		{"weekend drafts", repeat(5, func(int) db_models.Itinerary { return db_models.Itinerary{Duration: 3} }), nil, "weekend_warrior", false},
		{"fourteen days", []db_models.Itinerary{finished(db_models.BudgetMedium, 14)}, nil, "long_hauler", true},
		{"thirteen days", []db_models.Itinerary{finished(db_models.BudgetMedium, 13)}, nil, "long_hauler", false},
		{"long draft", []db_models.Itinerary{{Duration: 20}}, nil, "long_hauler", false},
		{"exactly ninety days ahead", []db_models.Itinerary{planned("2024-01-01", "2024-03-31")}, nil, "early_bird", true},
		{"eighty nine days ahead", []db_models.Itinerary{planned("2024-01-01", "2024-03-30")}, nil, "early_bird", false},
		{"exactly seven days ahead", []db_models.Itinerary{planned("2024-02-23", "2024-03-01")}, nil, "spontaneous", true},
		{"eight days ahead", []db_models.Itinerary{planned("2024-02-22", "2024-03-01")}, nil, "spontaneous", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := satisfiedAchievements(tt.itineraries, tt.ratings)
			if slices.Contains(got, tt.rule) != tt.want {
				t.Errorf("%s unlocked = %v, want %v (got %v)", tt.rule, !tt.want, tt.want, got)
			}
		})
	}
}

func TestCatalogOnlyAchievementsNeverUnlock(t *testing.T) {
	link := "token"
	its := repeat(12, func(i int) db_models.Itinerary {
		it := finished(db_models.BudgetLuxury, 14)
		it.IsPublic = true
		it.Views = 500
		it.PublicLink = &link
		return it
	})
	got := satisfiedAchievements(its, make([]db_models.Rating, 6))
	for _, kind := range []string{"influencer", "multi_destination"} {
		if slices.Contains(got, kind) {
			t.Errorf("got %v, %s has no rule", got, kind)
		}
	}
	if !slices.Contains(got, "social_butterfly") || !slices.Contains(got, "globe_trotter") {
		t.Errorf("got %v, want the evaluated rules to hold", got)
	}
}

func TestMyAchievementsListsWholeCatalog(t *testing.T) {
	f := newAchievementFixture()
	owner := uuid.New()
	f.itineraries.put(trip(owner, db_models.StatusCompleted, 1000, 100))
	if _, err := f.svc.EvaluateAndUnlock(context.Background(), owner); err != nil {
		t.Fatal(err)
	}

	mine, err := f.svc.MyAchievements(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if mine.TotalCount != len(AchievementCatalog) || len(mine.Achievements) != len(AchievementCatalog) {
		t.Errorf("catalog size = %d/%d, want %d", mine.TotalCount, len(mine.Achievements), len(AchievementCatalog))
	}
	// first_itinerary 10 + first_trip_complete 20 + budget_conscious 15
	if mine.UnlockedCount != 3 || mine.TotalPoints != 45 {
		t.Errorf("unlocked = %d, points = %d, want 3 and 45", mine.UnlockedCount, mine.TotalPoints)
	}
	if first := mine.Achievements[0]; !first.Unlocked || first.UnlockedAt == nil {
		t.Errorf("first_itinerary not marked unlocked: %+v", first)
	}
}

func TestLeaderboardOrdersByPoints(t *testing.T) {
	f := newAchievementFixture()
	ctx := context.Background()
	points := map[string]int{"Ana": 50, "Bia": 10, "Caio": 30}
	for name, p := range points {
		u := f.users.add(name, name+"@example.com", true)
		_, _ = f.achievements.CreateIfAbsent(ctx, &db_models.Achievement{UserID: u.ID, Type: "first_itinerary", Points: p})
	}

	board, err := f.svc.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(board) != 2 {
		t.Fatalf("len = %d, want 2", len(board))
	}
	if board[0].TotalPoints != 50 || board[0].Position != 1 || board[0].User.Name != "Ana" {
		t.Errorf("first = %+v", board[0])
	}
	if board[1].TotalPoints != 30 || board[1].Position != 2 {
		t.Errorf("second = %+v", board[1])
	}
}

func TestClampLeaderboardLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultLeaderboardLimit},
		{-3, DefaultLeaderboardLimit},
		{10, 10},
		{1000, MaxLeaderboardLimit},
	}
	for _, tt := range tests {
		if got := ClampLeaderboardLimit(tt.in); got != tt.want {
			t.Errorf("ClampLeaderboardLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuildUserStats(t *testing.T) {
	owner := uuid.New()
	link := "s"
	its := []db_models.Itinerary{
		trip(owner, db_models.StatusCompleted, 1000, 800),
		trip(owner, db_models.StatusCompleted, 1000, 400),
		trip(owner, db_models.StatusInProgress, 1000, 0),
		trip(owner, db_models.StatusDraft, 1000, 0),
	}
	for i := range its {
		its[i].RecomputeDuration()
	}
	its[0].Destination = db_models.Destination{City: "Lisboa", Country: "Portugal"}
	its[1].Destination = db_models.Destination{City: "Porto", Country: "Portugal"}
	its[2].Destination = db_models.Destination{City: "Roma", Country: "Itália"}
	its[0].PublicLink = &link
	its[1].Collaborators = []db_models.Collaborator{{UserID: uuid.New()}, {UserID: uuid.New()}}

	stats := buildUserStats(its, nil, []db_models.Achievement{{Points: 10}, {Points: 20}})

	if stats.Itineraries.Total != 4 || stats.Itineraries.Completed != 2 || stats.Itineraries.InProgress != 1 || stats.Itineraries.Planned != 1 {
		t.Errorf("itineraries = %+v", stats.Itineraries)
	}
	if stats.Destinations.Countries != 2 || stats.Destinations.Cities != 3 {
		t.Errorf("destinations = %+v", stats.Destinations)
	}
	if stats.Days.TotalTraveled != 8 || stats.Days.AverageTripLength != 4 {
		t.Errorf("days = %+v", stats.Days)
	}
	if stats.Budget.TotalSpent != 1200 || stats.Budget.AveragePerTrip != 600 {
		t.Errorf("budget = %+v", stats.Budget)
	}
	if stats.Social.SharedItineraries != 1 || stats.Social.CollaborativeItineraries != 1 || stats.Social.TotalCollaborators != 2 {
		t.Errorf("social = %+v", stats.Social)
	}
	if stats.Achievements.Total != 2 || stats.Achievements.Points != 30 {
		t.Errorf("achievements = %+v", stats.Achievements)
	}
	if stats.Ratings.AverageScore != "0" {
		t.Errorf("average score = %q, want \"0\"", stats.Ratings.AverageScore)
	}
}
