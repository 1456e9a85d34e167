package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"viajei/internal/models/db_models"
	"viajei/internal/repositories"
)

var errStoreDown = errors.New("connection refused")

func cloneItinerary(it db_models.Itinerary) db_models.Itinerary {
	it.Days = append(datatypes.JSONSlice[db_models.Day](nil), it.Days...)
	it.Expenses = append(datatypes.JSONSlice[db_models.Expense](nil), it.Expenses...)
	it.Collaborators = append(datatypes.JSONSlice[db_models.Collaborator](nil), it.Collaborators...)
	it.Likes = append(pq.StringArray(nil), it.Likes...)
	it.Photos = append(pq.StringArray(nil), it.Photos...)
	return it
}

// fakeUsers implements repositories.UserRepository.
type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]db_models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uuid.UUID]db_models.User)}
}

func (f *fakeUsers) add(name, email string, public bool) *db_models.User {
	u := db_models.User{Name: name, Email: email, PublicProfile: public, Role: "user"}
	_ = f.Create(context.Background(), &u)
	return &u
}

func (f *fakeUsers) Create(_ context.Context, user *db_models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	_ = user.BeforeCreate(nil)
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) FindById(_ context.Context, id uuid.UUID) (*db_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u.SavedItineraries = append(pq.StringArray(nil), u.SavedItineraries...)
	return &u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*db_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByIds(_ context.Context, ids []uuid.UUID) ([]db_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Save(_ context.Context, user *db_models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) DeleteWithOwnedData(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

// fakeItineraries implements repositories.ItineraryRepository over a map.
type fakeItineraries struct {
	mu      sync.Mutex
	items   map[uuid.UUID]db_models.Itinerary
	users   *fakeUsers
	saves   int
	failAll bool
}

func newFakeItineraries(users *fakeUsers) *fakeItineraries {
	return &fakeItineraries{items: make(map[uuid.UUID]db_models.Itinerary), users: users}
}

// put stores an itinerary as-is, keeping a preset CreatedAt.
func (f *fakeItineraries) put(it db_models.Itinerary) *db_models.Itinerary {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	if it.CreatedAt == 0 {
		it.CreatedAt = time.Now().Unix()
	}
	it.RecomputeDuration()
	f.mu.Lock()
	f.items[it.ID] = cloneItinerary(it)
	f.mu.Unlock()
	return &it
}

func (f *fakeItineraries) get(id uuid.UUID) db_models.Itinerary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneItinerary(f.items[id])
}

func (f *fakeItineraries) all(match func(db_models.Itinerary) bool) []db_models.Itinerary {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db_models.Itinerary{}
	for _, it := range f.items {
		if match(it) {
			out = append(out, cloneItinerary(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

func (f *fakeItineraries) Create(_ context.Context, it *db_models.Itinerary) error {
	if f.failAll {
		return errStoreDown
	}
	_ = it.BeforeCreate(nil)
	it.RecomputeDuration()
	f.mu.Lock()
	f.items[it.ID] = cloneItinerary(*it)
	f.mu.Unlock()
	return nil
}

func (f *fakeItineraries) FindById(_ context.Context, id uuid.UUID) (*db_models.Itinerary, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	c := cloneItinerary(it)
	return &c, nil
}

func (f *fakeItineraries) FindByPublicLink(_ context.Context, link string) (*db_models.Itinerary, error) {
	found := f.all(func(it db_models.Itinerary) bool {
		return it.IsPublic && it.PublicLink != nil && *it.PublicLink == link
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (f *fakeItineraries) Save(_ context.Context, it *db_models.Itinerary) error {
	if f.failAll {
		return errStoreDown
	}
	it.RecomputeDuration()
	f.mu.Lock()
	stored := cloneItinerary(*it)
	if prev, ok := f.items[it.ID]; ok {
		stored.Views = prev.Views
	}
	f.items[it.ID] = stored
	f.saves++
	f.mu.Unlock()
	return nil
}

func (f *fakeItineraries) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	delete(f.items, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeItineraries) ListByOwner(_ context.Context, ownerId uuid.UUID) ([]db_models.Itinerary, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	return f.all(func(it db_models.Itinerary) bool { return it.OwnerID == ownerId }), nil
}

func pageOf(items []db_models.Itinerary, page, limit int) []db_models.Itinerary {
	start := (page - 1) * limit
	if start >= len(items) {
		return []db_models.Itinerary{}
	}
	return items[start:min(start+limit, len(items))]
}

func (f *fakeItineraries) ListAccessible(_ context.Context, userId uuid.UUID, opts repositories.ListOptions) ([]db_models.Itinerary, int64, error) {
	all := f.all(func(it db_models.Itinerary) bool {
		_, collab := it.Collaborator(userId)
		return it.OwnerID == userId || collab
	})
	return pageOf(all, opts.Page, opts.Limit), int64(len(all)), nil
}

func (f *fakeItineraries) ListRatedByOwner(_ context.Context, ownerId uuid.UUID) ([]db_models.Itinerary, error) {
	return f.all(func(it db_models.Itinerary) bool { return it.OwnerID == ownerId && it.Rating.Score != nil }), nil
}

func (f *fakeItineraries) ListPublicByOwner(_ context.Context, ownerId uuid.UUID, limit int) ([]db_models.Itinerary, error) {
	all := f.all(func(it db_models.Itinerary) bool { return it.OwnerID == ownerId && it.IsPublic })
	return pageOf(all, 1, limit), nil
}

func (f *fakeItineraries) ListPublicByIds(_ context.Context, ids []uuid.UUID) ([]db_models.Itinerary, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return f.all(func(it db_models.Itinerary) bool { return want[it.ID] && it.IsPublic }), nil
}

func (f *fakeItineraries) ownerPublic(id uuid.UUID) bool {
	if f.users == nil {
		return false
	}
	u, _ := f.users.FindById(context.Background(), id)
	return u != nil && u.PublicProfile
}

func (f *fakeItineraries) ListPublicFeed(_ context.Context, filter repositories.PublicFeedFilter) ([]db_models.Itinerary, int64, error) {
	all := f.all(func(it db_models.Itinerary) bool {
		if !it.IsPublic || !f.ownerPublic(it.OwnerID) {
			return false
		}
		if filter.City != "" && !strings.Contains(strings.ToLower(it.Destination.City), strings.ToLower(filter.City)) {
			return false
		}
		if filter.Completed && !it.IsCompleted() {
			return false
		}
		return true
	})
	return pageOf(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (f *fakeItineraries) ListFeatured(_ context.Context, limit int) ([]db_models.Itinerary, error) {
	all := f.all(func(it db_models.Itinerary) bool {
		return it.IsPublic && it.IsCompleted() && it.Rating.Score != nil && *it.Rating.Score >= 4
	})
	sort.SliceStable(all, func(i, j int) bool { return all[i].Views > all[j].Views })
	return pageOf(all, 1, limit), nil
}

func (f *fakeItineraries) PopularDestinations(_ context.Context, limit int) ([]repositories.PopularDestinationRow, error) {
	counts := map[[2]string]int64{}
	for _, it := range f.all(func(it db_models.Itinerary) bool { return it.IsPublic }) {
		counts[[2]string{it.Destination.City, it.Destination.Country}]++
	}
	rows := []repositories.PopularDestinationRow{}
	for k, n := range counts {
		rows = append(rows, repositories.PopularDestinationRow{City: k[0], Country: k[1], ItineraryCount: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ItineraryCount > rows[j].ItineraryCount })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeItineraries) IncrementViews(_ context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			it.Views++
			f.items[id] = it
		}
	}
	return nil
}

// fakeRatings enforces the (itinerary, user) uniqueness like the real index.
type fakeRatings struct {
	mu      sync.Mutex
	ratings map[uuid.UUID]db_models.Rating
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{ratings: make(map[uuid.UUID]db_models.Rating)}
}

func (f *fakeRatings) Create(_ context.Context, r *db_models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.ratings {
		if existing.ItineraryID == r.ItineraryID && existing.UserID == r.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	_ = r.BeforeCreate(nil)
	f.ratings[r.ID] = *r
	return nil
}

func (f *fakeRatings) Save(_ context.Context, r *db_models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratings[r.ID] = *r
	return nil
}

func (f *fakeRatings) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ratings, id)
	return nil
}

func (f *fakeRatings) FindById(_ context.Context, id uuid.UUID) (*db_models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.ratings[id]
	if !ok {
		return nil, nil
	}
	r.Likes = append(pq.StringArray(nil), r.Likes...)
	return &r, nil
}

func (f *fakeRatings) FindByItineraryAndUser(_ context.Context, itineraryId, userId uuid.UUID) (*db_models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ratings {
		if r.ItineraryID == itineraryId && r.UserID == userId {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRatings) ListByItinerary(_ context.Context, itineraryId uuid.UUID, page, pageSize int) ([]db_models.Rating, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Rating
	for _, r := range f.ratings {
		if r.ItineraryID == itineraryId {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRatings) ListByUser(_ context.Context, userId uuid.UUID) ([]db_models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Rating
	for _, r := range f.ratings {
		if r.UserID == userId {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRatings) ScoreBuckets(_ context.Context, itineraryId uuid.UUID) ([]repositories.ScoreBucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byScore := map[int]*repositories.ScoreBucket{}
	for _, r := range f.ratings {
		if r.ItineraryID != itineraryId {
			continue
		}
		b, ok := byScore[r.Score]
		if !ok {
			b = &repositories.ScoreBucket{Score: r.Score}
			byScore[r.Score] = b
		}
		b.Count++
		if r.WouldRecommend {
			b.Recommended++
		}
	}
	out := []repositories.ScoreBucket{}
	for _, b := range byScore {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRatings) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ratings)
}

// fakeAchievements serialises CreateIfAbsent the way the unique index does.
type fakeAchievements struct {
	mu    sync.Mutex
	rows  []db_models.Achievement
	users *fakeUsers
}

func newFakeAchievements(users *fakeUsers) *fakeAchievements {
	return &fakeAchievements{users: users}
}

func (f *fakeAchievements) ListByUser(_ context.Context, userId uuid.UUID) ([]db_models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Achievement
	for _, a := range f.rows {
		if a.UserID == userId {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAchievements) CreateIfAbsent(_ context.Context, a *db_models.Achievement) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.UserID == a.UserID && existing.Type == a.Type {
			return false, nil
		}
	}
	_ = a.BeforeCreate(nil)
	f.rows = append(f.rows, *a)
	return true, nil
}

func (f *fakeAchievements) Totals(_ context.Context, userId uuid.UUID) (repositories.AchievementTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var t repositories.AchievementTotals
	for _, a := range f.rows {
		if a.UserID == userId {
			t.Count++
			t.Points += int64(a.Points)
		}
	}
	return t, nil
}

func (f *fakeAchievements) Leaderboard(_ context.Context, limit int) ([]repositories.LeaderboardRow, error) {
	f.mu.Lock()
	byUser := map[uuid.UUID]*repositories.LeaderboardRow{}
	for _, a := range f.rows {
		row, ok := byUser[a.UserID]
		if !ok {
			row = &repositories.LeaderboardRow{UserID: a.UserID}
			byUser[a.UserID] = row
		}
		row.TotalPoints += int64(a.Points)
		row.Achievements++
	}
	f.mu.Unlock()

	rows := make([]repositories.LeaderboardRow, 0, len(byUser))
	for _, row := range byUser {
		if u, _ := f.users.FindById(context.Background(), row.UserID); u != nil {
			row.Name = u.Name
			row.PublicProfile = u.PublicProfile
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalPoints > rows[j].TotalPoints })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// fakeEmbeddings keeps vectors and ranks by dot product.
type fakeEmbeddings struct {
	mu   sync.Mutex
	rows map[uuid.UUID]db_models.ItineraryEmbedding
	its  *fakeItineraries
}

func (f *fakeEmbeddings) Upsert(_ context.Context, e *db_models.ItineraryEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[e.ItineraryID] = *e
	return nil
}

func (f *fakeEmbeddings) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeEmbeddings) Nearest(_ context.Context, v pgvector.Vector, excludeId uuid.UUID, limit int) ([]repositories.SimilarRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := v.Slice()
	var out []repositories.SimilarRow
	for id, e := range f.rows {
		if id == excludeId || !f.its.get(id).IsPublic {
			continue
		}
		var dot float64
		for i, x := range e.Embedding.Slice() {
			dot += float64(x) * float64(q[i])
		}
		out = append(out, repositories.SimilarRow{ItineraryID: id, Similarity: dot})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recordingPublisher captures the background work a service schedules.
type recordingPublisher struct {
	mu       sync.Mutex
	checks  []uuid.UUID
	indexed  []uuid.UUID
}

func (p *recordingPublisher) AchievementCheck(_ context.Context, userId uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks = append(p.checks, userId)
}

func (p *recordingPublisher) ItineraryChanged(_ context.Context, id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexed = append(p.indexed, id)
}

func (p *recordingPublisher) checked(userId uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range p.checks {
		if id == userId {
			return true
		}
	}
	return false
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
