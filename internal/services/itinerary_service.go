package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"viajei/internal/generator"
	"viajei/internal/logging"
	"viajei/internal/models/db_models"
	"viajei/internal/models/request_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	defaultCurrency  = "BRL"
)

type ItineraryServiceInterface interface {
	List(ctx context.Context, actor uuid.UUID, opts repositories.ListOptions) (*response_models.ItineraryList, error)
	Get(ctx context.Context, actor, id uuid.UUID) (*response_models.ItineraryDetail, error)
	Create(ctx context.Context, actor uuid.UUID, req request_models.CreateItineraryRequest) (*db_models.Itinerary, error)
	Generate(ctx context.Context, actor uuid.UUID, req request_models.GenerateItineraryRequest) (*db_models.Itinerary, error)
	Update(ctx context.Context, actor, id uuid.UUID, req request_models.UpdateItineraryRequest) (*db_models.Itinerary, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
	Duplicate(ctx context.Context, actor, id uuid.UUID) (*db_models.Itinerary, error)
	AddCollaborator(ctx context.Context, actor, id uuid.UUID, req request_models.AddCollaboratorRequest) (*db_models.Itinerary, *db_models.User, error)
	RemoveCollaborator(ctx context.Context, actor, id, userId uuid.UUID) (*db_models.Itinerary, error)
	AddPhotos(ctx context.Context, actor, id uuid.UUID, photos []string) (*db_models.Itinerary, error)
	ListRated(ctx context.Context, actor uuid.UUID) ([]db_models.Itinerary, error)
}

type ItineraryService struct {
	itineraryRepo repositories.ItineraryRepository
	userRepo      repositories.UserRepository
	generator     generator.ItineraryGenerator
	publisher     ActivityPublisher
	now           func() time.Time
}

func NewItineraryService(
	itineraryRepo repositories.ItineraryRepository,
	userRepo repositories.UserRepository,
	gen generator.ItineraryGenerator,
	publisher ActivityPublisher,
) ItineraryServiceInterface {
	return &ItineraryService{
		itineraryRepo: itineraryRepo,
		userRepo:      userRepo,
		generator:     gen,
		publisher:     publisher,
		now:           time.Now,
	}
}

// ClampPage normalises page and limit query values.
func ClampPage(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := utils.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate must not be before startDate", utils.ErrInvalidInput)
	}
	return s, e, nil
}

func budgetLevel(in *request_models.BudgetInput) db_models.BudgetLevel {
	if in == nil || in.Level == "" {
		return db_models.BudgetMedium
	}
	return db_models.BudgetLevel(in.Level)
}

func budgetCurrency(in *request_models.BudgetInput) string {
	if in == nil || in.Currency == "" {
		return defaultCurrency
	}
	return strings.ToUpper(in.Currency)
}

func toPreferences(in *request_models.PreferencesInput) db_models.TripPreferences {
	if in == nil {
		return db_models.TripPreferences{Interests: []string{}}
	}
	p := db_models.TripPreferences{
		Interests:   in.Interests,
		TravelStyle: in.TravelStyle,
		Pace:        in.Pace,
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return p
}

func toDestination(in request_models.DestinationInput) db_models.Destination {
	return db_models.Destination{
		City:       strings.TrimSpace(in.City),
		Country:    strings.TrimSpace(in.Country),
		CoverImage: in.CoverImage,
	}
}

// initCollections replaces nil collections so they are stored as empty arrays rather than NULL.
func initCollections(it *db_models.Itinerary) {
	if it.Days == nil {
		it.Days = datatypes.JSONSlice[db_models.Day]{}
	}
	if it.Expenses == nil {
		it.Expenses = datatypes.JSONSlice[db_models.Expense]{}
	}
	if it.Collaborators == nil {
		it.Collaborators = datatypes.JSONSlice[db_models.Collaborator]{}
	}
	if it.Likes == nil {
		it.Likes = pq.StringArray{}
	}
	if it.Photos == nil {
		it.Photos = pq.StringArray{}
	}
	db_models.EnsureIDs(it.Days)
}

// cloneForOwner copies the plan of src into a fresh private draft owned by owner.
// Collaborators, photos, likes, views, the share token and the owner review stay behind.
func cloneForOwner(src *db_models.Itinerary, owner uuid.UUID, title string, keepExpenses bool, now time.Time) *db_models.Itinerary {
	days := make([]db_models.Day, len(src.Days))
	for i, d := range src.Days {
		d.Activities = append([]db_models.Activity(nil), d.Activities...)
		days[i] = d
	}

	clone := &db_models.Itinerary{
		OwnerID:     owner,
		Title:       title,
		Destination: src.Destination,
		StartDate:   src.StartDate,
		EndDate:     src.EndDate,
		Duration:    src.Duration,
		Budget:      src.Budget,
		Preferences: src.Preferences,
		Days:        days,
		Status:      db_models.StatusDraft,
	}
	if keepExpenses {
		clone.Expenses = append(datatypes.JSONSlice[db_models.Expense]{}, src.Expenses...)
	}
	initCollections(clone)
	RecomputeSpent(clone, now)
	clone.Touch(owner, now)
	return clone
}

func (s *ItineraryService) List(ctx context.Context, actor uuid.UUID, opts repositories.ListOptions) (*response_models.ItineraryList, error) {
	opts.Page, opts.Limit = ClampPage(opts.Page, opts.Limit, DefaultPageLimit, MaxPageLimit)

	itineraries, total, err := s.itineraryRepo.ListAccessible(ctx, actor, opts)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	if itineraries == nil {
		itineraries = []db_models.Itinerary{}
	}

	logging.Ctx(ctx).Debug().Int("count", len(itineraries)).Int64("total", total).Msg("itineraries listed")
	return &response_models.ItineraryList{
		Itineraries: itineraries,
		Pagination:  response_models.NewPagination(opts.Page, opts.Limit, total),
	}, nil
}

func (s *ItineraryService) Get(ctx context.Context, actor, id uuid.UUID) (*response_models.ItineraryDetail, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, id, accessRead)
	if err != nil {
		return nil, err
	}

	detail := &response_models.ItineraryDetail{
		Itinerary:     itinerary,
		Collaborators: []response_models.CollaboratorView{},
		CanEdit:       CanWrite(actor, itinerary),
	}
	if len(itinerary.Collaborators) == 0 {
		return detail, nil
	}

	ids := make([]uuid.UUID, 0, len(itinerary.Collaborators))
	for _, c := range itinerary.Collaborators {
		ids = append(ids, c.UserID)
	}
	users, err := s.userRepo.FindByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load collaborators: %w: %w", utils.ErrDatabaseError, err)
	}
	byId := make(map[uuid.UUID]db_models.User, len(users))
	for _, u := range users {
		byId[u.ID] = u
	}
	for _, c := range itinerary.Collaborators {
		u, ok := byId[c.UserID]
		if !ok {
			continue
		}
		detail.Collaborators = append(detail.Collaborators, response_models.CollaboratorView{
			UserID:     c.UserID,
			Name:       u.Name,
			Email:      u.Email,
			Avatar:     u.Avatar,
			Permission: c.Permission,
		})
	}
	return detail, nil
}

func (s *ItineraryService) Create(ctx context.Context, actor uuid.UUID, req request_models.CreateItineraryRequest) (*db_models.Itinerary, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	itinerary := &db_models.Itinerary{
		OwnerID:     actor,
		Title:       strings.TrimSpace(req.Title),
		Destination: toDestination(req.Destination),
		StartDate:   start,
		EndDate:     end,
		Budget: db_models.Budget{
			Level:    budgetLevel(req.Budget),
			Currency: budgetCurrency(req.Budget),
		},
		Preferences: toPreferences(req.Preferences),
		Days:        req.Days,
		Status:      db_models.StatusDraft,
		IsPublic:    req.IsPublic,
	}
	if req.Status != "" {
		itinerary.Status = db_models.ItineraryStatus(req.Status)
	}
	itinerary.RecomputeDuration()
	if req.Budget != nil && req.Budget.EstimatedTotal != nil {
		itinerary.Budget.EstimatedTotal = *req.Budget.EstimatedTotal
	} else {
		itinerary.Budget.EstimatedTotal = EstimateBudget(itinerary.Budget.Level, itinerary.Duration).EstimatedTotal
	}
	initCollections(itinerary)
	RecomputeSpent(itinerary, now)
	itinerary.Touch(actor, now)

	if err := s.itineraryRepo.Create(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("create itinerary: %w: %w", utils.ErrDatabaseError, err)
	}

	logging.Ctx(ctx).Info().
		Str("itinerary_id", itinerary.ID.String()).
		Str("city", itinerary.Destination.City).
		Int("duration", itinerary.Duration).
		Msg("itinerary created")

	s.publisher.AchievementCheck(ctx, actor)
	s.publisher.ItineraryChanged(ctx, itinerary.ID)
	return itinerary, nil
}

func (s *ItineraryService) Generate(ctx context.Context, actor uuid.UUID, req request_models.GenerateItineraryRequest) (*db_models.Itinerary, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	level := budgetLevel(req.Budget)
	prefs := toPreferences(req.Preferences)
	if prefs.TravelStyle == "" {
		prefs.TravelStyle = "solo"
	}
	if prefs.Pace == "" {
		prefs.Pace = "moderado"
	}

	genReq := generator.Request{
		City:        strings.TrimSpace(req.Destination.City),
		Country:     strings.TrimSpace(req.Destination.Country),
		StartDate:   start,
		EndDate:     end,
		BudgetLevel: string(level),
		Currency:    budgetCurrency(req.Budget),
		Interests:   prefs.Interests,
		TravelStyle: prefs.TravelStyle,
		Pace:        prefs.Pace,
	}

	began := s.now()
	plan, err := s.generator.Generate(ctx, genReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGeneratorUnavailable, err)
	}
	generator.Normalize(plan, genReq)

	prompt, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}
	promptText := string(prompt)

	now := s.now()
	itinerary := &db_models.Itinerary{
		OwnerID:     actor,
		Title:       "Viagem para " + genReq.City,
		Destination: toDestination(req.Destination),
		StartDate:   start,
		EndDate:     end,
		Budget: db_models.Budget{
			Level:          level,
			EstimatedTotal: EstimateBudget(level, len(plan.Days)).EstimatedTotal,
			Currency:       genReq.Currency,
		},
		Preferences:   prefs,
		Days:          plan.Days,
		Status:        db_models.StatusDraft,
		GeneratedByAI: true,
		AIPrompt:      &promptText,
	}
	itinerary.RecomputeDuration()
	initCollections(itinerary)
	RecomputeSpent(itinerary, now)
	itinerary.Touch(actor, now)

	if err := s.itineraryRepo.Create(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("create generated itinerary: %w: %w", utils.ErrDatabaseError, err)
	}

	logging.Ctx(ctx).Info().
		Str("itinerary_id", itinerary.ID.String()).
		Str("provider", s.generator.Name()).
		Int("days", len(itinerary.Days)).
		Dur("elapsed", now.Sub(began)).
		Msg("itinerary generated")

	s.publisher.AchievementCheck(ctx, actor)
	s.publisher.ItineraryChanged(ctx, itinerary.ID)
	return itinerary, nil
}

func (s *ItineraryService) Update(ctx context.Context, actor, id uuid.UUID, req request_models.UpdateItineraryRequest) (*db_models.Itinerary, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, id, accessWrite)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		itinerary.Title = strings.TrimSpace(*req.Title)
	}
	if req.Destination != nil {
		itinerary.Destination = toDestination(*req.Destination)
	}
	if req.StartDate != nil {
		if itinerary.StartDate, err = utils.ParseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if itinerary.EndDate, err = utils.ParseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if itinerary.EndDate.Before(itinerary.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", utils.ErrInvalidInput)
	}
	if req.Budget != nil {
		if req.Budget.Level != "" {
			itinerary.Budget.Level = db_models.BudgetLevel(req.Budget.Level)
		}
		if req.Budget.EstimatedTotal != nil {
			itinerary.Budget.EstimatedTotal = *req.Budget.EstimatedTotal
		}
		if req.Budget.Currency != "" {
			itinerary.Budget.Currency = strings.ToUpper(req.Budget.Currency)
		}
	}
	if req.Preferences != nil {
		itinerary.Preferences = toPreferences(req.Preferences)
	}
	if req.Days != nil {
		itinerary.Days = *req.Days
	}
	if req.Status != nil {
		itinerary.Status = db_models.ItineraryStatus(*req.Status)
	}
	if req.IsPublic != nil {
		itinerary.IsPublic = *req.IsPublic
	}

	now := s.now()
	itinerary.RecomputeDuration()
	initCollections(itinerary)
	itinerary.Touch(actor, now)

	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("update itinerary %s: %w: %w", id, utils.ErrDatabaseError, err)
	}

	if req.Status != nil && itinerary.IsCompleted() {
		s.publisher.AchievementCheck(ctx, itinerary.OwnerID)
	}
	s.publisher.ItineraryChanged(ctx, itinerary.ID)
	return itinerary, nil
}

func (s *ItineraryService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := loadItinerary(ctx, s.itineraryRepo, actor, id, accessOwner); err != nil {
		return err
	}
	if err := s.itineraryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete itinerary %s: %w: %w", id, utils.ErrDatabaseError, err)
	}

	logging.Ctx(ctx).Info().Str("itinerary_id", id.String()).Msg("itinerary deleted")
	s.publisher.ItineraryChanged(ctx, id)
	return nil
}

func (s *ItineraryService) Duplicate(ctx context.Context, actor, id uuid.UUID) (*db_models.Itinerary, error) {
	original, err := loadItinerary(ctx, s.itineraryRepo, actor, id, accessRead)
	if err != nil {
		return nil, err
	}

	duplicate := cloneForOwner(original, actor, original.Title+" (cópia)", true, s.now())
	duplicate.GeneratedByAI = original.GeneratedByAI
	if err := s.itineraryRepo.Create(ctx, duplicate); err != nil {
		return nil, fmt.Errorf("duplicate itinerary %s: %w: %w", id, utils.ErrDatabaseError, err)
	}

	s.publisher.AchievementCheck(ctx, actor)
	s.publisher.ItineraryChanged(ctx, duplicate.ID)
	return duplicate, nil
}

func (s *ItineraryService) AddCollaborator(ctx context.Context, actor, id uuid.UUID, req request_models.AddCollaboratorRequest) (*db_models.Itinerary, *db_models.User, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, id, accessOwner)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, nil, fmt.Errorf("find collaborator: %w: %w", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, nil, utils.ErrUserNotFound
	}
	if itinerary.IsOwner(user.ID) {
		return nil, nil, utils.ErrSelfCollaborator
	}
	if _, exists := itinerary.Collaborator(user.ID); exists {
		return nil, nil, utils.ErrAlreadyCollaborator
	}

	permission := db_models.PermissionView
	if req.Permission != "" {
		permission = db_models.Permission(req.Permission)
	}

	now := s.now()
	itinerary.Collaborators = append(itinerary.Collaborators, db_models.Collaborator{
		UserID:     user.ID,
		Permission: permission,
		AddedAt:    now,
	})
	itinerary.Touch(actor, now)

	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, nil, fmt.Errorf("add collaborator: %w: %w", utils.ErrDatabaseError, err)
	}

	s.publisher.AchievementCheck(ctx, itinerary.OwnerID)
	return itinerary, user, nil
}

func (s *ItineraryService) RemoveCollaborator(ctx context.Context, actor, id, userId uuid.UUID) (*db_models.Itinerary, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, id, accessOwner)
	if err != nil {
		return nil, err
	}

	kept := itinerary.Collaborators[:0]
	for _, c := range itinerary.Collaborators {
		if c.UserID != userId {
			kept = append(kept, c)
		}
	}
	itinerary.Collaborators = kept
	itinerary.Touch(actor, s.now())

	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("remove collaborator: %w: %w", utils.ErrDatabaseError, err)
	}
	return itinerary, nil
}

func (s *ItineraryService) AddPhotos(ctx context.Context, actor, id uuid.UUID, photos []string) (*db_models.Itinerary, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, id, accessWrite)
	if err != nil {
		return nil, err
	}

	itinerary.Photos = append(itinerary.Photos, photos...)
	itinerary.Touch(actor, s.now())
	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("add photos: %w: %w", utils.ErrDatabaseError, err)
	}

	s.publisher.AchievementCheck(ctx, itinerary.OwnerID)
	return itinerary, nil
}

func (s *ItineraryService) ListRated(ctx context.Context, actor uuid.UUID) ([]db_models.Itinerary, error) {
	itineraries, err := s.itineraryRepo.ListRatedByOwner(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("list rated itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	if itineraries == nil {
		itineraries = []db_models.Itinerary{}
	}
	return itineraries, nil
}
