package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"viajei/internal/logging"
	"viajei/internal/metrics"
	"viajei/internal/models/db_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

const (
	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 100
)

type AchievementServiceInterface interface {
	// EvaluateAndUnlock runs every rule for the user and persists the newly satisfied ones.
	EvaluateAndUnlock(ctx context.Context, userId uuid.UUID) ([]db_models.Achievement, error)
	MyAchievements(ctx context.Context, userId uuid.UUID) (*response_models.MyAchievements, error)
	Stats(ctx context.Context, userId uuid.UUID) (*response_models.UserStats, error)
	Leaderboard(ctx context.Context, limit int) ([]response_models.LeaderboardEntry, error)
	TotalPoints(ctx context.Context, userId uuid.UUID) (int64, error)
}

type AchievementService struct {
	itineraryRepo   repositories.ItineraryRepository
	ratingRepo      repositories.RatingRepository
	achievementRepo repositories.AchievementRepository
	now             func() time.Time
}

func NewAchievementService(
	itineraryRepo repositories.ItineraryRepository,
	ratingRepo repositories.RatingRepository,
	achievementRepo repositories.AchievementRepository,
) AchievementServiceInterface {
	return &AchievementService{
		itineraryRepo:   itineraryRepo,
		ratingRepo:      ratingRepo,
		achievementRepo: achievementRepo,
		now:             time.Now,
	}
}

func (a *AchievementService) loadActivity(ctx context.Context, userId uuid.UUID) ([]db_models.Itinerary, []db_models.Rating, error) {
	itineraries, err := a.itineraryRepo.ListByOwner(ctx, userId)
	if err != nil {
		return nil, nil, fmt.Errorf("list itineraries: %w", err)
	}
	ratings, err := a.ratingRepo.ListByUser(ctx, userId)
	if err != nil {
		return nil, nil, fmt.Errorf("list ratings: %w", err)
	}
	return itineraries, ratings, nil
}

func (a *AchievementService) EvaluateAndUnlock(ctx context.Context, userId uuid.UUID) ([]db_models.Achievement, error) {
	itineraries, ratings, err := a.loadActivity(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("evaluate achievements for %s: %w", userId, err)
	}

	unlocked := make([]db_models.Achievement, 0)
	for _, achievementType := range satisfiedAchievements(itineraries, ratings) {
		def, _ := catalogEntry(achievementType)
		achievement := db_models.Achievement{
			UserID:      userId,
			Type:        def.Type,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Points:      def.Points,
			UnlockedAt:  a.now(),
		}

		// A conflict on (user, type) means another evaluation got there first.
		created, err := a.achievementRepo.CreateIfAbsent(ctx, &achievement)
		if err != nil {
			return unlocked, fmt.Errorf("unlock %s for %s: %w", achievementType, userId, err)
		}
		if !created {
			continue
		}

		metrics.AchievementsUnlocked.WithLabelValues(achievementType).Inc()
		logging.Ctx(ctx).Info().
			Str("user_id", userId.String()).
			Str("type", achievementType).
			Msg("achievement unlocked")
		unlocked = append(unlocked, achievement)
	}
	return unlocked, nil
}

func (a *AchievementService) MyAchievements(ctx context.Context, userId uuid.UUID) (*response_models.MyAchievements, error) {
	achievements, err := a.achievementRepo.ListByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w: %w", utils.ErrDatabaseError, err)
	}

	byType := make(map[string]db_models.Achievement, len(achievements))
	total := 0
	for _, ach := range achievements {
		byType[ach.Type] = ach
		total += ach.Points
	}

	progress := make([]response_models.AchievementProgress, 0, len(AchievementCatalog))
	for _, def := range AchievementCatalog {
		item := response_models.AchievementProgress{
			Type:        def.Type,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Points:      def.Points,
		}
		if ach, ok := byType[def.Type]; ok {
			unlockedAt := ach.UnlockedAt
			item.Unlocked = true
			item.UnlockedAt = &unlockedAt
		}
		progress = append(progress, item)
	}

	return &response_models.MyAchievements{
		TotalPoints:   total,
		UnlockedCount: len(achievements),
		TotalCount:    len(AchievementCatalog),
		Achievements:  progress,
	}, nil
}

func (a *AchievementService) Stats(ctx context.Context, userId uuid.UUID) (*response_models.UserStats, error) {
	itineraries, ratings, err := a.loadActivity(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("stats: %w: %w", utils.ErrDatabaseError, err)
	}
	achievements, err := a.achievementRepo.ListByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("stats achievements: %w: %w", utils.ErrDatabaseError, err)
	}
	return buildUserStats(itineraries, ratings, achievements), nil
}

func buildUserStats(itineraries []db_models.Itinerary, ratings []db_models.Rating, achievements []db_models.Achievement) *response_models.UserStats {
	stats := &response_models.UserStats{}
	countries := make(map[string]struct{})
	cities := make(map[string]struct{})

	var completedDays int
	var completedSpent float64

	for i := range itineraries {
		it := &itineraries[i]
		stats.Itineraries.Total++
		switch it.Status {
		case db_models.StatusCompleted:
			stats.Itineraries.Completed++
			completedDays += it.Duration
			completedSpent += it.Budget.Spent
		case db_models.StatusInProgress:
			stats.Itineraries.InProgress++
		case db_models.StatusDraft, db_models.StatusPlanning, db_models.StatusConfirmed:
			stats.Itineraries.Planned++
		}

		if it.Destination.Country != "" {
			countries[it.Destination.Country] = struct{}{}
			if it.Destination.City != "" {
				cities[it.Destination.City+", "+it.Destination.Country] = struct{}{}
			}
		}

		if it.PublicLink != nil && *it.PublicLink != "" {
			stats.Social.SharedItineraries++
		}
		if n := len(it.Collaborators); n > 0 {
			stats.Social.CollaborativeItineraries++
			stats.Social.TotalCollaborators += n
		}
	}

	stats.Destinations.Countries = len(countries)
	stats.Destinations.Cities = len(cities)

	stats.Days.TotalTraveled = completedDays
	stats.Budget.TotalSpent = completedSpent
	if c := stats.Itineraries.Completed; c > 0 {
		stats.Days.AverageTripLength = int(math.Round(float64(completedDays) / float64(c)))
		stats.Budget.AveragePerTrip = math.Round(completedSpent / float64(c))
	}

	for _, ach := range achievements {
		stats.Achievements.Total++
		stats.Achievements.Points += ach.Points
	}

	stats.Ratings.Total = len(ratings)
	stats.Ratings.AverageScore = "0"
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Score
		}
		stats.Ratings.AverageScore = fmt.Sprintf("%.1f", float64(sum)/float64(len(ratings)))
	}
	return stats
}

// ClampLeaderboardLimit applies the default for non-positive values and caps at the maximum.
func ClampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

func (a *AchievementService) Leaderboard(ctx context.Context, limit int) ([]response_models.LeaderboardEntry, error) {
	rows, err := a.achievementRepo.Leaderboard(ctx, ClampLeaderboardLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w: %w", utils.ErrDatabaseError, err)
	}

	entries := make([]response_models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, response_models.LeaderboardEntry{
			Position:          i + 1,
			UserID:            row.UserID,
			TotalPoints:       row.TotalPoints,
			AchievementsCount: row.Achievements,
			User: response_models.LeaderboardUser{
				Name:          row.Name,
				Avatar:        row.Avatar,
				PublicProfile: row.PublicProfile,
			},
		})
	}
	return entries, nil
}

func (a *AchievementService) TotalPoints(ctx context.Context, userId uuid.UUID) (int64, error) {
	totals, err := a.achievementRepo.Totals(ctx, userId)
	if err != nil {
		return 0, fmt.Errorf("achievement totals: %w: %w", utils.ErrDatabaseError, err)
	}
	return totals.Points, nil
}
