package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"viajei/internal/logging"
	"viajei/internal/models/db_models"
	"viajei/internal/models/request_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

const publicProfileItineraries = 20

type AccountServiceInterface interface {
	SignUp(ctx context.Context, req request_models.SignUpRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	Logout(ctx context.Context, userId uuid.UUID) error
	Profile(ctx context.Context, userId uuid.UUID) (*db_models.User, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req request_models.UpdateProfileRequest) (*db_models.User, error)
	UpdatePassword(ctx context.Context, userId uuid.UUID, req request_models.UpdatePasswordRequest) error
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
	PublicProfile(ctx context.Context, userId uuid.UUID) (*response_models.PublicProfile, error)
}

type AccountService struct {
	userRepo        repositories.UserRepository
	itineraryRepo   repositories.ItineraryRepository
	achievementRepo repositories.AchievementRepository
	jwt             *utils.JWTManager
	adminEmails     []string
	now             func() time.Time
}

func NewAccountService(
	userRepo repositories.UserRepository,
	itineraryRepo repositories.ItineraryRepository,
	achievementRepo repositories.AchievementRepository,
	jwt *utils.JWTManager,
	adminEmails []string,
) AccountServiceInterface {
	admins := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		admins = append(admins, normalizeEmail(e))
	}
	return &AccountService{
		userRepo:        userRepo,
		itineraryRepo:   itineraryRepo,
		achievementRepo: achievementRepo,
		jwt:             jwt,
		adminEmails:     admins,
		now:             time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AccountService) loadUser(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	user, err := a.userRepo.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w: %w", id, utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

// issueTokens signs a new pair and stores the refresh token hash, stamping the login time.
func (a *AccountService) issueTokens(ctx context.Context, user *db_models.User) (*utils.TokenPair, error) {
	pair, err := a.jwt.CreateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign tokens: %w", err)
	}
	now := a.now()
	user.RefreshToken = utils.HashToken(pair.RefreshToken)
	user.LastLogin = &now
	if err := a.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("store refresh token: %w: %w", utils.ErrDatabaseError, err)
	}
	return pair, nil
}

func (a *AccountService) SignUp(ctx context.Context, req request_models.SignUpRequest) (*response_models.AuthResponse, error) {
	if !req.AcceptedTerms {
		return nil, fmt.Errorf("%w: terms of use must be accepted", utils.ErrInvalidInput)
	}
	email := normalizeEmail(req.Email)

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w: %w", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := "user"
	if slices.Contains(a.adminEmails, email) {
		role = "admin"
	}
	user := &db_models.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		PasswordHash:     hashed,
		Role:             role,
		AcceptedTerms:    true,
		SavedItineraries: pq.StringArray{},
	}
	if err := a.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w: %w", utils.ErrDatabaseError, err)
	}

	pair, err := a.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("account created")
	return &response_models.AuthResponse{
		Message:   "Bem-vindo, " + user.Name + "!",
		User:      user,
		TokenPair: *pair,
	}, nil
}

func (a *AccountService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w: %w", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &response_models.AuthResponse{
		Message:   "Bem-vindo, " + user.Name + "!",
		User:      user,
		TokenPair: *pair,
	}, nil
}

// Refresh rotates both tokens. A refresh token is accepted once: the stored hash must match.
func (a *AccountService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := a.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}

	user, err := a.userRepo.FindById(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("load user: %w: %w", utils.ErrDatabaseError, err)
	}
	if user == nil || user.RefreshToken == "" || user.RefreshToken != utils.HashToken(refreshToken) {
		return nil, utils.ErrInvalidToken
	}

	return a.issueTokens(ctx, user)
}

func (a *AccountService) Logout(ctx context.Context, userId uuid.UUID) error {
	user, err := a.loadUser(ctx, userId)
	if err != nil {
		return err
	}
	user.RefreshToken = ""
	if err := a.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("logout: %w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func (a *AccountService) Profile(ctx context.Context, userId uuid.UUID) (*db_models.User, error) {
	return a.loadUser(ctx, userId)
}

func (a *AccountService) UpdateProfile(ctx context.Context, userId uuid.UUID, req request_models.UpdateProfileRequest) (*db_models.User, error) {
	user, err := a.loadUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if p := req.Preferences; p != nil {
		if p.TravelStyle != "" {
			user.Preferences.TravelStyle = p.TravelStyle
		}
		if p.Interests != nil {
			user.Preferences.Interests = p.Interests
		}
		if p.BudgetLevel != "" {
			user.Preferences.BudgetLevel = p.BudgetLevel
		}
		if p.Pace != "" {
			user.Preferences.Pace = p.Pace
		}
	}
	if req.PublicProfile != nil {
		user.PublicProfile = *req.PublicProfile
	}

	if err := a.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w: %w", utils.ErrDatabaseError, err)
	}
	return user, nil
}

func (a *AccountService) UpdatePassword(ctx context.Context, userId uuid.UUID, req request_models.UpdatePasswordRequest) error {
	user, err := a.loadUser(ctx, userId)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(user.PasswordHash, req.CurrentPassword); err != nil {
		return fmt.Errorf("%w: current password is incorrect", utils.ErrInvalidInput)
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hashed
	user.RefreshToken = ""
	if err := a.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("update password: %w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func (a *AccountService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	if _, err := a.loadUser(ctx, userId); err != nil {
		return err
	}
	if err := a.userRepo.DeleteWithOwnedData(ctx, userId); err != nil {
		return fmt.Errorf("delete account: %w: %w", utils.ErrDatabaseError, err)
	}
	logging.Ctx(ctx).Info().Str("user_id", userId.String()).Msg("account deleted")
	return nil
}

// PublicProfile hides private profiles behind a not-found.
func (a *AccountService) PublicProfile(ctx context.Context, userId uuid.UUID) (*response_models.PublicProfile, error) {
	user, err := a.loadUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !user.PublicProfile {
		return nil, utils.ErrUserNotFound
	}

	owned, err := a.itineraryRepo.ListByOwner(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("profile itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	public, err := a.itineraryRepo.ListPublicByOwner(ctx, userId, publicProfileItineraries)
	if err != nil {
		return nil, fmt.Errorf("profile public itineraries: %w: %w", utils.ErrDatabaseError, err)
	}
	totals, err := a.achievementRepo.Totals(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("profile points: %w: %w", utils.ErrDatabaseError, err)
	}

	stats := response_models.PublicProfileStats{TotalItineraries: len(owned)}
	countries := make(map[string]struct{})
	for _, it := range owned {
		if it.IsCompleted() {
			stats.CompletedItineraries++
		}
		if it.Destination.Country != "" {
			countries[it.Destination.Country] = struct{}{}
		}
	}
	stats.Countries = len(countries)

	return &response_models.PublicProfile{
		ID:          user.ID,
		Name:        user.Name,
		Avatar:      user.Avatar,
		IsPremium:   user.IsPremium,
		MemberSince: user.CreatedAt,
		Preferences: user.Preferences,
		TotalPoints: totals.Points,
		Stats:       stats,
		Itineraries: publicView(public),
	}, nil
}
