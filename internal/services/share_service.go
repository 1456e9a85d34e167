package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"viajei/internal/logging"
	"viajei/internal/models/db_models"
	"viajei/internal/models/response_models"
	"viajei/internal/repositories"
	"viajei/pkg/utils"
)

const qrCodeSize = 256

type ShareServiceInterface interface {
	Link(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.ShareLink, error)
	Revoke(ctx context.Context, actor, itineraryId uuid.UUID) error
	QRCode(ctx context.Context, actor, itineraryId uuid.UUID) ([]byte, error)
	GetShared(ctx context.Context, shareId string) (*db_models.Itinerary, error)
	Copy(ctx context.Context, actor uuid.UUID, shareId string) (*db_models.Itinerary, error)
}

type ShareService struct {
	itineraryRepo repositories.ItineraryRepository
	publisher     ActivityPublisher
	baseURL       string
	now           func() time.Time
}

func NewShareService(itineraryRepo repositories.ItineraryRepository, publisher ActivityPublisher, publicBaseURL string) ShareServiceInterface {
	return &ShareService{
		itineraryRepo: itineraryRepo,
		publisher:     publisher,
		baseURL:       strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

func (s *ShareService) shareURL(token string) string {
	return s.baseURL + "/shared/" + token
}

// Link returns the itinerary's share link, creating the token on first use.
func (s *ShareService) Link(ctx context.Context, actor, itineraryId uuid.UUID) (*response_models.ShareLink, error) {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, itineraryId, accessOwner)
	if err != nil {
		return nil, err
	}

	if itinerary.PublicLink == nil || !itinerary.IsPublic {
		if itinerary.PublicLink == nil {
			token := uuid.NewString()
			itinerary.PublicLink = &token
		}
		itinerary.IsPublic = true
		if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
			return nil, fmt.Errorf("save share link: %w: %w", utils.ErrDatabaseError, err)
		}
		logging.Ctx(ctx).Info().Str("itinerary_id", itineraryId.String()).Msg("share link created")
		s.publisher.AchievementCheck(ctx, actor)
		s.publisher.ItineraryChanged(ctx, itineraryId)
	}

	return &response_models.ShareLink{
		ShareURL: s.shareURL(*itinerary.PublicLink),
		ShareID:  *itinerary.PublicLink,
	}, nil
}

func (s *ShareService) Revoke(ctx context.Context, actor, itineraryId uuid.UUID) error {
	itinerary, err := loadItinerary(ctx, s.itineraryRepo, actor, itineraryId, accessOwner)
	if err != nil {
		return err
	}

	itinerary.PublicLink = nil
	itinerary.IsPublic = false
	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return fmt.Errorf("revoke share link: %w: %w", utils.ErrDatabaseError, err)
	}
	s.publisher.ItineraryChanged(ctx, itineraryId)
	return nil
}

// QRCode renders the share URL as a PNG, creating the link if needed.
func (s *ShareService) QRCode(ctx context.Context, actor, itineraryId uuid.UUID) ([]byte, error) {
	link, err := s.Link(ctx, actor, itineraryId)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link.ShareURL, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

func (s *ShareService) findShared(ctx context.Context, shareId string) (*db_models.Itinerary, error) {
	itinerary, err := s.itineraryRepo.FindByPublicLink(ctx, shareId)
	if err != nil {
		return nil, fmt.Errorf("find shared itinerary: %w: %w", utils.ErrDatabaseError, err)
	}
	if itinerary == nil {
		return nil, utils.ErrShareLinkNotFound
	}
	return itinerary, nil
}

// GetShared is the anonymous read of a shared itinerary. Collaborators, the editor
// and the generation prompt are stripped.
func (s *ShareService) GetShared(ctx context.Context, shareId string) (*db_models.Itinerary, error) {
	itinerary, err := s.findShared(ctx, shareId)
	if err != nil {
		return nil, err
	}

	if err := s.itineraryRepo.IncrementViews(ctx, []uuid.UUID{itinerary.ID}); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("itinerary_id", itinerary.ID.String()).Msg("failed to count shared view")
	} else {
		itinerary.Views++
	}

	itinerary.Collaborators = nil
	itinerary.LastEditedBy = nil
	itinerary.AIPrompt = nil
	return itinerary, nil
}

func (s *ShareService) Copy(ctx context.Context, actor uuid.UUID, shareId string) (*db_models.Itinerary, error) {
	original, err := s.findShared(ctx, shareId)
	if err != nil {
		return nil, err
	}

	copied := cloneForOwner(original, actor, original.Title+" (Cópia)", false, s.now())
	if err := s.itineraryRepo.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("copy shared itinerary: %w: %w", utils.ErrDatabaseError, err)
	}

	logging.Ctx(ctx).Info().
		Str("source_id", original.ID.String()).
		Str("itinerary_id", copied.ID.String()).
		Msg("shared itinerary copied")

	s.publisher.AchievementCheck(ctx, actor)
	s.publisher.ItineraryChanged(ctx, copied.ID)
	return copied, nil
}
