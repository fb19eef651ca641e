// AngelaMos | 2026
// service.go

package bio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/user"
)

const tracerName = "linkbio/bio"

type EventSource interface {
	ListForBio(ctx context.Context, bioPageID string, since time.Time) ([]analytics.Event, error)
	RecentForBio(ctx context.Context, bioPageID string, limit int) ([]analytics.Event, error)
	DeleteForBio(ctx context.Context, bioPageID string) error
}

type ViewRecorder interface {
	RecordBioView(ctx context.Context, bioPageID string, v analytics.Visit) (*analytics.Event, error)
}

// OwnerDirectory resolves public handles to active accounts.
type OwnerDirectory interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type Service struct {
	repo     Repository
	events   EventSource
	recorder ViewRecorder
	owners   OwnerDirectory
	uploader ImageUploader
	now      func() time.Time
}

// NewService accepts a nil uploader, in which case image uploads report
// ErrUploadsDisabled.
func NewService(
	repo Repository,
	events EventSource,
	recorder ViewRecorder,
	owners OwnerDirectory,
	uploader ImageUploader,
) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		recorder: recorder,
		owners:   owners,
		uploader: uploader,
		now:      time.Now,
	}
}

// Create builds the caller's only page. A second page is a conflict.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateBioRequest,
) (*Page, error) {
	page := NewPage(uuid.New().String(), userID)

	if title := strings.TrimSpace(req.Title); title != "" {
		page.Title = title
	}
	page.Description = strings.TrimSpace(req.Description)
	if req.Theme != "" {
		page.Theme = req.Theme
	}
	if req.BackgroundColor != "" {
		page.BackgroundColor = req.BackgroundColor
	}
	if req.TextColor != "" {
		page.TextColor = req.TextColor
	}
	page.ProfileImage = req.ProfileImage
	page.Links = toPageLinks(req.Links)
	page.SocialLinks = toSocialLinks(req.SocialLinks)

	if err := page.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, page); err != nil {
		return nil, err
	}

	return page, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*Page, error) {
	return s.repo.GetByOwner(ctx, userID)
}

// Update applies req to a copy of the stored page. On any validation error
// the stored page is left as it was.
func (s *Service) Update(
	ctx context.Context,
	userID string,
	req UpdateBioRequest,
) (*Page, error) {
	current, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	page := current.clone()

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, &core.ValidationError{Field: "title", Message: "must not be empty"}
		}
		page.Title = title
	}
	if req.Description != nil {
		page.Description = strings.TrimSpace(*req.Description)
	}
	if req.Theme != nil {
		page.Theme = *req.Theme
	}
	if req.BackgroundColor != nil {
		page.BackgroundColor = *req.BackgroundColor
	}
	if req.TextColor != nil {
		page.TextColor = *req.TextColor
	}
	if req.ProfileImage != nil {
		page.ProfileImage = *req.ProfileImage
	}
	if req.IsActive != nil {
		page.IsActive = *req.IsActive
	}
	if req.Links != nil {
		page.Links = toPageLinks(req.Links)
	}
	if req.SocialLinks != nil {
		page.SocialLinks = toSocialLinks(req.SocialLinks)
	}

	if err := page.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, err
	}

	return page, nil
}

// Delete removes the page's view events before the page itself.
func (s *Service) Delete(ctx context.Context, userID string) error {
	page, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.events.DeleteForBio(ctx, page.ID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, page.ID)
}

// View serves the public page for username. Unknown handles, disabled owners
// and inactive pages are all reported as not found. A served view records one
// event and bumps the counter.
func (s *Service) View(
	ctx context.Context,
	username string,
	visit analytics.Visit,
) (*Page, *user.User, error) {
	ctx, span := core.StartSpan(ctx, tracerName, "bio.view",
		attribute.String("bio.username", username),
	)
	defer span.End()

	owner, err := s.owners.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	page, err := s.repo.GetByOwner(ctx, owner.ID)
	if err != nil {
		return nil, nil, err
	}

	if !page.IsActive {
		return nil, nil, fmt.Errorf("view bio page: %w", core.ErrNotFound)
	}

	if _, err := s.recorder.RecordBioView(ctx, page.ID, visit); err != nil {
		core.SetSpanError(ctx, err)
		return nil, nil, fmt.Errorf("record view: %w", err)
	}

	count, err := s.repo.IncrementViews(ctx, page.ID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, nil, err
	}
	page.ViewCount = count

	return page, owner, nil
}

func (s *Service) Stats(
	ctx context.Context,
	userID string,
) (*Page, []analytics.Event, error) {
	page, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	events, err := s.events.RecentForBio(ctx, page.ID, analytics.RecentForStats)
	if err != nil {
		return nil, nil, err
	}

	return page, events, nil
}

func (s *Service) Analytics(
	ctx context.Context,
	userID string,
	period analytics.Period,
) (*Page, analytics.Summary, error) {
	page, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, analytics.Summary{}, err
	}

	events, err := s.events.ListForBio(ctx, page.ID, period.Since(s.now()))
	if err != nil {
		return nil, analytics.Summary{}, err
	}

	return page, analytics.Aggregate(events, analytics.RecentForAnalytics), nil
}

// UploadImage stores file as the page's profile image.
func (s *Service) UploadImage(
	ctx context.Context,
	userID string,
	file io.Reader,
) (*Page, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	page, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, file)
	if err != nil {
		return nil, err
	}

	page.ProfileImage = url
	if err := s.repo.Update(ctx, page); err != nil {
		return nil, err
	}

	return page, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
