// AngelaMos | 2026
// service.go

package link

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/config"
	"github.com/carterperez-dev/linkbio/internal/core"
)

// EventSource is the slice of the analytics repository links depend on.
type EventSource interface {
	ListForLink(ctx context.Context, linkID string, since time.Time) ([]analytics.Event, error)
	RecentForLink(ctx context.Context, linkID string, limit int) ([]analytics.Event, error)
	DeleteForLink(ctx context.Context, linkID string) error
}

type Service struct {
	repo      Repository
	events    EventSource
	generator *Generator
	cfg       config.LinksConfig
	now       func() time.Time
}

func NewService(repo Repository, events EventSource, cfg config.LinksConfig) *Service {
	return &Service{
		repo:      repo,
		events:    events,
		generator: NewGenerator(repo, cfg.CodeLength, cfg.MaxCodeAttempts),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *Service) ShortURL(code string) string {
	return s.cfg.ShortURL(code)
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateLinkRequest,
) (*Link, error) {
	if err := core.ValidateHTTPURL("originalUrl", req.OriginalURL); err != nil {
		return nil, err
	}

	link := &Link{
		ID:          uuid.New().String(),
		OwnerID:     userID,
		OriginalURL: req.OriginalURL,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ExpiresAt:   req.ExpiresAt,
		IsActive:    true,
		Tags:        normalizeTags(req.Tags),
	}

	if req.CustomAlias != "" {
		if err := s.checkAliasAvailable(ctx, req.CustomAlias); err != nil {
			return nil, err
		}
		alias := req.CustomAlias
		link.CustomAlias = &alias
	}

	if req.Password != "" {
		hash, err := core.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash link password: %w", err)
		}
		link.PasswordHash = &hash
	}

	_, err := s.generator.Reserve(ctx, func(ctx context.Context, code string) error {
		link.ShortCode = code
		return s.repo.Create(ctx, link)
	})
	if err != nil {
		return nil, err
	}

	return link, nil
}

// Get returns the link only to its owner. Links owned by someone else are
// reported as not found.
func (s *Service) Get(ctx context.Context, userID, id string) (*Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if link.OwnerID != userID {
		return nil, fmt.Errorf("get link: %w", core.ErrNotFound)
	}

	return link, nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Link, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateLinkRequest,
) (*Link, error) {
	link, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.OriginalURL != nil {
		if err := core.ValidateHTTPURL("originalUrl", *req.OriginalURL); err != nil {
			return nil, err
		}
		link.OriginalURL = *req.OriginalURL
	}

	if req.CustomAlias != nil {
		if err := s.applyAlias(ctx, link, *req.CustomAlias); err != nil {
			return nil, err
		}
	}

	if req.Title != nil {
		link.Title = strings.TrimSpace(*req.Title)
	}

	if req.Description != nil {
		link.Description = strings.TrimSpace(*req.Description)
	}

	if req.Password != nil {
		if err := applyPassword(link, *req.Password); err != nil {
			return nil, err
		}
	}

	if req.ExpiresAt.Set {
		link.ExpiresAt = req.ExpiresAt.Value
	}

	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}

	if req.Tags != nil {
		link.Tags = normalizeTags(req.Tags)
	}

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// Delete removes the link's analytics events before the link itself.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.events.DeleteForLink(ctx, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(
	ctx context.Context,
	userID, id string,
) (*Link, []analytics.Event, error) {
	link, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	events, err := s.events.RecentForLink(ctx, id, analytics.RecentForStats)
	if err != nil {
		return nil, nil, err
	}

	return link, events, nil
}

func (s *Service) Analytics(
	ctx context.Context,
	userID, id string,
	period analytics.Period,
) (*Link, analytics.Summary, error) {
	link, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, analytics.Summary{}, err
	}

	events, err := s.events.ListForLink(ctx, id, period.Since(s.now()))
	if err != nil {
		return nil, analytics.Summary{}, err
	}

	return link, analytics.Aggregate(events, analytics.RecentForAnalytics), nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Link, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) IncrementClicks(ctx context.Context, id string) error {
	return s.repo.IncrementClicks(ctx, id)
}

func (s *Service) Totals(ctx context.Context) (int, int64, error) {
	return s.repo.Totals(ctx)
}

func (s *Service) checkAliasAvailable(ctx context.Context, alias string) error {
	if err := core.ValidateAlias("customAlias", alias); err != nil {
		return err
	}

	if isReserved(alias) {
		return &core.ValidationError{Field: "customAlias", Message: "is reserved"}
	}

	taken, err := s.repo.CodeExists(ctx, alias)
	if err != nil {
		return err
	}
	if taken {
		return ErrAliasTaken
	}

	return nil
}

func (s *Service) applyAlias(ctx context.Context, link *Link, alias string) error {
	if alias == "" {
		link.CustomAlias = nil
		return nil
	}

	if link.CustomAlias != nil && *link.CustomAlias == alias {
		return nil
	}

	// The link's own short code already resolves to it.
	if alias == link.ShortCode {
		link.CustomAlias = &alias
		return nil
	}

	if err := s.checkAliasAvailable(ctx, alias); err != nil {
		return err
	}

	link.CustomAlias = &alias
	return nil
}

func applyPassword(link *Link, password string) error {
	if password == "" {
		link.PasswordHash = nil
		return nil
	}

	if len(password) < 4 {
		return &core.ValidationError{
			Field:   "password",
			Message: "must be at least 4 characters",
		}
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash link password: %w", err)
	}
	link.PasswordHash = &hash

	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
