// AngelaMos | 2026
// service.go

package redirect

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/link"
)

const tracerName = "linkbio/redirect"

var (
	ErrExpired  = core.GoneError("link has expired")
	ErrInactive = core.GoneError("link is inactive")

	ErrNotProtected = core.NewAppError(
		core.ErrInvalidInput,
		"link is not password protected",
		http.StatusBadRequest,
		"NOT_PROTECTED",
	)
	ErrPasswordMismatch = core.NewAppError(
		core.ErrUnauthorized,
		"incorrect password",
		http.StatusUnauthorized,
		"INVALID_PASSWORD",
	)
)

type LinkResolver interface {
	GetByCode(ctx context.Context, code string) (*link.Link, error)
	IncrementClicks(ctx context.Context, id string) error
}

type Recorder interface {
	RecordLinkVisit(
		ctx context.Context,
		linkID string,
		v analytics.Visit,
	) (*analytics.Event, error)
}

// Result is the outcome of a resolution that passed the existence, expiry
// and active checks. Destination is empty when RequiresPassword is set.
type Result struct {
	LinkID           string
	Destination      string
	RequiresPassword bool
}

type Service struct {
	links    LinkResolver
	recorder Recorder
	now      func() time.Time
}

func NewService(links LinkResolver, recorder Recorder) *Service {
	return &Service{
		links:    links,
		recorder: recorder,
		now:      time.Now,
	}
}

// Resolve gates in order: existence, expiry, active flag, password. Only a
// link that passes every gate records a visit and counts a click.
func (s *Service) Resolve(
	ctx context.Context,
	code string,
	visit analytics.Visit,
) (*Result, error) {
	ctx, span := core.StartSpan(ctx, tracerName, "redirect.resolve",
		attribute.String("link.code", code),
	)
	defer span.End()

	l, err := s.gate(ctx, code)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if l.IsProtected() {
		span.SetAttributes(attribute.Bool("link.requires_password", true))
		return &Result{LinkID: l.ID, RequiresPassword: true}, nil
	}

	if err := s.follow(ctx, l, visit); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return &Result{LinkID: l.ID, Destination: l.OriginalURL}, nil
}

// Unlock answers the password challenge. A wrong password has no side
// effects.
func (s *Service) Unlock(
	ctx context.Context,
	code string,
	password string,
	visit analytics.Visit,
) (*Result, error) {
	ctx, span := core.StartSpan(ctx, tracerName, "redirect.unlock",
		attribute.String("link.code", code),
	)
	defer span.End()

	l, err := s.gate(ctx, code)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if !l.IsProtected() {
		return nil, ErrNotProtected
	}

	ok, err := core.VerifyPassword(password, *l.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify link password: %w", err)
	}
	if !ok {
		return nil, ErrPasswordMismatch
	}

	if err := s.follow(ctx, l, visit); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return &Result{LinkID: l.ID, Destination: l.OriginalURL}, nil
}

func (s *Service) gate(ctx context.Context, code string) (*link.Link, error) {
	l, err := s.links.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if l.IsExpired(s.now()) {
		return nil, ErrExpired
	}
	if !l.IsActive {
		return nil, ErrInactive
	}

	return l, nil
}

// follow writes the visit event, then bumps the counter. Neither step is
// undone if the other fails.
func (s *Service) follow(ctx context.Context, l *link.Link, visit analytics.Visit) error {
	if _, err := s.recorder.RecordLinkVisit(ctx, l.ID, visit); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}

	if err := s.links.IncrementClicks(ctx, l.ID); err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}

	return nil
}
