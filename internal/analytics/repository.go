// AngelaMos | 2026
// repository.go

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/linkbio/internal/core"
)

type Repository interface {
	Insert(ctx context.Context, e *Event) error
	ListForLink(ctx context.Context, linkID string, since time.Time) ([]Event, error)
	ListForBio(ctx context.Context, bioPageID string, since time.Time) ([]Event, error)
	RecentForLink(ctx context.Context, linkID string, limit int) ([]Event, error)
	RecentForBio(ctx context.Context, bioPageID string, limit int) ([]Event, error)
	DeleteForLink(ctx context.Context, linkID string) error
	DeleteForBio(ctx context.Context, bioPageID string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const eventColumns = `id, link_id, bio_page_id, ip_address, user_agent, referer,
		       location, device, browser, os, occurred_at`

func (r *repository) Insert(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO analytics_events (
			id, link_id, bio_page_id, ip_address, user_agent, referer,
			location, device, browser, os, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.LinkID,
		e.BioPageID,
		e.IPAddress,
		e.UserAgent,
		e.Referer,
		e.Location,
		e.Device,
		e.Browser,
		e.OS,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

func (r *repository) ListForLink(
	ctx context.Context,
	linkID string,
	since time.Time,
) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM analytics_events
		WHERE link_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at DESC`

	var events []Event
	if err := r.db.SelectContext(ctx, &events, query, linkID, since); err != nil {
		return nil, fmt.Errorf("list link events: %w", err)
	}

	return events, nil
}

func (r *repository) ListForBio(
	ctx context.Context,
	bioPageID string,
	since time.Time,
) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM analytics_events
		WHERE bio_page_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at DESC`

	var events []Event
	if err := r.db.SelectContext(ctx, &events, query, bioPageID, since); err != nil {
		return nil, fmt.Errorf("list bio events: %w", err)
	}

	return events, nil
}

func (r *repository) RecentForLink(
	ctx context.Context,
	linkID string,
	limit int,
) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM analytics_events
		WHERE link_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`

	var events []Event
	if err := r.db.SelectContext(ctx, &events, query, linkID, limit); err != nil {
		return nil, fmt.Errorf("recent link events: %w", err)
	}

	return events, nil
}

func (r *repository) RecentForBio(
	ctx context.Context,
	bioPageID string,
	limit int,
) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM analytics_events
		WHERE bio_page_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`

	var events []Event
	if err := r.db.SelectContext(ctx, &events, query, bioPageID, limit); err != nil {
		return nil, fmt.Errorf("recent bio events: %w", err)
	}

	return events, nil
}

func (r *repository) DeleteForLink(ctx context.Context, linkID string) error {
	query := `DELETE FROM analytics_events WHERE link_id = $1`

	if _, err := r.db.ExecContext(ctx, query, linkID); err != nil {
		return fmt.Errorf("delete link events: %w", err)
	}

	return nil
}

func (r *repository) DeleteForBio(ctx context.Context, bioPageID string) error {
	query := `DELETE FROM analytics_events WHERE bio_page_id = $1`

	if _, err := r.db.ExecContext(ctx, query, bioPageID); err != nil {
		return fmt.Errorf("delete bio events: %w", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM analytics_events`); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
