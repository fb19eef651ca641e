// AngelaMos | 2026
// repository.go

package bio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/linkbio/internal/core"
)

const ownerConstraint = "bio_pages_owner_id_key"

type Repository interface {
	Create(ctx context.Context, page *Page) error
	GetByOwner(ctx context.Context, ownerID string) (*Page, error)
	Update(ctx context.Context, page *Page) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const pageColumns = `id, owner_id, title, description, theme, background_color,
		       text_color, links, social_links, profile_image, is_active,
		       view_count, created_at, updated_at`

func (r *repository) Create(ctx context.Context, page *Page) error {
	query := `
		INSERT INTO bio_pages (
			id, owner_id, title, description, theme, background_color,
			text_color, links, social_links, profile_image, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		page.ID,
		page.OwnerID,
		page.Title,
		page.Description,
		page.Theme,
		page.BackgroundColor,
		page.TextColor,
		page.Links,
		page.SocialLinks,
		page.ProfileImage,
		page.IsActive,
	).Scan(&page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		if constraint, ok := core.UniqueViolation(err); ok && constraint == ownerConstraint {
			return ErrPageExists
		}
		return fmt.Errorf("create bio page: %w", err)
	}

	return nil
}

func (r *repository) GetByOwner(ctx context.Context, ownerID string) (*Page, error) {
	query := `
		SELECT ` + pageColumns + `
		FROM bio_pages
		WHERE owner_id = $1`

	var page Page
	err := r.db.GetContext(ctx, &page, query, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bio page: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bio page: %w", err)
	}

	return &page, nil
}

func (r *repository) Update(ctx context.Context, page *Page) error {
	query := `
		UPDATE bio_pages
		SET title = $2, description = $3, theme = $4, background_color = $5,
		    text_color = $6, links = $7, social_links = $8,
		    profile_image = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &page.UpdatedAt, query,
		page.ID,
		page.Title,
		page.Description,
		page.Theme,
		page.BackgroundColor,
		page.TextColor,
		page.Links,
		page.SocialLinks,
		page.ProfileImage,
		page.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update bio page: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update bio page: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bio_pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bio page: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bio page: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete bio page: %w", core.ErrNotFound)
	}

	return nil
}

// IncrementViews bumps the counter in one statement and returns the new
// value.
func (r *repository) IncrementViews(ctx context.Context, id string) (int64, error) {
	query := `
		UPDATE bio_pages
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count`

	var count int64
	err := r.db.GetContext(ctx, &count, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("increment views: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}

	return count, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM bio_pages`); err != nil {
		return 0, fmt.Errorf("count bio pages: %w", err)
	}
	return n, nil
}
