// AngelaMos | 2026
// repository.go

package link

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/linkbio/internal/core"
)

const (
	shortCodeConstraint = "links_short_code_key"
	aliasConstraint     = "links_custom_alias_key"
)

type Repository interface {
	Create(ctx context.Context, link *Link) error
	GetByID(ctx context.Context, id string) (*Link, error)
	GetByCode(ctx context.Context, code string) (*Link, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, params ListParams) ([]Link, int, error)
	Update(ctx context.Context, link *Link) error
	Delete(ctx context.Context, id string) error
	IncrementClicks(ctx context.Context, id string) error
	Totals(ctx context.Context) (links int, clicks int64, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// tags is read in its text form, which pq.StringArray parses regardless of
// the driver's binary array support.
const linkColumns = `id, owner_id, original_url, short_code, custom_alias, title,
		       description, password_hash, expires_at, is_active, click_count,
		       tags::text AS tags, created_at, updated_at`

func (r *repository) Create(ctx context.Context, link *Link) error {
	query := `
		INSERT INTO links (
			id, owner_id, original_url, short_code, custom_alias, title,
			description, password_hash, expires_at, is_active, tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		link.ID,
		link.OwnerID,
		link.OriginalURL,
		link.ShortCode,
		link.CustomAlias,
		link.Title,
		link.Description,
		link.PasswordHash,
		link.ExpiresAt,
		link.IsActive,
		link.Tags,
	).Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create link: %w", mapUniqueViolation(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE id = $1`

	var link Link
	err := r.db.GetContext(ctx, &link, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get link: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}

	return &link, nil
}

// GetByCode resolves a code against both short codes and custom aliases.
// A short code match wins over an alias match on another row.
func (r *repository) GetByCode(ctx context.Context, code string) (*Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE short_code = $1 OR custom_alias = $1
		ORDER BY (short_code = $1) DESC
		LIMIT 1`

	var link Link
	err := r.db.GetContext(ctx, &link, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get link by code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get link by code: %w", err)
	}

	return &link, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = $1 OR custom_alias = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("check code exists: %w", err)
	}

	return exists, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Link, int, error) {
	params.Normalize()

	conditions := []string{"owner_id = $1"}
	args := []any{params.OwnerID}
	argIdx := 2

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(title ILIKE $%[1]d OR description ILIKE $%[1]d
			  OR original_url ILIKE $%[1]d OR short_code ILIKE $%[1]d)`, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", argIdx))
		args = append(args, params.Tag)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM links WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count links: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM links
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		linkColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.Limit, params.Offset())

	var links []Link
	if err := r.db.SelectContext(ctx, &links, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list links: %w", err)
	}

	return links, total, nil
}

func (r *repository) Update(ctx context.Context, link *Link) error {
	query := `
		UPDATE links
		SET original_url = $2, custom_alias = $3, title = $4, description = $5,
		    password_hash = $6, expires_at = $7, is_active = $8, tags = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &link.UpdatedAt, query,
		link.ID,
		link.OriginalURL,
		link.CustomAlias,
		link.Title,
		link.Description,
		link.PasswordHash,
		link.ExpiresAt,
		link.IsActive,
		link.Tags,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update link: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update link: %w", mapUniqueViolation(err))
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete link: %w", core.ErrNotFound)
	}

	return nil
}

// IncrementClicks is a single atomic statement so concurrent redirects never
// lose a count.
func (r *repository) IncrementClicks(ctx context.Context, id string) error {
	query := `UPDATE links SET click_count = click_count + 1 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("increment clicks: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Totals(ctx context.Context) (int, int64, error) {
	var totals struct {
		Links  int   `db:"links"`
		Clicks int64 `db:"clicks"`
	}

	query := `SELECT COUNT(*) AS links, COALESCE(SUM(click_count), 0) AS clicks FROM links`
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return 0, 0, fmt.Errorf("link totals: %w", err)
	}

	return totals.Links, totals.Clicks, nil
}

func mapUniqueViolation(err error) error {
	constraint, ok := core.UniqueViolation(err)
	if !ok {
		return err
	}

	switch constraint {
	case shortCodeConstraint:
		return ErrCodeTaken
	case aliasConstraint:
		return ErrAliasTaken
	default:
		return core.ErrDuplicateKey
	}
}
