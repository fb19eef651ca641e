// AngelaMos | 2026
// entity.go

package link

import (
	"errors"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/carterperez-dev/linkbio/internal/core"
)

var (
	ErrCodeTaken          = errors.New("short code already in use")
	ErrAliasTaken         = core.DuplicateError("custom alias")
	ErrCodeSpaceExhausted = core.NewAppError(
		core.ErrExhausted,
		"could not allocate a unique short code, please retry",
		http.StatusServiceUnavailable,
		"EXHAUSTED",
	)
)

type Link struct {
	ID           string         `db:"id"`
	OwnerID      string         `db:"owner_id"`
	OriginalURL  string         `db:"original_url"`
	ShortCode    string         `db:"short_code"`
	CustomAlias  *string        `db:"custom_alias"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	PasswordHash *string        `db:"password_hash"`
	ExpiresAt    *time.Time     `db:"expires_at"`
	IsActive     bool           `db:"is_active"`
	ClickCount   int64          `db:"click_count"`
	Tags         pq.StringArray `db:"tags"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// IsExpired is true once now has reached the expiry instant.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

func (l *Link) IsProtected() bool {
	return l.PasswordHash != nil && *l.PasswordHash != ""
}

// PublicCode is the code shown in short URLs: the alias when one is set.
func (l *Link) PublicCode() string {
	if l.CustomAlias != nil && *l.CustomAlias != "" {
		return *l.CustomAlias
	}
	return l.ShortCode
}
