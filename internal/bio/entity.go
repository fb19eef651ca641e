// AngelaMos | 2026
// entity.go

package bio

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carterperez-dev/linkbio/internal/core"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeCustom = "custom"

	DefaultTitle           = "My Bio"
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#000000"
)

var Platforms = []string{
	"twitter", "instagram", "facebook", "linkedin", "youtube",
	"github", "tiktok", "discord", "twitch", "other",
}

var (
	ErrPageExists = core.NewAppError(
		core.ErrDuplicateKey,
		"bio page already exists",
		http.StatusConflict,
		"CONFLICT",
	)
	ErrUploadsDisabled = core.NewAppError(
		errors.New("image uploads not configured"),
		"image uploads are not available",
		http.StatusServiceUnavailable,
		"UPLOADS_DISABLED",
	)
)

type PageLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

// PageLinks and SocialLinks are stored as JSONB arrays.
type PageLinks []PageLink

type SocialLinks []SocialLink

func (l PageLinks) Value() (driver.Value, error) {
	return marshalJSONB(l)
}

func (l *PageLinks) Scan(src any) error {
	return scanJSONB(src, l)
}

func (l SocialLinks) Value() (driver.Value, error) {
	return marshalJSONB(l)
}

func (l *SocialLinks) Scan(src any) error {
	return scanJSONB(src, l)
}

func marshalJSONB[T any](items []T) (driver.Value, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSONB(src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan jsonb: unsupported type %T", src)
	}
	return json.Unmarshal(data, dst)
}

type Page struct {
	ID              string      `db:"id"`
	OwnerID         string      `db:"owner_id"`
	Title           string      `db:"title"`
	Description     string      `db:"description"`
	Theme           string      `db:"theme"`
	BackgroundColor string      `db:"background_color"`
	TextColor       string      `db:"text_color"`
	Links           PageLinks   `db:"links"`
	SocialLinks     SocialLinks `db:"social_links"`
	ProfileImage    string      `db:"profile_image"`
	IsActive        bool        `db:"is_active"`
	ViewCount       int64       `db:"view_count"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

func NewPage(id, ownerID string) *Page {
	return &Page{
		ID:              id,
		OwnerID:         ownerID,
		Title:           DefaultTitle,
		Theme:           ThemeLight,
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		Links:           PageLinks{},
		SocialLinks:     SocialLinks{},
		IsActive:        true,
	}
}

// Validate checks the fields the database cannot.
func (p *Page) Validate() error {
	if err := core.ValidateHexColor("backgroundColor", p.BackgroundColor); err != nil {
		return err
	}
	if err := core.ValidateHexColor("textColor", p.TextColor); err != nil {
		return err
	}

	switch p.Theme {
	case ThemeLight, ThemeDark, ThemeCustom:
	default:
		return &core.ValidationError{Field: "theme", Message: "must be one of: light dark custom"}
	}

	for i, l := range p.Links {
		if err := core.ValidateHTTPURL(fmt.Sprintf("links[%d].url", i), l.URL); err != nil {
			return err
		}
	}
	for i, l := range p.SocialLinks {
		if err := core.ValidateHTTPURL(fmt.Sprintf("socialLinks[%d].url", i), l.URL); err != nil {
			return err
		}
	}

	if p.ProfileImage != "" {
		if err := core.ValidateHTTPURL("profileImage", p.ProfileImage); err != nil {
			return err
		}
	}

	return nil
}

func (p *Page) clone() *Page {
	cp := *p
	cp.Links = append(PageLinks{}, p.Links...)
	cp.SocialLinks = append(SocialLinks{}, p.SocialLinks...)
	return &cp
}
