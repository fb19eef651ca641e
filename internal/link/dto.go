// AngelaMos | 2026
// dto.go

package link

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/carterperez-dev/linkbio/internal/analytics"
)

type CreateLinkRequest struct {
	OriginalURL string     `json:"originalUrl"           validate:"required,max=2048,httpurl"`
	CustomAlias string     `json:"customAlias,omitempty" validate:"omitempty,alias"`
	Title       string     `json:"title,omitempty"       validate:"max=100"`
	Description string     `json:"description,omitempty" validate:"max=500"`
	Password    string     `json:"password,omitempty"    validate:"omitempty,min=4,max=128"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Tags        []string   `json:"tags,omitempty"        validate:"max=20,dive,min=1,max=50"`
}

// UpdateLinkRequest is a partial update. Absent fields are left alone. An
// empty password or alias clears it, a JSON null expiresAt clears the
// expiry and a non-nil tags slice replaces the tag set.
type UpdateLinkRequest struct {
	OriginalURL *string      `json:"originalUrl,omitempty" validate:"omitempty,max=2048,httpurl"`
	CustomAlias *string      `json:"customAlias,omitempty" validate:"omitempty,max=20"`
	Title       *string      `json:"title,omitempty"       validate:"omitempty,max=100"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=500"`
	Password    *string      `json:"password,omitempty"    validate:"omitempty,max=128"`
	ExpiresAt   NullableTime `json:"expiresAt"`
	IsActive    *bool        `json:"isActive,omitempty"`
	Tags        []string     `json:"tags,omitempty"        validate:"omitempty,max=20,dive,min=1,max=50"`
}

// NullableTime distinguishes an absent field from an explicit null.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	n.Value = &t
	return nil
}

type ListParams struct {
	OwnerID string
	Page    int
	Limit   int
	Search  string
	Tag     string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type LinkResponse struct {
	ID          string     `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	CustomAlias *string    `json:"customAlias,omitempty"`
	ShortURL    string     `json:"shortUrl"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	HasPassword bool       `json:"hasPassword"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	IsActive    bool       `json:"isActive"`
	ClickCount  int64      `json:"clickCount"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToLinkResponse(l *Link, shortURL func(code string) string) LinkResponse {
	tags := []string(l.Tags)
	if tags == nil {
		tags = []string{}
	}

	return LinkResponse{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		ShortCode:   l.ShortCode,
		CustomAlias: l.CustomAlias,
		ShortURL:    shortURL(l.PublicCode()),
		Title:       l.Title,
		Description: l.Description,
		HasPassword: l.IsProtected(),
		ExpiresAt:   l.ExpiresAt,
		IsActive:    l.IsActive,
		ClickCount:  l.ClickCount,
		Tags:        tags,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func ToLinkResponseList(links []Link, shortURL func(code string) string) []LinkResponse {
	out := make([]LinkResponse, 0, len(links))
	for i := range links {
		out = append(out, ToLinkResponse(&links[i], shortURL))
	}
	return out
}

type LinkSummary struct {
	ID          string `json:"id"`
	ShortCode   string `json:"shortCode"`
	TotalClicks int64  `json:"totalClicks"`
}

type ClickAnalytics struct {
	TotalClicks      int               `json:"totalClicks"`
	ClicksByDate     map[string]int    `json:"clicksByDate"`
	ClicksByDevice   map[string]int    `json:"clicksByDevice"`
	ClicksByLocation map[string]int    `json:"clicksByLocation"`
	RecentClicks     []analytics.Event `json:"recentClicks"`
}

type AnalyticsResponse struct {
	Link      LinkSummary    `json:"link"`
	Period    string         `json:"period"`
	Analytics ClickAnalytics `json:"analytics"`
}

func ToAnalyticsResponse(l *Link, period analytics.Period, s analytics.Summary) AnalyticsResponse {
	return AnalyticsResponse{
		Link: LinkSummary{
			ID:          l.ID,
			ShortCode:   l.ShortCode,
			TotalClicks: l.ClickCount,
		},
		Period: period.Label,
		Analytics: ClickAnalytics{
			TotalClicks:      s.Total,
			ClicksByDate:     s.ByDate,
			ClicksByDevice:   s.ByDevice,
			ClicksByLocation: s.ByLocation,
			RecentClicks:     s.Recent,
		},
	}
}

type StatsLink struct {
	ID         string `json:"id"`
	ShortCode  string `json:"shortCode"`
	ClickCount int64  `json:"clickCount"`
}

type StatsResponse struct {
	Link      StatsLink         `json:"link"`
	Analytics []analytics.Event `json:"analytics"`
}

func ToStatsResponse(l *Link, events []analytics.Event) StatsResponse {
	if events == nil {
		events = []analytics.Event{}
	}
	return StatsResponse{
		Link: StatsLink{
			ID:         l.ID,
			ShortCode:  l.ShortCode,
			ClickCount: l.ClickCount,
		},
		Analytics: events,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}
