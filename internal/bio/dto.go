// AngelaMos | 2026
// dto.go

package bio

import (
	"sort"
	"time"

	"github.com/carterperez-dev/linkbio/internal/analytics"
)

type PageLinkInput struct {
	Title    string `json:"title"              validate:"required,max=100"`
	URL      string `json:"url"                validate:"required,max=2048,httpurl"`
	Icon     string `json:"icon,omitempty"     validate:"max=100"`
	Order    int    `json:"order"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type SocialLinkInput struct {
	Platform string `json:"platform"           validate:"required,oneof=twitter instagram facebook linkedin youtube github tiktok discord twitch other"`
	URL      string `json:"url"                validate:"required,max=2048,httpurl"`
	Username string `json:"username,omitempty" validate:"max=100"`
}

type CreateBioRequest struct {
	Title           string            `json:"title,omitempty"           validate:"max=100"`
	Description     string            `json:"description,omitempty"     validate:"max=500"`
	Theme           string            `json:"theme,omitempty"           validate:"omitempty,oneof=light dark custom"`
	BackgroundColor string            `json:"backgroundColor,omitempty" validate:"omitempty,hexcolor6"`
	TextColor       string            `json:"textColor,omitempty"       validate:"omitempty,hexcolor6"`
	ProfileImage    string            `json:"profileImage,omitempty"    validate:"omitempty,max=2048,httpurl"`
	Links           []PageLinkInput   `json:"links,omitempty"           validate:"max=50,dive"`
	SocialLinks     []SocialLinkInput `json:"socialLinks,omitempty"     validate:"max=20,dive"`
}

// UpdateBioRequest leaves nil fields untouched. A non-nil slice replaces the
// stored list, so an empty array clears it.
type UpdateBioRequest struct {
	Title           *string           `json:"title,omitempty"           validate:"omitempty,min=1,max=100"`
	Description     *string           `json:"description,omitempty"     validate:"omitempty,max=500"`
	Theme           *string           `json:"theme,omitempty"           validate:"omitempty,oneof=light dark custom"`
	BackgroundColor *string           `json:"backgroundColor,omitempty" validate:"omitempty,hexcolor6"`
	TextColor       *string           `json:"textColor,omitempty"       validate:"omitempty,hexcolor6"`
	ProfileImage    *string           `json:"profileImage,omitempty"    validate:"omitempty,max=2048"`
	IsActive        *bool             `json:"isActive,omitempty"`
	Links           []PageLinkInput   `json:"links,omitempty"           validate:"omitempty,max=50,dive"`
	SocialLinks     []SocialLinkInput `json:"socialLinks,omitempty"     validate:"omitempty,max=20,dive"`
}

func toPageLinks(in []PageLinkInput) PageLinks {
	out := make(PageLinks, 0, len(in))
	for _, l := range in {
		active := true
		if l.IsActive != nil {
			active = *l.IsActive
		}
		out = append(out, PageLink{
			Title:    l.Title,
			URL:      l.URL,
			Icon:     l.Icon,
			Order:    l.Order,
			IsActive: active,
		})
	}
	return out
}

func toSocialLinks(in []SocialLinkInput) SocialLinks {
	out := make(SocialLinks, 0, len(in))
	for _, l := range in {
		out = append(out, SocialLink(l))
	}
	return out
}

type BioPageResponse struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Theme           string       `json:"theme"`
	BackgroundColor string       `json:"backgroundColor"`
	TextColor       string       `json:"textColor"`
	Links           []PageLink   `json:"links"`
	SocialLinks     []SocialLink `json:"socialLinks"`
	ProfileImage    string       `json:"profileImage"`
	IsActive        bool         `json:"isActive"`
	ViewCount       int64        `json:"viewCount"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func ToBioPageResponse(p *Page) BioPageResponse {
	return BioPageResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Theme:           p.Theme,
		BackgroundColor: p.BackgroundColor,
		TextColor:       p.TextColor,
		Links:           nonNil(p.Links),
		SocialLinks:     nonNil(p.SocialLinks),
		ProfileImage:    p.ProfileImage,
		IsActive:        p.IsActive,
		ViewCount:       p.ViewCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type PublicPage struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Theme           string       `json:"theme"`
	BackgroundColor string       `json:"backgroundColor"`
	TextColor       string       `json:"textColor"`
	Links           []PageLink   `json:"links"`
	SocialLinks     []SocialLink `json:"socialLinks"`
	ProfileImage    string       `json:"profileImage"`
	ViewCount       int64        `json:"viewCount"`
}

type PublicUser struct {
	Username string `json:"username"`
}

type PublicBioResponse struct {
	BioPage PublicPage `json:"bioPage"`
	User    PublicUser `json:"user"`
}

// ToPublicBioResponse hides inactive page links from visitors and lists the
// rest by their order field.
func ToPublicBioResponse(p *Page, username string) PublicBioResponse {
	links := make([]PageLink, 0, len(p.Links))
	for _, l := range p.Links {
		if l.IsActive {
			links = append(links, l)
		}
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].Order < links[j].Order })

	return PublicBioResponse{
		BioPage: PublicPage{
			Title:           p.Title,
			Description:     p.Description,
			Theme:           p.Theme,
			BackgroundColor: p.BackgroundColor,
			TextColor:       p.TextColor,
			Links:           links,
			SocialLinks:     nonNil(p.SocialLinks),
			ProfileImage:    p.ProfileImage,
			ViewCount:       p.ViewCount,
		},
		User: PublicUser{Username: username},
	}
}

type StatsPage struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ViewCount int64  `json:"viewCount"`
}

type StatsResponse struct {
	BioPage   StatsPage         `json:"bioPage"`
	Analytics []analytics.Event `json:"analytics"`
}

func ToStatsResponse(p *Page, events []analytics.Event) StatsResponse {
	return StatsResponse{
		BioPage: StatsPage{
			ID:        p.ID,
			Title:     p.Title,
			ViewCount: p.ViewCount,
		},
		Analytics: nonNil(events),
	}
}

type PageSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TotalViews int64  `json:"totalViews"`
}

type ViewAnalytics struct {
	TotalViews      int               `json:"totalViews"`
	ViewsByDate     map[string]int    `json:"viewsByDate"`
	ViewsByDevice   map[string]int    `json:"viewsByDevice"`
	ViewsByLocation map[string]int    `json:"viewsByLocation"`
	RecentViews     []analytics.Event `json:"recentViews"`
}

type AnalyticsResponse struct {
	BioPage   PageSummary   `json:"bioPage"`
	Period    string        `json:"period"`
	Analytics ViewAnalytics `json:"analytics"`
}

func ToAnalyticsResponse(p *Page, period analytics.Period, s analytics.Summary) AnalyticsResponse {
	return AnalyticsResponse{
		BioPage: PageSummary{
			ID:         p.ID,
			Title:      p.Title,
			TotalViews: p.ViewCount,
		},
		Period: period.Label,
		Analytics: ViewAnalytics{
			TotalViews:      s.Total,
			ViewsByDate:     s.ByDate,
			ViewsByDevice:   s.ByDevice,
			ViewsByLocation: s.ByLocation,
			RecentViews:     s.Recent,
		},
	}
}

type ImageResponse struct {
	URL     string          `json:"url"`
	BioPage BioPageResponse `json:"bioPage"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
