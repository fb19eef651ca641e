// AngelaMos | 2026
// entity.go

package analytics

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	Unknown       = "unknown"

	UnknownLocation = "Unknown"
)

var ErrTargetRequired = errors.New("event must reference exactly one of link or bio page")

// Event is one resolved redirect or bio page view. Exactly one of LinkID and
// BioPageID is set.
type Event struct {
	ID        string    `db:"id"          json:"id"`
	LinkID    *string   `db:"link_id"     json:"linkId,omitempty"`
	BioPageID *string   `db:"bio_page_id" json:"bioPageId,omitempty"`
	IPAddress string    `db:"ip_address"  json:"ipAddress"`
	UserAgent string    `db:"user_agent"  json:"userAgent"`
	Referer   string    `db:"referer"     json:"referer"`
	Location  string    `db:"location"    json:"location"`
	Device    string    `db:"device"      json:"device"`
	Browser   string    `db:"browser"     json:"browser"`
	OS        string    `db:"os"          json:"os"`
	CreatedAt time.Time `db:"occurred_at" json:"createdAt"`
}

// Visit is the request metadata captured at resolution time.
type Visit struct {
	IPAddress string
	UserAgent string
	Referer   string
	Location  string
}

func NewLinkEvent(linkID string, v Visit, now time.Time) (*Event, error) {
	if linkID == "" {
		return nil, ErrTargetRequired
	}
	return newEvent(&linkID, nil, v, now), nil
}

func NewBioEvent(bioPageID string, v Visit, now time.Time) (*Event, error) {
	if bioPageID == "" {
		return nil, ErrTargetRequired
	}
	return newEvent(nil, &bioPageID, v, now), nil
}

func newEvent(linkID, bioPageID *string, v Visit, now time.Time) *Event {
	client := Classify(v.UserAgent)

	location := v.Location
	if location == "" {
		location = UnknownLocation
	}

	return &Event{
		ID:        uuid.NewString(),
		LinkID:    linkID,
		BioPageID: bioPageID,
		IPAddress: v.IPAddress,
		UserAgent: v.UserAgent,
		Referer:   v.Referer,
		Location:  location,
		Device:    client.Device,
		Browser:   client.Browser,
		OS:        client.OS,
		CreatedAt: now.UTC(),
	}
}
