// AngelaMos | 2026
// service_test.go

package redirect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/link"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeLinks struct {
	links        map[string]*link.Link
	incremented  []string
	incrementErr error
	calls        *[]string
}

func (f *fakeLinks) GetByCode(ctx context.Context, code string) (*link.Link, error) {
	for _, l := range f.links {
		if l.ShortCode == code || (l.CustomAlias != nil && *l.CustomAlias == code) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get link by code: %w", core.ErrNotFound)
}

func (f *fakeLinks) IncrementClicks(ctx context.Context, id string) error {
	*f.calls = append(*f.calls, "increment")
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.incremented = append(f.incremented, id)
	f.links[id].ClickCount++
	return nil
}

type fakeRecorder struct {
	visits []analytics.Visit
	err    error
	calls  *[]string
}

func (f *fakeRecorder) RecordLinkVisit(
	ctx context.Context,
	linkID string,
	v analytics.Visit,
) (*analytics.Event, error) {
	*f.calls = append(*f.calls, "record")
	if f.err != nil {
		return nil, f.err
	}
	f.visits = append(f.visits, v)
	return analytics.NewLinkEvent(linkID, v, fixedNow)
}

type fixture struct {
	svc      *Service
	links    *fakeLinks
	recorder *fakeRecorder
	calls    []string
}

func newFixture(t *testing.T, links ...*link.Link) *fixture {
	t.Helper()

	f := &fixture{}
	f.links = &fakeLinks{links: make(map[string]*link.Link), calls: &f.calls}
	f.recorder = &fakeRecorder{calls: &f.calls}
	for _, l := range links {
		f.links.links[l.ID] = l
	}

	f.svc = NewService(f.links, f.recorder)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func ptr[T any](v T) *T { return &v }

func hashed(t *testing.T, password string) *string {
	t.Helper()
	h, err := core.HashPassword(password)
	require.NoError(t, err)
	return &h
}

func activeLink(id, code string) *link.Link {
	return &link.Link{
		ID:          id,
		ShortCode:   code,
		OriginalURL: "https://example.com/" + id,
		IsActive:    true,
	}
}

var visit = analytics.Visit{
	IPAddress: "203.0.113.9",
	UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1",
	Referer:   "https://news.example",
	Location:  "NL",
}

func TestResolve_Gating(t *testing.T) {
	past := fixedNow.Add(-time.Minute)
	future := fixedNow.Add(time.Hour)

	tests := []struct {
		name       string
		link       func(t *testing.T) *link.Link
		code       string
		wantStatus int
		wantPwd    bool
		wantDest   string
	}{
		{
			name:     "plain link redirects",
			link:     func(t *testing.T) *link.Link { return activeLink("l1", "abc123") },
			code:     "abc123",
			wantDest: "https://example.com/l1",
		},
		{
			name: "alias resolves like code",
			link: func(t *testing.T) *link.Link {
				l := activeLink("l1", "abc123")
				l.CustomAlias = ptr("promo")
				return l
			},
			code:     "promo",
			wantDest: "https://example.com/l1",
		},
		{
			name:       "unknown code",
			link:       func(t *testing.T) *link.Link { return activeLink("l1", "abc123") },
			code:       "zzz999",
			wantStatus: http.StatusNotFound,
		},
		{
			name: "expired",
			link: func(t *testing.T) *link.Link {
				l := activeLink("l1", "abc123")
				l.ExpiresAt = &past
				return l
			},
			code:       "abc123",
			wantStatus: http.StatusGone,
		},
		{
			name: "expires exactly now",
			link: func(t *testing.T) *link.Link {
				l := activeLink("l1", "abc123")
				l.ExpiresAt = ptr(fixedNow)
				return l
			},
			code:       "abc123",
			wantStatus: http.StatusGone,
		},
		{
			name: "future expiry redirects",
			link: func(t *testing.T) *link.Link {
				l := activeLink("l1", "abc123")
				l.ExpiresAt = &future
				return l
			},
			code:     "abc123",
			wantDest: "https://example.com/l1",
		},
		{
			name: "inactive",
			link: func(t *testing.T) *link.Link {
				l := activeLink("l1", "abc123")
				l.IsActive = false
				return l
			},
			code:       "abc123",
			wantStatus: http.StatusGone,
		},
		{
			name: "expired and protected reports gone",
			link: func(t *testing.T) *link.Link {
				l := activeLink("l1", "abc123")
				l.ExpiresAt = &past
				l.PasswordHash = hashed(t, "secret")
				return l
			},
			code:       "abc123",
			wantStatus: http.StatusGone,
		},
		{
			name: "protected asks for password",
			link: func(t *testing.T) *link.Link {
				l := activeLink("l1", "abc123")
				l.PasswordHash = hashed(t, "secret")
				return l
			},
			code:    "abc123",
			wantPwd: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.link(t))

			res, err := f.svc.Resolve(context.Background(), tt.code, visit)

			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, core.FromError(err, "link").StatusCode)
				assert.Empty(t, f.calls)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "l1", res.LinkID)

			if tt.wantPwd {
				assert.True(t, res.RequiresPassword)
				assert.Empty(t, res.Destination)
				assert.Empty(t, f.calls)
				assert.Zero(t, f.links.links["l1"].ClickCount)
				return
			}

			assert.Equal(t, tt.wantDest, res.Destination)
			assert.Equal(t, []string{"record", "increment"}, f.calls)
			assert.Equal(t, int64(1), f.links.links["l1"].ClickCount)
			require.Len(t, f.recorder.visits, 1)
			assert.Equal(t, visit, f.recorder.visits[0])
		})
	}
}

func TestResolve_RecordFailureSkipsIncrement(t *testing.T) {
	f := newFixture(t, activeLink("l1", "abc123"))
	f.recorder.err = errors.New("insert failed")

	_, err := f.svc.Resolve(context.Background(), "abc123", visit)

	require.Error(t, err)
	assert.Equal(t, []string{"record"}, f.calls)
	assert.Zero(t, f.links.links["l1"].ClickCount)
}

func TestResolve_IncrementFailureKeepsEvent(t *testing.T) {
	f := newFixture(t, activeLink("l1", "abc123"))
	f.links.incrementErr = errors.New("update failed")

	_, err := f.svc.Resolve(context.Background(), "abc123", visit)

	require.Error(t, err)
	assert.Equal(t, []string{"record", "increment"}, f.calls)
	assert.Len(t, f.recorder.visits, 1)
}

func TestUnlock(t *testing.T) {
	protected := func(t *testing.T) *link.Link {
		l := activeLink("l1", "abc123")
		l.PasswordHash = hashed(t, "secret")
		return l
	}

	tests := []struct {
		name       string
		link       func(t *testing.T) *link.Link
		code       string
		password   string
		wantErr    error
		wantStatus int
	}{
		{
			name:     "correct password",
			link:     protected,
			code:     "abc123",
			password: "secret",
		},
		{
			name:       "wrong password",
			link:       protected,
			code:       "abc123",
			password:   "guess",
			wantErr:    ErrPasswordMismatch,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not protected",
			link:       func(t *testing.T) *link.Link { return activeLink("l1", "abc123") },
			code:       "abc123",
			password:   "secret",
			wantErr:    ErrNotProtected,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown code",
			link:       protected,
			code:       "nope00",
			password:   "secret",
			wantErr:    core.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "expired before password check",
			link: func(t *testing.T) *link.Link {
				l := protected(t)
				l.ExpiresAt = ptr(fixedNow.Add(-time.Second))
				return l
			},
			code:       "abc123",
			password:   "secret",
			wantErr:    ErrExpired,
			wantStatus: http.StatusGone,
		},
		{
			name: "inactive",
			link: func(t *testing.T) *link.Link {
				l := protected(t)
				l.IsActive = false
				return l
			},
			code:       "abc123",
			password:   "secret",
			wantErr:    ErrInactive,
			wantStatus: http.StatusGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.link(t))

			res, err := f.svc.Unlock(context.Background(), tt.code, tt.password, visit)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantStatus, core.FromError(err, "link").StatusCode)
				assert.Empty(t, f.calls)
				assert.Zero(t, f.links.links["l1"].ClickCount)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://example.com/l1", res.Destination)
			assert.Equal(t, []string{"record", "increment"}, f.calls)
			assert.Equal(t, int64(1), f.links.links["l1"].ClickCount)
		})
	}
}
