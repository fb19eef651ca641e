// AngelaMos | 2026
// handler_test.go

package redirect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/linkbio/internal/middleware"
)

func newTestRouter(f *fixture) http.Handler {
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r)
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_ResolveRedirects(t *testing.T) {
	f := newFixture(t, activeLink("l1", "abc123"))

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	req.Header.Set("User-Agent", visit.UserAgent)
	req.Header.Set("Referer", "https://news.example")
	req.Header.Set(middleware.CountryHeader, "NL")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()

	newTestRouter(f).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/l1", rec.Header().Get("Location"))
	require.Len(t, f.recorder.visits, 1)
	assert.Equal(t, visit, f.recorder.visits[0])
}

func TestHandler_ResolveWithoutCountryHeader(t *testing.T) {
	f := newFixture(t, activeLink("l1", "abc123"))

	rec := httptest.NewRecorder()
	newTestRouter(f).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/abc123", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Len(t, f.recorder.visits, 1)
	assert.Equal(t, middleware.UnknownLocation, f.recorder.visits[0].Location)
}

func TestHandler_ResolveStatuses(t *testing.T) {
	protected := activeLink("l2", "pwd123")
	protected.PasswordHash = hashed(t, "secret")

	inactive := activeLink("l3", "off123")
	inactive.IsActive = false

	f := newFixture(t, protected, inactive)
	h := newTestRouter(f)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "unknown",
			path:       "/missing",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "link not found", body["message"])
			},
		},
		{
			name:       "inactive",
			path:       "/off123",
			wantStatus: http.StatusGone,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "link is inactive", body["message"])
			},
		},
		{
			name:       "password required",
			path:       "/pwd123",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["requiresPassword"])
				assert.NotContains(t, body, "originalUrl")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			tt.check(t, decode(t, rec))
		})
	}

	assert.Empty(t, f.calls)
}

func TestHandler_Unlock(t *testing.T) {
	protected := activeLink("l1", "pwd123")
	protected.PasswordHash = hashed(t, "secret")
	plain := activeLink("l2", "open12")

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantURL    string
	}{
		{name: "success", path: "/pwd123", body: `{"password":"secret"}`, wantStatus: http.StatusOK, wantURL: "https://example.com/l1"},
		{name: "mismatch", path: "/pwd123", body: `{"password":"nope"}`, wantStatus: http.StatusUnauthorized},
		{name: "not protected", path: "/open12", body: `{"password":"secret"}`, wantStatus: http.StatusBadRequest},
		{name: "missing password", path: "/pwd123", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", path: "/pwd123", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, protected, plain)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			newTestRouter(f).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)

			if tt.wantURL != "" {
				assert.Equal(t, tt.wantURL, body["originalUrl"])
				assert.Equal(t, []string{"record", "increment"}, f.calls)
				return
			}

			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
			assert.Empty(t, f.calls)
		})
	}
}
