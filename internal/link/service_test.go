// AngelaMos | 2026
// service_test.go

package link

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/linkbio/internal/analytics"
	"github.com/carterperez-dev/linkbio/internal/core"
)

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "user-1", CreateLinkRequest{
		OriginalURL: "https://example.com/page",
		Title:       "  Example  ",
		Password:    "hunter2",
		Tags:        []string{"News", "news", " dev "},
	})
	require.NoError(t, err)

	assert.Regexp(t, base36Code, link.ShortCode)
	assert.Equal(t, "user-1", link.OwnerID)
	assert.Equal(t, "Example", link.Title)
	assert.True(t, link.IsActive)
	assert.True(t, link.IsProtected())
	assert.Equal(t, []string{"news", "dev"}, []string(link.Tags))
	assert.Zero(t, link.ClickCount)

	ok, err := core.VerifyPassword("hunter2", *link.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Len(t, repo.links, 1)
	assert.Equal(t, "https://sho.rt/"+link.ShortCode, svc.ShortURL(link.PublicCode()))
}

func TestService_Create_InvalidURL(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(context.Background(), "user-1", CreateLinkRequest{
		OriginalURL: "ftp://example.com",
	})

	var validationErr *core.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "originalUrl", validationErr.Field)
	assert.Empty(t, repo.links)
}

func TestService_Create_ReservedAlias(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(context.Background(), "user-1", CreateLinkRequest{
		OriginalURL: "https://example.com",
		CustomAlias: "HealthZ",
	})

	var validationErr *core.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "customAlias is reserved", validationErr.Error())
	assert.Empty(t, repo.links)
}

func TestService_Create_AliasSharesNamespace(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", CreateLinkRequest{OriginalURL: "https://a.example"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		alias string
	}{
		{name: "alias equal to existing short code", alias: first.ShortCode},
		{name: "alias equal to existing alias", alias: "promo"},
	}

	_, err = svc.Create(ctx, "user-2", CreateLinkRequest{
		OriginalURL: "https://b.example",
		CustomAlias: "promo",
	})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-3", CreateLinkRequest{
				OriginalURL: "https://c.example",
				CustomAlias: tt.alias,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrDuplicateKey)
			assert.Equal(t, 409, core.FromError(err, "link").StatusCode)
		})
	}
}

func TestService_Create_InsertRaceRetries(t *testing.T) {
	svc, repo, _ := newTestService()

	attempts := 0
	repo.createHook = func(l *Link) error {
		attempts++
		if attempts < 3 {
			return ErrCodeTaken
		}
		return nil
	}

	link, err := svc.Create(context.Background(), "user-1", CreateLinkRequest{
		OriginalURL: "https://example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, link.ShortCode)
	assert.Equal(t, 3, attempts)
}

func TestService_Get_OtherOwnerIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "owner", CreateLinkRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "intruder", link.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	got, err := svc.Get(ctx, "owner", link.ID)
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
}

func TestService_Update(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour)
	link, err := svc.Create(ctx, "owner", CreateLinkRequest{
		OriginalURL: "https://example.com",
		CustomAlias: "launch",
		Password:    "secret",
		ExpiresAt:   &expiry,
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, "owner", link.ID, UpdateLinkRequest{
		Title:       strPtr("New title"),
		Password:    strPtr(""),
		CustomAlias: strPtr(""),
		ExpiresAt:   NullableTime{Set: true},
		IsActive:    &inactive,
		Tags:        []string{"Q1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.False(t, updated.IsProtected())
	assert.Nil(t, updated.CustomAlias)
	assert.Nil(t, updated.ExpiresAt)
	assert.False(t, updated.IsActive)
	assert.Equal(t, []string{"q1"}, []string(updated.Tags))
	assert.Equal(t, link.ShortCode, updated.ShortCode)
}

func TestService_Update_ShortPasswordRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "owner", CreateLinkRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "owner", link.ID, UpdateLinkRequest{Password: strPtr("abc")})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	got, err := svc.Get(ctx, "owner", link.ID)
	require.NoError(t, err)
	assert.False(t, got.IsProtected())
}

func TestService_Update_KeepsOwnAlias(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "owner", CreateLinkRequest{
		OriginalURL: "https://example.com",
		CustomAlias: "mine",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "owner", link.ID, UpdateLinkRequest{CustomAlias: strPtr("mine")})
	require.NoError(t, err)
	assert.Equal(t, "mine", *updated.CustomAlias)
}

func TestService_Update_AliasMatchingOwnShortCode(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "owner", CreateLinkRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "owner", link.ID, UpdateLinkRequest{CustomAlias: strPtr(link.ShortCode)})
	require.NoError(t, err)
	require.NotNil(t, updated.CustomAlias)
	assert.Equal(t, link.ShortCode, *updated.CustomAlias)

	other, err := svc.Create(ctx, "owner", CreateLinkRequest{OriginalURL: "https://example.org"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "owner", other.ID, UpdateLinkRequest{CustomAlias: strPtr(link.ShortCode)})
	assert.ErrorIs(t, err, ErrAliasTaken)
}

func TestService_GetByCode_ShortCodeWinsOverAlias(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	repo.links["l-alias"] = &Link{ID: "l-alias", ShortCode: "zzz999", CustomAlias: strPtr("promo1")}
	repo.links["l-code"] = &Link{ID: "l-code", ShortCode: "promo1"}

	for range 20 {
		got, err := svc.GetByCode(ctx, "promo1")
		require.NoError(t, err)
		assert.Equal(t, "l-code", got.ID)
	}
}

func TestService_Delete_RemovesEventsFirst(t *testing.T) {
	svc, repo, events := newTestService()
	ctx := context.Background()

	link, err := svc.Create(ctx, "owner", CreateLinkRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	err = svc.Delete(ctx, "intruder", link.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, events.deleted)

	require.NoError(t, svc.Delete(ctx, "owner", link.ID))
	assert.Equal(t, []string{link.ID}, events.deleted)
	assert.Empty(t, repo.links)
}

func TestService_Analytics(t *testing.T) {
	svc, _, events := newTestService()
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	link, err := svc.Create(ctx, "owner", CreateLinkRequest{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	mk := func(at time.Time, ua string) analytics.Event {
		return analytics.Event{ID: at.String(), LinkID: &link.ID, UserAgent: ua, CreatedAt: at}
	}
	events.events = []analytics.Event{
		mk(now.Add(-2*time.Hour), "x Mobile"),
		mk(now.Add(-30*time.Hour), "desktop"),
		mk(now.Add(-10*24*time.Hour), "desktop"),
	}

	_, summary, err := svc.Analytics(ctx, "owner", link.ID, analytics.ParsePeriod("1d"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, map[string]int{"Mobile": 1}, summary.ByDevice)

	_, summary, err = svc.Analytics(ctx, "owner", link.ID, analytics.ParsePeriod("bogus"))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)

	_, _, err = svc.Analytics(ctx, "intruder", link.ID, analytics.ParsePeriod("7d"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLink_IsExpired(t *testing.T) {
	now := time.Now()
	past, future := now.Add(-time.Second), now.Add(time.Second)

	assert.False(t, (&Link{}).IsExpired(now))
	assert.True(t, (&Link{ExpiresAt: &past}).IsExpired(now))
	assert.True(t, (&Link{ExpiresAt: &now}).IsExpired(now))
	assert.False(t, (&Link{ExpiresAt: &future}).IsExpired(now))
}
