// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/linkbio/internal/config"
	"github.com/carterperez-dev/linkbio/internal/core"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

func newTestJWTManager(t *testing.T, revoked RevocationChecker) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	cfg := config.JWTConfig{
		PrivateKeyPath:     filepath.Join(dir, "private.pem"),
		PublicKeyPath:      filepath.Join(dir, "public.pem"),
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "linkbio",
		Audience:           "linkbio-api",
	}

	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewJWTManager(cfg, revoked)
	require.NoError(t, err)
	return m
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := newTestJWTManager(t, nil)

	issued, err := m.CreateAccessToken("user-1", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, 5*time.Second)

	claims, err := m.VerifyAccessToken(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issued.ID, claims.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
	assert.NotEmpty(t, m.GetKeyID())
}

func TestJWTManager_Rejects(t *testing.T) {
	revocations := &stubRevocations{revoked: map[string]bool{}}
	m := newTestJWTManager(t, revocations)
	other := newTestJWTManager(t, nil)

	issued, err := m.CreateAccessToken("user-1", "user")
	require.NoError(t, err)

	foreign, err := other.CreateAccessToken("user-1", "user")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		setup   func()
		wantErr error
	}{
		{name: "garbage", token: "not.a.jwt", wantErr: core.ErrTokenInvalid},
		{name: "signed by another key", token: foreign.Token, wantErr: core.ErrTokenInvalid},
		{name: "tampered", token: issued.Token[:len(issued.Token)-4] + "AAAA", wantErr: core.ErrTokenInvalid},
		{
			name:    "blacklisted",
			token:   issued.Token,
			setup:   func() { revocations.revoked[issued.ID] = true },
			wantErr: core.ErrTokenRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			_, err := m.VerifyAccessToken(context.Background(), tt.token)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTManager_BlacklistLookupFailure(t *testing.T) {
	m := newTestJWTManager(t, &stubRevocations{err: errors.New("redis down")})

	issued, err := m.CreateAccessToken("user-1", "user")
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(context.Background(), issued.Token)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "redis down"))
}

func TestJWTManager_CreateRefreshToken(t *testing.T) {
	m := newTestJWTManager(t, nil)

	first, err := m.CreateRefreshToken("")
	require.NoError(t, err)
	assert.NotEmpty(t, first.FamilyID)
	assert.Equal(t, core.HashToken(first.Token), first.Hash)

	next, err := m.CreateRefreshToken(first.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, first.FamilyID, next.FamilyID)
	assert.NotEqual(t, first.Token, next.Token)
}
