// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/linkbio/internal/core"
	"github.com/carterperez-dev/linkbio/internal/middleware"
)

var (
	ErrInvalidCredentials = core.NewAppError(
		core.ErrUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
	ErrAccountDisabled = core.ForbiddenError("account is disabled")
	ErrTokenReuse      = core.NewAppError(
		core.ErrTokenRevoked,
		"refresh token reuse detected",
		http.StatusUnauthorized,
		"TOKEN_REUSE",
	)
)

type UserInfo struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, email, username, passwordHash string) (*UserInfo, error)
	RecordLogin(ctx context.Context, userID string) error
}

// TokenBlacklist holds revoked access token ids until they would expire.
type TokenBlacklist interface {
	Blacklist(ctx context.Context, jti string, ttl time.Duration) error
}

type Service struct {
	repo      Repository
	jwt       *JWTManager
	users     UserProvider
	blacklist TokenBlacklist
	now       func() time.Time
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	blacklist TokenBlacklist,
) *Service {
	return &Service{
		repo:      repo,
		jwt:       jwt,
		users:     users,
		blacklist: blacklist,
		now:       time.Now,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, req.Username, passwordHash)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, user, userAgent, ipAddress, "")
}

// Login checks the password before the active flag so a disabled account
// cannot be detected without its password.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "record last login", "user_id", user.ID, "error", err)
	}

	return s.issue(ctx, user, userAgent, ipAddress, "")
}

// Refresh exchanges a refresh token for a new pair. Replaying a token that
// was already exchanged revokes its whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.TokenInvalidError()
		}
		return nil, err
	}

	if stored.WasRotated() {
		if err := s.repo.RevokeFamily(ctx, stored.FamilyID); err != nil {
			slog.ErrorContext(ctx, "revoke token family",
				"family_id", stored.FamilyID,
				"error", err,
			)
		}
		return nil, ErrTokenReuse
	}

	if stored.IsRevoked() {
		return nil, core.TokenRevokedError()
	}
	if stored.IsExpired(s.now()) {
		return nil, core.TokenExpiredError()
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		//nolint:errcheck // the refresh is refused either way
		_ = s.repo.RevokeFamily(ctx, stored.FamilyID)
		return nil, ErrAccountDisabled
	}

	access, err := s.jwt.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(stored.FamilyID)
	if err != nil {
		return nil, err
	}

	next := newRefreshToken(user.ID, refresh, userAgent, ipAddress)
	if err := s.repo.Rotate(ctx, stored.ID, next); err != nil {
		if errors.Is(err, core.ErrTokenRevoked) {
			return nil, ErrTokenReuse
		}
		return nil, err
	}

	return s.authResponse(user, access, refresh.Token), nil
}

// Logout blacklists the presented access token for its remaining lifetime
// and, when given, revokes the caller's refresh token.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	refreshToken string,
) error {
	if claims == nil {
		return core.UnauthorizedError("")
	}

	if ttl := claims.ExpiresAt.Sub(s.now()); ttl > 0 {
		if err := s.blacklist.Blacklist(ctx, claims.TokenID, ttl); err != nil {
			return err
		}
	}

	if refreshToken != "" {
		return s.repo.RevokeByHash(ctx, core.HashToken(refreshToken), claims.UserID)
	}

	return nil
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress, familyID string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, err
	}

	token := newRefreshToken(user.ID, refresh, userAgent, ipAddress)
	if err := s.repo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return s.authResponse(user, access, refresh.Token), nil
}

func (s *Service) authResponse(
	user *UserInfo,
	access *IssuedToken,
	refreshToken string,
) *AuthResponse {
	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}
}

func newRefreshToken(
	userID string,
	data *RefreshTokenData,
	userAgent, ipAddress string,
) *RefreshToken {
	return &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: data.Hash,
		FamilyID:  data.FamilyID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: data.ExpiresAt,
	}
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
