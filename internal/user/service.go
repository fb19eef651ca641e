// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/linkbio/internal/auth"
	"github.com/carterperez-dev/linkbio/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, username, passwordHash string,
) (*auth.UserInfo, error) {
	username = normalizeHandle(username)
	if err := core.ValidateHandle("username", username); err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(email),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) RecordLogin(ctx context.Context, userID string) error {
	return s.repo.TouchLastLogin(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUsername resolves a public handle. Disabled accounts are reported as
// not found.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, normalizeHandle(username))
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}

	return user, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}

	if req.ProfileImage != nil {
		if *req.ProfileImage != "" {
			if err := core.ValidateHTTPURL("profileImage", *req.ProfileImage); err != nil {
				return nil, err
			}
		}
		user.ProfileImage = *req.ProfileImage
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// SetActive enables or disables an account. Admins cannot disable
// themselves.
func (s *Service) SetActive(
	ctx context.Context,
	actorID, targetID string,
	active bool,
) (*User, error) {
	if actorID == targetID && !active {
		return nil, core.ForbiddenError("cannot deactivate your own account")
	}

	if err := s.repo.SetActive(ctx, targetID, active); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, targetID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Handles are stored lowercase so public URLs are case-insensitive.
func normalizeHandle(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
