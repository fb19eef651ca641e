// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/linkbio/internal/core"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrEmailTaken    = core.DuplicateError("email")
	ErrUsernameTaken = core.DuplicateError("username")
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	IsActive     bool       `db:"is_active"`
	Bio          string     `db:"bio"`
	ProfileImage string     `db:"profile_image"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
