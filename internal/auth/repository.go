// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/linkbio/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Rotate(ctx context.Context, oldID string, next *RefreshToken) error
	RevokeByHash(ctx context.Context, tokenHash, userID string) error
	RevokeFamily(ctx context.Context, familyID string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const insertRefreshToken = `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, user_agent, ip_address,
			expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

func insertToken(ctx context.Context, db core.DBTX, token *RefreshToken) error {
	return db.GetContext(ctx, &token.CreatedAt, insertRefreshToken,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.FamilyID,
		token.UserAgent,
		token.IPAddress,
		token.ExpiresAt,
	)
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	if err := insertToken(ctx, r.db, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, family_id, user_agent, ip_address,
		       expires_at, revoked_at, replaced_by, created_at
		FROM refresh_tokens
		WHERE token_hash = $1`

	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

// Rotate retires oldID and stores its successor atomically. The guard on
// replaced_by makes a concurrent second exchange of the same token fail.
func (r *repository) Rotate(
	ctx context.Context,
	oldID string,
	next *RefreshToken,
) error {
	return core.InTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if err := insertToken(ctx, tx, next); err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE refresh_tokens
			SET revoked_at = NOW(), replaced_by = $2
			WHERE id = $1 AND replaced_by IS NULL AND revoked_at IS NULL`,
			oldID, next.ID,
		)
		if err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("rotate refresh token: %w", core.ErrTokenRevoked)
		}

		return nil
	})
}

func (r *repository) RevokeByHash(
	ctx context.Context,
	tokenHash, userID string,
) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND user_id = $2 AND revoked_at IS NULL`,
		tokenHash, userID,
	)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *repository) RevokeFamily(ctx context.Context, familyID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE family_id = $1 AND revoked_at IS NULL`,
		familyID,
	)
	if err != nil {
		return fmt.Errorf("revoke token family: %w", err)
	}
	return nil
}
