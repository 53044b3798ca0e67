package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertOAuthUser = `-- name: UpsertOAuthUser :one
INSERT INTO users (user_id, provider, provider_user_id, email, name, avatar_url, last_login_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (provider, provider_user_id) DO UPDATE SET
    email         = EXCLUDED.email,
    name          = EXCLUDED.name,
    avatar_url    = EXCLUDED.avatar_url,
    last_login_at = now()
RETURNING user_id, provider, provider_user_id, email, name, avatar_url, created_at, last_login_at
`

type UpsertOAuthUserParams struct {
	UserID         string      `json:"user_id"`
	Provider       string      `json:"provider"`
	ProviderUserID string      `json:"provider_user_id"`
	Email          pgtype.Text `json:"email"`
	Name           pgtype.Text `json:"name"`
	AvatarUrl      pgtype.Text `json:"avatar_url"`
}

// UpsertOAuthUser keeps the existing user_id when the provider account is
// already known; arg.UserID is only used for new accounts.
func (q *Queries) UpsertOAuthUser(ctx context.Context, arg UpsertOAuthUserParams) (User, error) {
	row := q.db.QueryRow(ctx, upsertOAuthUser,
		arg.UserID,
		arg.Provider,
		arg.ProviderUserID,
		arg.Email,
		arg.Name,
		arg.AvatarUrl,
	)
	var i User
	err := row.Scan(
		&i.UserID,
		&i.Provider,
		&i.ProviderUserID,
		&i.Email,
		&i.Name,
		&i.AvatarUrl,
		&i.CreatedAt,
		&i.LastLoginAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT user_id, provider, provider_user_id, email, name, avatar_url, created_at, last_login_at
FROM users
WHERE user_id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, userID string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, userID)
	var i User
	err := row.Scan(
		&i.UserID,
		&i.Provider,
		&i.ProviderUserID,
		&i.Email,
		&i.Name,
		&i.AvatarUrl,
		&i.CreatedAt,
		&i.LastLoginAt,
	)
	return i, err
}
