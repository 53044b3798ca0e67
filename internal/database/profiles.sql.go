package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getUserProfile = `-- name: GetUserProfile :one
SELECT user_id, name, age, gender, country, language, updated_at
FROM user_profiles
WHERE user_id = $1
`

func (q *Queries) GetUserProfile(ctx context.Context, userID string) (UserProfile, error) {
	row := q.db.QueryRow(ctx, getUserProfile, userID)
	var i UserProfile
	err := row.Scan(
		&i.UserID,
		&i.Name,
		&i.Age,
		&i.Gender,
		&i.Country,
		&i.Language,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertUserProfile = `-- name: UpsertUserProfile :one
INSERT INTO user_profiles (user_id, name, age, gender, country, language)
VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6::text, ''), 'English'))
ON CONFLICT (user_id) DO UPDATE SET
    name       = COALESCE(EXCLUDED.name, user_profiles.name),
    age        = COALESCE(EXCLUDED.age, user_profiles.age),
    gender     = COALESCE(EXCLUDED.gender, user_profiles.gender),
    country    = COALESCE(EXCLUDED.country, user_profiles.country),
    language   = COALESCE(NULLIF($6::text, ''), user_profiles.language),
    updated_at = now()
RETURNING user_id, name, age, gender, country, language, updated_at
`

type UpsertUserProfileParams struct {
	UserID   string      `json:"user_id"`
	Name     pgtype.Text `json:"name"`
	Age      pgtype.Int4 `json:"age"`
	Gender   pgtype.Text `json:"gender"`
	Country  pgtype.Text `json:"country"`
	Language string      `json:"language"`
}

// UpsertUserProfile creates the profile or merges the non-null fields into
// the stored one.
func (q *Queries) UpsertUserProfile(ctx context.Context, arg UpsertUserProfileParams) (UserProfile, error) {
	row := q.db.QueryRow(ctx, upsertUserProfile,
		arg.UserID,
		arg.Name,
		arg.Age,
		arg.Gender,
		arg.Country,
		arg.Language,
	)
	var i UserProfile
	err := row.Scan(
		&i.UserID,
		&i.Name,
		&i.Age,
		&i.Gender,
		&i.Country,
		&i.Language,
		&i.UpdatedAt,
	)
	return i, err
}
