package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createBloodTest = `-- name: CreateBloodTest :one
INSERT INTO blood_tests (user_id, test_date, blood_sugar, cholesterol, gout)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, test_date, blood_sugar, cholesterol, gout, created_at
`

type CreateBloodTestParams struct {
	UserID      string             `json:"user_id"`
	TestDate    pgtype.Timestamptz `json:"test_date"`
	BloodSugar  pgtype.Float8      `json:"blood_sugar"`
	Cholesterol pgtype.Float8      `json:"cholesterol"`
	Gout        pgtype.Float8      `json:"gout"`
}

func (q *Queries) CreateBloodTest(ctx context.Context, arg CreateBloodTestParams) (BloodTest, error) {
	row := q.db.QueryRow(ctx, createBloodTest,
		arg.UserID,
		arg.TestDate,
		arg.BloodSugar,
		arg.Cholesterol,
		arg.Gout,
	)
	var i BloodTest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.TestDate,
		&i.BloodSugar,
		&i.Cholesterol,
		&i.Gout,
		&i.CreatedAt,
	)
	return i, err
}

const listBloodTests = `-- name: ListBloodTests :many
SELECT id, user_id, test_date, blood_sugar, cholesterol, gout, created_at
FROM blood_tests
WHERE user_id = $1
ORDER BY test_date DESC, created_at DESC
LIMIT $2
`

type ListBloodTestsParams struct {
	UserID string `json:"user_id"`
	Limit  int32  `json:"limit"`
}

// ListBloodTests returns the newest readings first.
func (q *Queries) ListBloodTests(ctx context.Context, arg ListBloodTestsParams) ([]BloodTest, error) {
	rows, err := q.db.Query(ctx, listBloodTests, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BloodTest{}
	for rows.Next() {
		var i BloodTest
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.TestDate,
			&i.BloodSugar,
			&i.Cholesterol,
			&i.Gout,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLatestBloodTest = `-- name: GetLatestBloodTest :one
SELECT id, user_id, test_date, blood_sugar, cholesterol, gout, created_at
FROM blood_tests
WHERE user_id = $1
ORDER BY test_date DESC, created_at DESC
LIMIT 1
`

func (q *Queries) GetLatestBloodTest(ctx context.Context, userID string) (BloodTest, error) {
	row := q.db.QueryRow(ctx, getLatestBloodTest, userID)
	var i BloodTest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.TestDate,
		&i.BloodSugar,
		&i.Cholesterol,
		&i.Gout,
		&i.CreatedAt,
	)
	return i, err
}

const deleteBloodTest = `-- name: DeleteBloodTest :execrows
DELETE FROM blood_tests
WHERE id = $1 AND user_id = $2
`

type DeleteBloodTestParams struct {
	ID     pgtype.UUID `json:"id"`
	UserID string      `json:"user_id"`
}

// DeleteBloodTest reports how many rows were removed; zero means the
// reading does not exist or belongs to another user.
func (q *Queries) DeleteBloodTest(ctx context.Context, arg DeleteBloodTestParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteBloodTest, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
