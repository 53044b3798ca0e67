package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type BloodTest struct {
	ID          pgtype.UUID        `json:"id"`
	UserID      string             `json:"user_id"`
	TestDate    pgtype.Timestamptz `json:"test_date"`
	BloodSugar  pgtype.Float8      `json:"blood_sugar"`
	Cholesterol pgtype.Float8      `json:"cholesterol"`
	Gout        pgtype.Float8      `json:"gout"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type User struct {
	UserID         string             `json:"user_id"`
	Provider       string             `json:"provider"`
	ProviderUserID string             `json:"provider_user_id"`
	Email          pgtype.Text        `json:"email"`
	Name           pgtype.Text        `json:"name"`
	AvatarUrl      pgtype.Text        `json:"avatar_url"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	LastLoginAt    pgtype.Timestamptz `json:"last_login_at"`
}

type UserProfile struct {
	UserID    string             `json:"user_id"`
	Name      pgtype.Text        `json:"name"`
	Age       pgtype.Int4        `json:"age"`
	Gender    pgtype.Text        `json:"gender"`
	Country   pgtype.Text        `json:"country"`
	Language  string             `json:"language"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type UserRefreshToken struct {
	ID        pgtype.UUID        `json:"id"`
	UserID    string             `json:"user_id"`
	TokenHash string             `json:"token_hash"`
	UserAgent pgtype.Text        `json:"user_agent"`
	IpAddress pgtype.Text        `json:"ip_address"`
	ExpiresAt pgtype.Timestamptz `json:"expires_at"`
	RevokedAt pgtype.Timestamptz `json:"revoked_at"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
