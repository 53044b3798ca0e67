package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	CreateBloodTest(ctx context.Context, arg CreateBloodTestParams) (BloodTest, error)
	CreateRefreshToken(ctx context.Context, arg CreateRefreshTokenParams) (UserRefreshToken, error)
	DeleteBloodTest(ctx context.Context, arg DeleteBloodTestParams) (int64, error)
	GetLatestBloodTest(ctx context.Context, userID string) (BloodTest, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (UserRefreshToken, error)
	GetUserByID(ctx context.Context, userID string) (User, error)
	GetUserProfile(ctx context.Context, userID string) (UserProfile, error)
	ListBloodTests(ctx context.Context, arg ListBloodTestsParams) ([]BloodTest, error)
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error
	RevokeRefreshToken(ctx context.Context, id pgtype.UUID) error
	UpsertOAuthUser(ctx context.Context, arg UpsertOAuthUserParams) (User, error)
	UpsertUserProfile(ctx context.Context, arg UpsertUserProfileParams) (UserProfile, error)
}

var _ Querier = (*Queries)(nil)
