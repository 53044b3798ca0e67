package user

import (
	"net/http"
	"strings"

	"Vitalog/internal/analysis"
	"Vitalog/internal/apperror"
	"Vitalog/internal/database"
	"Vitalog/internal/utility"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

const defaultLanguage = "English"

// UpdateProfileRequest carries a partial profile; omitted fields keep their
// stored values.
type UpdateProfileRequest struct {
	Name     *string `json:"name" form:"name"`
	Age      *int32  `json:"age" form:"age"`
	Gender   *string `json:"gender" form:"gender"`
	Country  *string `json:"country" form:"country"`
	Language *string `json:"language" form:"language"`
}

// ProfileResponse merges the account and the demographic profile.
type ProfileResponse struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email,omitempty"`
	Name      string  `json:"name,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Age       *int32  `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Country   *string `json:"country,omitempty"`
	Language  string  `json:"language"`
}

// GetUserProfileHandler returns the caller's account and profile.
func GetUserProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	account, err := loadAccount(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := loadProfile(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, mapToProfileResponse(account, profile))
}

// UpdateUserProfileHandler upserts the caller's demographic profile.
func UpdateUserProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.NewValidationError("Invalid request body"))
	}

	params, err := buildProfileParams(userID, req)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := queries.UpsertUserProfile(ctx, params)
	if err != nil {
		return respondError(c, apperror.NewDatabaseError(err))
	}

	account, err := loadAccount(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	utility.GetLogger(c).Info().Str("user_id", userID).Msg("Profile updated")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"profile": mapToProfileResponse(account, profile),
	})
}

func buildProfileParams(userID string, req UpdateProfileRequest) (database.UpsertUserProfileParams, error) {
	params := database.UpsertUserProfileParams{UserID: userID}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		params.Name = pgtype.Text{String: name, Valid: name != ""}
	}
	if req.Age != nil {
		if *req.Age < 0 || *req.Age > 150 {
			return params, apperror.NewValidationError("age must be between 0 and 150")
		}
		params.Age = pgtype.Int4{Int32: *req.Age, Valid: true}
	}
	if req.Gender != nil {
		g := analysis.Gender(strings.ToLower(strings.TrimSpace(*req.Gender)))
		if g != analysis.Male && g != analysis.Female {
			return params, apperror.NewValidationError("gender must be male or female")
		}
		params.Gender = pgtype.Text{String: string(g), Valid: true}
	}
	if req.Country != nil {
		country := strings.TrimSpace(*req.Country)
		params.Country = pgtype.Text{String: country, Valid: country != ""}
	}
	if req.Language != nil {
		params.Language = strings.TrimSpace(*req.Language)
	}
	return params, nil
}

func mapToProfileResponse(u database.User, p database.UserProfile) ProfileResponse {
	res := ProfileResponse{
		UserID:    u.UserID,
		Email:     utility.TextOrEmpty(u.Email),
		Name:      utility.TextOrEmpty(u.Name),
		AvatarURL: utility.TextOrEmpty(u.AvatarUrl),
		Language:  p.Language,
	}
	if p.Name.Valid {
		res.Name = p.Name.String
	}
	if p.Age.Valid {
		age := p.Age.Int32
		res.Age = &age
	}
	if p.Gender.Valid {
		g := p.Gender.String
		res.Gender = &g
	}
	if p.Country.Valid {
		country := p.Country.String
		res.Country = &country
	}
	if res.Language == "" {
		res.Language = defaultLanguage
	}
	return res
}
