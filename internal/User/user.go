/*
Package user implements the signed-in user's API: profile management,
blood-test readings, the dashboard series, the rule-based and AI analyses,
the spreadsheet export and the live-refresh websocket.
*/
package user

import (
	"context"
	"errors"
	"time"

	"Vitalog/internal/analysis"
	"Vitalog/internal/apperror"
	"Vitalog/internal/database"
	"Vitalog/internal/geminiservice"
	"Vitalog/internal/utility"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	// dashboardWindow is how many recent readings feed the charts and the
	// rule-based analysis.
	dashboardWindow = 7

	defaultHistoryLimit = 30
	maxHistoryLimit     = 100
	exportLimit         = 100
)

var (
	queries   database.Querier
	narrator  geminiservice.Narrator
	engine    *analysis.Engine
	hub       *utility.Hub
	aiLimiter = utility.NewRateLimiter(10, time.Minute)
)

/* =================================================================================
								INITIALIZATION
=================================================================================*/

// InitUserPackage wires the handlers to their collaborators.
func InitUserPackage(q database.Querier, n geminiservice.Narrator, e *analysis.Engine, h *utility.Hub) {
	queries = q
	narrator = n
	engine = e
	if engine == nil {
		engine = analysis.NewEngine(nil)
	}
	hub = h
	log.Info().Str("trend_strategy", engine.Strategy().Name()).Msg("User package initialized.")
}

/* =================================================================================
								HELPERS
=================================================================================*/

// respondError logs err and writes it as {"error": message}.
func respondError(c echo.Context, err error) error {
	appErr := apperror.From(err)
	status := appErr.HTTPStatus()

	ev := utility.GetLogger(c).Error()
	if status < 500 {
		ev = utility.GetLogger(c).Warn()
	}
	appErr.LogEvent(ev).Str("path", c.Path()).Msg(appErr.Message)

	return c.JSON(status, map[string]string{"error": appErr.Message})
}

func toReading(bt database.BloodTest) analysis.Reading {
	return analysis.Reading{
		Timestamp:   bt.TestDate.Time,
		Glucose:     utility.Float8Ptr(bt.BloodSugar),
		Cholesterol: utility.Float8Ptr(bt.Cholesterol),
		UricAcid:    utility.Float8Ptr(bt.Gout),
	}
}

// recentReadings returns the user's last n readings, oldest first.
func recentReadings(ctx context.Context, userID string, n int32) ([]analysis.Reading, error) {
	tests, err := queries.ListBloodTests(ctx, database.ListBloodTestsParams{UserID: userID, Limit: n})
	if err != nil {
		return nil, apperror.NewDatabaseError(err)
	}
	readings := make([]analysis.Reading, len(tests))
	for i, bt := range tests {
		readings[len(tests)-1-i] = toReading(bt)
	}
	return readings, nil
}

// loadProfile returns the stored profile, or the defaults when the user has
// not filled one in yet.
// loadAccount fetches the caller's account; only a missing row is a 404.
func loadAccount(ctx context.Context, userID string) (database.User, error) {
	u, err := queries.GetUserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return database.User{}, apperror.NewNotFoundError("User not found")
	}
	if err != nil {
		return database.User{}, apperror.NewDatabaseError(err)
	}
	return u, nil
}

func loadProfile(ctx context.Context, userID string) (database.UserProfile, error) {
	p, err := queries.GetUserProfile(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return database.UserProfile{UserID: userID, Language: defaultLanguage}, nil
	}
	if err != nil {
		return database.UserProfile{}, apperror.NewDatabaseError(err)
	}
	return p, nil
}

func analysisProfile(p database.UserProfile) analysis.Profile {
	return analysis.Profile{
		Age:      int(p.Age.Int32),
		Gender:   analysis.Gender(p.Gender.String),
		Country:  p.Country.String,
		Language: p.Language,
	}
}

func notifyReadingsChanged(userID string) {
	if hub != nil {
		hub.NotifyReadingsChanged(userID)
	}
}
