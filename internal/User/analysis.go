package user

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"Vitalog/internal/analysis"
	"Vitalog/internal/apperror"
	"Vitalog/internal/database"
	"Vitalog/internal/geminiservice"
	"Vitalog/internal/utility"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// ChartPoint is one plotted value.
type ChartPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// MetricSeries is the chart data for one metric.
type MetricSeries struct {
	Metric     analysis.Metric `json:"metric"`
	Title      string          `json:"title"`
	Unit       string          `json:"unit"`
	Points     []ChartPoint    `json:"points"`
	Trend      analysis.Trend  `json:"trend"`
	TrendLabel string          `json:"trend_label"`
}

// DashboardResponse holds the chart series of the recent readings.
type DashboardResponse struct {
	Profile ProfileResponse `json:"profile"`
	Series  []MetricSeries  `json:"series"`
	Count   int             `json:"count"`
}

// AnalyzeRequest is an explicit series for a single metric.
type AnalyzeRequest struct {
	Metric string         `json:"metric"`
	Data   []AnalyzePoint `json:"data"`
}

type AnalyzePoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// GetDashboardHandler returns the last readings split into per-metric chart
// series with their trend.
func GetDashboardHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var (
		account  database.User
		profile  database.UserProfile
		readings []analysis.Reading
	)

	g, grpCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := loadAccount(grpCtx, userID)
		account = u
		return err
	})
	g.Go(func() error {
		p, err := loadProfile(grpCtx, userID)
		profile = p
		return err
	})
	g.Go(func() error {
		r, err := recentReadings(grpCtx, userID, dashboardWindow)
		readings = r
		return err
	})
	if err := g.Wait(); err != nil {
		return respondError(c, err)
	}

	strategy := engine.Strategy()
	series := make([]MetricSeries, 0, len(analysis.Metrics))
	for _, m := range analysis.Metrics {
		s := MetricSeries{Metric: m, Title: m.Title(), Unit: m.Unit(), Points: []ChartPoint{}}
		values := make([]float64, 0, len(readings))
		for _, r := range readings {
			if v := r.Value(m); v != nil {
				s.Points = append(s.Points, ChartPoint{Date: r.Timestamp.Format(time.DateOnly), Value: *v})
				values = append(values, *v)
			}
		}
		s.Trend = strategy.Compute(values)
		s.TrendLabel = s.Trend.Label()
		series = append(series, s)
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		Profile: mapToProfileResponse(account, profile),
		Series:  series,
		Count:   len(readings),
	})
}

// AnalyzeHandler runs the rule engine over a caller-supplied series, using
// the stored profile for the demographic text.
func AnalyzeHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.NewValidationError("Invalid request body"))
	}

	metric, err := analysis.ParseMetric(req.Metric)
	if err != nil {
		return respondError(c, err)
	}

	samples := make([]analysis.Sample, 0, len(req.Data))
	for _, p := range req.Data {
		ts, err := parseSampleDate(p.Date)
		if err != nil {
			return respondError(c, err)
		}
		if p.Value != nil && !isMeasurement(*p.Value) {
			return respondError(c, apperror.NewValidationError("value must be a positive number"))
		}
		samples = append(samples, analysis.Sample{Timestamp: ts, Value: p.Value})
	}

	profile, err := loadProfile(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	report, err := engine.AnalyzeMetric(metric, samples, analysisProfile(profile))
	if err != nil {
		return respondError(c, err)
	}
	if report == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"metric":  metric,
			"samples": 0,
			"message": "No measurements to analyze",
		})
	}
	return c.JSON(http.StatusOK, report)
}

// GetAnalysisHandler returns the rule-based report over the recent readings.
func GetAnalysisHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var (
		profile  database.UserProfile
		readings []analysis.Reading
	)
	g, grpCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := loadProfile(grpCtx, userID)
		profile = p
		return err
	})
	g.Go(func() error {
		r, err := recentReadings(grpCtx, userID, dashboardWindow)
		readings = r
		return err
	})
	if err := g.Wait(); err != nil {
		return respondError(c, err)
	}

	report, err := engine.Analyze(readings, analysisProfile(profile))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// GetAIAnalysisHandler asks the narrator for a written analysis of the latest
// reading. The raw text is returned next to a best-effort Markdown rendering.
func GetAIAnalysisHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	if narrator == nil {
		return respondError(c, apperror.New(apperror.TypeExternal, "NARRATOR_UNAVAILABLE", "AI analysis is not configured"))
	}

	latest, err := queries.GetLatestBloodTest(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return respondError(c, apperror.NewNotFoundError("No blood test data found"))
	}
	if err != nil {
		return respondError(c, apperror.NewDatabaseError(err))
	}

	profile, err := loadProfile(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	if err := aiLimiter.Allow(userID); err != nil {
		return respondError(c, err)
	}

	text, err := narrator.GenerateNarrative(ctx, geminiservice.PromptContext{
		Age:         int(profile.Age.Int32),
		Gender:      profile.Gender.String,
		Country:     profile.Country.String,
		Language:    profile.Language,
		Glucose:     utility.Float8Ptr(latest.BloodSugar),
		Cholesterol: utility.Float8Ptr(latest.Cholesterol),
		UricAcid:    utility.Float8Ptr(latest.Gout),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"analysis": text,
		"markdown": geminiservice.FormatMarkdown(text),
	})
}

func parseSampleDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.NewValidationError("date must be YYYY-MM-DD or RFC 3339")
}
