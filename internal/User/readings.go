package user

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Vitalog/internal/apperror"
	"Vitalog/internal/database"
	"Vitalog/internal/utility"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
)

// CreateBloodTestRequest mirrors the entry form: every value arrives as text
// and blank metrics were not measured.
type CreateBloodTestRequest struct {
	BloodSugar  string `json:"blood_sugar" form:"blood_sugar"`
	Cholesterol string `json:"cholesterol" form:"cholesterol"`
	Gout        string `json:"gout" form:"gout"`
	Date        string `json:"date" form:"date"` // YYYY-MM-DD
	Time        string `json:"time" form:"time"` // HH:MM
}

// BloodTestResponse is a stored reading with nullable metrics.
type BloodTestResponse struct {
	ID          string    `json:"id"`
	TestDate    time.Time `json:"test_date"`
	BloodSugar  *float64  `json:"blood_sugar"`
	Cholesterol *float64  `json:"cholesterol"`
	Gout        *float64  `json:"gout"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateBloodTestHandler stores a reading and tells the user's open
// dashboards to refresh.
func CreateBloodTestHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CreateBloodTestRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.NewValidationError("Invalid request body"))
	}

	params, err := buildBloodTestParams(userID, req)
	if err != nil {
		return respondError(c, err)
	}

	bt, err := queries.CreateBloodTest(ctx, params)
	if err != nil {
		return respondError(c, apperror.NewDatabaseError(err))
	}

	notifyReadingsChanged(userID)
	utility.GetLogger(c).Info().Str("user_id", userID).Time("test_date", bt.TestDate.Time).Msg("Blood test recorded")
	return c.JSON(http.StatusCreated, mapToBloodTestResponse(bt))
}

// ListBloodTestsHandler returns the history, newest first.
func ListBloodTestsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return respondError(c, err)
	}

	tests, err := queries.ListBloodTests(ctx, database.ListBloodTestsParams{UserID: userID, Limit: limit})
	if err != nil {
		return respondError(c, apperror.NewDatabaseError(err))
	}

	res := make([]BloodTestResponse, 0, len(tests))
	for _, bt := range tests {
		res = append(res, mapToBloodTestResponse(bt))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"blood_tests": res,
		"count":       len(res),
	})
}

// DeleteBloodTestHandler removes one of the caller's readings.
func DeleteBloodTestHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := utility.StringToPgtypeUUID(c.Param("id"))
	if err != nil {
		return respondError(c, apperror.NewValidationError("Invalid blood test ID"))
	}

	n, err := queries.DeleteBloodTest(ctx, database.DeleteBloodTestParams{ID: id, UserID: userID})
	if err != nil {
		return respondError(c, apperror.NewDatabaseError(err))
	}
	if n == 0 {
		return respondError(c, apperror.NewNotFoundError("Blood test not found"))
	}

	notifyReadingsChanged(userID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Blood test deleted"})
}

func buildBloodTestParams(userID string, req CreateBloodTestRequest) (database.CreateBloodTestParams, error) {
	params := database.CreateBloodTestParams{UserID: userID}

	var err error
	if params.BloodSugar, err = parseMeasurement("blood_sugar", req.BloodSugar); err != nil {
		return params, err
	}
	if params.Cholesterol, err = parseMeasurement("cholesterol", req.Cholesterol); err != nil {
		return params, err
	}
	if params.Gout, err = parseMeasurement("gout", req.Gout); err != nil {
		return params, err
	}
	if !params.BloodSugar.Valid && !params.Cholesterol.Valid && !params.Gout.Valid {
		return params, apperror.NewValidationError("at least one measurement is required")
	}

	testDate, err := parseTestDate(req.Date, req.Time)
	if err != nil {
		return params, err
	}
	params.TestDate = pgtype.Timestamptz{Time: testDate, Valid: true}
	return params, nil
}

// parseMeasurement maps a blank value to NULL and rejects anything that is
// not a positive number. ParseFloat accepts "NaN" and "Inf", which are
// refused as well.
func parseMeasurement(field, raw string) (pgtype.Float8, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pgtype.Float8{}, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !isMeasurement(v) {
		return pgtype.Float8{}, apperror.NewValidationError(fmt.Sprintf("%s must be a positive number", field))
	}
	return pgtype.Float8{Float64: v, Valid: true}, nil
}

// isMeasurement reports whether v is a finite positive value.
func isMeasurement(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func parseTestDate(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, apperror.NewValidationError("date is required")
	}
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, apperror.NewValidationError("date must be YYYY-MM-DD and time HH:MM")
	}
	return t, nil
}

func parseLimit(raw string) (int32, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperror.NewValidationError("limit must be a positive integer")
	}
	if n > maxHistoryLimit {
		n = maxHistoryLimit
	}
	return int32(n), nil
}

func mapToBloodTestResponse(bt database.BloodTest) BloodTestResponse {
	id, _ := utility.PgtypeUUIDToString(bt.ID)
	return BloodTestResponse{
		ID:          id,
		TestDate:    bt.TestDate.Time,
		BloodSugar:  utility.Float8Ptr(bt.BloodSugar),
		Cholesterol: utility.Float8Ptr(bt.Cholesterol),
		Gout:        utility.Float8Ptr(bt.Gout),
		CreatedAt:   bt.CreatedAt.Time,
	}
}
