package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

var day0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func at(days int) time.Time { return day0.AddDate(0, 0, days) }

func TestAnalyzeSkipsAbsentMetrics(t *testing.T) {
	readings := []Reading{{Timestamp: at(0), Glucose: f(110)}}

	report, err := NewEngine(nil).Analyze(readings, Profile{Age: 30, Gender: Female, Country: "Canada"})
	require.NoError(t, err)

	require.Len(t, report.Metrics, 1)
	mr := report.Metrics[0]
	assert.Equal(t, Glucose, mr.Metric)
	assert.Equal(t, StatusPrediabetic, mr.Status)
	assert.Equal(t, Trend{Direction: Stable}, mr.Trend)
	assert.Equal(t, "No change from last measurement", mr.TrendLabel)
	assert.Equal(t, "thresholded", report.Strategy)
}

func TestAnalyzeEmptySnapshot(t *testing.T) {
	report, err := NewEngine(nil).Analyze(nil, Profile{})
	require.NoError(t, err)
	assert.Empty(t, report.Metrics)
	assert.NotNil(t, report.Metrics)
}

func TestAnalyzeSortsAndSkipsNulls(t *testing.T) {
	readings := []Reading{
		{Timestamp: at(3), Cholesterol: f(212), Glucose: f(100)},
		{Timestamp: at(1), Cholesterol: f(190), Glucose: f(95)},
		{Timestamp: at(2), Cholesterol: nil, Glucose: f(100)},
		{Timestamp: at(0), Cholesterol: f(180), UricAcid: f(7)},
	}

	report, err := NewEngine(ThresholdedTrend{}).Analyze(readings, Profile{Age: 50, Gender: Male, Country: "Germany"})
	require.NoError(t, err)
	require.Len(t, report.Metrics, 3)

	glucose := report.Metrics[0]
	assert.Equal(t, 100.0, glucose.Latest)
	assert.Equal(t, 3, glucose.Samples)
	assert.Equal(t, Stable, glucose.Trend.Direction, "100 -> 100")

	chol := report.Metrics[1]
	assert.Equal(t, Cholesterol, chol.Metric)
	assert.Equal(t, 212.0, chol.Latest)
	assert.Equal(t, 3, chol.Samples)
	assert.Equal(t, Increasing, chol.Trend.Direction, "190 -> 212 skipping the null entry")
	assert.InDelta(t, 11.578947, chol.Trend.PercentChange, 1e-5)
	assert.Equal(t, StatusBorderlineHigh, chol.Status)
	assert.Contains(t, chol.Analysis, "has been increasing.")
	assert.Contains(t, chol.Analysis, "higher risk group")

	uric := report.Metrics[2]
	assert.Equal(t, UricAcid, uric.Metric)
	assert.Equal(t, StatusElevated, uric.Status)
	assert.Equal(t, "Gout", uric.Title)
	assert.Equal(t, "mg/dL", uric.Unit)
}

func TestAnalyzeMetricStrategies(t *testing.T) {
	samples := []Sample{
		{Timestamp: at(0), Value: f(100)},
		{Timestamp: at(1), Value: f(103)},
	}
	p := Profile{Country: "Peru"}

	thresholded, err := NewEngine(ThresholdedTrend{}).AnalyzeMetric(Glucose, samples, p)
	require.NoError(t, err)
	assert.Equal(t, Stable, thresholded.Trend.Direction)

	simple, err := NewEngine(SimpleDeltaTrend{}).AnalyzeMetric(Glucose, samples, p)
	require.NoError(t, err)
	assert.Equal(t, Increasing, simple.Trend.Direction)
	assert.Equal(t, thresholded.TrendLabel, simple.TrendLabel)
}

func TestAnalyzeMetricNoData(t *testing.T) {
	mr, err := NewEngine(nil).AnalyzeMetric(Cholesterol, []Sample{{Timestamp: at(0)}}, Profile{})
	require.NoError(t, err)
	assert.Nil(t, mr)
}

func TestAnalyzeMetricUnknown(t *testing.T) {
	_, err := NewEngine(nil).AnalyzeMetric(Metric("potassium"), nil, Profile{})
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestSeriesKeepsNilEntries(t *testing.T) {
	readings := []Reading{{Timestamp: at(0), Glucose: f(90)}, {Timestamp: at(1)}}
	s := Series(readings, Glucose)
	require.Len(t, s, 2)
	assert.NotNil(t, s[0].Value)
	assert.Nil(t, s[1].Value)
}
