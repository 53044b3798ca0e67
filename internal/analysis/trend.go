package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Direction is the classified movement between the two latest values.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// DefaultTrendBand is the +/- percentage inside which a change counts as stable.
const DefaultTrendBand = 5.0

// Trend is the result of comparing the two most recent values of a series.
type Trend struct {
	Direction     Direction `json:"direction"`
	PercentChange float64   `json:"percent_change"`
}

var neutralTrend = Trend{Direction: Stable, PercentChange: 0}

// TrendStrategy turns an oldest-first series into a Trend.
type TrendStrategy interface {
	Name() string
	Compute(values []float64) Trend
}

// ThresholdedTrend ignores changes inside +/- Band percent. It is the
// strategy the advisory text is built from.
type ThresholdedTrend struct {
	// Band defaults to DefaultTrendBand when zero.
	Band float64
}

func (ThresholdedTrend) Name() string { return "thresholded" }

func (t ThresholdedTrend) Compute(values []float64) Trend {
	pct, ok := latestPercentChange(values)
	if !ok {
		return neutralTrend
	}
	band := t.Band
	if band == 0 {
		band = DefaultTrendBand
	}
	switch {
	case pct > band:
		return Trend{Direction: Increasing, PercentChange: pct}
	case pct < -band:
		return Trend{Direction: Decreasing, PercentChange: pct}
	}
	return Trend{Direction: Stable, PercentChange: pct}
}

// SimpleDeltaTrend reports any non-zero change as a direction. This is how
// the dashboard chart footer has always read the series.
type SimpleDeltaTrend struct{}

func (SimpleDeltaTrend) Name() string { return "simple" }

func (SimpleDeltaTrend) Compute(values []float64) Trend {
	pct, ok := latestPercentChange(values)
	if !ok {
		return neutralTrend
	}
	switch {
	case pct > 0:
		return Trend{Direction: Increasing, PercentChange: pct}
	case pct < 0:
		return Trend{Direction: Decreasing, PercentChange: pct}
	}
	return Trend{Direction: Stable, PercentChange: 0}
}

// StrategyByName returns the strategy registered under name.
func StrategyByName(name string) (TrendStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "thresholded":
		return ThresholdedTrend{}, nil
	case "simple", "simple_delta":
		return SimpleDeltaTrend{}, nil
	}
	return nil, fmt.Errorf("unknown trend strategy %q", name)
}

// ComputeTrend applies the canonical thresholded strategy.
func ComputeTrend(values []float64) Trend {
	return ThresholdedTrend{}.Compute(values)
}

// latestPercentChange compares the last value against the one before it.
// A short series or a zero baseline has no defined change.
func latestPercentChange(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	prev, last := values[len(values)-2], values[len(values)-1]
	if prev == 0 {
		return 0, false
	}
	pct := (last - prev) / prev * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, false
	}
	return pct, true
}

// Label renders the chart footer, e.g. "Trending up by 3.2% from last measurement".
func (t Trend) Label() string {
	switch {
	case t.PercentChange > 0:
		return fmt.Sprintf("Trending up by %.1f%% from last measurement", t.PercentChange)
	case t.PercentChange < 0:
		return fmt.Sprintf("Trending down by %.1f%% from last measurement", math.Abs(t.PercentChange))
	}
	return "No change from last measurement"
}
