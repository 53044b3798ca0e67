/*
Package analysis classifies blood-test readings, computes trends between
measurements and renders the rule-based advisory text shown next to the
charts. Everything here is pure: no I/O, no shared mutable state.
*/
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"Vitalog/internal/apperror"
)

// Metric identifies one of the tracked blood values.
type Metric string

const (
	Glucose     Metric = "glucose"
	Cholesterol Metric = "cholesterol"
	UricAcid    Metric = "uric_acid"
)

// Metrics lists the tracked metrics in display order.
var Metrics = []Metric{Glucose, Cholesterol, UricAcid}

// ErrUnknownMetric is returned for any metric name outside Metrics.
var ErrUnknownMetric = errors.New("unknown metric")

var metricAliases = map[string]Metric{
	"glucose":       Glucose,
	"blood glucose": Glucose,
	"blood sugar":   Glucose,
	"blood_sugar":   Glucose,
	"cholesterol":   Cholesterol,
	"uric acid":     UricAcid,
	"uric_acid":     UricAcid,
	"gout":          UricAcid,
}

// ParseMetric resolves a metric name, case-insensitively.
func ParseMetric(name string) (Metric, error) {
	if m, ok := metricAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return "", invalidMetric(name)
}

func invalidMetric(name string) *apperror.AppError {
	return apperror.Wrap(ErrUnknownMetric, apperror.TypeValidation, "UNKNOWN_METRIC",
		fmt.Sprintf("unknown metric %q", name))
}

func (m Metric) valid() bool {
	switch m {
	case Glucose, Cholesterol, UricAcid:
		return true
	}
	return false
}

// Unit is the measurement unit of every tracked metric.
func (m Metric) Unit() string {
	return "mg/dL"
}

// Title is the chart heading.
func (m Metric) Title() string {
	switch m {
	case Glucose:
		return "Blood Sugar"
	case Cholesterol:
		return "Cholesterol"
	case UricAcid:
		return "Gout"
	}
	return string(m)
}

// phrase is the noun used inside advisory sentences.
func (m Metric) phrase() string {
	switch m {
	case Glucose:
		return "blood glucose"
	case Cholesterol:
		return "cholesterol"
	case UricAcid:
		return "uric acid"
	}
	return string(m)
}
