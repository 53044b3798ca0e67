package analysis

import (
	"slices"
	"time"
)

// Reading is one stored blood test. A nil metric was not measured.
type Reading struct {
	Timestamp   time.Time
	Glucose     *float64
	Cholesterol *float64
	UricAcid    *float64
}

// Value returns the reading's value for metric, or nil.
func (r Reading) Value(metric Metric) *float64 {
	switch metric {
	case Glucose:
		return r.Glucose
	case Cholesterol:
		return r.Cholesterol
	case UricAcid:
		return r.UricAcid
	}
	return nil
}

// Sample is one timestamped value of a single metric.
type Sample struct {
	Timestamp time.Time `json:"date"`
	Value     *float64  `json:"value"`
}

// Series extracts the samples for one metric, keeping nil values.
func Series(readings []Reading, metric Metric) []Sample {
	out := make([]Sample, 0, len(readings))
	for _, r := range readings {
		out = append(out, Sample{Timestamp: r.Timestamp, Value: r.Value(metric)})
	}
	return out
}

// MetricReport is the engine output for one metric.
type MetricReport struct {
	Metric      Metric  `json:"metric"`
	Title       string  `json:"title"`
	Unit        string  `json:"unit"`
	Latest      float64 `json:"latest"`
	Samples     int     `json:"samples"`
	Status      Status  `json:"status"`
	StatusLabel string  `json:"status_label"`
	Trend       Trend   `json:"trend"`
	TrendLabel  string  `json:"trend_label"`
	Advisory
}

// Report holds the per-metric results of one analysis run. Metrics with no
// measured values are absent.
type Report struct {
	Strategy string         `json:"trend_strategy"`
	Metrics  []MetricReport `json:"metrics"`
}

// Engine binds the advisory rules to a trend strategy.
type Engine struct {
	strategy TrendStrategy
}

// NewEngine returns an engine using strategy, or ThresholdedTrend when nil.
func NewEngine(strategy TrendStrategy) *Engine {
	if strategy == nil {
		strategy = ThresholdedTrend{}
	}
	return &Engine{strategy: strategy}
}

// Strategy reports the configured trend strategy.
func (e *Engine) Strategy() TrendStrategy {
	return e.strategy
}

// AnalyzeMetric evaluates one metric's samples. Samples are sorted oldest
// first and nil values skipped; a nil report means there was nothing to
// evaluate.
func (e *Engine) AnalyzeMetric(metric Metric, samples []Sample, profile Profile) (*MetricReport, error) {
	if !metric.valid() {
		return nil, invalidMetric(string(metric))
	}

	values := presentValues(samples)
	if len(values) == 0 {
		return nil, nil
	}
	latest := values[len(values)-1]

	status, err := ClassifyStatus(metric, latest)
	if err != nil {
		return nil, err
	}
	trend := e.strategy.Compute(values)
	advisory, err := BuildAdvisory(metric, latest, trend.Direction, profile)
	if err != nil {
		return nil, err
	}

	return &MetricReport{
		Metric:      metric,
		Title:       metric.Title(),
		Unit:        metric.Unit(),
		Latest:      latest,
		Samples:     len(values),
		Status:      status,
		StatusLabel: status.Label(),
		Trend:       trend,
		TrendLabel:  trend.Label(),
		Advisory:    advisory,
	}, nil
}

// Analyze runs AnalyzeMetric for every tracked metric over a snapshot of
// readings.
func (e *Engine) Analyze(readings []Reading, profile Profile) (Report, error) {
	report := Report{Strategy: e.strategy.Name(), Metrics: []MetricReport{}}
	for _, m := range Metrics {
		mr, err := e.AnalyzeMetric(m, Series(readings, m), profile)
		if err != nil {
			return Report{}, err
		}
		if mr != nil {
			report.Metrics = append(report.Metrics, *mr)
		}
	}
	return report, nil
}

// presentValues sorts a copy of samples by timestamp and drops nil values.
func presentValues(samples []Sample) []float64 {
	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(a, b Sample) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	values := make([]float64, 0, len(sorted))
	for _, s := range sorted {
		if s.Value != nil {
			values = append(values, *s.Value)
		}
	}
	return values
}
