package analysis

import (
	"strconv"
	"strings"
)

// Gender as stored on the profile.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Profile is the demographic input to the advisory text.
type Profile struct {
	Age      int    `json:"age"`
	Gender   Gender `json:"gender"`
	Country  string `json:"country"`
	Language string `json:"language,omitempty"`
}

// Advisory is the pair of sentences rendered for one metric.
type Advisory struct {
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
}

// BuildAdvisory renders the analysis and recommendation for the latest value
// of a metric. Output depends only on the arguments.
func BuildAdvisory(metric Metric, value float64, trend Direction, profile Profile) (Advisory, error) {
	if !metric.valid() {
		return Advisory{}, invalidMetric(string(metric))
	}
	status, err := ClassifyStatus(metric, value)
	if err != nil {
		return Advisory{}, err
	}
	regional, err := RegionAdvice(metric, ResolveRegion(profile.Country))
	if err != nil {
		return Advisory{}, err
	}

	var analysis, recommendation []string
	switch metric {
	case Glucose:
		analysis = glucoseAnalysis(value, status, trend, profile)
		recommendation = glucoseRecommendation(value)
	case Cholesterol:
		analysis = cholesterolAnalysis(value, status, trend, profile)
		recommendation = cholesterolRecommendation(value)
	case UricAcid:
		analysis = uricAcidAnalysis(value, status, trend, profile)
		recommendation = uricAcidRecommendation(value)
	}
	recommendation = append(recommendation, regional)

	return Advisory{
		Analysis:       strings.Join(analysis, " "),
		Recommendation: strings.Join(recommendation, " "),
	}, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func trendSentence(metric Metric, trend Direction) string {
	if trend == "" {
		trend = Stable
	}
	return "The trend of your " + metric.phrase() + " levels has been " + string(trend) + "."
}

func glucoseAnalysis(value float64, status Status, trend Direction, p Profile) []string {
	var band string
	switch status {
	case StatusLow:
		band = "below the normal range (hypoglycemia)."
	case StatusNormal:
		band = "within the normal fasting range."
	case StatusPrediabetic:
		band = "in the prediabetic range."
	default:
		band = "in the diabetic range."
	}
	out := []string{
		"Your latest blood glucose reading is " + formatValue(value) + " mg/dL, which is " + band,
		trendSentence(Glucose, trend),
	}
	if p.Age > 60 {
		out = append(out, "Given your age, it's important to monitor your blood glucose levels closely.")
	}
	return out
}

// The >126 cut point (not >=) matches the advice users have always been shown.
func glucoseRecommendation(value float64) []string {
	switch {
	case value < 70:
		return []string{"Consume fast-acting carbohydrates immediately and consult your doctor."}
	case value > 126:
		return []string{"Consult your healthcare provider for a comprehensive diabetes management plan."}
	}
	return []string{"Maintain a balanced diet, regular exercise, and continue monitoring your blood glucose."}
}

func cholesterolAnalysis(value float64, status Status, trend Direction, p Profile) []string {
	var band string
	switch status {
	case StatusNormal:
		band = "within the desirable range."
	case StatusBorderlineHigh:
		band = "borderline high."
	default:
		band = "high."
	}
	out := []string{
		"Your latest total cholesterol reading is " + formatValue(value) + " mg/dL, which is " + band,
		trendSentence(Cholesterol, trend),
	}
	switch {
	case p.Gender == Male && p.Age > 45:
		out = append(out, "As a male over 45, you're in a higher risk group for heart disease.")
	case p.Gender == Female && p.Age > 55:
		out = append(out, "As a female over 55, your risk for heart disease increases.")
	}
	return out
}

func cholesterolRecommendation(value float64) []string {
	first := "Focus on a heart-healthy diet low in saturated fats and high in fiber."
	if value >= 240 {
		first = "Consult your doctor about cholesterol-lowering medications."
	}
	return []string{first, "Engage in regular aerobic exercise for at least 150 minutes per week."}
}

func uricAcidAnalysis(value float64, status Status, trend Direction, p Profile) []string {
	var band string
	switch status {
	case StatusNormal:
		band = "within the normal range."
	case StatusElevated:
		band = "slightly elevated."
	default:
		band = "high, indicating a risk of gout."
	}
	out := []string{
		"Your latest uric acid level is " + formatValue(value) + " mg/dL, which is " + band,
		trendSentence(UricAcid, trend),
	}
	if p.Gender == Male {
		out = append(out, "Men typically have higher uric acid levels and are at greater risk for gout.")
	}
	return out
}

func uricAcidRecommendation(value float64) []string {
	if value > 6 {
		return []string{
			"Limit intake of purine-rich foods such as red meat and shellfish.",
			"Stay well-hydrated and avoid excessive alcohol consumption.",
		}
	}
	return []string{"Maintain a balanced diet and stay hydrated to keep uric acid levels in check."}
}
