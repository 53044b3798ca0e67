package analysis

// Status is the categorical classification of a single value.
type Status string

const (
	StatusLow            Status = "low"
	StatusNormal         Status = "normal"
	StatusPrediabetic    Status = "prediabetic"
	StatusDiabetic       Status = "diabetic"
	StatusBorderlineHigh Status = "borderline_high"
	StatusHigh           Status = "high"
	StatusElevated       Status = "elevated"
	StatusGoutRisk       Status = "gout_risk"
)

var statusLabels = map[Status]string{
	StatusLow:            "Low (hypoglycemia)",
	StatusNormal:         "Normal",
	StatusPrediabetic:    "Prediabetic",
	StatusDiabetic:       "Diabetic",
	StatusBorderlineHigh: "Borderline High",
	StatusHigh:           "High",
	StatusElevated:       "Elevated",
	StatusGoutRisk:       "High (gout risk)",
}

// Label is the display text for a status.
func (s Status) Label() string {
	return statusLabels[s]
}

// ClassifyStatus maps a value onto the fixed clinical bands of its metric.
//
//	glucose:     <70 low, <100 normal, <126 prediabetic, else diabetic
//	cholesterol: <200 normal, <240 borderline high, else high
//	uric acid:   <=6 normal, <=8 elevated, else gout risk
func ClassifyStatus(metric Metric, value float64) (Status, error) {
	switch metric {
	case Glucose:
		switch {
		case value < 70:
			return StatusLow, nil
		case value < 100:
			return StatusNormal, nil
		case value < 126:
			return StatusPrediabetic, nil
		default:
			return StatusDiabetic, nil
		}
	case Cholesterol:
		switch {
		case value < 200:
			return StatusNormal, nil
		case value < 240:
			return StatusBorderlineHigh, nil
		default:
			return StatusHigh, nil
		}
	case UricAcid:
		switch {
		case value <= 6:
			return StatusNormal, nil
		case value <= 8:
			return StatusElevated, nil
		default:
			return StatusGoutRisk, nil
		}
	}
	return "", invalidMetric(string(metric))
}
