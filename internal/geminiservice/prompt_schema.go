package geminiservice

import (
	"fmt"
	"strconv"
	"strings"
)

// PromptContext is everything the narrative prompt is built from: the
// profile demographics and the latest reading. A nil value was not measured.
type PromptContext struct {
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Country     string   `json:"country"`
	Language    string   `json:"language"`
	Glucose     *float64 `json:"glucose"`
	Cholesterol *float64 `json:"cholesterol"`
	UricAcid    *float64 `json:"uric_acid"`
}

const defaultLanguage = "English"

/* =================================================================================
							NARRATIVE PROMPT
	The section names below are what FormatMarkdown turns into headings.
=================================================================================*/

const narrativePromptTemplate = `You're a doctor, analyze the following blood test results for a %d-year-old %s from %s in %s language:
Blood Sugar: %s
Cholesterol: %s
Gout: %s

Provide an analysis in the following format:

Blood Sugar:
[Status]
[Value]
[Short recommendation]

Cholesterol:
[Status]
[Value]
[Short recommendation]

Gout:
[Status]
[Value]
[Short recommendation]

Overall Health Assessment:
[A comprehensive assessment of overall health based on these metrics, considering age, gender, country]

Lifestyle Recommendations:
- [Lifestyle Recommendation]

Ensure the recommendations are tailored to the specific values and the user's age, gender, country.
If a value is "not provided", say that it was not measured instead of guessing it.`

// BuildNarrativePrompt renders the prompt for one reading.
func BuildNarrativePrompt(pc PromptContext) string {
	return fmt.Sprintf(narrativePromptTemplate,
		pc.Age,
		orDefault(pc.Gender, "person"),
		orDefault(pc.Country, "an unspecified country"),
		orDefault(pc.Language, defaultLanguage),
		formatMeasurement(pc.Glucose),
		formatMeasurement(pc.Cholesterol),
		formatMeasurement(pc.UricAcid),
	)
}

func formatMeasurement(v *float64) string {
	if v == nil {
		return "not provided"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " mg/dL"
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
