package geminiservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleNarrative = `Blood Sugar:
Normal
92 mg/dL
Keep your current habits.

Cholesterol:
Borderline High
215 mg/dL
Reduce saturated fat.

Overall Health Assessment: Generally good. Watch cholesterol: it is rising.

Lifestyle Recommendations:
- Walk 30 minutes daily
* Eat more fiber

Stay well.`

func TestFormatMarkdown(t *testing.T) {
	got := FormatMarkdown(sampleNarrative)

	want := "## Blood Sugar:\nNormal\n92 mg/dL\nKeep your current habits.\n" +
		"\n\n" +
		"## Cholesterol:\nBorderline High\n215 mg/dL\nReduce saturated fat.\n" +
		"\n\n" +
		"## Overall Health Assessment\n\nGenerally good. Watch cholesterol: it is rising.\n" +
		"\n\n" +
		"## Lifestyle Recommendations\n\n- Walk 30 minutes daily\n- Eat more fiber\n" +
		"\n\n" +
		"Stay well."
	assert.Equal(t, want, got)
}

func TestFormatMarkdownKeepsTextAfterSecondColon(t *testing.T) {
	got := FormatMarkdown("Overall Health Assessment: Ratio HDL:LDL is fine.")
	assert.Equal(t, "## Overall Health Assessment\n\nRatio HDL:LDL is fine.\n", got)
}

func TestFormatMarkdownHeaderWithoutColon(t *testing.T) {
	got := FormatMarkdown("Lifestyle Recommendations\nSleep 8 hours")
	assert.Equal(t, "## Lifestyle Recommendations\n\n- Sleep 8 hours\n", got)
}

func TestFormatMarkdownPassesUnknownTextThrough(t *testing.T) {
	text := "The model answered in free form.\n\nNo sections here."
	assert.Equal(t, text, FormatMarkdown(text))
	assert.Equal(t, "", FormatMarkdown(""))
}

func TestFormatMarkdownNormalizesCRLF(t *testing.T) {
	got := FormatMarkdown("Gout:\r\nNormal\r\n\r\nOther")
	assert.Equal(t, "## Gout:\nNormal\n\n\nOther", got)
}
