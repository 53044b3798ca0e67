package geminiservice

import "strings"

var metricHeadings = []string{"Blood Sugar", "Cholesterol", "Gout"}

// FormatMarkdown turns the sectioned narrative into markdown. Sections are
// separated by blank lines; metric sections become headings, the overall
// assessment keeps its body and the lifestyle section becomes a bullet list.
// Text without any recognized section is returned unchanged.
func FormatMarkdown(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	sections := strings.Split(normalized, "\n\n")

	recognized := false
	out := make([]string, 0, len(sections))
	for _, section := range sections {
		switch {
		case hasMetricHeading(section):
			recognized = true
			out = append(out, "## "+section+"\n")
		case strings.HasPrefix(section, "Overall Health"):
			recognized = true
			out = append(out, "## Overall Health Assessment\n\n"+sectionBody(section)+"\n")
		case strings.HasPrefix(section, "Lifestyle Recommendations"):
			recognized = true
			out = append(out, "## Lifestyle Recommendations\n\n"+bulletList(sectionBody(section)))
		default:
			out = append(out, section)
		}
	}

	if !recognized {
		return text
	}
	return strings.Join(out, "\n\n")
}

func hasMetricHeading(section string) bool {
	for _, h := range metricHeadings {
		if strings.HasPrefix(section, h) {
			return true
		}
	}
	return false
}

// sectionBody is everything after the header: after the first colon, or
// after the first line when the header has no colon.
func sectionBody(section string) string {
	if i := strings.Index(section, ":"); i >= 0 {
		return strings.TrimSpace(section[i+1:])
	}
	if i := strings.Index(section, "\n"); i >= 0 {
		return strings.TrimSpace(section[i+1:])
	}
	return ""
}

func bulletList(body string) string {
	var sb strings.Builder
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line == "" {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
