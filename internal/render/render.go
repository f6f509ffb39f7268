// Package render formats weekly reports as Discord-flavoured Markdown.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"budgetreport/internal/analysis"
	"budgetreport/web"
)

// MaxAttentionItems caps the high-severity anomalies listed in a report.
const MaxAttentionItems = 5

var statusEmoji = map[analysis.HealthStatus]string{
	analysis.HealthHealthy:  "✅",
	analysis.HealthWarning:  "⚠️",
	analysis.HealthCritical: "🚨",
	analysis.HealthUnknown:  "❓",
}

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"dollars":       Dollars,
	"emoji":         StatusEmoji,
	"inc":           func(i int) int { return i + 1 },
	"highAnomalies": highAnomalies,
}).ParseFS(web.TemplatesFS, "templates/*.md.tmpl"))

// View is the data a report template renders.
type View struct {
	WeekStart string
	WeekEnd   string
	Stats     analysis.WeeklyStats
	Anomalies []analysis.Anomaly
	Health    analysis.BudgetHealth
	Insight   string
}

// NewView builds a view for the window [start, end].
func NewView(start, end string, r analysis.Result, insight string) View {
	return View{
		WeekStart: start,
		WeekEnd:   end,
		Stats:     r.Stats,
		Anomalies: r.Anomalies,
		Health:    r.Health,
		Insight:   insight,
	}
}

// Report renders the templated weekly report.
func Report(v View) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "report", v); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// Failure renders the notice sent when the pipeline fails.
func Failure(err error) string {
	var b strings.Builder
	if execErr := templates.ExecuteTemplate(&b, "failure", err.Error()); execErr != nil {
		return "❌ Budget report failed: " + err.Error()
	}
	return b.String()
}

// Dollars formats cents as whole dollars, e.g. "$124" or "-$5".
func Dollars(cents int64) string {
	if cents < 0 {
		return fmt.Sprintf("-$%.0f", float64(-cents)/100)
	}
	return fmt.Sprintf("$%.0f", float64(cents)/100)
}

// StatusEmoji maps a budget status to its marker, "❓" when unknown.
func StatusEmoji(s analysis.HealthStatus) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "❓"
}

func highAnomalies(anomalies []analysis.Anomaly) []analysis.Anomaly {
	high := analysis.HighSeverity(anomalies)
	if len(high) > MaxAttentionItems {
		high = high[:MaxAttentionItems]
	}
	return high
}
