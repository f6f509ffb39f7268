// Package summary turns analysis results into prose, through Gemini when a
// key is configured and a deterministic fallback otherwise.
package summary

import (
	"context"
	"fmt"
	"strings"

	"budgetreport/internal/analysis"
)

// Input is what a summarizer sees: aggregates only, never the raw ledger.
type Input struct {
	WeekStart string
	WeekEnd   string
	Result    analysis.Result
}

// Summarizer writes the report body. Callers treat a nil Summarizer, an
// error or empty text as "use the fallback".
type Summarizer interface {
	Summarize(ctx context.Context, in Input) (string, error)
}

// Fallback is the one-line summary used when no model text is available.
func Fallback(stats analysis.WeeklyStats, anomalies []analysis.Anomaly) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spent $%s this week", wholeDollars(stats.TotalExpense))
	if stats.TotalIncome > 0 {
		fmt.Fprintf(&b, ", earned $%s", wholeDollars(stats.TotalIncome))
	}
	b.WriteString(". ")

	switch high := analysis.HighSeverity(anomalies); {
	case len(anomalies) == 0:
		b.WriteString("No unusual spending this week.")
	case len(high) > 0:
		b.WriteString("Heads up: " + high[0].Description)
	default:
		b.WriteString("Finances look normal, keep it up.")
	}
	return b.String()
}

func wholeDollars(cents int64) string {
	return fmt.Sprintf("%.0f", float64(cents)/100)
}
