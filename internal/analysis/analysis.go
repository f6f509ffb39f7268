package analysis

import "budgetreport/internal/core"

// Result bundles everything the engine derives for one reporting window.
type Result struct {
	Stats     WeeklyStats
	Previous  *WeeklyStats
	Anomalies []Anomaly
	Health    BudgetHealth
}

// Analyze runs the full rule pipeline. previous is nil when no comparison
// period was fetched; an empty non-nil slice is a valid, empty prior week.
func Analyze(current, previous []core.Transaction, monthlyBudget map[string]int64) Result {
	res := Result{Stats: WeeklyStatsFor(current)}
	if previous != nil {
		prev := WeeklyStatsFor(previous)
		res.Previous = &prev
	}
	res.Anomalies = DetectAnomalies(res.Stats, res.Previous)
	res.Health = EvaluateBudgetHealth(res.Stats, monthlyBudget)
	return res
}
