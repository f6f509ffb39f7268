package analysis

// HealthStatus is the budget-health verdict.
type HealthStatus string

const (
	HealthUnknown  HealthStatus = "unknown"
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

const (
	// WeeksPerMonth is the linear weekly-to-monthly projection factor.
	WeeksPerMonth = 4

	healthyBelow = 0.8
	warningBelow = 1.0
)

// BudgetHealth compares the projected monthly spend with the configured budget.
type BudgetHealth struct {
	Status           HealthStatus `json:"status"`
	Message          string       `json:"message"`
	ProjectedMonthly int64        `json:"projected_monthly"`
	TotalBudget      int64        `json:"total_budget"`
	Remaining        int64        `json:"remaining"`
	HealthRatio      float64      `json:"health_ratio"`
}

// EvaluateBudgetHealth projects the week's expense to a month and rates it
// against the sum of the monthly category budgets (cents).
func EvaluateBudgetHealth(stats WeeklyStats, monthlyBudget map[string]int64) BudgetHealth {
	if len(monthlyBudget) == 0 {
		return BudgetHealth{Status: HealthUnknown, Message: "No monthly budget configured"}
	}

	var total int64
	for _, cents := range monthlyBudget {
		total += cents
	}
	projected := stats.TotalExpense * WeeksPerMonth

	var ratio float64
	if total > 0 {
		ratio = float64(projected) / float64(total)
	}

	h := BudgetHealth{
		ProjectedMonthly: projected,
		TotalBudget:      total,
		Remaining:        total - projected,
		HealthRatio:      ratio,
	}
	switch {
	case ratio < healthyBelow:
		h.Status, h.Message = HealthHealthy, "Budget on track"
	case ratio < warningBelow:
		h.Status, h.Message = HealthWarning, "Spending is running ahead of budget, keep an eye on it"
	default:
		h.Status, h.Message = HealthCritical, "Projected to overspend, adjust now"
	}
	return h
}
