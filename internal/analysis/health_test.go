package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateBudgetHealth(t *testing.T) {
	cases := []struct {
		name      string
		expense   int64
		budget    map[string]int64
		status    HealthStatus
		ratio     float64
		remaining int64
	}{
		{"no budget", 1000, nil, HealthUnknown, 0, 0},
		{"empty budget", 1000, map[string]int64{}, HealthUnknown, 0, 0},
		{"healthy", 9000, map[string]int64{"Food": 30000, "Fuel": 20000}, HealthHealthy, 0.72, 14000},
		{"warning at exactly 0.8", 10000, map[string]int64{"Food": 50000}, HealthWarning, 0.8, 10000},
		{"warning", 11000, map[string]int64{"Food": 50000}, HealthWarning, 0.88, 6000},
		{"critical at exactly 1.0", 12500, map[string]int64{"Food": 50000}, HealthCritical, 1.0, 0},
		{"critical over", 20000, map[string]int64{"Food": 50000}, HealthCritical, 1.6, -30000},
		{"zero total budget", 5000, map[string]int64{"Food": 0}, HealthHealthy, 0, -20000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := EvaluateBudgetHealth(WeeklyStats{TotalExpense: tc.expense}, tc.budget)
			assert.NotEmpty(t, h.Message)
			assert.Equal(t, tc.status, h.Status)
			assert.InDelta(t, tc.ratio, h.HealthRatio, 1e-9)
			assert.Equal(t, tc.remaining, h.Remaining)
		})
	}
}

func TestEvaluateBudgetHealth_Projection(t *testing.T) {
	h := EvaluateBudgetHealth(WeeklyStats{TotalExpense: 7000}, map[string]int64{"A": 40000, "B": 60000})
	assert.Equal(t, HealthHealthy, h.Status)
	assert.Equal(t, int64(28000), h.ProjectedMonthly)
	assert.Equal(t, int64(100000), h.TotalBudget)
	assert.Equal(t, int64(72000), h.Remaining)
	assert.InDelta(t, 0.28, h.HealthRatio, 1e-9)
}
