package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetreport/internal/analysis"
	"budgetreport/internal/core"
)

func txn(id string, day int, cents int64, payee, category string) core.Transaction {
	return core.Transaction{ID: id, Date: core.NewDate(2025, 1, day), Amount: core.Money{Cents: cents}, Payee: payee, Category: category}
}

func TestReport(t *testing.T) {
	current := []core.Transaction{
		txn("1", 6, -45000, "Landlord", "Rent"),
		txn("2", 7, -3500, "Market", "Groceries"),
		txn("3", 8, 250000, "Employer", "Salary"),
		txn("4", 9, -1200, "Cafe", "Dining"),
	}
	previous := []core.Transaction{txn("p1", 1, -10000, "Landlord", "Rent")}
	res := analysis.Analyze(current, previous, nil)

	out, err := Report(NewView("2025-01-06", "2025-01-12", res, "Spent $497 this week."))
	require.NoError(t, err)

	want := strings.Join([]string{
		"# 📊 Weekly Finance Brief",
		"**2025-01-06 ~ 2025-01-12**",
		"",
		"## 💰 Overview",
		"• Income: **$2500**",
		"• Expenses: **$497** (daily avg $124)",
		"• Balance: **$2003**",
		"",
		"## 📈 Top 5 Categories",
		"1. Rent: $450",
		"2. Groceries: $35",
		"3. Dining: $12",
		"",
		"## ❓ Budget Status",
		"No monthly budget configured",
		"",
		"## 🚨 Needs Attention",
		"• Spending up 397% week over week",
		"",
		"## 💡 Weekly Insight",
		"Spent $497 this week.",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestReportEmptyWeek(t *testing.T) {
	out, err := Report(NewView("2025-01-06", "2025-01-12", analysis.Analyze(nil, nil, nil), ""))
	require.NoError(t, err)

	assert.Contains(t, out, "• Balance: **$0**\n\n## ❓ Budget Status")
	assert.NotContains(t, out, "Top 5 Categories")
	assert.NotContains(t, out, "Needs Attention")
	assert.NotContains(t, out, "Weekly Insight")
}

func TestReportCapsAttentionItems(t *testing.T) {
	var anomalies []analysis.Anomaly
	for i := 0; i < 7; i++ {
		anomalies = append(anomalies, analysis.Anomaly{Severity: analysis.SeverityHigh, Description: fmt.Sprintf("issue %d", i)})
	}
	out, err := Report(View{WeekStart: "a", WeekEnd: "b", Anomalies: anomalies})
	require.NoError(t, err)
	assert.Equal(t, MaxAttentionItems, strings.Count(out, "• issue"))
}

func TestStatusEmoji(t *testing.T) {
	assert.Equal(t, "✅", StatusEmoji(analysis.HealthHealthy))
	assert.Equal(t, "⚠️", StatusEmoji(analysis.HealthWarning))
	assert.Equal(t, "🚨", StatusEmoji(analysis.HealthCritical))
	assert.Equal(t, "❓", StatusEmoji(analysis.HealthUnknown))
	assert.Equal(t, "❓", StatusEmoji("mystery"))
}

func TestDollarsAndFailure(t *testing.T) {
	assert.Equal(t, "$124", Dollars(12425))
	assert.Equal(t, "-$5", Dollars(-500))
	assert.Equal(t, "$0", Dollars(0))
	assert.Equal(t, "❌ Budget report failed: login refused", Failure(errors.New("login refused")))
}
