// Package analysis is the rule engine that turns a week of ledger
// transactions into statistics, anomalies and a budget-health verdict.
//
// Every function here is pure: no I/O, no clock, no shared state. Callers may
// invoke them concurrently with disjoint inputs.
package analysis

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"budgetreport/internal/core"
)

const (
	// LargeTransactionCents flags any transaction at or above $100.
	LargeTransactionCents = 10000
	// TopExpenseFloorCents is the $20 visibility threshold for top expenses.
	TopExpenseFloorCents = 2000
	// TopN caps the top categories, the fallback top expenses and top income.
	TopN = 5
)

// TransactionView is a display-ready projection of a transaction.
type TransactionView struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Payee    string          `json:"payee"`
	Category string          `json:"category"`
	Account  string          `json:"account"`
	Notes    string          `json:"notes"`
	Cents    int64           `json:"cents"`
	Amount   decimal.Decimal `json:"amount"`
}

// WeeklyStats is the aggregate view of one week of transactions.
type WeeklyStats struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`

	TotalIncome  int64 `json:"total_income"`
	TotalExpense int64 `json:"total_expense"`
	NetChange    int64 `json:"net_change"`

	CategoryBreakdown    map[string]int64      `json:"category_breakdown"`
	TopExpenseCategories []core.CategoryAmount `json:"top_expense_categories"`

	TopExpenseTransactions []TransactionView `json:"top_expense_transactions"`
	TopIncomeTransactions  []TransactionView `json:"top_income_transactions"`
	LargeTransactions      []TransactionView `json:"large_transactions"`
	SimplifiedTransactions []TransactionView `json:"simplified_transactions"`

	UncategorizedCount int   `json:"uncategorized_count"`
	DailyAverage       int64 `json:"daily_average"`
}

// HasData reports whether any transaction survived filtering.
func (s WeeklyStats) HasData() bool {
	return s.WeekStart != ""
}

// IsTransfer reports whether a transaction looks like an internal transfer:
// flagged by the source, or "transfer" in payee or category (any case).
// Notes and amounts are deliberately not inspected.
func IsTransfer(t core.Transaction) bool {
	if t.IsTransfer {
		return true
	}
	return strings.Contains(strings.ToLower(t.Payee), "transfer") ||
		strings.Contains(strings.ToLower(t.Category), "transfer")
}

// FilterTransfers returns the transactions that are true income or expense.
func FilterTransfers(txns []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if IsTransfer(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// WeeklyStatsFor computes the weekly statistics of txns. An empty result
// (no surviving transactions) has empty date bounds and zero totals.
func WeeklyStatsFor(txns []core.Transaction) WeeklyStats {
	valid := FilterTransfers(txns)
	if len(valid) == 0 {
		return WeeklyStats{
			CategoryBreakdown:      map[string]int64{},
			TopExpenseCategories:   []core.CategoryAmount{},
			TopExpenseTransactions: []TransactionView{},
			TopIncomeTransactions:  []TransactionView{},
			LargeTransactions:      []TransactionView{},
			SimplifiedTransactions: []TransactionView{},
		}
	}

	first, last := valid[0].Date, valid[0].Date
	var stats WeeklyStats
	stats.CategoryBreakdown = make(map[string]int64)
	stats.SimplifiedTransactions = make([]TransactionView, 0, len(valid))
	stats.LargeTransactions = []TransactionView{}

	var expenses, income []TransactionView
	for _, t := range valid {
		if t.Date.Before(first.Time) {
			first = t.Date
		}
		if t.Date.After(last.Time) {
			last = t.Date
		}

		switch {
		case t.Amount.IsIncome():
			stats.TotalIncome += t.Amount.Cents
		case t.Amount.IsExpense():
			stats.TotalExpense += -t.Amount.Cents
			name := core.UncategorizedLabel
			if t.HasCategory() {
				name = t.Category
			} else {
				stats.UncategorizedCount++
			}
			stats.CategoryBreakdown[name] += -t.Amount.Cents
		}

		view := viewOf(t, t.Amount)
		stats.SimplifiedTransactions = append(stats.SimplifiedTransactions, view)
		if t.Amount.IsExpense() {
			expenses = append(expenses, view)
		} else if t.Amount.IsIncome() {
			income = append(income, view)
		}
		if t.Amount.Abs().Cents >= LargeTransactionCents {
			stats.LargeTransactions = append(stats.LargeTransactions, viewOf(t, t.Amount.Abs()))
		}
	}

	stats.WeekStart = first.String()
	stats.WeekEnd = last.String()
	stats.NetChange = stats.TotalIncome - stats.TotalExpense
	stats.TopExpenseCategories = topCategories(stats.CategoryBreakdown, TopN)
	stats.TopExpenseTransactions = topExpenses(expenses)
	stats.TopIncomeTransactions = topByMagnitude(income, TopN)

	days := first.DaysUntil(last) + 1
	stats.DailyAverage = stats.TotalExpense / int64(max(days, 1))

	return stats
}

func viewOf(t core.Transaction, amount core.Money) TransactionView {
	return TransactionView{
		ID:       t.ID,
		Date:     t.Date.String(),
		Payee:    t.Payee,
		Category: t.CategoryOrDefault(),
		Account:  t.Account,
		Notes:    t.Notes,
		Cents:    amount.Cents,
		Amount:   amount.Dollars(),
	}
}

// topCategories sorts by amount descending, ties by name ascending.
func topCategories(breakdown map[string]int64, n int) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(breakdown))
	for name, cents := range breakdown {
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// topExpenses keeps every expense above the $20 floor, falling back to the
// unconditional top five when fewer than five clear it.
func topExpenses(expenses []TransactionView) []TransactionView {
	all := topByMagnitude(expenses, len(expenses))
	above := make([]TransactionView, 0, len(all))
	for _, v := range all {
		if abs(v.Cents) > TopExpenseFloorCents {
			above = append(above, v)
		}
	}
	if len(above) < TopN {
		return all[:min(TopN, len(all))]
	}
	return above
}

// topByMagnitude returns the n largest views by absolute amount.
// Ties are broken by date, then ID, so the order never depends on input order.
func topByMagnitude(views []TransactionView, n int) []TransactionView {
	out := append([]TransactionView{}, views...)
	sort.Slice(out, func(i, j int) bool {
		ai, aj := abs(out[i].Cents), abs(out[j].Cents)
		if ai != aj {
			return ai > aj
		}
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func abs(c int64) int64 {
	if c < 0 {
		return -c
	}
	return c
}
