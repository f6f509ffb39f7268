package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetreport/internal/core"
)

func txn(id, date string, cents int64, payee, category string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:       id,
		Date:     d,
		Amount:   core.Money{Cents: cents},
		Payee:    payee,
		Category: category,
		Account:  "Checking",
	}
}

func TestWeeklyStatsFor_Empty(t *testing.T) {
	for name, in := range map[string][]core.Transaction{
		"nil":           nil,
		"only transfer": {{ID: "x", Date: core.NewDate(2025, 1, 6), Amount: core.Money{Cents: -500}, IsTransfer: true}},
	} {
		t.Run(name, func(t *testing.T) {
			s := WeeklyStatsFor(in)
			assert.False(t, s.HasData())
			assert.Empty(t, s.WeekStart)
			assert.Empty(t, s.WeekEnd)
			assert.Zero(t, s.TotalIncome)
			assert.Zero(t, s.TotalExpense)
			assert.Zero(t, s.NetChange)
			assert.Zero(t, s.UncategorizedCount)
			assert.Zero(t, s.DailyAverage)
			assert.Empty(t, s.CategoryBreakdown)
			assert.Empty(t, s.TopExpenseTransactions)
			assert.Empty(t, s.SimplifiedTransactions)
		})
	}
}

func TestWeeklyStatsFor_Aggregates(t *testing.T) {
	in := []core.Transaction{
		txn("1", "2025-01-08", 250000, "Employer", "Salary"),
		txn("2", "2025-01-06", -4500, "Market", "Groceries"),
		txn("3", "2025-01-07", -1500, "Cafe", "Dining"),
		txn("4", "2025-01-09", -3000, "Market", "Groceries"),
		txn("5", "2025-01-10", -800, "Kiosk", ""),
		txn("6", "2025-01-10", -700, "Kiosk", "Uncategorized"),
		txn("7", "2025-01-12", 0, "Zero", "Misc"),
	}

	s := WeeklyStatsFor(in)

	assert.Equal(t, "2025-01-06", s.WeekStart)
	assert.Equal(t, "2025-01-12", s.WeekEnd)
	assert.Equal(t, int64(250000), s.TotalIncome)
	assert.Equal(t, int64(10500), s.TotalExpense)
	assert.Equal(t, int64(239500), s.NetChange)
	assert.Equal(t, map[string]int64{
		"Groceries":             7500,
		"Dining":                1500,
		core.UncategorizedLabel: 1500,
	}, s.CategoryBreakdown)
	assert.Equal(t, 2, s.UncategorizedCount)
	// 7 days spanned, truncating division.
	assert.Equal(t, int64(10500/7), s.DailyAverage)
	assert.Len(t, s.SimplifiedTransactions, len(in))

	var sum int64
	for _, v := range s.CategoryBreakdown {
		sum += v
	}
	assert.Equal(t, s.TotalExpense, sum, "breakdown must add up to total expense")
}

func TestWeeklyStatsFor_DatesFromSurvivorsOnly(t *testing.T) {
	in := []core.Transaction{
		txn("1", "2025-01-01", -100000, "Savings transfer", "Bills"),
		txn("2", "2025-01-03", -1000, "Shop", "Misc"),
		txn("3", "2025-01-04", -1001, "Shop", "Misc"),
	}
	s := WeeklyStatsFor(in)
	assert.Equal(t, "2025-01-03", s.WeekStart)
	assert.Equal(t, "2025-01-04", s.WeekEnd)
	assert.Equal(t, int64(2001/2), s.DailyAverage)
}

func TestWeeklyStatsFor_SingleDayAverage(t *testing.T) {
	s := WeeklyStatsFor([]core.Transaction{txn("1", "2025-01-03", -999, "Shop", "Misc")})
	assert.Equal(t, int64(999), s.DailyAverage)
}

func TestIsTransfer(t *testing.T) {
	cases := []struct {
		name string
		txn  core.Transaction
		want bool
	}{
		{"flag", core.Transaction{IsTransfer: true, Payee: "Rent"}, true},
		{"payee mixed case", core.Transaction{Payee: "TrAnSfEr to savings"}, true},
		{"category", core.Transaction{Category: "Credit Card Transfers"}, true},
		{"notes ignored", core.Transaction{Payee: "Shop", Notes: "transfer"}, false},
		{"plain", core.Transaction{Payee: "Shop", Category: "Groceries"}, false},
		// Known limitation: the substring heuristic also drops genuine
		// expenses whose payee happens to contain the word.
		{"false positive payee", core.Transaction{Payee: "Transfer Pricing Consulting", Category: "Services"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsTransfer(tc.txn))
		})
	}
}

func TestWeeklyStatsFor_TransfersExcludedEverywhere(t *testing.T) {
	in := []core.Transaction{
		txn("1", "2025-01-06", -20000, "Transfer to Savings", "Savings"),
		txn("2", "2025-01-06", 30000, "Payroll", "Account transfer"),
		{ID: "3", Date: core.NewDate(2025, 1, 7), Amount: core.Money{Cents: -50000}, Payee: "Card", IsTransfer: true},
		txn("4", "2025-01-07", -1200, "Market", "Groceries"),
	}
	s := WeeklyStatsFor(in)
	assert.Zero(t, s.TotalIncome)
	assert.Equal(t, int64(1200), s.TotalExpense)
	assert.Empty(t, s.LargeTransactions)
	require.Len(t, s.SimplifiedTransactions, 1)
	assert.Equal(t, "4", s.SimplifiedTransactions[0].ID)
}

func TestWeeklyStatsFor_TopCategories(t *testing.T) {
	in := []core.Transaction{
		txn("1", "2025-01-06", -500, "a", "Zeta"),
		txn("2", "2025-01-06", -500, "b", "Alpha"),
		txn("3", "2025-01-06", -900, "c", "Rent"),
		txn("4", "2025-01-06", -100, "d", "Fuel"),
		txn("5", "2025-01-06", -200, "e", "Books"),
		txn("6", "2025-01-06", -300, "f", "Gym"),
		txn("7", "2025-01-06", -50, "g", "Tips"),
	}
	s := WeeklyStatsFor(in)
	require.Len(t, s.TopExpenseCategories, TopN)
	var names []string
	for _, c := range s.TopExpenseCategories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Rent", "Alpha", "Zeta", "Gym", "Books"}, names)
	assert.Equal(t, int64(900), s.TopExpenseCategories[0].Amount.Cents)
}

func TestWeeklyStatsFor_LargeTransactions(t *testing.T) {
	in := []core.Transaction{
		txn("1", "2025-01-06", -15000, "Airline", "Travel"),
		txn("2", "2025-01-07", 10000, "Refund", ""),
		txn("3", "2025-01-07", -9999, "Almost", "Misc"),
	}
	s := WeeklyStatsFor(in)
	require.Len(t, s.LargeTransactions, 2)
	assert.Equal(t, int64(15000), s.LargeTransactions[0].Cents)
	assert.Equal(t, "150.00", s.LargeTransactions[0].Amount.StringFixed(2))
	assert.Equal(t, core.UncategorizedLabel, s.LargeTransactions[1].Category)
	assert.Equal(t, int64(10000), s.LargeTransactions[1].Cents)

	// the stored signed amount stays untouched in the simplified view
	assert.Equal(t, int64(-15000), s.SimplifiedTransactions[0].Cents)
}

func TestWeeklyStatsFor_SingleLargeExpense(t *testing.T) {
	s := WeeklyStatsFor([]core.Transaction{txn("1", "2025-01-06", -15000, "Airline", "Travel")})
	require.Len(t, s.LargeTransactions, 1)
	require.Len(t, s.TopExpenseTransactions, 1)
	assert.Equal(t, "1", s.TopExpenseTransactions[0].ID)
}

func TestWeeklyStatsFor_TopExpenseTransactions(t *testing.T) {
	t.Run("threshold list when at least five clear $20", func(t *testing.T) {
		var in []core.Transaction
		for i, c := range []int64{-2100, -5000, -2001, -9000, -3000, -2500, -2000, -100} {
			in = append(in, txn(string(rune('a'+i)), "2025-01-06", c, "p", "c"))
		}
		s := WeeklyStatsFor(in)
		var got []int64
		for _, v := range s.TopExpenseTransactions {
			got = append(got, v.Cents)
			assert.Greater(t, abs(v.Cents), int64(TopExpenseFloorCents))
		}
		assert.Equal(t, []int64{-9000, -5000, -3000, -2500, -2100, -2001}, got)
	})

	t.Run("fallback to unconditional top five", func(t *testing.T) {
		var in []core.Transaction
		for i, c := range []int64{-100, -5000, -300, -2000, -150, -700, -50} {
			in = append(in, txn(string(rune('a'+i)), "2025-01-06", c, "p", "c"))
		}
		s := WeeklyStatsFor(in)
		var got []int64
		for _, v := range s.TopExpenseTransactions {
			got = append(got, v.Cents)
		}
		assert.Equal(t, []int64{-5000, -2000, -700, -300, -150}, got)
	})

	t.Run("ties broken by date then id", func(t *testing.T) {
		in := []core.Transaction{
			txn("b", "2025-01-07", -500, "p", "c"),
			txn("c", "2025-01-06", -500, "p", "c"),
			txn("a", "2025-01-07", -500, "p", "c"),
		}
		s := WeeklyStatsFor(in)
		var ids []string
		for _, v := range s.TopExpenseTransactions {
			ids = append(ids, v.ID)
		}
		assert.Equal(t, []string{"c", "a", "b"}, ids)
	})
}

func TestWeeklyStatsFor_TopIncome(t *testing.T) {
	var in []core.Transaction
	for i, c := range []int64{100, 700, 300, 900, 200, 800, -50} {
		in = append(in, txn(string(rune('a'+i)), "2025-01-06", c, "p", "c"))
	}
	s := WeeklyStatsFor(in)
	var got []int64
	for _, v := range s.TopIncomeTransactions {
		got = append(got, v.Cents)
	}
	assert.Equal(t, []int64{900, 800, 700, 300, 200}, got)
}
