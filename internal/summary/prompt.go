package summary

import (
	"fmt"
	"sort"
	"strings"

	"budgetreport/internal/analysis"
)

const (
	promptTopExpenses  = 5
	promptLargeTxns    = 5
	promptTransactions = 30
)

// BuildPrompt renders the Gemini prompt: headline numbers, top expenses,
// budget status, items needing attention and the largest transactions.
func BuildPrompt(in Input) string {
	s := in.Result.Stats
	start, end := in.WeekStart, in.WeekEnd
	if start == "" {
		start, end = s.WeekStart, s.WeekEnd
	}

	income := wholeDollars(s.TotalIncome)
	expense := wholeDollars(s.TotalExpense)
	balance := wholeDollars(s.NetChange)
	daily := wholeDollars(s.DailyAverage)

	top5 := TopExpenseLines(s)
	attention := AttentionLines(in.Result)
	attentionText := "Nothing needs attention"
	if len(attention) > 0 {
		attentionText = strings.Join(attention, "\n")
	}
	budget := in.Result.Health.Message
	if budget == "" {
		budget = "Budget data unavailable"
	}

	var txns strings.Builder
	for _, v := range largestTransactions(s.SimplifiedTransactions, promptTransactions) {
		fmt.Fprintf(&txns, "- %s %s: $%s (%s) %s\n", v.Date, v.Payee, v.Amount.StringFixed(2), v.Category, v.Notes)
	}

	var b strings.Builder
	b.WriteString("You are a professional personal finance assistant. Using the data below, write a weekly report in exactly the Markdown format given. Do not add any greeting or sign-off.\n\n")
	b.WriteString("Data:\n")
	fmt.Fprintf(&b, "Date range: %s ~ %s\n", start, end)
	fmt.Fprintf(&b, "Income: $%s\n", income)
	fmt.Fprintf(&b, "Expenses: $%s\n", expense)
	fmt.Fprintf(&b, "Daily average spend: $%s\n", daily)
	fmt.Fprintf(&b, "Balance: $%s\n\n", balance)
	fmt.Fprintf(&b, "Top 5 expenses:\n%s\n\n", strings.Join(top5, "\n"))
	fmt.Fprintf(&b, "Budget status: %s\n\n", budget)
	fmt.Fprintf(&b, "Needs attention:\n%s\n\n", attentionText)
	fmt.Fprintf(&b, "Transactions this week (by amount, top %d):\n%s\n", promptTransactions, strings.TrimRight(txns.String(), "\n"))
	b.WriteString(`
Requirements:
1. In "Weekly insight", write a short analysis of 3 to 5 sentences based on income, spending, budget status and the transaction details. Include spending as a share of income. Keep the tone professional but friendly.
2. Keep the layout tidy and use emoji.
3. If the balance is negative, point it out gently in the insight.
4. Use the transaction details to be specific, e.g. which transaction drove spending up.

Output template:
`)
	fmt.Fprintf(&b, "# 📊 Weekly Finance Brief\n**%s ~ %s**\n\n", start, end)
	fmt.Fprintf(&b, "## 💰 Overview\n• Income: **$%s**\n• Expenses: **$%s** (daily avg $%s)\n• Balance: **$%s**\n\n", income, expense, daily, balance)
	fmt.Fprintf(&b, "## 📈 Top 5 Expenses\n%s\n\n", strings.Join(top5, "\n"))
	fmt.Fprintf(&b, "## ✅ Budget Status\n%s\n\n", budget)
	b.WriteString("## 💡 Weekly Insight\n[write the analysis here]\n\n")
	fmt.Fprintf(&b, "## 🚨 Needs Attention\n%s\n", attentionText)
	return b.String()
}

// TopExpenseLines formats up to five top expense transactions as a numbered list.
func TopExpenseLines(s analysis.WeeklyStats) []string {
	lines := []string{}
	for i, v := range s.TopExpenseTransactions {
		if i == promptTopExpenses {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s: $%s (%s)", i+1, v.Payee, v.Amount.Abs().StringFixed(0), v.Category))
	}
	return lines
}

// AttentionLines lists up to five large transactions followed by every
// high-severity anomaly.
func AttentionLines(r analysis.Result) []string {
	lines := []string{}
	for i, v := range r.Stats.LargeTransactions {
		if i == promptLargeTxns {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s: $%s %s (%s)", monthDay(v.Date), v.Amount.StringFixed(0), v.Category, v.Payee))
	}
	for _, a := range analysis.HighSeverity(r.Anomalies) {
		lines = append(lines, "• "+a.Description)
	}
	return lines
}

// largestTransactions orders views by absolute amount, keeping input order on ties.
func largestTransactions(views []analysis.TransactionView, n int) []analysis.TransactionView {
	out := append([]analysis.TransactionView{}, views...)
	sort.SliceStable(out, func(i, j int) bool {
		return absCents(out[i].Cents) > absCents(out[j].Cents)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func monthDay(date string) string {
	if len(date) == len("2006-01-02") {
		return date[5:]
	}
	return date
}

func absCents(c int64) int64 {
	if c < 0 {
		return -c
	}
	return c
}
