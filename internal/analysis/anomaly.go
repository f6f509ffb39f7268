package analysis

import (
	"fmt"
	"math"
	"sort"
)

// AnomalyType identifies the rule that produced an anomaly.
type AnomalyType string

const (
	AnomalyUncategorizedCluster AnomalyType = "uncategorized_cluster"
	AnomalyLargeTransaction     AnomalyType = "large_transaction"
	AnomalySpike                AnomalyType = "spike"
	AnomalyDrop                 AnomalyType = "drop"
	AnomalyCategorySpike        AnomalyType = "category_spike"
)

// Severity ranks how urgently an anomaly should be surfaced.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rule thresholds. Week-over-week changes are expressed in percent so they
// can be compared in integer arithmetic.
const (
	UncategorizedThreshold = 5
	SpikePercent           = 30
	DropPercent            = -30
)

// Anomaly is a rule-triggered flag over current or comparative statistics.
type Anomaly struct {
	Type        AnomalyType    `json:"type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
}

// DetectAnomalies evaluates every rule independently against current and,
// when given, the previous period. All matching rules are reported.
func DetectAnomalies(current WeeklyStats, previous *WeeklyStats) []Anomaly {
	anomalies := []Anomaly{}

	if current.UncategorizedCount > UncategorizedThreshold {
		anomalies = append(anomalies, Anomaly{
			Type:        AnomalyUncategorizedCluster,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%d uncategorized transactions this week, worth a review", current.UncategorizedCount),
			Data:        map[string]any{"count": current.UncategorizedCount},
		})
	}

	for _, txn := range current.LargeTransactions {
		anomalies = append(anomalies, Anomaly{
			Type:        AnomalyLargeTransaction,
			Severity:    SeverityLow,
			Description: fmt.Sprintf("Large transaction: %s $%s", txn.Payee, txn.Amount.StringFixed(2)),
			Data: map[string]any{
				"id":       txn.ID,
				"date":     txn.Date,
				"payee":    txn.Payee,
				"category": txn.Category,
				"notes":    txn.Notes,
				"cents":    txn.Cents,
				"amount":   txn.Amount,
			},
		})
	}

	if previous == nil {
		return anomalies
	}

	if prev := previous.TotalExpense; prev > 0 {
		cur := current.TotalExpense
		ratio := float64(cur-prev) / float64(prev)
		data := map[string]any{"ratio": ratio, "current": cur, "previous": prev}
		switch {
		case exceedsPercent(cur-prev, prev, SpikePercent):
			anomalies = append(anomalies, Anomaly{
				Type:        AnomalySpike,
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("Spending up %.0f%% week over week", ratio*100),
				Data:        data,
			})
		case belowPercent(cur-prev, prev, DropPercent):
			anomalies = append(anomalies, Anomaly{
				Type:        AnomalyDrop,
				Severity:    SeverityLow,
				Description: fmt.Sprintf("Spending down %.0f%% week over week", math.Abs(ratio)*100),
				Data:        data,
			})
		}
	}

	names := make([]string, 0, len(current.CategoryBreakdown))
	for name := range current.CategoryBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		amount := current.CategoryBreakdown[name]
		prev := previous.CategoryBreakdown[name]
		if prev <= 0 || !exceedsPercent(amount-prev, prev, SpikePercent) {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			Type:     AnomalyCategorySpike,
			Severity: SeverityMedium,
			Description: fmt.Sprintf("%s spending jumped: $%s vs $%s last week",
				name, wholeDollars(amount), wholeDollars(prev)),
			Data: map[string]any{"category": name, "current": amount, "previous": prev},
		})
	}

	return anomalies
}

// exceedsPercent reports delta/base > pct/100 for a positive base.
func exceedsPercent(delta, base, pct int64) bool {
	return delta*100 > base*pct
}

// belowPercent reports delta/base < pct/100 for a positive base.
func belowPercent(delta, base, pct int64) bool {
	return delta*100 < base*pct
}

func wholeDollars(cents int64) string {
	return fmt.Sprintf("%.0f", float64(cents)/100)
}

// HighSeverity returns the high-severity anomalies in order.
func HighSeverity(anomalies []Anomaly) []Anomaly {
	var out []Anomaly
	for _, a := range anomalies {
		if a.Severity == SeverityHigh {
			out = append(out, a)
		}
	}
	return out
}
