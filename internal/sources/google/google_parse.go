package google

import (
	"fmt"
	"strconv"
	"strings"

	"budgetreport/internal/core"
)

const (
	colDate = iota
	colPayee
	colAmount
	colCategory
	colAccount
	colNotes
	colTransfer
	colID
)

// parseLedgerRows converts a values matrix into transactions. A leading
// header row and blank rows are ignored; rows with an unreadable date or
// amount are counted in skipped. Rows without an ID get a positional one.
func parseLedgerRows(values [][]interface{}) (txns []core.Transaction, skipped int) {
	txns = []core.Transaction{}
	for i, raw := range values {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		d, err := core.ParseDate(safeGet(row, colDate))
		if err != nil {
			if i == 0 {
				continue
			}
			skipped++
			continue
		}
		cents, err := core.ParseDecimalToCents(safeGet(row, colAmount))
		if err != nil {
			skipped++
			continue
		}
		id := safeGet(row, colID)
		if id == "" {
			id = fmt.Sprintf("row-%d", i+1)
		}
		txns = append(txns, core.Transaction{
			ID:         id,
			Date:       d,
			Amount:     core.Money{Cents: cents},
			Payee:      safeGet(row, colPayee),
			Category:   safeGet(row, colCategory),
			Account:    safeGet(row, colAccount),
			Notes:      safeGet(row, colNotes),
			IsTransfer: parseFlag(safeGet(row, colTransfer)),
		})
	}
	return txns, skipped
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "x":
		return true
	}
	return false
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
