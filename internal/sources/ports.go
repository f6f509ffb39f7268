package sources

import (
	"context"

	"budgetreport/internal/core"
)

// Ports for inbound ledger adapters.
type (
	// TransactionSource returns every ledger entry dated within [start, end].
	TransactionSource interface {
		Transactions(ctx context.Context, start, end core.Date) ([]core.Transaction, error)
	}

	// CategoryLister lists the category names known to a ledger.
	CategoryLister interface {
		Categories(ctx context.Context) ([]string, error)
	}
)

// InRange reports whether d falls within [start, end].
func InRange(d, start, end core.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}
