package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetreport/internal/core"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedgerUpsertAndRange(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	n, err := l.Upsert(ctx, []core.Transaction{
		{ID: "b", Date: core.NewDate(2025, 1, 7), Amount: core.Money{Cents: 250000}, Payee: "Employer", Category: "Salary"},
		{ID: "a", Date: core.NewDate(2025, 1, 6), Amount: core.Money{Cents: -1250}, Payee: "Market", Category: "Groceries", Notes: "weekly"},
		{ID: "c", Date: core.NewDate(2025, 1, 13), Amount: core.Money{Cents: -10000}, Payee: "Savings", IsTransfer: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := l.Transactions(ctx, core.NewDate(2025, 1, 6), core.NewDate(2025, 1, 12))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "weekly", got[0].Notes)
	assert.Equal(t, int64(-1250), got[0].Amount.Cents)
	assert.Equal(t, "2025-01-06", got[0].Date.String())
	assert.Equal(t, "b", got[1].ID)

	got, err = l.Transactions(ctx, core.NewDate(2025, 1, 13), core.NewDate(2025, 1, 13))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsTransfer)
}

func TestLedgerUpsertReplacesByID(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	_, err := l.Upsert(ctx, []core.Transaction{{ID: "a", Date: core.NewDate(2025, 1, 6), Amount: core.Money{Cents: -100}, Category: "Dining"}})
	require.NoError(t, err)
	_, err = l.Upsert(ctx, []core.Transaction{{ID: "a", Date: core.NewDate(2025, 1, 6), Amount: core.Money{Cents: -300}, Category: "Groceries"}})
	require.NoError(t, err)

	count, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	cats, err := l.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries"}, cats)
}

func TestLedgerRejectsInvalid(t *testing.T) {
	l := openTestLedger(t)
	_, err := l.Upsert(context.Background(), []core.Transaction{{Date: core.NewDate(2025, 1, 6)}})
	assert.ErrorIs(t, err, core.ErrMissingID)

	count, err := l.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())
}
