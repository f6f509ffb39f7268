// Package storage keeps an imported ledger in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"budgetreport/internal/core"
	"budgetreport/internal/sources"

	_ "modernc.org/sqlite"
)

var (
	_ sources.TransactionSource = (*Ledger)(nil)
	_ sources.CategoryLister    = (*Ledger)(nil)
)

// Ledger is a SQLite-backed transaction store.
type Ledger struct {
	db *sql.DB
}

// Open creates the database file if needed and applies migrations.
func Open(dbPath string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

const upsertSQL = `
INSERT INTO transactions (id, date, amount, payee, category, account, notes, is_transfer)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    date = excluded.date,
    amount = excluded.amount,
    payee = excluded.payee,
    category = excluded.category,
    account = excluded.account,
    notes = excluded.notes,
    is_transfer = excluded.is_transfer`

// Upsert inserts or replaces transactions by ID inside one transaction and
// returns how many rows were written.
func (l *Ledger) Upsert(ctx context.Context, txns []core.Transaction) (int, error) {
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("transaction %q: %w", t.ID, err)
		}
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Date.String(), t.Amount.Cents,
			t.Payee, t.Category, t.Account, t.Notes, boolToInt(t.IsTransfer),
		); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(txns), nil
}

// Transactions implements sources.TransactionSource.
func (l *Ledger) Transactions(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, date, amount, payee, category, account, notes, is_transfer
		FROM transactions
		WHERE date BETWEEN ? AND ?
		ORDER BY date, id`, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t        core.Transaction
			date     string
			transfer int64
		)
		if err := rows.Scan(&t.ID, &date, &t.Amount.Cents, &t.Payee, &t.Category, &t.Account, &t.Notes, &transfer); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %s: stored date %q: %w", t.ID, date, err)
		}
		t.IsTransfer = transfer != 0
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Categories returns the distinct non-empty categories in the ledger.
func (l *Ledger) Categories(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT DISTINCT category FROM transactions WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of stored transactions.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
