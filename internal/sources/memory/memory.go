package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"budgetreport/internal/core"
	"budgetreport/internal/sources"
)

var (
	_ sources.TransactionSource = (*Store)(nil)
	_ sources.CategoryLister    = (*Store)(nil)
)

// Store is an in-memory ledger, seeded from code or a JSON file.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New(txns []core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), txns...)}
}

// Record is the JSON shape of one ledger entry, matching the Actual Budget
// transaction payload.
type Record struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Amount     int64   `json:"amount"`
	Payee      string  `json:"payee"`
	Category   *string `json:"category"`
	Account    string  `json:"account"`
	Notes      *string `json:"notes"`
	IsTransfer bool    `json:"isTransfer"`
}

// Transaction converts the record, failing on a malformed date.
func (r Record) Transaction() (core.Transaction, error) {
	d, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: date %q: %w", r.ID, r.Date, err)
	}
	t := core.Transaction{
		ID:         r.ID,
		Date:       d,
		Amount:     core.Money{Cents: r.Amount},
		Payee:      r.Payee,
		Account:    r.Account,
		IsTransfer: r.IsTransfer,
	}
	if r.Category != nil {
		t.Category = *r.Category
	}
	if r.Notes != nil {
		t.Notes = *r.Notes
	}
	return t, nil
}

// ParseLedger decodes a JSON array of records.
func ParseLedger(data []byte) ([]core.Transaction, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	out := make([]core.Transaction, 0, len(records))
	for _, r := range records {
		t, err := r.Transaction()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// NewFromFile loads a JSON ledger file.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	txns, err := ParseLedger(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(txns), nil
}

// Add appends transactions to the ledger.
func (s *Store) Add(txns ...core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, txns...)
}

// Transactions implements sources.TransactionSource.
func (s *Store) Transactions(_ context.Context, start, end core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []core.Transaction{}
	for _, t := range s.items {
		if sources.InRange(t.Date, start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Categories returns the distinct category names in the ledger, sorted.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	for _, t := range s.items {
		c := strings.TrimSpace(t.Category)
		if c == "" {
			continue
		}
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
