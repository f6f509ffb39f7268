package actual

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetreport/internal/core"
)

type fakeServer struct {
	categoryCalls  atomic.Int32
	lastQuery      atomic.Value
	failCategories atomic.Bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/account/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Method != http.MethodPost || body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","reason":"invalid-password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","data":{"token":"tok-1"}}`))
	})
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(tokenHeader) != "tok-1" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/transactions", auth(func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"data":[
			{"id":"t1","date":"2025-01-06","amount":-4550,"payee":"Market","category":"cat-groc","account":"Checking","notes":null,"isTransfer":false},
			{"id":"t2","date":"2025-01-07","amount":250000,"payee":"Employer","category":"Salary","account":"Checking","notes":"Jan"},
			{"id":"t3","date":"2025-01-08","amount":-10000,"payee":"Savings","category":null,"account":"Checking","isTransfer":true}
		]}`))
	}))
	mux.HandleFunc("/categories", auth(func(w http.ResponseWriter, r *http.Request) {
		f.categoryCalls.Add(1)
		if f.failCategories.Load() {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"data":[
			{"id":"cat-groc","name":"Groceries","group":"Food","isIncome":false},
			{"id":"cat-sal","name":"Salary","group":"Income","isIncome":true}
		]}`))
	}))
	mux.HandleFunc("/accounts", auth(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"a1","name":"Checking","closed":false}]}`))
	}))
	return mux
}

func newTestClient(t *testing.T, password string) (*Client, *fakeServer) {
	t.Helper()
	fs := &fakeServer{}
	srv := httptest.NewServer(fs.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", password, WithHTTPClient(srv.Client())), fs
}

func TestLoginAndTransactions(t *testing.T) {
	c, fs := newTestClient(t, "secret")
	ctx := context.Background()

	require.NoError(t, c.Login(ctx))

	txns, err := c.Transactions(ctx, core.NewDate(2025, 1, 6), core.NewDate(2025, 1, 12))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "endDate=2025-01-12&startDate=2025-01-06", fs.lastQuery.Load())
	assert.Equal(t, "Groceries", txns[0].Category, "category id resolves to its name")
	assert.Equal(t, int64(-4550), txns[0].Amount.Cents)
	assert.Equal(t, "", txns[0].Notes)
	assert.Equal(t, "Salary", txns[1].Category, "unknown ids pass through")
	assert.Equal(t, "Jan", txns[1].Notes)
	assert.Equal(t, "", txns[2].Category)
	assert.True(t, txns[2].IsTransfer)

	_, err = c.Transactions(ctx, core.NewDate(2024, 12, 30), core.NewDate(2025, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, int32(1), fs.categoryCalls.Load(), "category list is cached between calls")
}

func TestTransactionsKeepRawCategoriesWhenListFails(t *testing.T) {
	c, fs := newTestClient(t, "secret")
	fs.failCategories.Store(true)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx))

	txns, err := c.Transactions(ctx, core.NewDate(2025, 1, 6), core.NewDate(2025, 1, 12))
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "cat-groc", txns[0].Category)
	assert.Equal(t, "Salary", txns[1].Category)

	fs.failCategories.Store(false)
	txns, err = c.Transactions(ctx, core.NewDate(2025, 1, 6), core.NewDate(2025, 1, 12))
	require.NoError(t, err)
	assert.Equal(t, "Groceries", txns[0].Category, "names resolve once the list is reachable")
}

func TestCategoriesAndAccounts(t *testing.T) {
	c, _ := newTestClient(t, "secret")
	ctx := context.Background()
	require.NoError(t, c.Login(ctx))

	names, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Salary"}, names)

	accounts, err := c.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Checking", accounts[0].Name)
}

func TestNotLoggedIn(t *testing.T) {
	c, _ := newTestClient(t, "secret")
	_, err := c.Transactions(context.Background(), core.NewDate(2025, 1, 6), core.NewDate(2025, 1, 12))
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoginRejected(t *testing.T) {
	c, _ := newTestClient(t, "wrong")
	err := c.Login(context.Background())
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Contains(t, se.Error(), "invalid-password")
}

func TestLoginWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", WithHTTPClient(srv.Client()))
	assert.ErrorIs(t, c.Login(context.Background()), ErrNoToken)
}
