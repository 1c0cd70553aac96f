package commands

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/api"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /accounts/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": "ACT-1", "name": "Checking", "org_name": "First Bank", "balance": "1500.00", "account_number_last4": "1234"},
			{"id": 42, "name": "Card", "balance": -200}
		]`)
	})
	mux.HandleFunc("GET /accounts/ACT-1/transactions/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": "T1", "account_id": "ACT-1", "posted_date": "2024-01-05", "amount": "-12.50", "description": "Coffee"},
			{"id": "T2", "account_id": "ACT-1", "posted_date": "2024-02-10", "amount": "100", "description": "Refund", "pending": true}
		]`)
	})
	mux.HandleFunc("GET /accounts/EMPTY/transactions/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	mux.HandleFunc("GET /accounts/GONE/transactions/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not found"}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("FINBOARD_MODE", "development")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAccountsCommand(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "--api-url", backend.URL, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "Checking")
	assert.Contains(t, out, "First Bank")
	assert.Contains(t, out, "xxxx1234")
	assert.Contains(t, out, "$1,500.00")
	assert.Contains(t, out, "-$200.00")
	assert.Contains(t, out, "Net Worth: $1,300.00")
}

func TestTransactionsCommand(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "--api-url", backend.URL, "transactions", "ACT-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Transactions for ACT-1")
	assert.Contains(t, out, "Feb 10, 2024")
	assert.Contains(t, out, "-$12.50")
	assert.Contains(t, out, "Pending")
	assert.Less(t, bytes.Index([]byte(out), []byte("Refund")), bytes.Index([]byte(out), []byte("Coffee")))

	out, err = execute(t, "--api-url", backend.URL, "transactions", "EMPTY")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions found for this account.")
}

func TestTransactionsCommandErrors(t *testing.T) {
	backend := newBackend(t)

	_, err := execute(t, "--api-url", backend.URL, "transactions", "GONE")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotFound)

	_, err = execute(t, "--api-url", backend.URL, "transactions")
	assert.Error(t, err)
}

func TestInvalidFlags(t *testing.T) {
	_, err := execute(t, "--mode", "staging", "accounts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")

	_, err = execute(t, "--api-url", "ftp://example.com", "accounts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestModeFlagIsCaseInsensitive(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "--mode", "Production", "--api-url", backend.URL, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "Net Worth: $1,300.00")
}

func TestBackendDown(t *testing.T) {
	backend := newBackend(t)
	url := backend.URL
	backend.Close()

	_, err := execute(t, "--api-url", url, "accounts")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNetwork)
}
