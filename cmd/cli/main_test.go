package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newServer(t *testing.T, method, path string, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method || r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestQueryString(t *testing.T) {
	assert.Equal(t, "", queryString(map[string]string{"start": "", "limit": "0"}))
	assert.Equal(t, "?end=2024-01-31&start=2024-01-01",
		queryString(map[string]string{"start": "2024-01-01", "end": "2024-01-31"}))
}

func TestConsistencyCmd_Passed(t *testing.T) {
	srv := newServer(t, http.MethodGet, "/api/v1/ledger/consistency", http.StatusOK,
		`{"consistent":true,"entries":3,"advances":1,"final_balance":"250"}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "consistency")

	require.NoError(t, err)
	assert.Contains(t, out, "Consistency check PASSED")
	assert.Contains(t, out, "Final balance: 250.00")
}

func TestConsistencyCmd_FailedReportsMismatches(t *testing.T) {
	srv := newServer(t, http.MethodGet, "/api/v1/ledger/consistency", http.StatusConflict,
		`{"consistent":false,"entries":2,"final_balance":"100",
		  "balance_mismatches":[{"entry_id":"e-2","stored":"90","expected":"100"}]}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "consistency")

	require.Error(t, err)
	assert.Contains(t, out, "Consistency check FAILED")
	assert.Contains(t, out, "entry e-2: stored 90.00, expected 100.00")
}

func TestReportCmd_RendersCategories(t *testing.T) {
	srv := newServer(t, http.MethodGet, "/api/v1/ledger/report", http.StatusOK,
		`{"start_date":"2024-01-01","end_date":"2024-01-31","total_credits":"1000","total_debits":"300","net":"700",
		  "by_category":[{"category":"RENT","credits":"1000","debits":"0"},{"category":"REPAIRS","credits":"0","debits":"300"}]}`)

	out, err := execute(t, "--url", srv.URL, "ledger", "report", "--start", "2024-01-01", "--end", "2024-01-31")

	require.NoError(t, err)
	assert.Contains(t, out, "Report 2024-01-01 to 2024-01-31")
	assert.Contains(t, out, "REPAIRS")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "Net: 700.00")
}

func TestReportCmd_RequiresPeriod(t *testing.T) {
	_, err := execute(t, "ledger", "report", "--start", "2024-01-01")
	require.Error(t, err)
}

func TestEntriesList_RendersTable(t *testing.T) {
	srv := newServer(t, http.MethodGet, "/api/v1/entries", http.StatusOK,
		`[{"id":"e-1","entry_date":"2024-01-05","type":"CREDIT","category":"RENT","description":"January rent",
		   "amount":"1000","running_balance":"1000"}]`)

	out, err := execute(t, "--url", srv.URL, "entries", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "DESCRIPTION")
	assert.Contains(t, out, "January rent")
	assert.Contains(t, out, "1000.00")
}

func TestAdvancesBalance(t *testing.T) {
	srv := newServer(t, http.MethodGet, "/api/v1/leases/lease-1/advance-balance", http.StatusOK,
		`{"lease_id":"lease-1","available":"400"}`)

	out, err := execute(t, "--url", srv.URL, "advances", "balance", "lease-1")

	require.NoError(t, err)
	assert.Contains(t, out, "lease-1")
	assert.Contains(t, out, "400.00")
}

func TestAdvancesApply_ReportsAPIError(t *testing.T) {
	srv := newServer(t, http.MethodPost, "/api/v1/leases/lease-1/apply-advances", http.StatusNotFound,
		`{"error":"failed to apply advances","message":"lease not found"}`)

	_, err := execute(t, "--url", srv.URL, "advances", "apply", "lease-1")

	require.Error(t, err)
	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, err.Error(), "lease not found")
}

func TestMigrateCmd_SQLiteUpAndDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	out, err := execute(t, "migrate", "--driver", "sqlite", "--sqlite-path", path, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations up complete")

	out, err = execute(t, "migrate", "--driver", "sqlite", "--sqlite-path", path, "down")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations down complete")
}

func TestMigrateCmd_UnknownDriver(t *testing.T) {
	_, err := execute(t, "migrate", "--driver", "mysql", "up")
	require.ErrorContains(t, err, "unknown driver")
}
