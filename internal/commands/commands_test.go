package commands_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/commands"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/results"
)

var answers = map[string]string{
	"TESCO STORES":              "SUPERMARKET,groceries run",
	"ARM LTD PAY":               "PAY,salary",
	"JOHN SMITH REIMBURSEMENT":  "TRANSFERS_FROM_FRIENDS,friend refund",
	"DIRECT LINE INSURANCE":     "MANDATORY_BILLS,car insurance",
	"STAGECOACH BUS, CAMBRIDGE": "TRANSPORT,bus fare",
	"SPOTIFY P1234567":          "SERVICES,music subscription",
}

// fakeOllama answers classification prompts from answers and the trend
// prompt with a fixed report. Descriptions in fail get a 500.
func fakeOllama(t *testing.T, fail ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		for _, f := range fail {
			if strings.Contains(req.Prompt, "'"+f+"'") || (f == "trend" && strings.Contains(req.Prompt, "Category totals:")) {
				http.Error(w, "model crashed", http.StatusInternalServerError)
				return
			}
		}

		reply := "Spend less on groceries."
		for desc, answer := range answers {
			if strings.Contains(req.Prompt, "'"+desc+"'") {
				reply = answer
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": reply})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeConfig(t *testing.T, url string) string {
	t.Helper()
	cfg := config.Default()
	cfg.Backend.Local.URL = url
	cfg.Log.Level = "error"
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	require.NoError(t, config.Save(path, cfg))
	return path
}

func statementPath() string {
	return filepath.Join("..", "..", "testdata", "statement.csv")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze(t *testing.T) {
	srv, calls := fakeOllama(t)
	cfgPath := writeConfig(t, srv.URL)

	out, err := run(t, "analyze", "--config", cfgPath, statementPath())
	require.NoError(t, err, out)

	assert.Contains(t, out, "Transactions: 6 (0 unclassified)")
	assert.Regexp(t, `Paid out\s+£100\.68`, out)
	assert.Regexp(t, `Paid in\s+£2500\.00`, out)
	assert.Regexp(t, `Reimbursements\s+£30\.00`, out)
	assert.Regexp(t, `SUPERMARKET\s+£45\.20`, out)
	assert.Regexp(t, `SERVICES\s+£11\.99`, out)
	assert.Regexp(t, `OTHER\s+£0\.00`, out)
	assert.Contains(t, out, "Spend less on groceries.")
	assert.Equal(t, int32(7), calls.Load(), "six classifications and one report")
}

func TestAnalyze_Concurrent(t *testing.T) {
	srv, _ := fakeOllama(t)
	cfgPath := writeConfig(t, srv.URL)

	out, err := run(t, "analyze", "--config", cfgPath, "--concurrency", "4", "--no-report", statementPath())
	require.NoError(t, err, out)
	assert.Regexp(t, `Paid out\s+£100\.68`, out)
	assert.NotContains(t, out, "Trend report")
}

func TestAnalyze_ItemFailureIsNotFatal(t *testing.T) {
	srv, _ := fakeOllama(t, "SPOTIFY P1234567")
	cfgPath := writeConfig(t, srv.URL)

	out, err := run(t, "analyze", "--config", cfgPath, "--no-report", statementPath())
	require.NoError(t, err, out)
	assert.Contains(t, out, "Transactions: 6 (1 unclassified)")
	assert.Regexp(t, `OTHER\s+£11\.99`, out)
	assert.Regexp(t, `SERVICES\s+£0\.00`, out)
	assert.Regexp(t, `Paid out\s+£100\.68`, out)
}

func TestAnalyze_ReportFailureKeepsTotals(t *testing.T) {
	srv, _ := fakeOllama(t, "trend")
	cfgPath := writeConfig(t, srv.URL)

	out, err := run(t, "analyze", "--config", cfgPath, statementPath())
	require.NoError(t, err, out)
	assert.Regexp(t, `Paid in\s+£2500\.00`, out)
	assert.Contains(t, out, "Trend report unavailable.")
}

func TestAnalyze_Directory(t *testing.T) {
	srv, _ := fakeOllama(t)
	cfgPath := writeConfig(t, srv.URL)

	dir := t.TempDir()
	data, err := os.ReadFile(statementPath())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feb.CSV"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	out, err := run(t, "analyze", "--config", cfgPath, "--no-report", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Transactions: 12 (0 unclassified)")
	assert.Regexp(t, `Paid in\s+£5000\.00`, out)
}

func TestAnalyze_Details(t *testing.T) {
	srv, _ := fakeOllama(t, "SPOTIFY P1234567")
	cfgPath := writeConfig(t, srv.URL)

	out, err := run(t, "analyze", "--config", cfgPath, "--no-report", "--details", statementPath())
	require.NoError(t, err, out)

	listing, summary, ok := strings.Cut(out, "\n\n")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(summary, "Transactions: 6"))

	txns, err := results.Read(strings.NewReader(listing))
	require.NoError(t, err)
	require.Len(t, txns, 6)
	assert.Equal(t, "SUPERMARKET", txns[0].Category)
	assert.Equal(t, "groceries run", txns[0].ShortDescription)
	assert.Equal(t, "STAGECOACH BUS, CAMBRIDGE", txns[4].Description)
	assert.Equal(t, "OTHER", txns[5].Category, "failed item keeps its default")
	assert.Empty(t, txns[5].ShortDescription)
}

func TestAnalyze_MalformedRowIsFatal(t *testing.T) {
	srv, calls := fakeOllama(t)
	cfgPath := writeConfig(t, srv.URL)

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Date,Type,Description,Amount\nyesterday,DEB,TESCO,1.00\n"), 0o644))

	_, err := run(t, "analyze", "--config", cfgPath, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed input row")
	assert.Zero(t, calls.Load(), "no backend calls before input is valid")
}

func TestAnalyze_MissingExplicitConfig(t *testing.T) {
	_, err := run(t, "analyze", "--config", filepath.Join(t.TempDir(), "nope.yaml"), statementPath())
	require.Error(t, err)
}

func TestAnalyze_RemoteWithoutKey(t *testing.T) {
	srv, _ := fakeOllama(t)
	cfgPath := writeConfig(t, srv.URL)

	_, err := run(t, "analyze", "--config", cfgPath, "--backend", "remote", statementPath())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestAnalyze_RequiresArgs(t *testing.T) {
	_, err := run(t, "analyze")
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, config.DefaultFile)

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = run(t, "init", dir)
	require.Error(t, err, "refuses to overwrite")
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", dir, "--force")
	require.NoError(t, err)
}

func TestCategories(t *testing.T) {
	out, err := run(t, "categories")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "SUPERMARKET")
	assert.Contains(t, lines[0], "british supermarkets")
	assert.Contains(t, lines[9], "OTHER")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "spendlens version")
}
