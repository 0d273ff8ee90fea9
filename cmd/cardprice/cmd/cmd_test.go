package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to stdout.
// The commands share package-level state, so these tests do not run in
// parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })

	cfg := filepath.Join(t.TempDir(), "absent.yaml")
	rootCmd.SetArgs(append([]string{"--config", cfg, "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "all_rare_cards.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const testCorpus = `{"cards": [
	{"name": "A", "rarity": "Ultra Rare", "tcgplayer": {"prices": {"normal": {"market": 100}}}},
	{"name": "B", "rarity": "Hyper Rare", "tcgplayer": {"prices": {"holofoil": {"market": 50}, "normal": null}}},
	{"name": "C", "rarity": "Illustration Rare"}
]}`

func TestAnalyzeCmd_Text(t *testing.T) {
	out, err := execute(t, "analyze", writeCorpus(t, testCorpus), "--output", "text", "--top", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Cards with market price data: 2")
	assert.Contains(t, out, "Cards missing market price data: 1")
	assert.Contains(t, out, "Top 2 most valuable cards (by market price):")
	assert.Contains(t, out, "1. A (Ultra Rare): $100.00\n2. B (Hyper Rare): $50.00\n")
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	out, err := execute(t, "analyze", writeCorpus(t, testCorpus), "--output", "json", "--top", "5")
	require.NoError(t, err)

	var got struct {
		Summary struct {
			PricedCount int       `json:"priced_count"`
			Prices      []float64 `json:"prices"`
		} `json:"summary"`
		Stats struct {
			Mean float64 `json:"mean"`
		} `json:"stats"`
		Top []struct {
			Name string `json:"name"`
		} `json:"top"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Summary.PricedCount)
	assert.Equal(t, []float64{100, 50}, got.Summary.Prices)
	assert.InDelta(t, 75.0, got.Stats.Mean, 1e-9)
	assert.Len(t, got.Top, 2)
}

func TestAnalyzeCmd_NoData(t *testing.T) {
	out, err := execute(t, "analyze", writeCorpus(t, `{"cards": [{"name": "C"}]}`), "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "No market price data found in the cards")
}

func TestAnalyzeCmd_IncludeZero(t *testing.T) {
	corpus := writeCorpus(t, `{"cards": [{"name": "Promo", "rarity": "Promo", "tcgplayer": {"prices": {"normal": {"market": 0}}}}]}`)

	out, err := execute(t, "analyze", corpus, "--output", "text", "--include-zero=true")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Promo (Promo): $0.00")

	out, err = execute(t, "analyze", corpus, "--output", "text", "--include-zero=false")
	require.NoError(t, err)
	assert.Contains(t, out, "No market price data found in the cards")
}

func TestAnalyzeCmd_FormatError(t *testing.T) {
	_, err := execute(t, "analyze", filepath.Join(t.TempDir(), "missing.json"), "--output", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	_, err = execute(t, "analyze", writeCorpus(t, `[]`), "--output", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"cards" key`)
}

func TestCombineAndFilterCmds(t *testing.T) {
	dir := t.TempDir()
	priced := filepath.Join(dir, "priced")
	rare := filepath.Join(dir, "rare")
	corpus := filepath.Join(dir, "all.json")
	require.NoError(t, os.MkdirAll(priced, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(priced, "sv1_with_prices.json"),
		[]byte(`{"cards": [{"id": "1", "rarity": "Common"}, {"id": "2", "rarity": "Hyper Rare"}]}`), 0o600))

	out, err := execute(t, "filter", "--in", priced, "--out", rare, "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "sv1_rare.json")

	out, err = execute(t, "combine", "--in", rare, "--out", corpus, "--output", "text")
	require.NoError(t, err)
	assert.Contains(t, out, corpus)

	data, err := os.ReadFile(corpus)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source_set": "sv1_rare"`)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cardprice dev\n", out)
}
