package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/card-price-catalog/internal/catalog"
	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		missing   bool
		wantErr   error
		wantCards int
	}{
		{
			name:      "valid envelope",
			content:   `{"cards": [{"id": "sv1-1", "name": "Sprigatito"}, {"id": "sv1-2"}]}`,
			wantCards: 2,
		},
		{
			name:      "empty cards",
			content:   `{"cards": []}`,
			wantCards: 0,
		},
		{
			name:      "non-object entries dropped",
			content:   `{"cards": [{"id": "sv1-1"}, 3, null, "x"]}`,
			wantCards: 1,
		},
		{
			name:    "missing file",
			missing: true,
			wantErr: catalog.ErrNotFound,
		},
		{
			name:    "invalid json",
			content: `{"cards": [`,
			wantErr: catalog.ErrInvalidJSON,
		},
		{
			name:    "trailing garbage",
			content: `{"cards": []} extra`,
			wantErr: catalog.ErrInvalidJSON,
		},
		{
			name:    "missing cards key",
			content: `{"data": []}`,
			wantErr: catalog.ErrMissingCards,
		},
		{
			name:    "top level array",
			content: `[{"id": "sv1-1"}]`,
			wantErr: catalog.ErrMissingCards,
		},
		{
			name:    "cards not a list",
			content: `{"cards": {"id": "sv1-1"}}`,
			wantErr: catalog.ErrMissingCards,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "cards.json")
			if !tt.missing {
				path = writeFile(t, dir, "cards.json", tt.content)
			}

			f, err := catalog.Load(path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				return
			}

			require.NoError(t, err)
			assert.Len(t, f.Cards, tt.wantCards)
		})
	}
}

func TestLoadSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	f, err := catalog.LoadSet(writeFile(t, dir, "bare.json", `[{"id": "a"}, {"id": "b"}]`))
	require.NoError(t, err)
	require.Len(t, f.Cards, 2)
	assert.Equal(t, "b", f.Cards[1].ID())

	f, err = catalog.LoadSet(writeFile(t, dir, "wrapped.json", `{"cards": [{"id": "c"}]}`))
	require.NoError(t, err)
	require.Len(t, f.Cards, 1)
	assert.Equal(t, "c", f.Cards[0].ID())

	_, err = catalog.LoadSet(writeFile(t, dir, "scalar.json", `42`))
	require.ErrorIs(t, err, catalog.ErrMissingCards)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	in := &domain.CardFile{Cards: []domain.Card{
		{"id": "sv3pt5-199", "name": "Charizard ex", "set": map[string]any{"id": "sv3pt5"}},
	}}

	require.NoError(t, catalog.Save(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"cards\": [")

	out, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, out.Cards, 1)
	assert.Equal(t, "Charizard ex", out.Cards[0].Name())
	assert.Equal(t, map[string]any{"id": "sv3pt5"}, out.Cards[0]["set"])
}

func TestSave_NilCardsWritesEmptyList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, catalog.Save(path, &domain.CardFile{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cards": []}`, string(data))
}

func TestListJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b_set.json", `{}`)
	writeFile(t, dir, "a_set.json", `{}`)
	writeFile(t, dir, "notes.txt", `x`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	got, err := catalog.ListJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a_set.json"),
		filepath.Join(dir, "b_set.json"),
	}, got)

	_, err = catalog.ListJSON(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sv1_with_prices", catalog.Stem("/data/priced/sv1_with_prices.json"))
	assert.Equal(t, "set", catalog.Stem("set"))
}
