// Package catalog loads and saves card files and enumerates the JSON files of
// a pipeline stage directory.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	domain "github.com/donaldgifford/card-price-catalog/pkg/types"
)

// Input-format error kinds returned (wrapped) by Load, LoadSet and ListJSON.
var (
	ErrNotFound     = errors.New("file not found")
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrMissingCards = errors.New(`unexpected format: expected an object with a "cards" key`)
)

// Load reads a {"cards": [...]} file. A top level that is not an object, or an
// object without a "cards" array, is ErrMissingCards.
func Load(path string) (*domain.CardFile, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingCards)
	}
	cards, err := cardList(obj["cards"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &domain.CardFile{Cards: cards}, nil
}

// LoadSet reads a card set file. Besides the {"cards": [...]} envelope it
// accepts a bare top-level array of cards.
func LoadSet(path string) (*domain.CardFile, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	var list any = raw
	if obj, ok := raw.(map[string]any); ok {
		list = obj["cards"]
	}

	cards, err := cardList(list)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &domain.CardFile{Cards: cards}, nil
}

// Save writes f to path as two-space indented JSON, creating parent
// directories as needed.
func Save(path string, f *domain.CardFile) error {
	if f.Cards == nil {
		f = &domain.CardFile{Cards: []domain.Card{}}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // output is not secret
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ListJSON returns the *.json regular files directly inside dir in lexical
// order.
func ListJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("directory %s: %w", dir, ErrNotFound)
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readJSON(path string) (any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted CLI flag or config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrInvalidJSON, err)
	}
	return raw, nil
}

// cardList converts a decoded "cards" value into cards. Entries that are not
// objects are dropped; the card-level code only ever sees objects.
func cardList(v any) ([]domain.Card, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, ErrMissingCards
	}

	cards := make([]domain.Card, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			cards = append(cards, domain.Card(obj))
		}
	}
	return cards, nil
}
