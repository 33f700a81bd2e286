package criteria

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"features.json", `{"features_to_count": [
			{"name": "links", "xpath": "//a"},
			{"name": "images", "xpath": "//img"},
			{"name": "cards", "css": "div.card"}
		]}`},
		{"features.yaml", `
features_to_count:
  - name: links
    xpath: //a
  - name: images
    xpath: //img
  - name: cards
    css: div.card
`},
		{"features.toml", `
[[features_to_count]]
name = "links"
xpath = "//a"

[[features_to_count]]
name = "images"
xpath = "//img"

[[features_to_count]]
name = "cards"
css = "div.card"
`},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			store, err := LoadFile(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, []string{"links", "images", "cards"}, store.Names())

			cards, err := store.Get("cards")
			require.NoError(t, err)
			assert.Equal(t, DialectCSS, cards.Dialect)
			assert.Equal(t, "div.card", cards.Query)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorIs(t, err, ErrConfigFormat)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "features.ini", "x=1"))
		assert.ErrorIs(t, err, ErrConfigFormat)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "features.json", `{"features_to_count": [`))
		assert.ErrorIs(t, err, ErrConfigFormat)
	})

	t.Run("missing top-level key", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "features.json", `{"features": []}`))
		assert.ErrorIs(t, err, ErrConfigFormat)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "features.json", `{"features_to_count": [
			{"name": "links", "xpath": "//a"},
			{"name": "links", "xpath": "//link"}
		]}`))
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("entry without query", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "features.json", `{"features_to_count": [{"name": "links"}]}`))
		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("entry with both dialects", func(t *testing.T) {
		_, err := LoadFile(writeConfig(t, "features.json",
			`{"features_to_count": [{"name": "links", "xpath": "//a", "css": "a"}]}`))
		assert.ErrorIs(t, err, ErrConfigFormat)
	})
}

func TestLoadEmptyList(t *testing.T) {
	store, err := Load(strings.NewReader(`{"features_to_count": []}`), FormatJSON)
	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func TestLoadIntoIsAllOrNothing(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add("links", "//a"))

	path := writeConfig(t, "features.json", `{"features_to_count": [
		{"name": "images", "xpath": "//img"},
		{"name": "links", "xpath": "//link"}
	]}`)

	err := LoadInto(store, path)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, []string{"links"}, store.Names())
}

func TestLoadIntoAppends(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add("links", "//a"))

	path := writeConfig(t, "features.yml", "features_to_count:\n  - name: images\n    xpath: //img\n")
	require.NoError(t, LoadInto(store, path))
	assert.Equal(t, []string{"links", "images"}, store.Names())
}
