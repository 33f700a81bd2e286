package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAddPreservesOrder(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("links", "//a"))
	require.NoError(t, s.Add("images", "//img"))
	require.NoError(t, s.AddCriterion(Criterion{Name: "cards", Query: "div.card", Dialect: DialectCSS}))

	assert.Equal(t, []string{"links", "images", "cards"}, s.Names())
	assert.Equal(t, 3, s.Len())

	c, err := s.Get("links")
	require.NoError(t, err)
	assert.Equal(t, Criterion{Name: "links", Query: "//a", Dialect: DialectXPath}, c)
}

func TestStoreRejectsDuplicateWithoutMutation(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("links", "//a"))

	err := s.Add("links", "//link")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, []string{"links"}, s.Names())

	c, err := s.Get("links")
	require.NoError(t, err)
	assert.Equal(t, "//a", c.Query)
}

func TestStoreRejectsInvalidQuery(t *testing.T) {
	tests := []struct {
		name string
		c    Criterion
	}{
		{"empty query", Criterion{Name: "links"}},
		{"blank query", Criterion{Name: "links", Query: "   "}},
		{"unknown dialect", Criterion{Name: "links", Query: "//a", Dialect: "regex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			assert.ErrorIs(t, s.AddCriterion(tt.c), ErrInvalidQuery)
			assert.Empty(t, s.Names())
		})
	}
}

func TestStoreRejectsEmptyName(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Add("", "//a"), ErrInvalidName)
	assert.Zero(t, s.Len())
}

func TestStoreGetUnknown(t *testing.T) {
	_, err := NewStore().Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreNamesReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("links", "//a"))

	names := s.Names()
	names[0] = "changed"

	assert.Equal(t, []string{"links"}, s.Names())
}

func TestZeroStoreIsUsable(t *testing.T) {
	var s Store
	require.NoError(t, s.Add("links", "//a"))
	assert.Equal(t, []string{"links"}, s.Names())
}

func TestCriteriaOrder(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add("b", "//b"))
	require.NoError(t, s.Add("a", "//a"))

	got := s.Criteria()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, "a", got[1].Name)
}
