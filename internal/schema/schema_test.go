package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleOrders(t *testing.T) {
	features := []string{"links", "images"}
	meta := []string{"path", "file"}

	cols, err := Assemble(features, meta, MetadataFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"path", "file", "links", "images"}, cols)

	cols, err = Assemble(features, meta, FeaturesFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"links", "images", "path", "file"}, cols)
}

func TestAssembleLengthAndUniqueness(t *testing.T) {
	features := []string{"a", "b", "c"}
	meta := []string{"path", "file"}

	for _, order := range []Order{MetadataFirst, FeaturesFirst} {
		cols, err := Assemble(features, meta, order)
		require.NoError(t, err)
		assert.Len(t, cols, len(features)+len(meta))

		seen := map[string]bool{}
		for _, c := range cols {
			assert.False(t, seen[c], "duplicate column %q", c)
			seen[c] = true
		}
	}
}

func TestAssembleRejectsCollisions(t *testing.T) {
	_, err := Assemble([]string{"file", "links"}, []string{"path", "file"}, MetadataFirst)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = Assemble([]string{"links"}, []string{"path", "path"}, MetadataFirst)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestAssembleMergedFoldsCollisions(t *testing.T) {
	cols, err := AssembleMerged([]string{"file", "links"}, []string{"path", "file"}, MetadataFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"path", "file", "links"}, cols)

	cols, err = AssembleMerged([]string{"file", "links"}, []string{"path", "file"}, FeaturesFirst)
	require.NoError(t, err)
	assert.Equal(t, []string{"links", "path", "file"}, cols)

	assert.Equal(t, []string{"file"}, Collisions([]string{"file", "links"}, []string{"path", "file"}))
}

func TestAssembleUnknownOrder(t *testing.T) {
	_, err := Assemble([]string{"a"}, nil, Order("sideways"))
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("FEATURES_FIRST")
	require.NoError(t, err)
	assert.Equal(t, FeaturesFirst, o)

	o, err = ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, MetadataFirst, o)

	_, err = ParseOrder("random")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cols := []string{"path", "links"}

	assert.NoError(t, Validate(cols, map[string]any{"path": "/tmp", "links": 3}))

	err := Validate(cols, map[string]any{"path": "/tmp"})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "links")

	err = Validate(cols, map[string]any{"path": "/tmp", "links": 3, "images": 0})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "images")
}
