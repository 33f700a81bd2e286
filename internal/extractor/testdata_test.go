package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/featurecount/internal/criteria"
	"github.com/stretchr/testify/require"
)

const (
	// 3 links, 0 images, 2 cards
	linksPage = `<!DOCTYPE html>
<html>
<head><title>Links</title></head>
<body>
	<div class="card"><a href="/one">One</a></div>
	<div class="card"><a href="/two">Two</a></div>
	<p><a href="/three">Three</a></p>
</body>
</html>`

	// 1 link, 2 images
	imagesPage = `<html><body>
	<img src="/a.png"><img src="/b.png">
	<a href="/home">Home</a>
</body></html>`
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func linkStore(t *testing.T) *criteria.Store {
	t.Helper()
	s := criteria.NewStore()
	require.NoError(t, s.Add("links", "//a"))
	require.NoError(t, s.Add("images", "//img"))
	return s
}

func writeFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
	}
}
