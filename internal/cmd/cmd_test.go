package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/featurecount/internal/document"
	"github.com/GriffinCanCode/featurecount/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	linksPage  = `<html><body><a href="/1">1</a><a href="/2">2</a><a href="/3">3</a></body></html>`
	imagesPage = `<html><body><a href="/1">1</a><img src="a.png"><img src="b.png"></body></html>`

	criteriaYAML = `features_to_count:
  - name: links
    xpath: //a
  - name: images
    xpath: //img
`
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// clearEnv keeps the caller's environment out of flag resolution
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "FEATURECOUNT_") || key == "LOG_LEVEL" || key == "LOG_DEV" || key == "PORT" || key == "HOST" {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	t.Setenv("LOG_LEVEL", "error")
}

type fixture struct {
	criteria string
	dir      string
}

func setupFixture(t *testing.T, pages map[string][]byte) fixture {
	t.Helper()
	clearEnv(t)

	root := t.TempDir()
	criteria := filepath.Join(root, "features.yaml")
	require.NoError(t, os.WriteFile(criteria, []byte(criteriaYAML), 0o644))

	dir := filepath.Join(root, "pages")
	require.NoError(t, os.Mkdir(dir, 0o755))
	for name, data := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return fixture{criteria: criteria, dir: dir}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"extract", "schema", "serve"})
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, Version)
}

func TestExtractDirectoryCSV(t *testing.T) {
	f := setupFixture(t, map[string][]byte{
		"b.html": []byte(imagesPage),
		"a.html": []byte(linksPage),
		"notes":  []byte(linksPage),
	})

	stdout, stderr, err := run(t, "extract", "--criteria", f.criteria, "--dir", f.dir)
	require.NoError(t, err)

	want := "path,file,links,images\n" +
		f.dir + ",a.html,3,0\n" +
		f.dir + ",b.html,1,2\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, "done: 2 row(s), 0 skipped")
}

func TestExtractFilesFeaturesFirst(t *testing.T) {
	f := setupFixture(t, map[string][]byte{"a.html": []byte(linksPage)})
	page := filepath.Join(f.dir, "a.html")

	stdout, _, err := run(t, "extract", "--criteria", f.criteria, "--order", "features_first", "--format", "tsv", page)
	require.NoError(t, err)
	assert.Equal(t, "links\timages\tpath\tfile\n3\t0\t"+f.dir+"\ta.html\n", stdout)
}

func TestExtractAbortWritesPrefix(t *testing.T) {
	f := setupFixture(t, map[string][]byte{
		"a.html": []byte(linksPage),
		"b.html": pngBytes,
		"c.html": []byte(imagesPage),
	})

	stdout, stderr, err := run(t, "extract", "--criteria", f.criteria, "--dir", f.dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrDocumentParse)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], ",a.html,3,0"))
	assert.Contains(t, stderr, "aborted: 1 row(s)")
}

func TestExtractSkipPolicy(t *testing.T) {
	f := setupFixture(t, map[string][]byte{
		"a.html": []byte(linksPage),
		"b.html": pngBytes,
		"c.html": []byte(imagesPage),
	})

	stdout, stderr, err := run(t, "extract", "--criteria", f.criteria, "--dir", f.dir, "--policy", "skip")
	require.NoError(t, err)

	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 3)
	assert.Contains(t, stderr, "done: 2 row(s), 1 skipped")
	assert.Contains(t, stderr, "skipped b.html")
}

func TestExtractPolicyFromEnvironment(t *testing.T) {
	f := setupFixture(t, map[string][]byte{
		"a.html": []byte(linksPage),
		"b.html": pngBytes,
	})
	t.Setenv("FEATURECOUNT_ERROR_POLICY", "skip")

	_, _, err := run(t, "extract", "--criteria", f.criteria, "--dir", f.dir)
	require.NoError(t, err)

	_, _, err = run(t, "extract", "--criteria", f.criteria, "--dir", f.dir, "--policy", "abort")
	assert.Error(t, err)
}

func TestExtractJSONLToFileWithMetrics(t *testing.T) {
	f := setupFixture(t, map[string][]byte{"a.html": []byte(linksPage)})
	out := filepath.Join(t.TempDir(), "rows.jsonl")
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")

	stdout, _, err := run(t, "extract", "--criteria", f.criteria, "--dir", f.dir,
		"--format", "jsonl", "-o", out, "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `{"path":"`+f.dir+`","file":"a.html","links":3,"images":0}`+"\n", string(data))

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `featurecount_documents_total{status="ok"} 1`)
}

func TestExtractArgumentErrors(t *testing.T) {
	f := setupFixture(t, nil)

	_, _, err := run(t, "extract", "--dir", f.dir)
	assert.ErrorIs(t, err, errNoCriteria)

	_, _, err = run(t, "extract", "--criteria", f.criteria)
	assert.Error(t, err)

	_, _, err = run(t, "extract", "--criteria", f.criteria, "--dir", f.dir, "--format", "xml")
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	f := setupFixture(t, nil)

	stdout, _, err := run(t, "schema", "--criteria", f.criteria)
	require.NoError(t, err)
	assert.Equal(t, "path\nfile\nlinks\nimages\n", stdout)

	stdout, _, err = run(t, "schema", "--criteria", f.criteria, "--order", "features_first", "--meta", "source")
	require.NoError(t, err)
	assert.Equal(t, "links\nimages\nsource\n", stdout)

	_, _, err = run(t, "schema", "--criteria", f.criteria, "--meta", "links", "--collision", "fail")
	assert.ErrorIs(t, err, schema.ErrSchemaMismatch)
}

func TestExtractWarnsWhenMetadataReplacesFeature(t *testing.T) {
	f := setupFixture(t, map[string][]byte{"a.html": []byte(linksPage)})
	require.NoError(t, os.WriteFile(f.criteria, []byte(criteriaYAML+"  - name: file\n    xpath: //p\n"), 0o644))
	t.Setenv("LOG_LEVEL", "warn")

	stdout, stderr, err := run(t, "extract", "--criteria", f.criteria, "--dir", f.dir)
	require.NoError(t, err)
	assert.Equal(t, "path,file,links,images\n"+f.dir+",a.html,3,0\n", stdout)
	assert.Contains(t, stderr, "Metadata values replace features of the same name")
	assert.Contains(t, stderr, `"features":["file"]`)

	_, stderr, err = run(t, "extract", "--criteria", f.criteria, "--dir", f.dir, "--collision", "fail")
	assert.ErrorIs(t, err, schema.ErrSchemaMismatch)
	assert.NotContains(t, stderr, "Metadata values replace")
}
