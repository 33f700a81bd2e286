package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxDocumentSize limits a single document to 10MB (after decompression)
const MaxDocumentSize = 10 * 1024 * 1024

// prescanLimit matches the window the HTML encoding prescan inspects
const prescanLimit = 1024

// ErrDocumentParse is returned when a document cannot be read or parsed
var ErrDocumentParse = errors.New("document parse failed")

// Document is a parsed HTML tree
type Document struct {
	Root *html.Node
	MIME string
	Size int
}

// Parse reads and parses a source. All source kinds share this path.
func Parse(src Source) (*Document, error) {
	return parseStream(src.Reader())
}

// ParseFile opens, parses and closes the file at path
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}
	defer f.Close()

	return Parse(FromReader(f))
}

func parseStream(r io.Reader) (*Document, error) {
	data, err := readLimited(r)
	if err != nil {
		return nil, err
	}

	mt := mimetype.Detect(data)
	if mt.Is("application/gzip") {
		if data, err = gunzip(data); err != nil {
			return nil, err
		}
		mt = mimetype.Detect(data)
	}

	if !isText(mt) {
		return nil, fmt.Errorf("%w: content is %s, not markup", ErrDocumentParse, mt.String())
	}

	utf8Reader, err := toUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("%w: charset: %v", ErrDocumentParse, err)
	}

	root, err := htmlquery.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}

	return &Document{Root: root, MIME: mt.String(), Size: len(data)}, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read failed: %v", ErrDocumentParse, err)
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: document exceeds maximum size of %d bytes", ErrDocumentParse, MaxDocumentSize)
	}
	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrDocumentParse, err)
	}
	defer zr.Close()

	return readLimited(zr)
}

// isText reports whether mt is text/plain or one of its descendants
// (text/html, text/xml, application/xhtml+xml, ...)
func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// toUTF8 honours a BOM or <meta> charset declaration and falls back to
// statistical detection only for undeclared, non-UTF-8 input.
func toUTF8(data []byte) (io.Reader, error) {
	// charset.NewReader reports EOF on empty input
	if len(data) == 0 {
		return bytes.NewReader(data), nil
	}

	contentType := "text/html"
	if !utf8.Valid(data) && !declaresCharset(data) {
		if guess := DetectCharset(data); guess != "" {
			contentType += "; charset=" + guess
		}
	}
	return charset.NewReader(bytes.NewReader(data), contentType)
}

// declaresCharset reports whether a <meta> tag in the prescan window sets
// charset=, either as an attribute or inside a content type.
func declaresCharset(data []byte) bool {
	if len(data) > prescanLimit {
		data = data[:prescanLimit]
	}
	rest := bytes.ToLower(data)
	for {
		start := bytes.Index(rest, []byte("<meta"))
		if start < 0 {
			return false
		}
		rest = rest[start+len("<meta"):]

		tag := rest
		if end := bytes.IndexByte(rest, '>'); end >= 0 {
			tag = rest[:end]
		}
		if bytes.Contains(tag, []byte("charset=")) {
			return true
		}
	}
}

// DetectCharset guesses the charset of raw bytes, or returns "" if unsure
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}
