package extractor

import (
	"fmt"
	"sync"

	"github.com/GriffinCanCode/featurecount/internal/criteria"
	"github.com/GriffinCanCode/featurecount/internal/document"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
)

// Row maps a column name to a match count (int) or a metadata value (string)
type Row map[string]any

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Engine evaluates criteria against parsed documents. Compiled queries are
// cached, so one Engine should be reused across documents. Safe for
// concurrent use.
type Engine struct {
	xpathCache sync.Map // query -> *compiledXPath
	cssCache   sync.Map // query -> cascadia.Selector
}

// NewEngine creates an engine with empty query caches
func NewEngine() *Engine {
	return &Engine{}
}

// Count returns one entry per criterion, in store order, holding the number
// of nodes its query matches in doc.
func (e *Engine) Count(store *criteria.Store, doc *document.Document) (Row, error) {
	row := make(Row, store.Len())

	var gq *goquery.Document
	for _, c := range store.Criteria() {
		var (
			n   int
			err error
		)
		switch c.Dialect {
		case criteria.DialectCSS:
			if gq == nil {
				gq = goquery.NewDocumentFromNode(doc.Root)
			}
			n, err = e.countCSS(gq, c.Query)
		default:
			n, err = e.countXPath(doc, c.Query)
		}
		if err != nil {
			return nil, &QueryError{Feature: c.Name, Query: c.Query, Dialect: c.Dialect, Err: err}
		}
		row[c.Name] = n
	}

	return row, nil
}

// compiledXPath serializes evaluation; xpath.Expr keeps per-evaluation
// state in its query tree.
type compiledXPath struct {
	mu   sync.Mutex
	expr *xpath.Expr
}

// countXPath counts nodes selected by an XPath expression. Expressions
// that do not yield a node-set count as zero.
func (e *Engine) countXPath(doc *document.Document, query string) (n int, err error) {
	compiled, err := e.compileXPath(query)
	if err != nil {
		return 0, err
	}

	compiled.mu.Lock()
	defer compiled.mu.Unlock()

	// The xpath evaluator panics on some type errors, e.g. sum() over strings
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%v", r)
		}
	}()

	iter, ok := compiled.expr.Evaluate(htmlquery.CreateXPathNavigator(doc.Root)).(*xpath.NodeIterator)
	if !ok {
		return 0, nil
	}
	for iter.MoveNext() {
		n++
	}
	return n, nil
}

func (e *Engine) countCSS(doc *goquery.Document, query string) (int, error) {
	sel, err := e.compileCSS(query)
	if err != nil {
		return 0, err
	}
	return doc.FindMatcher(sel).Length(), nil
}

func (e *Engine) compileXPath(query string) (*compiledXPath, error) {
	if cached, ok := e.xpathCache.Load(query); ok {
		return cached.(*compiledXPath), nil
	}

	expr, err := xpath.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := e.xpathCache.LoadOrStore(query, &compiledXPath{expr: expr})
	return actual.(*compiledXPath), nil
}

func (e *Engine) compileCSS(query string) (cascadia.Selector, error) {
	if cached, ok := e.cssCache.Load(query); ok {
		return cached.(cascadia.Selector), nil
	}

	sel, err := cascadia.Compile(query)
	if err != nil {
		return nil, err
	}

	e.cssCache.Store(query, sel)
	return sel, nil
}
