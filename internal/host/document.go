package host

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/GriffinCanCode/domshim/internal/shim"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// XPathPrefix marks a selector that should be evaluated as XPath.
const XPathPrefix = "xpath:"

var (
	ErrUnknownHandle   = errors.New("host: unknown handle")
	ErrInvalidSelector = errors.New("host: invalid selector")
)

// Options configures a Document.
type Options struct {
	Sanitize string      // "", "none", "ugc" or "strict"
	Logger   *zap.Logger // receives console output, nil discards it
}

// Document implements shim.Bridge over a parsed HTML tree.
type Document struct {
	doc    *goquery.Document
	policy sanitizer
	log    *zap.Logger

	mu      sync.Mutex
	handles map[*html.Node]shim.Handle
	nodes   map[shim.Handle]*html.Node
	next    uint64
	console []string
}

var _ shim.Bridge = (*Document)(nil)

// Parse reads an HTML document from r.
func Parse(r io.Reader, opts Options) (*Document, error) {
	policy, err := newSanitizer(opts.Sanitize)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("host: parse document: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Document{
		doc:     doc,
		policy:  policy,
		log:     log,
		handles: make(map[*html.Node]shim.Handle),
		nodes:   make(map[shim.Handle]*html.Node),
	}, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string, opts Options) (*Document, error) {
	return Parse(strings.NewReader(s), opts)
}

// Log records a console line.
func (d *Document) Log(message string) error {
	d.mu.Lock()
	d.console = append(d.console, message)
	d.mu.Unlock()

	d.log.Info("console.log", zap.String("message", message))
	return nil
}

// QuerySelectorAll returns handles for every element matching selector in
// document order.
func (d *Document) QuerySelectorAll(selector string) ([]shim.Handle, error) {
	nodes, err := d.match(selector)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	handles := make([]shim.Handle, len(nodes))
	for i, n := range nodes {
		handles[i] = d.handleFor(n)
	}
	return handles, nil
}

// GetAttribute reads attribute name of the node behind h.
func (d *Document) GetAttribute(h shim.Handle, name string) (string, bool, error) {
	n, err := d.node(h)
	if err != nil {
		return "", false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	value, ok := goquery.NewDocumentFromNode(n).Attr(strings.ToLower(name))
	return value, ok, nil
}

// SetInnerHTML replaces the children of the node behind h with the parsed
// fragment, after sanitizing it when a policy is configured.
func (d *Document) SetInnerHTML(h shim.Handle, content string) error {
	n, err := d.node(h)
	if err != nil {
		return err
	}

	if d.policy != nil {
		content = d.policy.Sanitize(content)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	goquery.NewDocumentFromNode(n).SetHtml(content)
	d.log.Debug("innerHTML set", zap.String("handle", string(h)), zap.Int("bytes", len(content)))
	return nil
}

// Render serializes the current document.
func (d *Document) Render() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("host: render: %w", err)
	}
	return out, nil
}

// Console returns every line logged so far.
func (d *Document) Console() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.console...)
}

// Text returns the text content of the node behind h.
func (d *Document) Text(h shim.Handle) (string, error) {
	n, err := d.node(h)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return goquery.NewDocumentFromNode(n).Text(), nil
}

func (d *Document) match(selector string) ([]*html.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if expr, ok := strings.CutPrefix(selector, XPathPrefix); ok {
		found, err := htmlquery.QueryAll(d.doc.Get(0), expr)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
		}
		elements := found[:0]
		for _, n := range found {
			if n.Type == html.ElementNode {
				elements = append(elements, n)
			}
		}
		return elements, nil
	}

	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return d.doc.FindMatcher(m).Nodes, nil
}

func (d *Document) node(h shim.Handle) (*html.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.nodes[h]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownHandle, h)
	}
	return n, nil
}

// handleFor returns the handle for n, issuing a new one on first sight.
// Caller holds d.mu.
func (d *Document) handleFor(n *html.Node) shim.Handle {
	if h, ok := d.handles[n]; ok {
		return h
	}
	d.next++
	h := shim.Handle(strconv.FormatUint(d.next, 10))
	d.handles[n] = h
	d.nodes[h] = n
	return h
}
