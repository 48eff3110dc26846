package dom

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/raysh454/visitor-counter/internal/counter"
)

// DocumentTarget writes the count into a parsed HTML document. The element is
// looked up on every write, never cached.
type DocumentTarget struct {
	mu        sync.Mutex
	doc       *goquery.Document
	elementID string
}

// NewDocumentTarget parses r as HTML.
func NewDocumentTarget(r io.Reader, elementID string) (*DocumentTarget, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html document: %w", err)
	}
	if elementID == "" {
		elementID = counter.DefaultElementID
	}
	return &DocumentTarget{doc: doc, elementID: elementID}, nil
}

// find returns the first element whose id attribute equals elementID. The
// attribute is compared directly so ids need no CSS escaping.
func (d *DocumentTarget) find() *goquery.Selection {
	return d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == d.elementID
	}).First()
}

// SetDisplayText replaces the element's children with a single text node.
func (d *DocumentTarget) SetDisplayText(_ context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.find()
	if sel.Length() == 0 {
		return counter.ErrTargetNotFound
	}
	node := sel.Get(0)
	for c := node.FirstChild; c != nil; {
		next := c.NextSibling
		node.RemoveChild(c)
		c = next
	}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

// Text returns the element's current text and whether the element exists.
func (d *DocumentTarget) Text() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.find()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}

// HTML serializes the whole document.
func (d *DocumentTarget) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render html document: %w", err)
		}
	}
	return buf.String(), nil
}
