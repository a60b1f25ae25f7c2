// Package htmlutil isolates the HTML parsing done against scraped pages. Callers describe the
// field they want with a Field and get either its value or ErrNotFound, so markup drift on the
// scraped site surfaces as one well defined error.
package htmlutil

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var ErrNotFound = errors.New("field not found")

// Field locates a value inside an HTML document.
type Field struct {
	// Name is only used in error messages.
	Name string
	// Selector is a CSS selector, the first match is used.
	Selector string
	// Attr is the attribute to read, the element's text content is read when empty.
	Attr string
}

func (f Field) String() string {
	if f.Attr == "" {
		return fmt.Sprintf("%s (%s)", f.Name, f.Selector)
	}
	return fmt.Sprintf("%s (%s[%s])", f.Name, f.Selector, f.Attr)
}

// Extract parses body and returns the value of field.
func Extract(body []byte, field Field) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return ExtractFromDocument(doc, field)
}

// ExtractFromDocument is Extract for an already parsed document.
func ExtractFromDocument(doc *goquery.Document, field Field) (string, error) {
	sel := doc.Find(field.Selector).First()
	if len(sel.Nodes) == 0 {
		return "", fmt.Errorf("%s: %w", field, ErrNotFound)
	}
	if field.Attr == "" {
		return strings.TrimSpace(GetText(sel.Nodes[0])), nil
	}
	value, exists := sel.Attr(field.Attr)
	if !exists {
		return "", fmt.Errorf("%s: %w", field, ErrNotFound)
	}
	return value, nil
}

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}
