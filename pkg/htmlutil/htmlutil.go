package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node`.
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

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText trims, drops non-printable runes and collapses inner whitespace.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// ParseFragment parses an html fragment (ex. a json field holding markup)
// into a document.
func ParseFragment(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(fragment))
}

// FragmentText returns the cleaned text content of an html fragment, if the
// fragment cannot be parsed it is returned cleaned as-is.
func FragmentText(fragment string) string {
	doc, err := ParseFragment(fragment)
	if err != nil {
		return CleanText(fragment)
	}
	return CleanText(doc.Text())
}

// TextBefore returns the text of the direct text children of `parent` that
// come before `stop`, if `stop` is not a child of `parent` all direct text is
// returned.
func TextBefore(parent, stop *html.Node) string {
	var buffer bytes.Buffer
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if child == stop || contains(child, stop) {
			break
		}
		if child.Type == html.TextNode {
			buffer.WriteString(child.Data)
		}
	}
	return buffer.String()
}

func contains(node, target *html.Node) bool {
	if target == nil {
		return false
	}
	for n := target.Parent; n != nil; n = n.Parent {
		if n == node {
			return true
		}
	}
	return false
}
