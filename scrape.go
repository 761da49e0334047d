// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package polygon

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseHTML(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse HTML")
	}

	return doc, nil
}

// findAll returns every descendant of n, in document order, for which match
// returns true.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}

	walk(n)

	return out
}

// findFirst returns the first descendant of n for which match returns true, or
// nil.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}

		if f := findFirst(c, match); f != nil {
			return f
		}
	}

	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

// hasClasses matches elements of type a carrying all of the given classes.
func hasClasses(a atom.Atom, classes ...string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != a {
			return false
		}

		v, _ := attr(n, "class")
		have := strings.Fields(v)

		for _, want := range classes {
			found := false

			for _, h := range have {
				if h == want {
					found = true
					break
				}
			}

			if !found {
				return false
			}
		}

		return true
	}
}

// hasAttr matches elements of type a whose attribute key equals val.
func hasAttr(a atom.Atom, key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != a {
			return false
		}

		v, ok := attr(n, key)

		return ok && v == val
	}
}

// textContent concatenates every text node below n, keeping the whitespace
// and newlines of the source.
func textContent(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)

	return sb.String()
}

// normalizeSpace collapses runs of whitespace to a single space and trims the
// ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// findTable returns the first <table> with all of the given classes.
func findTable(doc *html.Node, classes ...string) (*html.Node, error) {
	t := findFirst(doc, hasClasses(atom.Table, classes...))
	if t == nil {
		return nil, errors.Errorf("unable to find table.%s in the page", strings.Join(classes, "."))
	}

	return t, nil
}

func tableRows(table *html.Node) []*html.Node {
	return findAll(table, isElement(atom.Tr))
}

func rowCells(row *html.Node) []*html.Node {
	return findAll(row, isElement(atom.Td))
}

// cellTexts returns the whitespace-normalized text of each cell.
func cellTexts(cells []*html.Node) []string {
	out := make([]string, len(cells))

	for i, c := range cells {
		out[i] = normalizeSpace(textContent(c))
	}

	return out
}

// field returns the i-th cell text, naming the field in the error when the
// row is too short.
func field(texts []string, i int, name string) (string, error) {
	if i < 0 || i >= len(texts) {
		return "", errors.Errorf("row has %d cells, no %s column (%d)", len(texts), name, i)
	}

	return texts[i], nil
}
