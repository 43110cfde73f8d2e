package runlist_test

import (
	"strings"
	"testing"

	"ojarena/internal/arena/runlist"

	"golang.org/x/net/html"
)

func renderDOM(t *testing.T, view *runlist.View) *html.Node {
	t.Helper()
	out, err := view.HTML()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse rendered html failed: %v", err)
	}
	return doc
}

type matcher func(n *html.Node) bool

func tag(name string) matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

func withAttr(name string) matcher {
	return func(n *html.Node) bool {
		_, ok := attr(n, name)
		return ok
	}
}

func withAttrValue(name, value string) matcher {
	return func(n *html.Node) bool {
		v, ok := attr(n, name)
		return ok && v == value
	}
}

func withClass(class string) matcher {
	return func(n *html.Node) bool {
		v, _ := attr(n, "class")
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func all(ms ...matcher) matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

func findAll(root *html.Node, m matcher) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if m(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// find walks a chain of matchers, each applied inside the previous match.
func find(t *testing.T, root *html.Node, chain ...matcher) *html.Node {
	t.Helper()
	n := root
	for i, m := range chain {
		found := findAll(n, m)
		if len(found) == 0 {
			t.Fatalf("selector step %d matched nothing", i)
		}
		n = found[0]
	}
	return n
}

func exists(root *html.Node, m matcher) bool {
	return len(findAll(root, m)) > 0
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
