package translator

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/brandon/mcp-videoteam/pkg/types"
)

// parseDoc parses an HTML fragment or page into a node tree. The parser is
// tolerant; it only fails on reader errors, so a garbage body still yields a
// (useless) tree and extraction falls through to the empty defaults.
func parseDoc(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether the node carries the given class.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// isElem reports whether the node is an element with the given tag. An empty
// tag matches any element.
func isElem(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && (tag == "" || n.Data == tag)
}

// findFirst returns the first node in document order satisfying pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every node in document order satisfying pred.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// firstByClass returns the first element with the given tag (any if empty)
// and class under root.
func firstByClass(root *html.Node, tag, class string) *html.Node {
	return findFirst(root, func(n *html.Node) bool {
		return isElem(n, tag) && hasClass(n, class)
	})
}

// textContent returns the concatenated text of the subtree, whitespace
// collapsed at the edges.
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
	return strings.TrimSpace(sb.String())
}

// classText returns the text of the first element with the given class, or
// "" when the marker is absent.
func classText(root *html.Node, class string) string {
	if n := firstByClass(root, "", class); n != nil {
		return textContent(n)
	}
	return ""
}

// inputValue returns the value attribute of input[name=...], or "".
func inputValue(root *html.Node, name string) string {
	n := findFirst(root, func(n *html.Node) bool {
		return isElem(n, "input") && attr(n, "name") == name
	})
	if n == nil {
		return ""
	}
	return strings.TrimSpace(attr(n, "value"))
}

// selectNode returns select[name=...], or nil.
func selectNode(root *html.Node, name string) *html.Node {
	return findFirst(root, func(n *html.Node) bool {
		return isElem(n, "select") && attr(n, "name") == name
	})
}

// selectOptions returns the option list of select[name=...].
func selectOptions(root *html.Node, name string) []types.OptionItem {
	sel := selectNode(root, name)
	if sel == nil {
		return nil
	}
	var items []types.OptionItem
	for _, opt := range findAll(sel, func(n *html.Node) bool { return isElem(n, "option") }) {
		items = append(items, types.OptionItem{
			Value: strings.TrimSpace(attr(opt, "value")),
			Label: textContent(opt),
		})
	}
	return items
}

// selectedValue returns the value of the selected option of select[name=...],
// falling back to the select's own value attribute.
func selectedValue(root *html.Node, name string) string {
	sel := selectNode(root, name)
	if sel == nil {
		return ""
	}
	opt := findFirst(sel, func(n *html.Node) bool {
		return isElem(n, "option") && hasAttr(n, "selected")
	})
	if opt != nil {
		return strings.TrimSpace(attr(opt, "value"))
	}
	return strings.TrimSpace(attr(sel, "value"))
}

// hasAttr reports whether the node carries the named attribute at all,
// including boolean attributes with empty values.
func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}
