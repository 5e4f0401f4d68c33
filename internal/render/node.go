package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Helpers over x/net/html node trees. The client adapter mutates a host
// container the way the browser SDK mutates a page element; these cover the
// handful of DOM operations it needs. Untrusted text always enters the tree
// as text nodes, never parsed as markup, so serialization keeps it inert.

// NewContainer creates a detached host element an embed can render into.
func NewContainer(id string) *html.Node {
	n := newElement("div")
	if id != "" {
		setAttr(n, "id", id)
	}
	return n
}

func newElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func appendText(n *html.Node, s string) {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	val, _ := getAttr(n, "class")
	for _, c := range strings.Fields(val) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	val, _ := getAttr(n, "class")
	if val == "" {
		setAttr(n, "class", class)
		return
	}
	setAttr(n, "class", val+" "+class)
}

func removeClass(n *html.Node, classes ...string) {
	val, ok := getAttr(n, "class")
	if !ok {
		return
	}
	kept := make([]string, 0)
	for _, c := range strings.Fields(val) {
		drop := false
		for _, rm := range classes {
			if c == rm {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

// setDisplay overwrites the node's style attribute; the generated structure
// only ever uses style for visibility toggling. Empty clears the attribute.
func setDisplay(n *html.Node, display string) {
	if display == "" {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", "display: "+display)
}

func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func findByAttr(root *html.Node, key, val string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := getAttr(n, key); ok && v == val {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

func findAllByClass(root *html.Node, class string) []*html.Node {
	var found []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasClass(n, class) {
			found = append(found, n)
		}
		return true
	})
	return found
}

func findByClass(root *html.Node, class string) *html.Node {
	nodes := findAllByClass(root, class)
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// appendFragment parses markup and appends the resulting nodes. Only the text
// variant's author-trusted content goes through here.
func appendFragment(parent *html.Node, markup string) error {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

// Serialize renders a node tree back to markup, mainly for tests and
// snapshotting.
func Serialize(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}
