// Package dom defines the document tree produced by the markup parser and
// consumed by the cascade resolver and everything downstream.
package dom

import "strings"

// NodeKind discriminates the node variants. Future kinds (comments,
// doctypes) are added here, never via embedding.
type NodeKind int

const (
	// ElementNode is a tag with attributes and children.
	ElementNode NodeKind = iota
	// TextNode holds character data and never has children.
	TextNode
)

// String returns a readable kind name for diagnostics.
func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// AttrMap maps attribute names to values. Keys are unique, insertion order
// is irrelevant.
type AttrMap map[string]string

// Node is one node of the document tree: either an element or a text run,
// discriminated by Kind. A parent owns its children outright; the tree is
// acyclic because it is assembled bottom-up during parsing.
type Node struct {
	Kind     NodeKind
	Children []*Node

	// Element fields, zero for text nodes.
	TagName    string
	Attributes AttrMap

	// Text field, empty for elements.
	Text string
}

// Text returns a new text node.
func Text(data string) *Node {
	return &Node{Kind: TextNode, Text: data}
}

// Element returns a new element node. A nil attrs is normalized to an empty
// map so callers can index it unconditionally.
func Element(tag string, attrs AttrMap, children []*Node) *Node {
	if attrs == nil {
		attrs = AttrMap{}
	}
	return &Node{Kind: ElementNode, TagName: tag, Attributes: attrs, Children: children}
}

// ID returns the value of the id attribute, or "" when absent. Only
// meaningful on elements.
func (n *Node) ID() string {
	return n.Attributes["id"]
}

// Classes returns the element's class set, computed by splitting the class
// attribute on single spaces. An element without a class attribute has an
// empty set.
func (n *Node) Classes() map[string]bool {
	raw, ok := n.Attributes["class"]
	if !ok || raw == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, name := range strings.Split(raw, " ") {
		if name != "" {
			set[name] = true
		}
	}
	return set
}

// Count returns the total number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

// Walk visits n and every descendant in depth-first document order. fn
// returning false prunes the subtree below the current node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
