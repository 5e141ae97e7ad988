package dom

import "github.com/beevik/etree"

// Export of a document tree to an etree document, so callers can reuse
// etree's indentation and serialization when emitting markup.

// ToEtree converts the subtree rooted at n into an etree document. Text
// nodes become character data, attribute order follows etree's map walk.
func (n *Node) ToEtree() *etree.Document {
	doc := etree.NewDocument()
	if n != nil {
		appendEtree(&doc.Element, n)
	}
	return doc
}

func appendEtree(parent *etree.Element, n *Node) {
	if n.Kind == TextNode {
		parent.CreateText(n.Text)
		return
	}
	el := parent.CreateElement(n.TagName)
	for name, value := range n.Attributes {
		el.CreateAttr(name, value)
	}
	for _, child := range n.Children {
		appendEtree(el, child)
	}
}
