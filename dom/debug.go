package dom

import "weft/utils/debug"

// String returns a readable tree of the document for manual inspection
// during debugging. Character data is quoted so whitespace stays visible.
func (n *Node) String() string {
	if n == nil {
		return "<nil Node>"
	}
	tw := debug.NewTreeWriter()
	writeNode(tw, 0, n)
	return tw.String()
}

func writeNode(tw *debug.TreeWriter, depth int, n *Node) {
	switch n.Kind {
	case TextNode:
		tw.Text(depth, "text", n.Text)
	case ElementNode:
		tw.Line(depth, "<%s>", n.TagName)
		tw.Pairs(depth+1, "attrs", n.Attributes)
		for _, child := range n.Children {
			writeNode(tw, depth+1, child)
		}
	}
}
