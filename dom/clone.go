package dom

import "maps"

// Deep copy for document trees. Useful when a transformation wants to
// manipulate a copy while the original stays referenced by a styled tree.

// Clone creates a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	clone := &Node{
		Kind:    n.Kind,
		TagName: n.TagName,
		Text:    n.Text,
	}
	if n.Attributes != nil {
		clone.Attributes = maps.Clone(n.Attributes)
	}
	if n.Children != nil {
		clone.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return clone
}
