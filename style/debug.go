package style

import (
	"sort"

	"weft/dom"
	"weft/utils/debug"
)

// String returns a readable tree of the styled node for manual inspection
// during debugging. Properties are listed in sorted name order.
func (sn *StyledNode) String() string {
	if sn == nil {
		return "<nil StyledNode>"
	}
	tw := debug.NewTreeWriter()
	writeStyled(tw, 0, sn)
	return tw.String()
}

func writeStyled(tw *debug.TreeWriter, depth int, sn *StyledNode) {
	switch sn.Node.Kind {
	case dom.TextNode:
		tw.Text(depth, "text", sn.Node.Text)
	case dom.ElementNode:
		tw.Line(depth, "<%s>", sn.Node.TagName)
		tw.Pairs(depth+1, "attrs", sn.Node.Attributes)
		if len(sn.Values) > 0 {
			names := make([]string, 0, len(sn.Values))
			for name := range sn.Values {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				tw.Line(depth+1, "%s: %s", name, sn.Values[name])
			}
		}
		for _, child := range sn.Children {
			writeStyled(tw, depth+1, child)
		}
	}
}
