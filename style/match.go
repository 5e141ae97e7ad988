package style

import (
	"fmt"

	"weft/css"
	"weft/dom"
)

// Selector matching. Simple selectors are decided by inspecting one element
// in isolation; no tree context is consulted.

// Matches reports whether selector matches the element el. el must be an
// element node.
func Matches(el *dom.Node, selector css.Selector) bool {
	switch s := selector.(type) {
	case *css.Simple:
		return matchesSimple(el, s)
	default:
		// Selector is a closed interface; a new variant must be handled here.
		panic(fmt.Sprintf("style: unhandled selector variant %T", selector))
	}
}

func matchesSimple(el *dom.Node, s *css.Simple) bool {
	if s.TagName != "" && s.TagName != el.TagName {
		return false
	}
	if s.ID != "" && s.ID != el.ID() {
		return false
	}
	if len(s.Classes) > 0 {
		classes := el.Classes()
		for _, want := range s.Classes {
			if !classes[want] {
				return false
			}
		}
	}
	return true
}
