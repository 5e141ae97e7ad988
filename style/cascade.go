// Package style applies a stylesheet to a document tree, producing a styled
// tree that mirrors the document node for node. This is the cascade: for
// every element, all matching rules are collected, ordered by specificity
// and merged last-writer-wins into one property map.
package style

import (
	"sort"

	"go.uber.org/zap"

	"weft/css"
	"weft/dom"
)

// PropertyMap maps property names to their resolved values. Keys are
// unique; the cascade inserts lowest-specificity declarations first so
// later, more specific writers win.
type PropertyMap map[string]css.Value

// StyledNode mirrors one document node with its resolved properties. Node
// is a non-owning reference: the document tree must outlive the styled
// tree. A styled tree is built in one pass and read-only thereafter.
type StyledNode struct {
	Node     *dom.Node
	Values   PropertyMap
	Children []*StyledNode
}

// Value returns the resolved value of a property, if declared.
func (sn *StyledNode) Value(name string) (css.Value, bool) {
	v, ok := sn.Values[name]
	return v, ok
}

// Lookup returns the value of name, falling back to fallback and finally to
// def. Convenient for consumers resolving shorthand pairs such as
// "margin-left"/"margin".
func (sn *StyledNode) Lookup(name, fallback string, def css.Value) css.Value {
	if v, ok := sn.Values[name]; ok {
		return v
	}
	if v, ok := sn.Values[fallback]; ok {
		return v
	}
	return def
}

// Count returns the total number of nodes in the styled subtree.
func (sn *StyledNode) Count() int {
	total := 1
	for _, child := range sn.Children {
		total += child.Count()
	}
	return total
}

// Resolver applies stylesheets to document trees. It never mutates its
// inputs, so one resolver may be used for any number of Apply calls.
type Resolver struct {
	log *zap.Logger
}

// NewResolver creates a new cascade resolver.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log.Named("cascade")}
}

// Apply styles the whole document tree against sheet and returns the styled
// root. The result has exactly the branching structure of the document
// tree. Apply cannot fail: text nodes get empty property maps and elements
// no rule matches get empty property maps too.
func (r *Resolver) Apply(root *dom.Node, sheet *css.Stylesheet) *StyledNode {
	styled := r.styleNode(root, sheet)
	r.log.Debug("Applied stylesheet",
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("nodes", styled.Count()))
	return styled
}

func (r *Resolver) styleNode(n *dom.Node, sheet *css.Stylesheet) *StyledNode {
	sn := &StyledNode{Node: n, Values: PropertyMap{}}
	if n.Kind == dom.ElementNode {
		sn.Values = r.specifiedValues(n, sheet)
	}
	for _, child := range n.Children {
		sn.Children = append(sn.Children, r.styleNode(child, sheet))
	}
	return sn
}

// matchedRule pairs a rule with the specificity of its best matching
// selector.
type matchedRule struct {
	specificity css.Specificity
	rule        *css.Rule
}

// matchRule returns the rule's highest-specificity matching selector, if
// any. Selector lists are pre-sorted most-specific first, so the first
// match wins.
func matchRule(el *dom.Node, rule *css.Rule) (matchedRule, bool) {
	for _, sel := range rule.Selectors {
		if Matches(el, sel) {
			return matchedRule{specificity: sel.Specificity(), rule: rule}, true
		}
	}
	return matchedRule{}, false
}

// matchingRules scans every rule in the sheet linearly. The sheet sizes
// this engine handles do not justify an index keyed by tag or id.
func matchingRules(el *dom.Node, sheet *css.Stylesheet) []matchedRule {
	var matched []matchedRule
	for i := range sheet.Rules {
		if m, ok := matchRule(el, &sheet.Rules[i]); ok {
			matched = append(matched, m)
		}
	}
	return matched
}

// specifiedValues merges the declarations of all matching rules. Rules are
// applied lowest specificity first, so higher-specificity declarations
// overwrite lower ones; the stable sort keeps source order decisive between
// equal specificities.
func (r *Resolver) specifiedValues(el *dom.Node, sheet *css.Stylesheet) PropertyMap {
	values := PropertyMap{}
	matched := matchingRules(el, sheet)

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].specificity.Less(matched[j].specificity)
	})
	for _, m := range matched {
		for _, decl := range m.rule.Declarations {
			values[decl.Name] = decl.Value
		}
	}
	return values
}
