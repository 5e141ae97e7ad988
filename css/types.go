// Package css defines stylesheet structures and the parser for the
// restricted CSS subset: rules of simple selectors with keyword, length and
// hex-color declaration values.
package css

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Unit is an open enumeration of length units. Adding a unit must keep the
// switches in String and the parser exhaustive.
type Unit int

const (
	// Px is the only supported unit today.
	Px Unit = iota
)

// String returns the CSS spelling of the unit.
func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// Color is an RGBA color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// ValueKind discriminates the value variants.
type ValueKind int

const (
	// KeywordValue is a bare identifier such as "auto" or "inline".
	KeywordValue ValueKind = iota
	// LengthValue is a number with a unit, such as "12px".
	LengthValue
	// ColorValue is a hex color, alpha fixed at 255 when parsed.
	ColorValue
)

// Value is a declaration value, discriminated by Kind. The variant fields
// not selected by Kind are zero.
type Value struct {
	Kind    ValueKind
	Keyword string
	Length  float64
	Unit    Unit
	Color   Color
}

// Keyword returns a keyword value.
func Keyword(name string) Value {
	return Value{Kind: KeywordValue, Keyword: name}
}

// Length returns a length value.
func Length(amount float64, unit Unit) Value {
	return Value{Kind: LengthValue, Length: amount, Unit: unit}
}

// Hex returns a fully opaque color value.
func Hex(r, g, b uint8) Value {
	return Value{Kind: ColorValue, Color: Color{R: r, G: g, B: b, A: 255}}
}

// String returns the CSS spelling of the value.
func (v Value) String() string {
	switch v.Kind {
	case KeywordValue:
		return v.Keyword
	case LengthValue:
		return strconv.FormatFloat(v.Length, 'f', -1, 64) + v.Unit.String()
	case ColorValue:
		return fmt.Sprintf("#%02x%02x%02x", v.Color.R, v.Color.G, v.Color.B)
	default:
		return fmt.Sprintf("value(%d)", int(v.Kind))
	}
}

// Specificity ranks conflicting selectors: id components outweigh class
// components outweigh tag components. Comparison is lexicographic.
type Specificity struct {
	ID    int
	Class int
	Tag   int
}

// Less reports whether s ranks strictly below other.
func (s Specificity) Less(other Specificity) bool {
	if s.ID != other.ID {
		return s.ID < other.ID
	}
	if s.Class != other.Class {
		return s.Class < other.Class
	}
	return s.Tag < other.Tag
}

// String returns the specificity as an "(id,class,tag)" triple.
func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.ID, s.Class, s.Tag)
}

// Selector is a closed interface over the selector variants. Only Simple
// exists today; compound and combinator selectors would be added as further
// implementations without touching the Specificity contract.
type Selector interface {
	// Specificity returns the selector's cascade weight.
	Specificity() Specificity
	fmt.Stringer

	selector()
}

// Simple is a selector matchable by inspecting one element in isolation: an
// optional tag name, an optional id and a set of class names. All fields
// empty means the universal selector.
type Simple struct {
	TagName string   // "" when absent, matches any tag
	ID      string   // "" when absent
	Classes []string // duplicate-free, in source order
}

func (s *Simple) selector() {}

// Specificity counts the selector's components. Classes contribute one
// each; tag and id contribute at most one today, but the result stays
// correct should the grammar ever allow repetition.
func (s *Simple) Specificity() Specificity {
	spec := Specificity{Class: len(s.Classes)}
	if s.ID != "" {
		spec.ID = 1
	}
	if s.TagName != "" {
		spec.Tag = 1
	}
	return spec
}

// AddClass appends a class name, collapsing duplicates.
func (s *Simple) AddClass(name string) {
	for _, c := range s.Classes {
		if c == name {
			return
		}
	}
	s.Classes = append(s.Classes, name)
}

// String returns the CSS spelling of the selector, "*" for universal.
func (s *Simple) String() string {
	var sb strings.Builder
	sb.WriteString(s.TagName)
	if s.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Declaration is a single property-name/value pair inside a rule.
type Declaration struct {
	Name  string
	Value Value
}

// Rule is one or more selectors plus the declarations they share. After
// parsing, Selectors is sorted by descending specificity (stably), so the
// first selector that matches an element is its highest-specificity match.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Stylesheet is an ordered sequence of rules in source order, immutable
// once parsed.
type Stylesheet struct {
	Rules []Rule
}

// WriteTo re-emits the stylesheet in source order, implementing
// io.WriterTo. Selectors appear in their stored (specificity-sorted) order,
// declarations in declaration order, so the output is deterministic.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Rules {
		n, err := writeRule(w, &s.Rules[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
		if i < len(s.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int

	names := make([]string, len(rule.Selectors))
	for i, sel := range rule.Selectors {
		names[i] = sel.String()
	}
	n, err := fmt.Fprintf(w, "%s {\n", strings.Join(names, ", "))
	total += n
	if err != nil {
		return total, err
	}

	for _, decl := range rule.Declarations {
		n, err = fmt.Fprintf(w, "  %s: %s;\n", decl.Name, decl.Value)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
