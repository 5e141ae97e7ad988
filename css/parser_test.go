package css_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"weft/css"
	"weft/scan"
)

func parse(t *testing.T, input string) *css.Stylesheet {
	t.Helper()
	sheet, err := css.NewParser(zap.NewNop()).Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return sheet
}

func simple(t *testing.T, sel css.Selector) *css.Simple {
	t.Helper()
	s, ok := sel.(*css.Simple)
	if !ok {
		t.Fatalf("expected *css.Simple, got %T", sel)
	}
	return s
}

func TestParser_TagSelector(t *testing.T) {
	sheet := parse(t, `p { margin: auto; }`)

	if len(sheet.Rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(sheet.Rules))
	}
	rule := sheet.Rules[0]
	sel := simple(t, rule.Selectors[0])
	if sel.TagName != "p" || sel.ID != "" || len(sel.Classes) != 0 {
		t.Errorf("selector = %+v", sel)
	}
	if len(rule.Declarations) != 1 {
		t.Fatalf("declarations = %d, want 1", len(rule.Declarations))
	}
	decl := rule.Declarations[0]
	if decl.Name != "margin" || decl.Value != css.Keyword("auto") {
		t.Errorf("declaration = %+v", decl)
	}
}

func TestParser_SelectorFragments(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		tag     string
		id      string
		classes []string
	}{
		{
			name:  "id",
			input: "#nav { a: b; }",
			id:    "nav",
		},
		{
			name:    "class",
			input:   ".note { a: b; }",
			classes: []string{"note"},
		},
		{
			name:    "combined",
			input:   "div#main.left.wide { a: b; }",
			tag:     "div",
			id:      "main",
			classes: []string{"left", "wide"},
		},
		{
			name:  "universal",
			input: "* { a: b; }",
		},
		{
			name:  "universal with tag spelled after star",
			input: "*p { a: b; }",
			tag:   "p",
		},
		{
			name:    "duplicate classes collapse",
			input:   ".x.x { a: b; }",
			classes: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := parse(t, tt.input)
			sel := simple(t, sheet.Rules[0].Selectors[0])
			if sel.TagName != tt.tag {
				t.Errorf("tag = %q, want %q", sel.TagName, tt.tag)
			}
			if sel.ID != tt.id {
				t.Errorf("id = %q, want %q", sel.ID, tt.id)
			}
			if len(sel.Classes) != len(tt.classes) {
				t.Fatalf("classes = %v, want %v", sel.Classes, tt.classes)
			}
			for i, c := range tt.classes {
				if sel.Classes[i] != c {
					t.Errorf("classes[%d] = %q, want %q", i, sel.Classes[i], c)
				}
			}
		})
	}
}

func TestParser_PermissiveSelectorStructure(t *testing.T) {
	// The selector scanner does not validate structure: repeated fragments
	// are accepted last-write-wins, a tag after an id overwrites nothing
	// but still registers.
	sheet := parse(t, "#a#b { x: y; }")
	sel := simple(t, sheet.Rules[0].Selectors[0])
	if sel.ID != "b" {
		t.Errorf("last id fragment should win, got %q", sel.ID)
	}

	sheet = parse(t, "#a div { x: y; }")
	sel = simple(t, sheet.Rules[0].Selectors[0])
	if sel.ID != "a" || sel.TagName != "div" {
		t.Errorf("selector = %+v", sel)
	}
}

func TestParser_SelectorsSortedBySpecificity(t *testing.T) {
	sheet := parse(t, `p, #x, .a { color: red; }`)

	sels := sheet.Rules[0].Selectors
	if len(sels) != 3 {
		t.Fatalf("selectors = %d, want 3", len(sels))
	}
	// Highest specificity first: id, class, tag.
	if got := simple(t, sels[0]); got.ID != "x" {
		t.Errorf("first selector = %v, want #x", sels[0])
	}
	if got := simple(t, sels[1]); len(got.Classes) != 1 {
		t.Errorf("second selector = %v, want .a", sels[1])
	}
	if got := simple(t, sels[2]); got.TagName != "p" {
		t.Errorf("third selector = %v, want p", sels[2])
	}
}

func TestParser_SelectorSortIsStable(t *testing.T) {
	sheet := parse(t, `p, h1, .a { x: y; }`)

	sels := sheet.Rules[0].Selectors
	// .a first, then the two equal-specificity tags in source order.
	if got := simple(t, sels[1]); got.TagName != "p" {
		t.Errorf("equal-specificity selectors must keep source order, got %v then %v", sels[1], sels[2])
	}
	if got := simple(t, sels[2]); got.TagName != "h1" {
		t.Errorf("equal-specificity selectors must keep source order, got %v", sels[2])
	}
}

func TestParser_Values(t *testing.T) {
	sheet := parse(t, `p {
		width: 120px;
		margin: -4.5px;
		color: #1a2B3c;
		display: inline-block;
	}`)

	decls := sheet.Rules[0].Declarations
	if len(decls) != 4 {
		t.Fatalf("declarations = %d, want 4", len(decls))
	}

	if v := decls[0].Value; v.Kind != css.LengthValue || v.Length != 120 || v.Unit != css.Px {
		t.Errorf("width = %+v", v)
	}
	if v := decls[1].Value; v.Kind != css.LengthValue || v.Length != -4.5 {
		t.Errorf("margin = %+v", v)
	}
	wantColor := css.Color{R: 0x1a, G: 0x2b, B: 0x3c, A: 255}
	if v := decls[2].Value; v.Kind != css.ColorValue || v.Color != wantColor {
		t.Errorf("color = %+v", v)
	}
	if v := decls[3].Value; v.Kind != css.KeywordValue || v.Keyword != "inline-block" {
		t.Errorf("display = %+v", v)
	}
}

func TestParser_MultipleRulesKeepSourceOrder(t *testing.T) {
	sheet := parse(t, `p { a: x; } .c { a: y; } #i { a: z; }`)
	if len(sheet.Rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(sheet.Rules))
	}
	if simple(t, sheet.Rules[0].Selectors[0]).TagName != "p" {
		t.Error("rule order not preserved")
	}
	if simple(t, sheet.Rules[2].Selectors[0]).ID != "i" {
		t.Error("rule order not preserved")
	}
}

func TestParser_EmptyInput(t *testing.T) {
	sheet := parse(t, "   \n\t ")
	if len(sheet.Rules) != 0 {
		t.Errorf("rules = %d, want 0", len(sheet.Rules))
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "garbage in selector list",
			input:    "p ! { a: b; }",
			expected: "',' or '{' in selector list",
		},
		{
			name:     "missing closing brace",
			input:    "p { a: b;",
			expected: "'}'",
		},
		{
			name:     "missing colon",
			input:    "p { a b; }",
			expected: ":",
		},
		{
			name:     "missing semicolon",
			input:    "p { a: b }",
			expected: ";",
		},
		{
			name:     "empty identifier after hash",
			input:    "#{ a: b; }",
			expected: "identifier",
		},
		{
			name:     "empty identifier after dot",
			input:    ".{ a: b; }",
			expected: "identifier",
		},
		{
			name:     "unsupported unit",
			input:    "p { width: 2em; }",
			expected: `unit "px"`,
		},
		{
			name:     "malformed number",
			input:    "p { width: 1.2.3px; }",
			expected: "number",
		},
		{
			name:     "short hex color",
			input:    "p { color: #ab; }",
			expected: "hex digit",
		},
		{
			name:     "selectors without block",
			input:    "p, .a",
			expected: "'{'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := css.NewParser(nil).Parse([]byte(tt.input))
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.input)
			}
			var serr *scan.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *scan.SyntaxError, got %T: %v", err, err)
			}
			if !strings.Contains(serr.Expected, tt.expected) {
				t.Errorf("SyntaxError.Expected = %q, want it to mention %q", serr.Expected, tt.expected)
			}
		})
	}
}

func TestStylesheet_String(t *testing.T) {
	sheet := parse(t, `h1, .title { margin: 12px; color: #ff0000; } p { display: none; }`)

	out := sheet.String()
	for _, want := range []string{".title, h1 {", "margin: 12px;", "color: #ff0000;", "p {", "display: none;"} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized sheet missing %q:\n%s", want, out)
		}
	}

	// Serialization parses back to the same structure.
	again := parse(t, out)
	if len(again.Rules) != len(sheet.Rules) {
		t.Fatalf("reparsed rules = %d, want %d", len(again.Rules), len(sheet.Rules))
	}
	for i := range again.Rules {
		if len(again.Rules[i].Declarations) != len(sheet.Rules[i].Declarations) {
			t.Errorf("rule %d declarations differ after round trip", i)
		}
	}
}
