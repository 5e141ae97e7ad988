package dom_test

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"weft/dom"
	"weft/scan"
)

func parse(t *testing.T, input string) *dom.Node {
	t.Helper()
	doc, err := dom.NewParser(zap.NewNop()).Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return doc
}

func TestParser_SingleElement(t *testing.T) {
	doc := parse(t, `<div class="a b" id="main"><p>hi</p></div>`)

	if doc.Kind != dom.ElementNode || doc.TagName != "div" {
		t.Fatalf("root = %s %q, want element div", doc.Kind, doc.TagName)
	}
	if doc.Attributes["class"] != "a b" || doc.Attributes["id"] != "main" {
		t.Errorf("attributes = %v", doc.Attributes)
	}
	if len(doc.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(doc.Children))
	}
	p := doc.Children[0]
	if p.TagName != "p" || len(p.Children) != 1 {
		t.Fatalf("unexpected p node: %v", p)
	}
	if text := p.Children[0]; text.Kind != dom.TextNode || text.Text != "hi" {
		t.Errorf("text node = %s %q", text.Kind, text.Text)
	}
}

func TestParser_RootIsAlwaysElement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantTag  string
		children int
	}{
		{
			name:     "empty input yields empty html element",
			input:    "",
			wantTag:  "html",
			children: 0,
		},
		{
			name:     "whitespace only",
			input:    "  \n\t ",
			wantTag:  "html",
			children: 0,
		},
		{
			name:     "single element is the document",
			input:    "<body></body>",
			wantTag:  "body",
			children: 0,
		},
		{
			name:     "multiple top-level nodes are wrapped",
			input:    "<a></a><b></b>",
			wantTag:  "html",
			children: 2,
		},
		{
			name:     "lone text node is wrapped",
			input:    "hello",
			wantTag:  "html",
			children: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.input)
			if doc.Kind != dom.ElementNode {
				t.Fatalf("root kind = %s, want element", doc.Kind)
			}
			if doc.TagName != tt.wantTag {
				t.Errorf("root tag = %q, want %q", doc.TagName, tt.wantTag)
			}
			if len(doc.Children) != tt.children {
				t.Errorf("children = %d, want %d", len(doc.Children), tt.children)
			}
			if doc.TagName == "html" && len(doc.Attributes) != 0 {
				t.Errorf("implicit html element must have an empty attribute map, got %v", doc.Attributes)
			}
		})
	}
}

func TestParser_Attributes(t *testing.T) {
	doc := parse(t, `<img src='pic.png'   alt="a 'quoted' word"  >`+`</img>`)

	if doc.Attributes["src"] != "pic.png" {
		t.Errorf("src = %q", doc.Attributes["src"])
	}
	if doc.Attributes["alt"] != "a 'quoted' word" {
		t.Errorf("alt = %q", doc.Attributes["alt"])
	}

	doc = parse(t, "<br></br>")
	if len(doc.Attributes) != 0 {
		t.Errorf("tag without attributes must yield an empty map, got %v", doc.Attributes)
	}
}

func TestParser_MultibyteText(t *testing.T) {
	doc := parse(t, "<p>héllo wörld — ✓</p>")
	if got := doc.Children[0].Text; got != "héllo wörld — ✓" {
		t.Errorf("text = %q", got)
	}
}

func TestParser_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // substring of SyntaxError.Expected
	}{
		{
			name:     "mismatched closing tag",
			input:    "<a><b></a>",
			expected: "closing tag </b>",
		},
		{
			name:     "missing equals in attribute",
			input:    `<a href"x"></a>`,
			expected: "=",
		},
		{
			name:     "stray equals without name",
			input:    `<a ="x"></a>`,
			expected: "attribute name",
		},
		{
			name:     "unquoted attribute value",
			input:    `<a href=x></a>`,
			expected: "quoted attribute value",
		},
		{
			name:     "missing terminating quote",
			input:    `<a href="x></a>`,
			expected: `"`,
		},
		{
			name:     "missing closing angle bracket",
			input:    "<a",
			expected: ">",
		},
		{
			name:     "unclosed element",
			input:    "<a>",
			expected: "<",
		},
		{
			name:     "empty tag name",
			input:    "<>hi</>",
			expected: "tag name",
		},
		{
			name:     "stray closing tag at top level",
			input:    "<a></a></b>",
			expected: "end of input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dom.NewParser(nil).Parse([]byte(tt.input))
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
			if serr.Pos.Line < 1 || serr.Pos.Col < 1 {
				t.Errorf("SyntaxError position not set: %+v", serr.Pos)
			}
		})
	}
}

func TestParser_ErrorPosition(t *testing.T) {
	_, err := dom.NewParser(nil).Parse([]byte("<a>\n<b></c>\n</a>"))
	var serr *scan.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *scan.SyntaxError, got %v", err)
	}
	if serr.Pos.Line != 2 {
		t.Errorf("error line = %d, want 2", serr.Pos.Line)
	}
}

func TestParser_DepthBound(t *testing.T) {
	const depth = 5000
	input := strings.Repeat("<d>", depth) + strings.Repeat("</d>", depth)

	_, err := dom.NewParser(nil).Parse([]byte(input))
	if err == nil {
		t.Fatal("pathologically deep document should be rejected")
	}
	var serr *scan.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *scan.SyntaxError, got %T", err)
	}
}

func TestNode_IDAndClasses(t *testing.T) {
	doc := parse(t, `<div id="x" class="a b"></div>`)

	if doc.ID() != "x" {
		t.Errorf("ID() = %q, want x", doc.ID())
	}
	classes := doc.Classes()
	if len(classes) != 2 || !classes["a"] || !classes["b"] {
		t.Errorf("Classes() = %v", classes)
	}

	doc = parse(t, "<div></div>")
	if doc.ID() != "" {
		t.Errorf("absent id should be empty, got %q", doc.ID())
	}
	if len(doc.Classes()) != 0 {
		t.Errorf("absent class attribute should yield an empty set, got %v", doc.Classes())
	}
}

func TestNode_Count(t *testing.T) {
	doc := parse(t, "<div><p>one</p><p>two</p></div>")
	if got := doc.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
}

func TestNode_Clone(t *testing.T) {
	doc := parse(t, `<div class="a"><p>hi</p></div>`)
	clone := doc.Clone()

	if clone == doc {
		t.Fatal("Clone() returned the same node")
	}
	clone.Attributes["class"] = "changed"
	clone.Children[0].Children[0].Text = "bye"

	if doc.Attributes["class"] != "a" {
		t.Error("mutating the clone's attributes changed the original")
	}
	if doc.Children[0].Children[0].Text != "hi" {
		t.Error("mutating the clone's subtree changed the original")
	}
}

func TestNode_String(t *testing.T) {
	doc := parse(t, `<div id="x">hi</div>`)
	dump := doc.String()

	for _, want := range []string{"<div>", `id="x"`, `text: "hi"`} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}

func TestNode_ToEtree(t *testing.T) {
	doc := parse(t, `<div id="x"><p>hi</p></div>`)
	out := doc.ToEtree()

	root := out.Root()
	if root == nil || root.Tag != "div" {
		t.Fatalf("etree root = %v", root)
	}
	if root.SelectAttrValue("id", "") != "x" {
		t.Error("etree export lost the id attribute")
	}
	if p := root.SelectElement("p"); p == nil || p.Text() != "hi" {
		t.Errorf("etree export lost the child text")
	}
}
