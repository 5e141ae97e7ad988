package dom

import (
	"fmt"
	"unicode"

	"go.uber.org/zap"

	"weft/scan"
)

// Markup parsing for the restricted HTML subset: elements with quoted
// attributes, text runs, nothing else. No comments, no doctypes, no
// entities, no self-closing tags. Malformed input fails fast with a
// *scan.SyntaxError; there is no error recovery.

// maxDepth bounds element nesting so a pathologically deep document cannot
// exhaust the stack.
const maxDepth = 4096

// Parser parses markup text into a document tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new markup parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("markup-parser")}
}

// Parse parses data into a document tree. The result is always a single
// element: when the buffer holds exactly one top-level element that element
// is the document, otherwise the top-level nodes are wrapped in an implicit
// attribute-less html element. Empty input yields an empty html element.
func (p *Parser) Parse(data []byte) (*Node, error) {
	c := scan.NewCursor(string(data))

	nodes, err := p.parseNodes(c, 0)
	if err != nil {
		return nil, err
	}
	if !c.EOF() {
		// Only a stray closing tag can stop the sibling loop early here.
		return nil, c.Errorf("end of input", c.Found())
	}

	var root *Node
	if len(nodes) == 1 && nodes[0].Kind == ElementNode {
		root = nodes[0]
	} else {
		// A lone text node is wrapped too, so the root is always an element.
		root = Element("html", nil, nodes)
	}

	p.log.Debug("Parsed document",
		zap.String("root", root.TagName),
		zap.Int("nodes", root.Count()))
	return root, nil
}

// parseNodes parses a sequence of sibling nodes until end of input or a
// closing-tag lookahead. Whitespace between siblings is discarded.
func (p *Parser) parseNodes(c *scan.Cursor, depth int) ([]*Node, error) {
	var nodes []*Node
	for {
		c.SkipWhitespace()
		if c.EOF() || c.HasPrefix("</") {
			return nodes, nil
		}
		node, err := p.parseNode(c, depth)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

// parseNode parses a single element or text node.
func (p *Parser) parseNode(c *scan.Cursor, depth int) (*Node, error) {
	if c.Next() == '<' {
		return p.parseElement(c, depth)
	}
	return p.parseText(c), nil
}

// parseText parses a text run up to, not including, the next '<'.
func (p *Parser) parseText(c *scan.Cursor) *Node {
	return Text(c.ConsumeWhile(func(r rune) bool { return r != '<' }))
}

// parseElement parses an opening tag, the element's children and the
// matching closing tag.
func (p *Parser) parseElement(c *scan.Cursor, depth int) (*Node, error) {
	if depth >= maxDepth {
		return nil, c.Errorf(fmt.Sprintf("nesting no deeper than %d", maxDepth), "another element")
	}

	if err := c.Expect('<'); err != nil {
		return nil, err
	}
	tag := parseName(c)
	if tag == "" {
		return nil, c.Errorf("tag name", c.Found())
	}
	attrs, err := p.parseAttributes(c)
	if err != nil {
		return nil, err
	}
	if err := c.Expect('>'); err != nil {
		return nil, err
	}

	children, err := p.parseNodes(c, depth+1)
	if err != nil {
		return nil, err
	}

	if err := c.Expect('<'); err != nil {
		return nil, err
	}
	if err := c.Expect('/'); err != nil {
		return nil, err
	}
	closing := parseName(c)
	if closing != tag {
		return nil, c.Errorf(fmt.Sprintf("closing tag </%s>", tag), fmt.Sprintf("</%s>", closing))
	}
	if err := c.Expect('>'); err != nil {
		return nil, err
	}

	return Element(tag, attrs, children), nil
}

// parseAttributes parses zero or more name="value" pairs separated by
// whitespace, up to the closing '>' of the opening tag.
func (p *Parser) parseAttributes(c *scan.Cursor) (AttrMap, error) {
	attrs := AttrMap{}
	for {
		c.SkipWhitespace()
		if c.EOF() || c.Next() == '>' {
			return attrs, nil
		}
		name, value, err := p.parseAttr(c)
		if err != nil {
			return nil, err
		}
		attrs[name] = value
	}
}

// parseAttr parses a single name="value" pair. A stray '=' or quote without
// a preceding name is a syntax error, not silently accepted.
func (p *Parser) parseAttr(c *scan.Cursor) (string, string, error) {
	name := parseName(c)
	if name == "" {
		return "", "", c.Errorf("attribute name", c.Found())
	}
	if err := c.Expect('='); err != nil {
		return "", "", err
	}
	value, err := p.parseAttrValue(c)
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

// parseAttrValue parses a quoted attribute value. Both '"' and '\'' are
// admissible, the closing quote must match the opening one.
func (p *Parser) parseAttrValue(c *scan.Cursor) (string, error) {
	if c.EOF() {
		return "", c.Errorf("quoted attribute value", "end of input")
	}
	quote := c.Next()
	if quote != '"' && quote != '\'' {
		return "", c.Errorf("quoted attribute value", c.Found())
	}
	c.Consume()
	value := c.ConsumeWhile(func(r rune) bool { return r != quote })
	if err := c.Expect(quote); err != nil {
		return "", err
	}
	return value, nil
}

// parseName consumes an alphanumeric run, used for both tag and attribute
// names.
func parseName(c *scan.Cursor) string {
	return c.ConsumeWhile(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}
