package css

import (
	"sort"
	"strconv"
	"unicode"

	"go.uber.org/zap"

	"weft/scan"
)

// Recursive-descent parser for the stylesheet subset. Any malformed input
// aborts the whole parse with a *scan.SyntaxError; there is no partial
// stylesheet and no resynchronization.
//
// The selector scanner is deliberately permissive about structure: sequences
// like "div#a#b" or a tag fragment after an id are accepted last-write-wins,
// matching this engine's matching semantics. It does reject an empty
// identifier after '#' or '.'.

// Parser parses CSS text into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses data into a Stylesheet. Each rule's selector list is sorted
// by descending specificity before the rule is stored; the cascade relies
// on that ordering for its early-exit match.
func (p *Parser) Parse(data []byte) (*Stylesheet, error) {
	c := scan.NewCursor(string(data))

	sheet := &Stylesheet{}
	for {
		c.SkipWhitespace()
		if c.EOF() {
			break
		}
		rule, err := p.parseRule(c)
		if err != nil {
			return nil, err
		}
		sheet.Rules = append(sheet.Rules, rule)
	}

	p.log.Debug("Parsed stylesheet", zap.Int("rules", len(sheet.Rules)))
	return sheet, nil
}

// parseRule parses `<selectors> { <declarations> }`.
func (p *Parser) parseRule(c *scan.Cursor) (Rule, error) {
	selectors, err := p.parseSelectors(c)
	if err != nil {
		return Rule{}, err
	}
	declarations, err := p.parseDeclarations(c)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Selectors: selectors, Declarations: declarations}, nil
}

// parseSelectors parses a comma-separated selector list terminated by '{',
// and returns it sorted highest-specificity first. The sort is stable so
// equal-specificity selectors keep their source order.
func (p *Parser) parseSelectors(c *scan.Cursor) ([]Selector, error) {
	var selectors []Selector
	for {
		sel, err := p.parseSimpleSelector(c)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)

		c.SkipWhitespace()
		if c.EOF() {
			return nil, c.Errorf("'{'", "end of input")
		}
		switch c.Next() {
		case ',':
			c.Consume()
			c.SkipWhitespace()
		case '{':
			sort.SliceStable(selectors, func(i, j int) bool {
				return selectors[j].Specificity().Less(selectors[i].Specificity())
			})
			return selectors, nil
		default:
			return nil, c.Errorf("',' or '{' in selector list", c.Found())
		}
	}
}

// parseSimpleSelector parses one simple selector such as `tag#id.c1.c2`.
// Scanning stops at the first character that starts none of the fragments.
func (p *Parser) parseSimpleSelector(c *scan.Cursor) (*Simple, error) {
	sel := &Simple{}
	for !c.EOF() {
		switch r := c.Next(); {
		case r == '#':
			c.Consume()
			id, err := p.parseIdentifier(c)
			if err != nil {
				return nil, err
			}
			sel.ID = id
		case r == '.':
			c.Consume()
			class, err := p.parseIdentifier(c)
			if err != nil {
				return nil, err
			}
			sel.AddClass(class)
		case r == '*':
			// Explicit universal selector, no constraint.
			c.Consume()
		case isIdentifierRune(r):
			tag, err := p.parseIdentifier(c)
			if err != nil {
				return nil, err
			}
			sel.TagName = tag
		default:
			return sel, nil
		}
	}
	return sel, nil
}

// parseDeclarations parses `{ name: value; ... }`.
func (p *Parser) parseDeclarations(c *scan.Cursor) ([]Declaration, error) {
	if err := c.Expect('{'); err != nil {
		return nil, err
	}
	var declarations []Declaration
	for {
		c.SkipWhitespace()
		if c.EOF() {
			return nil, c.Errorf("'}'", "end of input")
		}
		if c.Next() == '}' {
			c.Consume()
			return declarations, nil
		}
		decl, err := p.parseDeclaration(c)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, decl)
	}
}

// parseDeclaration parses one `name: value;` pair.
func (p *Parser) parseDeclaration(c *scan.Cursor) (Declaration, error) {
	name, err := p.parseIdentifier(c)
	if err != nil {
		return Declaration{}, err
	}
	c.SkipWhitespace()
	if err := c.Expect(':'); err != nil {
		return Declaration{}, err
	}
	c.SkipWhitespace()
	value, err := p.parseValue(c)
	if err != nil {
		return Declaration{}, err
	}
	c.SkipWhitespace()
	if err := c.Expect(';'); err != nil {
		return Declaration{}, err
	}
	return Declaration{Name: name, Value: value}, nil
}

// parseValue dispatches on the first character: a digit or sign starts a
// length, '#' a hex color, anything else a bare keyword.
func (p *Parser) parseValue(c *scan.Cursor) (Value, error) {
	if c.EOF() {
		return Value{}, c.Errorf("declaration value", "end of input")
	}
	switch r := c.Next(); {
	case unicode.IsDigit(r) || r == '.' || r == '-' || r == '+':
		return p.parseLength(c)
	case r == '#':
		return p.parseColor(c)
	default:
		keyword, err := p.parseIdentifier(c)
		if err != nil {
			return Value{}, err
		}
		return Keyword(keyword), nil
	}
}

// parseLength parses `<number>px`.
func (p *Parser) parseLength(c *scan.Cursor) (Value, error) {
	raw := c.ConsumeWhile(func(r rune) bool {
		return unicode.IsDigit(r) || r == '.' || r == '-' || r == '+'
	})
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, c.Errorf("number", strconv.Quote(raw))
	}
	unit, err := p.parseIdentifier(c)
	if err != nil {
		return Value{}, err
	}
	if unit != "px" {
		return Value{}, c.Errorf(`unit "px"`, strconv.Quote(unit))
	}
	return Length(amount, Px), nil
}

// parseColor parses `#rrggbb`, alpha fixed at 255.
func (p *Parser) parseColor(c *scan.Cursor) (Value, error) {
	if err := c.Expect('#'); err != nil {
		return Value{}, err
	}
	var channels [3]uint8
	for i := range channels {
		v, err := p.parseHexPair(c)
		if err != nil {
			return Value{}, err
		}
		channels[i] = v
	}
	return Hex(channels[0], channels[1], channels[2]), nil
}

// parseHexPair parses two hex digits into one channel.
func (p *Parser) parseHexPair(c *scan.Cursor) (uint8, error) {
	var v uint8
	for range 2 {
		if c.EOF() {
			return 0, c.Errorf("hex digit", "end of input")
		}
		d := hexDigit(c.Next())
		if d < 0 {
			return 0, c.Errorf("hex digit", c.Found())
		}
		c.Consume()
		v = v<<4 | uint8(d)
	}
	return v, nil
}

func hexDigit(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}

// parseIdentifier consumes a non-empty identifier run.
func (p *Parser) parseIdentifier(c *scan.Cursor) (string, error) {
	name := c.ConsumeWhile(isIdentifierRune)
	if name == "" {
		return "", c.Errorf("identifier", c.Found())
	}
	return name, nil
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
