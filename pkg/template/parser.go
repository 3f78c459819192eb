package template

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/boattime/portfolio/pkg/errors"
)

// parser is a single-pass scanner over template text with line and column
// tracking for error reporting.
type parser struct {
	content string
	pos     int
	line    int
	column  int
}

func newParser(content string) *parser {
	return &parser{content: content, line: 1, column: 1}
}

// Parse parses template text into a node sequence.
func Parse(content string) ([]Node, error) {
	return newParser(content).parse()
}

func (p *parser) parse() ([]Node, error) {
	var nodes []Node
	for {
		node, ok, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nodes, nil
		}
		nodes = append(nodes, node)
	}
}

func (p *parser) parseNode() (Node, bool, error) {
	p.skipWhitespace()

	if p.atEnd() {
		return Node{}, false, nil
	}

	if p.matchChar('@') {
		switch {
		case p.matchString(BindMetrics):
			return Node{Kind: NodeBinding, Binding: BindMetrics}, true, nil
		case p.matchString(BindLogs):
			return Node{Kind: NodeBinding, Binding: BindLogs}, true, nil
		case p.matchString(BindTraces):
			return Node{Kind: NodeBinding, Binding: BindTraces}, true, nil
		case p.matchString("var"):
			name, err := p.bracedArg()
			if err != nil {
				return Node{}, false, err
			}
			return Node{Kind: NodeVar, Binding: name}, true, nil
		default:
			return p.parseDirective()
		}
	}

	text := p.parseText()
	if text == "" {
		return Node{}, false, nil
	}
	return Node{Kind: NodeParagraph, Text: text}, true, nil
}

func (p *parser) parseDirective() (Node, bool, error) {
	directive := p.parseIdentifier()

	switch directive {
	case "heading":
		return p.parseHeading()
	case "paragraph":
		return p.parseParagraph()
	case "command":
		return p.parseCommand()
	case "output":
		return p.parseOutput()
	case "frame":
		return p.parseFrame()
	case "metric":
		return p.parseMetric()
	case "log":
		return p.parseLog()
	case "table":
		return p.parseTable()
	case "trace":
		return p.parseTrace()
	case "chart":
		return p.parseChart()
	case "raw":
		return p.parseRaw()
	default:
		return Node{}, false, p.errorf("unknown directive @%s", directive)
	}
}

func (p *parser) parseHeading() (Node, bool, error) {
	levelStr, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	level, convErr := strconv.Atoi(levelStr)
	if convErr != nil {
		return Node{}, false, p.errorf("invalid heading level %q", levelStr)
	}

	text, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	return Node{Kind: NodeHeading, Level: level, Text: text}, true, nil
}

func (p *parser) parseParagraph() (Node, bool, error) {
	text, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	return Node{Kind: NodeParagraph, Text: text}, true, nil
}

func (p *parser) parseCommand() (Node, bool, error) {
	cmd, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	return Node{Kind: NodeCommand, Text: cmd}, true, nil
}

func (p *parser) parseOutput() (Node, bool, error) {
	children, err := p.bracedNodes("output")
	if err != nil {
		return Node{}, false, err
	}
	return Node{Kind: NodeOutput, Children: children}, true, nil
}

func (p *parser) parseFrame() (Node, bool, error) {
	// a frame may open directly with its body, in which case it has no
	// title; a title argument is distinguished by a second brace pair
	first, err := p.bracedRaw("frame")
	if err != nil {
		return Node{}, false, err
	}

	if p.peek() != '{' {
		children, parseErr := Parse(first)
		if parseErr != nil {
			return Node{}, false, parseErr
		}
		return Node{Kind: NodeFrame, Children: children}, true, nil
	}

	body, err := p.bracedRaw("frame")
	if err != nil {
		return Node{}, false, err
	}
	children, parseErr := Parse(body)
	if parseErr != nil {
		return Node{}, false, parseErr
	}
	return Node{Kind: NodeFrame, Title: first, Children: children}, true, nil
}

func (p *parser) parseMetric() (Node, bool, error) {
	name, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	value, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}

	node := Node{Kind: NodeMetric, Name: name, Value: value}
	if p.peek() == '{' {
		if node.Unit, err = p.bracedArg(); err != nil {
			return Node{}, false, err
		}
	}
	if p.peek() == '{' {
		trend, err := p.bracedArg()
		if err != nil {
			return Node{}, false, err
		}
		if _, convErr := strconv.ParseFloat(trend, 64); convErr != nil {
			return Node{}, false, p.errorf("invalid trend value %q", trend)
		}
		node.Trend = trend
	}
	return node, true, nil
}

func (p *parser) parseLog() (Node, bool, error) {
	message, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	level, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}

	node := Node{Kind: NodeLog, Message: message, LogLevel: level}
	if p.peek() == '{' {
		if node.Timestamp, err = p.bracedArg(); err != nil {
			return Node{}, false, err
		}
	}
	if p.peek() == '{' {
		if node.Source, err = p.bracedArg(); err != nil {
			return Node{}, false, err
		}
	}
	return node, true, nil
}

func (p *parser) parseTable() (Node, bool, error) {
	if err := p.expectChar('{'); err != nil {
		return Node{}, false, err
	}
	p.skipWhitespace()

	node := Node{Kind: NodeTable}
	if p.matchString("@headers") {
		raw, err := p.bracedArg()
		if err != nil {
			return Node{}, false, err
		}
		node.Headers = splitCells(raw)
		p.skipWhitespace()
	}

	for p.matchString("@row") {
		raw, err := p.bracedArg()
		if err != nil {
			return Node{}, false, err
		}
		node.Rows = append(node.Rows, splitCells(raw))
		p.skipWhitespace()
	}

	if err := p.expectChar('}'); err != nil {
		return Node{}, false, err
	}
	return node, true, nil
}

func (p *parser) parseTrace() (Node, bool, error) {
	name, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	durationStr, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	duration, convErr := strconv.ParseUint(durationStr, 10, 64)
	if convErr != nil {
		return Node{}, false, p.errorf("invalid duration %q", durationStr)
	}
	start, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	status, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}

	node := Node{
		Kind:       NodeTrace,
		Name:       name,
		DurationMS: duration,
		StartTime:  start,
		Status:     status,
	}

	if p.peek() == '{' {
		if err := p.expectChar('{'); err != nil {
			return Node{}, false, err
		}
		node.Metadata = map[string]string{}
		for p.matchString("@meta") {
			key, err := p.bracedArg()
			if err != nil {
				return Node{}, false, err
			}
			value, err := p.bracedArg()
			if err != nil {
				return Node{}, false, err
			}
			node.Metadata[key] = value
			p.skipWhitespace()
		}
		if err := p.expectChar('}'); err != nil {
			return Node{}, false, err
		}
	}
	return node, true, nil
}

func (p *parser) parseChart() (Node, bool, error) {
	kind, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	kind = strings.TrimSpace(kind)
	if kind != "bar" && kind != "sparkline" {
		return Node{}, false, p.errorf("invalid chart kind %q", kind)
	}

	mode := "linear"
	if p.peek() == '{' {
		mode, err = p.bracedArg()
		if err != nil {
			return Node{}, false, err
		}
		mode = strings.TrimSpace(mode)
		if mode != "linear" && mode != "log" {
			return Node{}, false, p.errorf("invalid chart mode %q", mode)
		}
	}
	return Node{Kind: NodeChart, ChartKind: kind, ChartMode: mode}, true, nil
}

func (p *parser) parseRaw() (Node, bool, error) {
	text, err := p.bracedArg()
	if err != nil {
		return Node{}, false, err
	}
	return Node{Kind: NodeRaw, Text: text}, true, nil
}

// bracedArg consumes one {argument}, honoring backslash escapes of the
// closing brace.
func (p *parser) bracedArg() (string, error) {
	if err := p.expectChar('{'); err != nil {
		return "", err
	}
	start := p.pos
	for !p.atEnd() && p.peek() != '}' {
		if p.peek() == '\\' && p.peekNext() == '}' {
			p.advance()
		}
		p.advance()
	}
	if p.atEnd() {
		return "", p.errorf("expected '}' but reached end of input")
	}
	arg := p.content[start:p.pos]
	p.advance()
	return arg, nil
}

// bracedRaw consumes a brace-balanced {body} without interpreting it and
// returns the inner text.
func (p *parser) bracedRaw(directive string) (string, error) {
	if err := p.expectChar('{'); err != nil {
		return "", err
	}
	start := p.pos
	depth := 1
	for depth > 0 && !p.atEnd() {
		switch p.advance() {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	if depth > 0 {
		return "", p.errorf("unclosed %s block", directive)
	}
	return p.content[start : p.pos-1], nil
}

// bracedNodes consumes a brace-balanced body and parses it recursively.
func (p *parser) bracedNodes(directive string) ([]Node, error) {
	body, err := p.bracedRaw(directive)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

func (p *parser) parseText() string {
	start := p.pos
	for !p.atEnd() && p.peek() != '@' {
		p.advance()
	}
	return p.content[start:p.pos]
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for !p.atEnd() && (unicode.IsLetter(p.peek()) || unicode.IsDigit(p.peek()) || p.peek() == '_') {
		p.advance()
	}
	return p.content[start:p.pos]
}

func (p *parser) expectChar(expected rune) error {
	if p.atEnd() {
		return p.errorf("expected %q but reached end of input", expected)
	}
	if p.peek() != expected {
		return p.errorf("expected %q but found %q", expected, p.peek())
	}
	p.advance()
	return nil
}

func (p *parser) matchChar(expected rune) bool {
	if p.atEnd() || p.peek() != expected {
		return false
	}
	p.advance()
	return true
}

func (p *parser) matchString(expected string) bool {
	if !strings.HasPrefix(p.content[p.pos:], expected) {
		return false
	}
	for range expected {
		p.advance()
	}
	return true
}

func (p *parser) skipWhitespace() {
	for !p.atEnd() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) advance() rune {
	r := p.peek()
	p.pos += len(string(r))
	if r == '\n' {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	return r
}

func (p *parser) peek() rune {
	if p.atEnd() {
		return 0
	}
	for _, r := range p.content[p.pos:] {
		return r
	}
	return 0
}

func (p *parser) peekNext() rune {
	if p.atEnd() {
		return 0
	}
	rest := p.content[p.pos+len(string(p.peek())):]
	for _, r := range rest {
		return r
	}
	return 0
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.content)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCodeMalformedTemplate,
		format+" at line %d, column %d", append(args, p.line, p.column)...)
}

func splitCells(raw string) []string {
	parts := strings.Split(raw, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}
