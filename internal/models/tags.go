package models

import (
	"fmt"
	"strings"
	"unicode"
)

// TagExpression is a boolean expression over style tags
type TagExpression struct {
	Type     ExpressionType
	Tag      string
	Operands []*TagExpression
}

// ExpressionType defines the type of boolean expression
type ExpressionType string

const (
	ExpressionTag ExpressionType = "tag"
	ExpressionAnd ExpressionType = "and"
	ExpressionOr  ExpressionType = "or"
	ExpressionXor ExpressionType = "xor"
	ExpressionNot ExpressionType = "not"
)

// Evaluate evaluates the expression against a tag set. A nil expression
// matches everything.
func (e *TagExpression) Evaluate(tags []string) bool {
	if e == nil {
		return true
	}

	switch e.Type {
	case ExpressionTag:
		return containsTag(tags, e.Tag)

	case ExpressionAnd:
		for _, op := range e.Operands {
			if !op.Evaluate(tags) {
				return false
			}
		}
		return true

	case ExpressionOr:
		for _, op := range e.Operands {
			if op.Evaluate(tags) {
				return true
			}
		}
		return false

	case ExpressionXor:
		if len(e.Operands) != 2 {
			return false
		}
		return e.Operands[0].Evaluate(tags) != e.Operands[1].Evaluate(tags)

	case ExpressionNot:
		if len(e.Operands) != 1 {
			return false
		}
		return !e.Operands[0].Evaluate(tags)

	default:
		return false
	}
}

// String returns a fully parenthesized form of the expression
func (e *TagExpression) String() string {
	if e == nil {
		return ""
	}

	switch e.Type {
	case ExpressionTag:
		return e.Tag
	case ExpressionNot:
		if len(e.Operands) == 1 {
			return "NOT " + e.Operands[0].String()
		}
		return "NOT ?"
	default:
		parts := make([]string, 0, len(e.Operands))
		for _, op := range e.Operands {
			parts = append(parts, op.String())
		}
		return "(" + strings.Join(parts, " "+strings.ToUpper(string(e.Type))+" ") + ")"
	}
}

// NewTagExpression creates a new tag expression
func NewTagExpression(tag string) *TagExpression {
	return &TagExpression{Type: ExpressionTag, Tag: tag}
}

// NewAndExpression creates a new AND expression
func NewAndExpression(operands ...*TagExpression) *TagExpression {
	return &TagExpression{Type: ExpressionAnd, Operands: operands}
}

// NewOrExpression creates a new OR expression
func NewOrExpression(operands ...*TagExpression) *TagExpression {
	return &TagExpression{Type: ExpressionOr, Operands: operands}
}

// NewXorExpression creates a new XOR expression
func NewXorExpression(left, right *TagExpression) *TagExpression {
	return &TagExpression{Type: ExpressionXor, Operands: []*TagExpression{left, right}}
}

// NewNotExpression creates a new NOT expression
func NewNotExpression(operand *TagExpression) *TagExpression {
	return &TagExpression{Type: ExpressionNot, Operands: []*TagExpression{operand}}
}

// ParseTagExpression parses queries such as "(anime OR manga) AND NOT pixel".
// Precedence from loosest to tightest: OR, XOR, AND, NOT. Keywords are case
// insensitive. An empty query yields a nil expression.
func ParseTagExpression(query string) (*TagExpression, error) {
	p := &tagParser{tokens: tokenizeTagQuery(query)}
	if len(p.tokens) == 0 {
		return nil, nil
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q at position %d", p.tokens[p.pos], p.pos+1)
	}
	return expr, nil
}

type tagParser struct {
	tokens []string
	pos    int
}

func (p *tagParser) peekKeyword(kw string) bool {
	return p.pos < len(p.tokens) && strings.EqualFold(p.tokens[p.pos], kw)
}

func (p *tagParser) parseOr() (*TagExpression, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	operands := []*TagExpression{left}
	for p.peekKeyword("OR") {
		p.pos++
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return NewOrExpression(operands...), nil
}

func (p *tagParser) parseXor() (*TagExpression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peekKeyword("XOR") {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewXorExpression(left, right)
	}
	return left, nil
}

func (p *tagParser) parseAnd() (*TagExpression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	operands := []*TagExpression{left}
	for p.peekKeyword("AND") {
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		operands = append(operands, right)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return NewAndExpression(operands...), nil
}

func (p *tagParser) parseUnary() (*TagExpression, error) {
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of expression")
	}

	tok := p.tokens[p.pos]
	switch {
	case strings.EqualFold(tok, "NOT"):
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewNotExpression(operand), nil

	case tok == "(":
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos] != ")" {
			return nil, fmt.Errorf("unbalanced parentheses in expression")
		}
		p.pos++
		return inner, nil

	case tok == ")" || isKeyword(tok):
		return nil, fmt.Errorf("unexpected %q at position %d", tok, p.pos+1)
	}

	p.pos++
	return NewTagExpression(tok), nil
}

func isKeyword(tok string) bool {
	for _, kw := range []string{"AND", "OR", "XOR", "NOT"} {
		if strings.EqualFold(tok, kw) {
			return true
		}
	}
	return false
}

func tokenizeTagQuery(query string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range query {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// containsTag checks if a tag is present in the tags slice (case-insensitive)
func containsTag(tags []string, target string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, target) {
			return true
		}
	}
	return false
}
