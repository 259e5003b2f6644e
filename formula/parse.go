package formula

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokField
	tokString
	tokNumber
	tokIdent
	tokLParen
	tokRParen
	tokComma
	tokCompare
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse reads a formula in the syntax Render produces.
func Parse(src string) (Expr, error) {
	tokens, err := lex(src)
	if err != nil {
		return Expr{}, err
	}

	p := &parser{tokens: tokens}
	expr, err := p.expr()
	if err != nil {
		return Expr{}, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return Expr{}, errors.Errorf("unexpected %q at %d", tok.text, tok.pos)
	}
	return expr, nil
}

func lex(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '{':
			var b strings.Builder
			end := i + 1
			for ; end < len(runes) && runes[end] != '}'; end++ {
				if runes[end] == '\\' && end+1 < len(runes) {
					end++
				}
				b.WriteRune(runes[end])
			}
			if end == len(runes) {
				return nil, errors.Errorf("unterminated field reference at %d", i)
			}
			tokens = append(tokens, token{kind: tokField, text: b.String(), pos: i})
			i = end + 1
		case r == '\'' || r == '"':
			var b strings.Builder
			end := i + 1
			for ; end < len(runes) && runes[end] != r; end++ {
				if runes[end] == '\\' && end+1 < len(runes) {
					end++
				}
				b.WriteRune(runes[end])
			}
			if end == len(runes) {
				return nil, errors.Errorf("unterminated string at %d", i)
			}
			tokens = append(tokens, token{kind: tokString, text: b.String(), pos: i})
			i = end + 1
		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			end := i + 1
			for end < len(runes) && (unicode.IsDigit(runes[end]) || runes[end] == '.') {
				end++
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[i:end]), pos: i})
			i = end
		case unicode.IsLetter(r) || r == '_':
			end := i + 1
			for end < len(runes) && (unicode.IsLetter(runes[end]) || unicode.IsDigit(runes[end]) || runes[end] == '_') {
				end++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[i:end]), pos: i})
			i = end
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++
		case r == '=':
			tokens = append(tokens, token{kind: tokCompare, text: "=", pos: i})
			i++
		case r == '!' || r == '<' || r == '>':
			text := string(r)
			if i+1 < len(runes) && runes[i+1] == '=' {
				text += "="
			}
			if text == "!" {
				return nil, errors.Errorf("unexpected '!' at %d", i)
			}
			tokens = append(tokens, token{kind: tokCompare, text: text, pos: i})
			i += len(text)
		default:
			return nil, errors.Errorf("unexpected %q at %d", r, i)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(runes)}), nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind, what string) error {
	tok := p.next()
	if tok.kind != kind {
		return errors.Errorf("expected %s at %d, got %q", what, tok.pos, tok.text)
	}
	return nil
}

func (p *parser) expr() (Expr, error) {
	left, err := p.operand()
	if err != nil {
		return Expr{}, err
	}
	for p.peek().kind == tokCompare {
		op := p.next()
		right, err := p.operand()
		if err != nil {
			return Expr{}, err
		}
		left = Expr{Operator: comparatorOp(op.text), Args: []Expr{left, right}}
	}
	return left, nil
}

func comparatorOp(symbol string) string {
	for op, s := range comparators {
		if s == symbol {
			return op
		}
	}
	return ""
}

func (p *parser) operand() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokField:
		return Field(tok.text), nil
	case tokString:
		return Str(tok.text), nil
	case tokNumber:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return Expr{}, errors.Errorf("bad number %q at %d", tok.text, tok.pos)
		}
		return Num(f), nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return Expr{}, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return Expr{}, err
		}
		return inner, nil
	case tokIdent:
		return p.call(tok)
	default:
		return Expr{}, errors.Errorf("unexpected %q at %d", tok.text, tok.pos)
	}
}

func (p *parser) call(name token) (Expr, error) {
	if err := p.expect(tokLParen, "'('"); err != nil {
		return Expr{}, err
	}

	var args []Expr
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.expr()
			if err != nil {
				return Expr{}, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return Expr{}, err
	}

	arity := func(n int) error {
		if len(args) != n {
			return errors.Errorf("%s takes %d arguments, got %d", name.text, n, len(args))
		}
		return nil
	}

	switch strings.ToUpper(name.text) {
	case "AND":
		return And(args...), nil
	case "OR":
		return Or(args...), nil
	case "NOT":
		if err := arity(1); err != nil {
			return Expr{}, err
		}
		return Not(args[0]), nil
	case "BLANK":
		return Blank(), arity(0)
	case "TODAY":
		return Today(), arity(0)
	case "TRUE":
		return Bool(true), arity(0)
	case "FALSE":
		return Bool(false), arity(0)
	default:
		return Expr{}, errors.Errorf("unknown function %s at %d", name.text, name.pos)
	}
}
