package formula

import (
	"strconv"
	"strings"
)

var comparators = map[string]string{
	OpEq:  "=",
	OpNeq: "!=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

var functions = map[string]string{
	OpAnd: "AND",
	OpOr:  "OR",
	OpNot: "NOT",
}

var fieldEscaper = strings.NewReplacer(`\`, `\\`, `}`, `\}`)

// Render emits expr in the upstream formula syntax, suitable for the
// filterByFormula query parameter.
func Render(expr Expr) string {
	var b strings.Builder
	render(&b, expr)
	return b.String()
}

func render(b *strings.Builder, expr Expr) {
	switch expr.Operator {
	case OpField:
		b.WriteByte('{')
		if len(expr.Args) == 1 {
			name, _ := expr.Args[0].Const.(string)
			b.WriteString(fieldEscaper.Replace(name))
		}
		b.WriteByte('}')
		return
	case OpBlank:
		b.WriteString("BLANK()")
		return
	case OpToday:
		b.WriteString("TODAY()")
		return
	}

	if symbol, ok := comparators[expr.Operator]; ok {
		for i, arg := range expr.Args {
			if i > 0 {
				b.WriteString(" " + symbol + " ")
			}
			if _, nested := comparators[arg.Operator]; nested {
				b.WriteByte('(')
				render(b, arg)
				b.WriteByte(')')
				continue
			}
			render(b, arg)
		}
		return
	}

	if name, ok := functions[expr.Operator]; ok {
		b.WriteString(name)
		b.WriteByte('(')
		for i, arg := range expr.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, arg)
		}
		b.WriteByte(')')
		return
	}

	renderConst(b, expr.Const)
}

func renderConst(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("BLANK()")
	case string:
		b.WriteString(Quote(t))
	case bool:
		if t {
			b.WriteString("TRUE()")
		} else {
			b.WriteString("FALSE()")
		}
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		b.WriteString(strconv.Itoa(t))
	default:
		b.WriteString("BLANK()")
	}
}

// Quote wraps s in single quotes, escaping backslashes and quotes.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
