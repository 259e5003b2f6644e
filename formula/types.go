package formula

import (
	"time"
)

// Expr is a node of a filter expression. Leaves carry Const; everything else
// is an operator applied to Args.
type Expr struct {
	Operator string `json:"op"`
	Args     []Expr `json:"args"`
	Const    any    `json:"const,omitempty"`
}

type EvalResult struct {
	Operator string       `json:"op"`
	Args     []EvalResult `json:"args"`
	Result   any          `json:"result"`
	Error    string       `json:"error"`
}

// Env is what a local evaluation sees: one record's fields and the current date.
type Env struct {
	Fields map[string]any
	Today  time.Time
}

func (e Env) today() time.Time {
	if e.Today.IsZero() {
		return time.Now()
	}
	return e.Today
}

const (
	OpConst = "Const"
	OpField = "Field"
	OpBlank = "Blank"
	OpToday = "Today"
	OpEq    = "Eq"
	OpNeq   = "Neq"
	OpGt    = "Gt"
	OpGte   = "Gte"
	OpLt    = "Lt"
	OpLte   = "Lte"
	OpAnd   = "And"
	OpOr    = "Or"
	OpNot   = "Not"
)

func Field(name string) Expr {
	return Expr{Operator: OpField, Args: []Expr{{Const: name}}}
}

func Str(v string) Expr { return Expr{Operator: OpConst, Const: v} }

func Num(v float64) Expr { return Expr{Operator: OpConst, Const: v} }

func Bool(v bool) Expr { return Expr{Operator: OpConst, Const: v} }

func Blank() Expr { return Expr{Operator: OpBlank} }

func Today() Expr { return Expr{Operator: OpToday} }

func Eq(a, b Expr) Expr  { return Expr{Operator: OpEq, Args: []Expr{a, b}} }
func Neq(a, b Expr) Expr { return Expr{Operator: OpNeq, Args: []Expr{a, b}} }
func Gt(a, b Expr) Expr  { return Expr{Operator: OpGt, Args: []Expr{a, b}} }
func Gte(a, b Expr) Expr { return Expr{Operator: OpGte, Args: []Expr{a, b}} }
func Lt(a, b Expr) Expr  { return Expr{Operator: OpLt, Args: []Expr{a, b}} }
func Lte(a, b Expr) Expr { return Expr{Operator: OpLte, Args: []Expr{a, b}} }

func And(args ...Expr) Expr { return Expr{Operator: OpAnd, Args: args} }
func Or(args ...Expr) Expr  { return Expr{Operator: OpOr, Args: args} }
func Not(arg Expr) Expr     { return Expr{Operator: OpNot, Args: []Expr{arg}} }
