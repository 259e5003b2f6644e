package formula

import (
	"reflect"

	"github.com/pkg/errors"
)

type Operator func(env Env, args []any) (EvalResult, error)

var operators = make(map[string]Operator)

func init() {
	operators[OpField] = opField
	operators[OpBlank] = opBlank
	operators[OpToday] = opToday
	operators[OpEq] = opEq
	operators[OpNeq] = opNeq
	operators[OpGt] = comparison(OpGt, func(c int) bool { return c > 0 })
	operators[OpGte] = comparison(OpGte, func(c int) bool { return c >= 0 })
	operators[OpLt] = comparison(OpLt, func(c int) bool { return c < 0 })
	operators[OpLte] = comparison(OpLte, func(c int) bool { return c <= 0 })
	operators[OpAnd] = opAnd
	operators[OpOr] = opOr
	operators[OpNot] = opNot
}

func opField(env Env, args []any) (EvalResult, error) {
	if len(args) != 1 {
		err := errors.Errorf("bad argument length for Field. Expected 1 but got %d", len(args))
		return EvalResult{Operator: OpField, Error: err.Error()}, err
	}

	name, ok := args[0].(string)
	if !ok {
		err := errors.Errorf("bad argument type for Field. Expected string but got %s", reflect.TypeOf(args[0]))
		return EvalResult{Operator: OpField, Error: err.Error()}, err
	}

	// absent columns read as blank
	return EvalResult{
		Operator: OpField,
		Result:   env.Fields[name],
	}, nil
}

func opBlank(env Env, args []any) (EvalResult, error) {
	return EvalResult{Operator: OpBlank, Result: nil}, nil
}

func opToday(env Env, args []any) (EvalResult, error) {
	return EvalResult{Operator: OpToday, Result: env.today()}, nil
}

func opEq(env Env, args []any) (EvalResult, error) {
	if len(args) != 2 {
		err := errors.Errorf("bad argument length for Eq. Expected 2 but got %d", len(args))
		return EvalResult{Operator: OpEq, Error: err.Error()}, err
	}

	return EvalResult{
		Operator: OpEq,
		Result:   equal(args[0], args[1]),
	}, nil
}

func opNeq(env Env, args []any) (EvalResult, error) {
	if len(args) != 2 {
		err := errors.Errorf("bad argument length for Neq. Expected 2 but got %d", len(args))
		return EvalResult{Operator: OpNeq, Error: err.Error()}, err
	}

	return EvalResult{
		Operator: OpNeq,
		Result:   !equal(args[0], args[1]),
	}, nil
}

// comparison builds an ordering operator. A blank or incomparable operand
// makes the comparison false rather than an error.
func comparison(name string, accept func(int) bool) Operator {
	return func(env Env, args []any) (EvalResult, error) {
		if len(args) != 2 {
			err := errors.Errorf("bad argument length for %s. Expected 2 but got %d", name, len(args))
			return EvalResult{Operator: name, Error: err.Error()}, err
		}

		if isBlank(args[0]) || isBlank(args[1]) {
			return EvalResult{Operator: name, Result: false}, nil
		}

		c, ok := compare(args[0], args[1])
		return EvalResult{
			Operator: name,
			Result:   ok && accept(c),
		}, nil
	}
}

func opAnd(env Env, args []any) (EvalResult, error) {
	for i, arg := range args {
		evaluated, ok := arg.(bool)
		if !ok {
			err := errors.Errorf("bad argument type for AND at index %d. Expected bool but got %s", i, reflect.TypeOf(arg))
			return EvalResult{Operator: OpAnd, Error: err.Error()}, err
		}

		if !evaluated {
			return EvalResult{Operator: OpAnd, Result: false}, nil
		}
	}

	return EvalResult{Operator: OpAnd, Result: true}, nil
}

func opOr(env Env, args []any) (EvalResult, error) {
	for i, arg := range args {
		evaluated, ok := arg.(bool)
		if !ok {
			err := errors.Errorf("bad argument type for OR at index %d. Expected bool but got %s", i, reflect.TypeOf(arg))
			return EvalResult{Operator: OpOr, Error: err.Error()}, err
		}

		if evaluated {
			return EvalResult{Operator: OpOr, Result: true}, nil
		}
	}

	return EvalResult{Operator: OpOr, Result: false}, nil
}

func opNot(env Env, args []any) (EvalResult, error) {
	if len(args) != 1 {
		err := errors.Errorf("bad argument length for NOT. Expected 1 but got %d", len(args))
		return EvalResult{Operator: OpNot, Error: err.Error()}, err
	}

	evaluated, ok := args[0].(bool)
	if !ok {
		err := errors.Errorf("bad argument type for NOT. Expected bool but got %s", reflect.TypeOf(args[0]))
		return EvalResult{Operator: OpNot, Error: err.Error()}, err
	}

	return EvalResult{Operator: OpNot, Result: !evaluated}, nil
}
