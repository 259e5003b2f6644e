package formula

import (
	"github.com/pkg/errors"
)

func Eval(env Env, expr Expr) (EvalResult, error) {

	if expr.Const != nil || expr.Operator == OpConst {
		return EvalResult{
			Operator: OpConst,
			Result:   expr.Const,
		}, nil
	}

	args := make([]any, 0, len(expr.Args))
	results := make([]EvalResult, 0, len(expr.Args))
	for _, arg := range expr.Args {
		result, err := Eval(env, arg)
		if err != nil {
			return EvalResult{
				Operator: expr.Operator,
				Args:     append(results, result),
				Error:    err.Error(),
			}, err
		}
		args = append(args, result.Result)
		results = append(results, result)
	}

	if operatorFunc, exists := operators[expr.Operator]; exists {
		result, err := operatorFunc(env, args)
		result.Args = results
		return result, err
	}

	err := errors.Errorf("unknown operator: %s", expr.Operator)
	return EvalResult{
		Operator: expr.Operator,
		Error:    err.Error(),
	}, err
}

// Match reports whether expr evaluates to true for env.
func Match(env Env, expr Expr) (bool, error) {
	result, err := Eval(env, expr)
	if err != nil {
		return false, err
	}
	matched, ok := result.Result.(bool)
	if !ok {
		return false, errors.Errorf("expression is not a condition: %s yields %T", expr.Operator, result.Result)
	}
	return matched, nil
}
