package termination

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/PaesslerAG/gval"
)

// ErrInvalidExpression is returned by Parse for malformed policy expressions.
var ErrInvalidExpression = errors.New("invalid termination expression")

// language is the policy expression language:
//
//	fitness(10)          FitnessThreshold
//	generations(200)     GenerationCount
//	elapsed("30s")       TimeElapsed, also elapsed(30) in seconds
//	stagnation(25)       FitnessStagnation
//	or(p, ...) and(p, ...)
var language = gval.NewLanguage(
	gval.Base(),
	gval.Function("fitness", func(args ...interface{}) (interface{}, error) {
		t, err := numberArg("fitness", args)
		if err != nil {
			return nil, err
		}
		return FitnessThreshold(t), nil
	}),
	gval.Function("generations", func(args ...interface{}) (interface{}, error) {
		n, err := countArg("generations", args)
		if err != nil {
			return nil, err
		}
		return GenerationCount(n), nil
	}),
	gval.Function("stagnation", func(args ...interface{}) (interface{}, error) {
		n, err := countArg("stagnation", args)
		if err != nil {
			return nil, err
		}
		return FitnessStagnation(n), nil
	}),
	gval.Function("elapsed", func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("elapsed takes 1 argument, got %d", len(args))
		}
		switch v := args[0].(type) {
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("elapsed: %w", err)
			}
			return TimeElapsed(d), nil
		case float64:
			return TimeElapsed(time.Duration(v * float64(time.Second))), nil
		default:
			return nil, fmt.Errorf("elapsed: unsupported argument %v", v)
		}
	}),
	gval.Function("or", func(args ...interface{}) (interface{}, error) {
		policies, err := policyArgs("or", args)
		if err != nil {
			return nil, err
		}
		return Or(policies...), nil
	}),
	gval.Function("and", func(args ...interface{}) (interface{}, error) {
		policies, err := policyArgs("and", args)
		if err != nil {
			return nil, err
		}
		return And(policies...), nil
	}),
)

// Parse builds a policy from an expression such as
// `or(fitness(10), generations(200))`.
func Parse(expr string) (Policy, error) {
	value, err := language.Evaluate(expr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, expr, err)
	}
	p, ok := value.(Policy)
	if !ok {
		return nil, fmt.Errorf("%w: %q evaluates to %T, not a policy", ErrInvalidExpression, expr, value)
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Policy {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func numberArg(name string, args []interface{}) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s takes 1 argument, got %d", name, len(args))
	}
	v, ok := args[0].(float64)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %v", name, args[0])
	}
	return v, nil
}

func countArg(name string, args []interface{}) (int, error) {
	v, err := numberArg(name, args)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("%s: expected a non-negative integer, got %g", name, v)
	}
	return int(v), nil
}

func policyArgs(name string, args []interface{}) ([]Policy, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s needs at least one policy", name)
	}
	policies := make([]Policy, len(args))
	for i, a := range args {
		p, ok := a.(Policy)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is not a policy: %v", name, i+1, a)
		}
		policies[i] = p
	}
	return policies, nil
}
