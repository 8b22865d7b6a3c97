package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/Veraticus/docsift/internal/model"
)

// Rule evaluation defaults.
const (
	DefaultRuleTimeout   = 250 * time.Millisecond
	DefaultRuleCostLimit = 100_000
)

// interruptEvery is the number of comprehension iterations between checks of
// the evaluation deadline.
const interruptEvery = 1

// ErrNotBoolean is returned when a condition evaluates to a non-boolean value.
var ErrNotBoolean = errors.New("condition did not evaluate to a boolean")

// RuleEvaluator runs custom validation conditions written in CEL against a
// record bound to the variable "data". Programs are compiled once per
// condition and evaluated under a cost limit and a timeout.
type RuleEvaluator struct {
	env       *cel.Env
	programs  sync.Map
	timeout   time.Duration
	costLimit uint64
}

type compiledRule struct {
	program cel.Program
	err     error
}

// NewRuleEvaluator builds the CEL environment. Non-positive limits fall back
// to the defaults.
func NewRuleEvaluator(timeout time.Duration, costLimit uint64) (*RuleEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("data", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule environment: %w", err)
	}

	if timeout <= 0 {
		timeout = DefaultRuleTimeout
	}
	if costLimit == 0 {
		costLimit = DefaultRuleCostLimit
	}

	return &RuleEvaluator{env: env, timeout: timeout, costLimit: costLimit}, nil
}

// Compile checks a condition without evaluating it.
func (e *RuleEvaluator) Compile(condition string) error {
	_, err := e.program(condition)
	return err
}

// Evaluate reports whether condition holds for record.
func (e *RuleEvaluator) Evaluate(ctx context.Context, condition string, record model.Record) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("panic evaluating condition: %v", r)
		}
	}()

	prg, err := e.program(condition)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, _, err := prg.ContextEval(ctx, map[string]any{"data": celData(record)})
	if err != nil {
		return false, err
	}

	b, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("%w: got %s", ErrNotBoolean, out.Type().TypeName())
	}
	return b, nil
}

func (e *RuleEvaluator) program(condition string) (cel.Program, error) {
	if v, ok := e.programs.Load(condition); ok {
		c := v.(compiledRule)
		return c.program, c.err
	}

	prg, err := e.compile(condition)
	e.programs.Store(condition, compiledRule{program: prg, err: err})
	return prg, err
}

func (e *RuleEvaluator) compile(condition string) (cel.Program, error) {
	ast, iss := e.env.Compile(condition)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("invalid condition: %w", iss.Err())
	}

	prg, err := e.env.Program(ast,
		cel.CostLimit(e.costLimit),
		cel.InterruptCheckFrequency(interruptEvery),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid condition: %w", err)
	}
	return prg, nil
}

// celData converts values CEL cannot adapt natively.
func celData(record model.Record) map[string]any {
	data := make(map[string]any, len(record))
	for k, v := range record {
		data[k] = celValue(v)
	}
	return data
}

func celValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case model.Record:
		return celData(x)
	case map[string]any:
		return celData(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = celValue(item)
		}
		return out
	case int:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
	}
	return v
}
