package template

import (
	"errors"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/erraggy/httpchain/httperrors"
)

// Evaluator compiles expression source into a reusable CompiledExpr. It is
// the seam between the template engine and whatever expression language
// backs it; ExprEvaluator is the shipped default.
type Evaluator interface {
	Compile(source string) (CompiledExpr, error)
}

// CompiledExpr evaluates against a scope built from the layered Context
// plus the built-in function set.
type CompiledExpr interface {
	Eval(scope map[string]any) (any, error)
}

// ExprEvaluator wraps github.com/expr-lang/expr. Bare-name lookups resolve
// against whatever scope map Eval receives; baseEnv supplies the built-in
// functions as entries of that same map so they compile and run the same
// way a context variable would.
type ExprEvaluator struct {
	maxComprehensionLength int
}

// NewExprEvaluator constructs an ExprEvaluator with the given options.
func NewExprEvaluator(opts ...EvaluatorOption) *ExprEvaluator {
	e := &ExprEvaluator{maxComprehensionLength: defaultMaxComprehensionLength}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluatorOption configures an ExprEvaluator.
type EvaluatorOption func(*ExprEvaluator)

// WithMaxComprehensionLength bounds the target length of expr-lang's
// predicate builtins (map/filter/all/any/none/one/count); exceeding it
// raises ComprehensionLimitError at evaluation time.
func WithMaxComprehensionLength(n int) EvaluatorOption {
	return func(e *ExprEvaluator) { e.maxComprehensionLength = n }
}

// Compile parses and bounds-checks source, returning a reusable program.
func (e *ExprEvaluator) Compile(source string) (CompiledExpr, error) {
	program, err := expr.Compile(
		source,
		expr.Patch(boundedSeq{limit: e.maxComprehensionLength}),
		expr.Function(boundedSeqFuncName, boundedSeqCheck),
	)
	if err != nil {
		return nil, &httperrors.TemplateError{Expr: source, Message: "compiling expression", Cause: err}
	}
	return &compiledExpr{source: source, program: program}, nil
}

type compiledExpr struct {
	source  string
	program *vm.Program
}

// Eval runs the compiled program against scope, which must already contain
// the built-in functions (see baseEnv) alongside the visible context names.
func (c *compiledExpr) Eval(scope map[string]any) (any, error) {
	out, err := expr.Run(c.program, scope)
	if err != nil {
		var cle *comprehensionLimitPanic
		if errors.As(err, &cle) {
			return nil, &httperrors.ComprehensionLimitError{Expr: c.source, Limit: cle.limit, Actual: cle.actual}
		}
		return nil, &httperrors.TemplateError{Expr: c.source, Message: "evaluating expression", Cause: err}
	}
	return out, nil
}
