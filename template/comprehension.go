package template

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr/ast"
)

const defaultMaxComprehensionLength = 50000

// boundedSeqFuncName is the injected check call's callee name.
const boundedSeqFuncName = "__bounded_seq_check"

// comprehensionLimitPanic is the error boundedSeqCheck returns for an
// oversized target. expr.Run can hand it back wrapped, so Eval finds it
// with errors.As before mapping it to the public ComprehensionLimitError.
type comprehensionLimitPanic struct {
	limit, actual int
}

func (e *comprehensionLimitPanic) Error() string {
	return fmt.Sprintf("comprehension target length %d exceeds limit %d", e.actual, e.limit)
}

// comprehensionBuiltins are expr-lang's array predicate builtins whose
// first argument is the sequence being iterated.
var comprehensionBuiltins = map[string]bool{
	"map": true, "filter": true, "all": true, "any": true,
	"none": true, "one": true, "count": true,
}

// boundedSeq is an ast.Visitor (via expr.Patch) that rewrites every
// comprehension builtin call site to route its target sequence through
// boundedSeqFuncName first, so oversized targets fail before the builtin
// iterates them.
type boundedSeq struct {
	limit int
}

func (b boundedSeq) Visit(node *ast.Node) {
	call, ok := (*node).(*ast.BuiltinNode)
	if !ok || !comprehensionBuiltins[call.Name] || len(call.Arguments) == 0 {
		return
	}
	ast.Patch(&call.Arguments[0], &ast.CallNode{
		Callee: &ast.IdentifierNode{Value: boundedSeqFuncName},
		Arguments: []ast.Node{
			call.Arguments[0],
			&ast.IntegerNode{Value: b.limit},
		},
	})
}

// boundedSeqCheck is registered as an expr.Function under boundedSeqFuncName.
// It returns its first argument unchanged when within limit, otherwise a
// comprehensionLimitPanic that Eval translates into ComprehensionLimitError.
func boundedSeqCheck(params ...any) (any, error) {
	target := params[0]
	limit, _ := params[1].(int)

	length, err := seqLen(target)
	if err != nil {
		return nil, err
	}
	if length > limit {
		return nil, &comprehensionLimitPanic{limit: limit, actual: length}
	}
	return target, nil
}

func seqLen(v any) (int, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("template: cannot measure comprehension length of %T", v)
	}
}
