package template

import (
	"encoding/json"
	"regexp"

	"github.com/erraggy/httpchain/httperrors"
)

// tokenPattern matches a single {{ expr }} occurrence; expr is captured
// with surrounding whitespace trimmed by the caller.
var tokenPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// wholeTokenPattern matches a string that is exactly one token and nothing
// else (a "complete template" per spec §4.3), allowing surrounding
// whitespace inside the braces.
var wholeTokenPattern = regexp.MustCompile(`^\{\{(.*)\}\}$`)

// Extract reports whether s contains at least one {{ expr }} token. When s
// is exactly one token, complete is true and expr is that token's trimmed
// source; otherwise expr is empty and the caller should use ReplaceInline.
func Extract(s string) (exprSrc string, complete bool, found bool) {
	if m := wholeTokenPattern.FindStringSubmatch(s); m != nil && len(tokenPattern.FindAllString(s, 2)) == 1 {
		return trimSpace(m[1]), true, true
	}
	if tokenPattern.MatchString(s) {
		return "", false, true
	}
	return "", false, false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Evaluate compiles and evaluates source against ctx, using an evaluator's
// Compile and the context-aware base environment.
func Evaluate(eval Evaluator, source string, ctx *Context) (any, error) {
	compiled, err := eval.Compile(source)
	if err != nil {
		return nil, err
	}
	return compiled.Eval(baseEnv(ctx))
}

// Walk performs the type-directed recursive substitution spec §4.3
// describes: mappings and lists are walked element-wise; a string that is a
// complete template is replaced by its expression's raw result (preserving
// type); a string containing inline tokens has each token's result
// stringified and spliced back in; every other value passes through
// unchanged.
func Walk(value any, eval Evaluator, ctx *Context) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			walked, err := Walk(item, eval, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = walked
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			walked, err := Walk(item, eval, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = walked
		}
		return out, nil
	case string:
		return walkString(v, eval, ctx)
	default:
		return value, nil
	}
}

// WalkTyped walks a typed scenario value (a Body, Request, etc.) by
// round-tripping it through JSON into a generic mapping, walking that, and
// decoding the result back into a fresh value of the same type. This is the
// "dump to mapping, walk, revalidate into the original variant" rule spec
// §4.3 describes for typed records.
func WalkTyped[T any](value T, eval Evaluator, ctx *Context) (T, error) {
	var zero T
	raw, err := json.Marshal(value)
	if err != nil {
		return zero, &httperrors.TemplateError{Message: "encoding typed value for template walk", Cause: err}
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return zero, &httperrors.TemplateError{Message: "decoding typed value for template walk", Cause: err}
	}

	walked, err := Walk(generic, eval, ctx)
	if err != nil {
		return zero, err
	}

	walkedRaw, err := json.Marshal(walked)
	if err != nil {
		return zero, &httperrors.TemplateError{Message: "re-encoding walked value", Cause: err}
	}
	var result T
	if err := json.Unmarshal(walkedRaw, &result); err != nil {
		return zero, &httperrors.TemplateError{Message: "revalidating walked value into original shape", Cause: err}
	}
	return result, nil
}

func walkString(s string, eval Evaluator, ctx *Context) (any, error) {
	exprSrc, complete, found := Extract(s)
	if !found {
		return s, nil
	}
	if complete {
		result, err := Evaluate(eval, exprSrc, ctx)
		if err != nil {
			return nil, annotateTemplateError(err, exprSrc)
		}
		return result, nil
	}

	var evalErr error
	replaced := tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		if evalErr != nil {
			return token
		}
		inner := trimSpace(tokenPattern.FindStringSubmatch(token)[1])
		result, err := Evaluate(eval, inner, ctx)
		if err != nil {
			evalErr = annotateTemplateError(err, inner)
			return token
		}
		return stringify(result)
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return replaced, nil
}

func annotateTemplateError(err error, exprSrc string) error {
	if te, ok := err.(*httperrors.TemplateError); ok && te.Expr == "" {
		te.Expr = exprSrc
		return te
	}
	return err
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		var plain string
		if json.Unmarshal(raw, &plain) == nil {
			return plain
		}
		return string(raw)
	}
}
