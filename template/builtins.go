package template

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"github.com/google/uuid"
)

// baseEnv returns the scope entries available to every compiled expression.
// len, min, max, sum, abs, round, any, all, int and float are expr-lang
// language builtins already and need no registration here; this supplies
// the context-aware helpers (get/exists/env/uuid4), str, and the collection
// helpers expr-lang does not ship, merged with ctx's visible names so a bare
// identifier resolves the same way a function call would. No range or bool
// function is supplied.
func baseEnv(ctx *Context) map[string]any {
	env := map[string]any{
		"get": func(name string, def any) any {
			if v, ok := ctx.Get(name); ok {
				return v
			}
			return def
		},
		"exists": func(name string) bool {
			return ctx.Exists(name)
		},
		"env": func(name string, def string) string {
			if v, ok := os.LookupEnv(name); ok {
				return v
			}
			return def
		},
		"uuid4": func() string {
			return uuid.NewString()
		},
		"sorted": func(v []any) []any {
			out := append([]any(nil), v...)
			sort.Slice(out, func(i, j int) bool { return lessAny(out[i], out[j]) })
			return out
		},
		"reversed": func(v []any) []any {
			out := make([]any, len(v))
			for i, item := range v {
				out[len(v)-1-i] = item
			}
			return out
		},
		"enumerate": func(v []any) []any {
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = []any{i, item}
			}
			return out
		},
		"zip": func(a, b []any) []any {
			n := len(a)
			if len(b) < n {
				n = len(b)
			}
			out := make([]any, n)
			for i := 0; i < n; i++ {
				out[i] = []any{a[i], b[i]}
			}
			return out
		},
		"str":   func(v any) string { return fmt.Sprintf("%v", v) },
		"list":  func(v ...any) []any { return v },
		"dict":  func() map[string]any { return map[string]any{} },
		"set":   func(v []any) []any { return dedupe(v) },
		"tuple": func(v ...any) []any { return v },
	}
	for k, v := range ctx.Names() {
		env[k] = v
	}
	return env
}

func lessAny(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func dedupe(v []any) []any {
	seen := make(map[any]bool, len(v))
	out := make([]any, 0, len(v))
	for _, item := range v {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
