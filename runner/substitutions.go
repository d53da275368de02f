package runner

import (
	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/scenario"
	"github.com/erraggy/httpchain/template"
	"github.com/erraggy/httpchain/userfunc"
)

// evalSubstitutions evaluates subs in authoring order against ctx so later
// entries may reference earlier ones, returning the merged bindings.
// vars{} entries are walked through the template engine; functions{}
// entries invoke a bound SubstitutionFunc with templated kwargs. Both kinds
// write their results into ctx's top writable frame as they go, then the
// accumulated map is returned for the caller to promote elsewhere if
// needed.
func evalSubstitutions(subs []scenario.Substitution, ctx *template.Context, eval template.Evaluator, binder *userfunc.Binder) (map[string]any, error) {
	out := make(map[string]any)
	for _, sub := range subs {
		switch sub.Kind {
		case scenario.SubstitutionVars:
			for name, raw := range sub.Vars {
				walked, err := template.Walk(raw, eval, ctx)
				if err != nil {
					return nil, err
				}
				if err := ctx.Set(name, walked); err != nil {
					return nil, err
				}
				out[name] = walked
			}
		case scenario.SubstitutionFunctions:
			for name, ref := range sub.Functions {
				fn, err := binder.BindSubstitution(ref)
				if err != nil {
					return nil, err
				}
				kwargs, err := walkKwargs(ref.Kwargs, eval, ctx)
				if err != nil {
					return nil, err
				}
				value, err := fn.Substitute(kwargs)
				if err != nil {
					return nil, &httperrors.BindError{Ref: ref.Raw, Kind: "substitution", Message: "invoking substitution function", Cause: err}
				}
				if err := ctx.Set(name, value); err != nil {
					return nil, err
				}
				out[name] = value
			}
		}
	}
	return out, nil
}

func walkKwargs(kwargs map[string]any, eval template.Evaluator, ctx *template.Context) (map[string]any, error) {
	if len(kwargs) == 0 {
		return nil, nil
	}
	walked, err := template.Walk(map[string]any(kwargs), eval, ctx)
	if err != nil {
		return nil, err
	}
	return walked.(map[string]any), nil
}
