// Package template implements the scenario substitution language: the
// {{ expr }} extraction rule, the type-directed walk over scenario values,
// and the layered name→value Context consulted by bare-name lookups.
//
// The expression language itself is a pluggable Evaluator; the shipped
// default wraps github.com/expr-lang/expr rather than reimplementing an
// evaluator.
package template
