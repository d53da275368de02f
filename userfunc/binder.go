package userfunc

import (
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/scenario"
)

// Binder resolves scenario.UserFunctionRef values into the narrow
// interface their call site expects. module:symbol references are
// registered ahead of time via RegisterModule; bare symbols fall through to
// a host-supplied SymbolTable.
type Binder struct {
	modules map[string]map[string]any
	symbols SymbolTable
}

// NewBinder constructs a Binder. symbols may be nil if the scenario set
// never uses bare-symbol references.
func NewBinder(symbols SymbolTable) *Binder {
	return &Binder{modules: make(map[string]map[string]any), symbols: symbols}
}

// RegisterModule makes callables in symbols available under module, for
// "module:symbol"-style references.
func (b *Binder) RegisterModule(module string, symbols map[string]any) {
	b.modules[module] = symbols
}

func (b *Binder) resolve(ref scenario.UserFunctionRef) (any, error) {
	if ref.IsBareSymbol() {
		if b.symbols != nil {
			if v, ok := b.symbols.Lookup(ref.Symbol); ok {
				return v, nil
			}
		}
		return nil, &httperrors.BindError{Ref: ref.Raw, Message: "bare symbol not found in host symbol table"}
	}

	mod, ok := b.modules[ref.Module]
	if !ok {
		return nil, &httperrors.BindError{Ref: ref.Raw, Message: fmt.Sprintf("module %q is not registered", ref.Module)}
	}
	sym, ok := mod[ref.Symbol]
	if !ok {
		return nil, &httperrors.BindError{Ref: ref.Raw, Message: fmt.Sprintf("symbol %q not found in module %q", ref.Symbol, ref.Module)}
	}
	return sym, nil
}

// BindSave resolves ref and asserts it implements SaveFunc.
func (b *Binder) BindSave(ref scenario.UserFunctionRef) (SaveFunc, error) {
	v, err := b.resolve(ref)
	if err != nil {
		return nil, withKind(err, "save")
	}
	fn, ok := v.(SaveFunc)
	if !ok {
		return nil, &httperrors.BindError{Ref: ref.Raw, Kind: "save", Message: fmt.Sprintf("%T does not implement SaveFunc", v)}
	}
	return fn, nil
}

// BindVerify resolves ref and asserts it implements VerifyFunc.
func (b *Binder) BindVerify(ref scenario.UserFunctionRef) (VerifyFunc, error) {
	v, err := b.resolve(ref)
	if err != nil {
		return nil, withKind(err, "verify")
	}
	fn, ok := v.(VerifyFunc)
	if !ok {
		return nil, &httperrors.BindError{Ref: ref.Raw, Kind: "verify", Message: fmt.Sprintf("%T does not implement VerifyFunc", v)}
	}
	return fn, nil
}

// BindAuth resolves ref and asserts it implements AuthFactory.
func (b *Binder) BindAuth(ref scenario.UserFunctionRef) (AuthFactory, error) {
	v, err := b.resolve(ref)
	if err != nil {
		return nil, withKind(err, "auth")
	}
	fn, ok := v.(AuthFactory)
	if !ok {
		return nil, &httperrors.BindError{Ref: ref.Raw, Kind: "auth", Message: fmt.Sprintf("%T does not implement AuthFactory", v)}
	}
	return fn, nil
}

// BindSubstitution resolves ref and asserts it implements SubstitutionFunc.
func (b *Binder) BindSubstitution(ref scenario.UserFunctionRef) (SubstitutionFunc, error) {
	v, err := b.resolve(ref)
	if err != nil {
		return nil, withKind(err, "substitution")
	}
	fn, ok := v.(SubstitutionFunc)
	if !ok {
		return nil, &httperrors.BindError{Ref: ref.Raw, Kind: "substitution", Message: fmt.Sprintf("%T does not implement SubstitutionFunc", v)}
	}
	return fn, nil
}

func withKind(err error, kind string) error {
	if be, ok := err.(*httperrors.BindError); ok {
		be.Kind = kind
		return be
	}
	return err
}
