package userfunc

import (
	"encoding/json"
	"testing"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/scenario"
)

type fakeSymbolTable map[string]any

func (f fakeSymbolTable) Lookup(symbol string) (any, bool) {
	v, ok := f[symbol]
	return v, ok
}

func refFor(t *testing.T, raw string) scenario.UserFunctionRef {
	t.Helper()
	var ref scenario.UserFunctionRef
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		t.Fatalf("building ref: %v", err)
	}
	return ref
}

func TestBinder_BindSave_ModuleSymbol(t *testing.T) {
	b := NewBinder(nil)
	saveFn := SaveFuncAdapter(func(resp *Response, kwargs map[string]any) (map[string]any, error) {
		return map[string]any{"order_id": "123"}, nil
	})
	b.RegisterModule("auth.helpers", map[string]any{"extract_order": saveFn})

	fn, err := b.BindSave(refFor(t, `"auth.helpers:extract_order"`))
	if err != nil {
		t.Fatalf("BindSave returned error: %v", err)
	}
	out, err := fn.Save(&Response{}, nil)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if out["order_id"] != "123" {
		t.Fatalf("Save result = %v", out)
	}
}

func TestBinder_BindVerify_BareSymbolViaSymbolTable(t *testing.T) {
	verifyFn := VerifyFuncAdapter(func(resp *Response, kwargs map[string]any) (bool, error) {
		return resp.StatusCode == 200, nil
	})
	b := NewBinder(fakeSymbolTable{"is_ok": verifyFn})

	fn, err := b.BindVerify(refFor(t, `"is_ok"`))
	if err != nil {
		t.Fatalf("BindVerify returned error: %v", err)
	}
	ok, err := fn.Verify(&Response{StatusCode: 200}, nil)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatal("Verify returned false, want true")
	}
}

func TestBinder_BindSave_UnregisteredModuleFails(t *testing.T) {
	b := NewBinder(nil)
	_, err := b.BindSave(refFor(t, `"missing.module:fn"`))
	if err == nil {
		t.Fatal("expected BindError for unregistered module")
	}
	var be *httperrors.BindError
	if !castBindError(err, &be) {
		t.Fatalf("error = %v (%T), want *httperrors.BindError", err, err)
	}
	if be.Kind != "save" {
		t.Fatalf("Kind = %q, want save", be.Kind)
	}
}

func TestBinder_BindAuth_WrongInterfaceFails(t *testing.T) {
	b := NewBinder(nil)
	b.RegisterModule("m", map[string]any{"fn": "not a callable"})

	_, err := b.BindAuth(refFor(t, `"m:fn"`))
	if err == nil {
		t.Fatal("expected BindError when symbol doesn't implement AuthFactory")
	}
}

func TestBinder_BindSubstitution_BareSymbolNotFoundFails(t *testing.T) {
	b := NewBinder(fakeSymbolTable{})
	_, err := b.BindSubstitution(refFor(t, `"missing_fn"`))
	if err == nil {
		t.Fatal("expected BindError for unresolved bare symbol")
	}
}

func castBindError(err error, target **httperrors.BindError) bool {
	if be, ok := err.(*httperrors.BindError); ok {
		*target = be
		return true
	}
	return false
}
