package template

import "testing"

func TestContext_LookupPrecedence(t *testing.T) {
	ctx := NewContext()
	ctx.Push(NewFrame("scenario_substitutions", map[string]any{"base_url": "http://a"}, false))
	ctx.Push(NewFrame("global", map[string]any{"order_id": "1"}, false))
	ctx.Push(NewFrame("stage_fixtures", map[string]any{"base_url": "http://b"}, false))

	v, ok := ctx.Get("base_url")
	if !ok || v != "http://b" {
		t.Fatalf("Get(base_url) = %v, %v, want http://b, true", v, ok)
	}
	v, ok = ctx.Get("order_id")
	if !ok || v != "1" {
		t.Fatalf("Get(order_id) = %v, %v, want 1, true", v, ok)
	}
	if _, ok := ctx.Get("missing"); ok {
		t.Fatal("Get(missing) should not be found")
	}
}

func TestContext_SetWritesToTopWritableFrame(t *testing.T) {
	ctx := NewContext()
	ctx.Push(NewFrame("fixtures", map[string]any{"x": 1}, false))
	ctx.Push(NewFrame("saves", map[string]any{}, true))

	if err := ctx.Set("y", 2); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	v, ok := ctx.Get("y")
	if !ok || v != 2 {
		t.Fatalf("Get(y) = %v, %v, want 2, true", v, ok)
	}
	if _, ok := ctx.frames[0].Vars["y"]; ok {
		t.Fatal("Set must not write into a read-only frame")
	}
}

func TestContext_SetWithNoWritableFrameFails(t *testing.T) {
	ctx := NewContext()
	ctx.Push(NewFrame("fixtures", map[string]any{}, false))

	if err := ctx.Set("y", 2); err != ErrNoWritableFrame {
		t.Fatalf("Set returned %v, want ErrNoWritableFrame", err)
	}
}

func TestContext_SnapshotIsolatesBranches(t *testing.T) {
	ctx := NewContext()
	ctx.Push(NewFrame("base", map[string]any{"a": 1}, true))

	branchA := ctx.Snapshot()
	branchB := ctx.Snapshot()

	branchA.Push(NewFrame("iter_a", map[string]any{"b": "a-value"}, true))
	branchB.Push(NewFrame("iter_b", map[string]any{"b": "b-value"}, true))

	va, _ := branchA.Get("b")
	vb, _ := branchB.Get("b")
	if va != "a-value" || vb != "b-value" {
		t.Fatalf("branches leaked into each other: a=%v b=%v", va, vb)
	}
	if _, ok := ctx.Get("b"); ok {
		t.Fatal("pushing onto a snapshot must not affect the original context")
	}
}

func TestContext_PopRemovesTopFrame(t *testing.T) {
	ctx := NewContext()
	ctx.Push(NewFrame("f1", map[string]any{"a": 1}, false))
	ctx.Push(NewFrame("f2", map[string]any{"a": 2}, false))
	ctx.Pop()

	v, _ := ctx.Get("a")
	if v != 1 {
		t.Fatalf("Get(a) after Pop = %v, want 1", v)
	}
}
