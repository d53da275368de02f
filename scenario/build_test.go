package scenario

import "testing"

func TestBuild_DecodesAndAssignsIDs(t *testing.T) {
	resolved := map[string]any{
		"description": "smoke test",
		"stages": []any{
			map[string]any{
				"name": "get_health",
				"request": map[string]any{
					"url": "/health",
				},
				"response": []any{
					map[string]any{"verify": map[string]any{"status": float64(200)}},
				},
			},
		},
	}

	scn, err := Build("scenarios/health.json", resolved)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if scn.ID == "" {
		t.Fatal("expected non-empty scenario ID")
	}
	if len(scn.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(scn.Stages))
	}
	if scn.Stages[0].ID == "" {
		t.Fatal("expected non-empty stage ID")
	}
}

func TestBuild_StableIDsForSamePath(t *testing.T) {
	resolved := map[string]any{
		"stages": []any{
			map[string]any{"name": "s1", "request": map[string]any{"url": "/x"}},
		},
	}

	first, err := Build("scenarios/a.json", resolved)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	second, err := Build("scenarios/a.json", resolved)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected stable scenario IDs, got %q and %q", first.ID, second.ID)
	}
	if first.Stages[0].ID != second.Stages[0].ID {
		t.Fatal("expected stable stage IDs")
	}
}

func TestBuild_ValidationFailurePropagates(t *testing.T) {
	resolved := map[string]any{
		"stages": []any{
			map[string]any{"name": "dup", "request": map[string]any{"url": "/x"}},
			map[string]any{"name": "dup", "request": map[string]any{"url": "/y"}},
		},
	}

	_, err := Build("scenarios/dup.json", resolved)
	if err == nil {
		t.Fatal("expected validation error for duplicate stage names")
	}
}
