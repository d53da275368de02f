package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_NoRefsPassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "scenario.json", map[string]any{
		"stages": []any{map[string]any{"name": "ping"}},
	})

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ping", got["stages"].([]any)[0].(map[string]any)["name"])
}

func TestLoad_LocalRef(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "scenario.json", map[string]any{
		"components": map[string]any{
			"base_request": map[string]any{"url": "/a", "timeout": float64(30)},
		},
		"request": map[string]any{"$ref": "#/components/base_request"},
	})

	got, err := Load(path)
	require.NoError(t, err)
	req := got["request"].(map[string]any)
	assert.Equal(t, "/a", req["url"])
	assert.Equal(t, float64(30), req["timeout"])
}

func TestLoad_FileRefWithSiblingDeepMerge(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "base.json", map[string]any{
		"request": map[string]any{
			"url":     "/a",
			"headers": map[string]any{"H": "1"},
			"timeout": float64(30),
		},
	})
	callerPath := writeJSON(t, dir, "caller.json", map[string]any{
		"$ref":    "base.json",
		"request": map[string]any{"url": "/b", "headers": map[string]any{"X": "2"}},
	})

	got, err := Load(callerPath)
	require.NoError(t, err)

	req := got["request"].(map[string]any)
	assert.Equal(t, "/b", req["url"])
	assert.Equal(t, float64(30), req["timeout"])
	headers := req["headers"].(map[string]any)
	assert.Equal(t, "1", headers["H"])
	assert.Equal(t, "2", headers["X"])
}

func TestLoad_CycleDetection(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "a.json", map[string]any{"$ref": "b.json"})
	aPath := filepath.Join(dir, "a.json")
	writeJSON(t, dir, "b.json", map[string]any{"$ref": "a.json"})

	_, err := Load(aPath)
	require.Error(t, err)
	var cycleErr *httperrors.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestLoad_PointerNotFound(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "scenario.json", map[string]any{
		"request": map[string]any{"$ref": "#/missing"},
	})

	_, err := Load(path)
	require.Error(t, err)
	var pointerErr *httperrors.PointerError
	require.ErrorAs(t, err, &pointerErr)
}

func TestLoad_ParentTraversalWithinLimit(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeJSON(t, root, "shared.json", map[string]any{"value": "ok"})
	callerPath := writeJSON(t, nested, "caller.json", map[string]any{
		"thing": map[string]any{"$ref": "../../shared.json"},
	})

	got, err := Load(callerPath, WithRootPath(root), WithMaxParentTraversal(2))
	require.NoError(t, err)
	assert.Equal(t, "ok", got["thing"].(map[string]any)["value"])
}

func TestLoad_ParentTraversalExceedsLimitFails(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeJSON(t, root, "shared.json", map[string]any{"value": "ok"})
	callerPath := writeJSON(t, nested, "caller.json", map[string]any{
		"thing": map[string]any{"$ref": "../../shared.json"},
	})

	_, err := Load(callerPath, WithRootPath(root), WithMaxParentTraversal(1))
	require.Error(t, err)
	var pathErr *httperrors.PathError
	require.ErrorAs(t, err, &pathErr)
}

func TestLoad_PathEscapingRootFails(t *testing.T) {
	outside := t.TempDir()
	root := t.TempDir()
	writeJSON(t, outside, "secret.json", map[string]any{"value": "leak"})
	callerPath := writeJSON(t, root, "caller.json", map[string]any{
		"thing": map[string]any{"$ref": "../" + filepath.Base(outside) + "/secret.json"},
	})

	_, err := Load(callerPath, WithRootPath(root), WithMaxParentTraversal(10))
	require.Error(t, err)
	var pathErr *httperrors.PathError
	require.ErrorAs(t, err, &pathErr)
}

func TestLoad_NestedRefsResolvedBottomUp(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "leaf.json", map[string]any{"timeout": float64(99)})
	writeJSON(t, dir, "mid.json", map[string]any{"request": map[string]any{"$ref": "leaf.json"}})
	callerPath := writeJSON(t, dir, "caller.json", map[string]any{"$ref": "mid.json"})

	got, err := Load(callerPath)
	require.NoError(t, err)
	req := got["request"].(map[string]any)
	assert.Equal(t, float64(99), req["timeout"])
}
