package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarFlags_SetAndString(t *testing.T) {
	v := varFlags{}
	require.NoError(t, v.Set("base_url=https://example.com"))
	require.NoError(t, v.Set("retries=3"))

	assert.Equal(t, "https://example.com", v["base_url"])
	assert.Equal(t, "3", v["retries"])
}

func TestVarFlags_SetRejectsMissingEquals(t *testing.T) {
	v := varFlags{}
	err := v.Set("no-equals-sign")
	assert.Error(t, err)
}

func TestLoadScenario_ResolvesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_ping.http.json")
	doc := `{
		"stages": [
			{"name": "ping", "request": {"url": "http://example.com/ping"}}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	scn, err := loadScenario(path, dir)
	require.NoError(t, err)
	assert.Len(t, scn.Stages, 1)
	assert.Equal(t, "ping", scn.Stages[0].Name)
}

func TestLoadScenario_InvalidDocumentFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_bad.http.json")
	doc := `{"stages": [{"name": "", "request": {"url": "http://example.com"}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := loadScenario(path, dir)
	assert.Error(t, err)
}

func TestDefaultRoot(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b"), defaultRoot(filepath.Join("a", "b", "test_x.http.json")))
}
