package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/erraggy/httpchain/internal/cliutil"
	"github.com/erraggy/httpchain/resolver"
	"github.com/erraggy/httpchain/scenario"
)

// Writef writes formatted output to w, re-exported from internal/cliutil so
// main need not import an internal package directly.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// varFlags collects repeated --var k=v flags into a map[string]any, used as
// scenario-level fixture values.
type varFlags map[string]any

func (v varFlags) String() string {
	parts := make([]string, 0, len(v))
	for k, val := range v {
		parts = append(parts, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(parts, ",")
}

func (v varFlags) Set(s string) error {
	k, val, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("invalid --var %q: expected key=value", s)
	}
	v[k] = val
	return nil
}

// loadScenario resolves path's $refs under root and decodes the typed,
// validated Scenario model, the shared first half of `run` and `validate`.
func loadScenario(path, root string) (*scenario.Scenario, error) {
	opts := []resolver.Option{}
	if root != "" {
		opts = append(opts, resolver.WithRootPath(root))
	}

	resolved, err := resolver.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	scn, err := scenario.Build(path, resolved)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}
	return scn, nil
}

func defaultRoot(path string) string {
	return filepath.Dir(path)
}
