// Package commands provides CLI command handlers for httpchain.
package commands

import (
	"fmt"
	"os"
	"sync"

	"github.com/erraggy/httpchain/internal/cliutil"
	"github.com/erraggy/httpchain/internal/maputil"
)

// cliHost implements hostiface.Host for the command-line driver: fixture
// values come from --var flags, outcomes are printed to stdout as they
// arrive, and cancellation is driven by a channel the caller closes on
// SIGINT.
type cliHost struct {
	vars   map[string]any
	cancel chan struct{}

	mu       sync.Mutex
	perStage map[string]*stageTally
}

type stageTally struct {
	passed, failed int
}

func newCLIHost(vars map[string]any, cancel chan struct{}) *cliHost {
	return &cliHost{
		vars:     vars,
		cancel:   cancel,
		perStage: make(map[string]*stageTally),
	}
}

func (h *cliHost) FixtureValue(name string) (any, error) {
	if v, ok := h.vars[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("commands: fixture %q not supplied via --var", name)
}

func (h *cliHost) ReportPass(stage string, iterationKey string) {
	h.mu.Lock()
	h.tally(stage).passed++
	h.mu.Unlock()
	cliutil.Writef(os.Stdout, "PASS  %s\n", iterationLabel(stage, iterationKey))
}

func (h *cliHost) ReportFail(stage string, iterationKey string, err error) {
	h.mu.Lock()
	h.tally(stage).failed++
	h.mu.Unlock()
	cliutil.Writef(os.Stdout, "FAIL  %s: %v\n", iterationLabel(stage, iterationKey), err)
}

func (h *cliHost) tally(stage string) *stageTally {
	t, ok := h.perStage[stage]
	if !ok {
		t = &stageTally{}
		h.perStage[stage] = t
	}
	return t
}

func (h *cliHost) Cancelled() bool {
	select {
	case <-h.cancel:
		return true
	default:
		return false
	}
}

func (h *cliHost) Cancel() <-chan struct{} {
	return h.cancel
}

func (h *cliHost) ApplyMarkers(scope string, markers []string) {
	if len(markers) == 0 {
		return
	}
	cliutil.Writef(os.Stderr, "[%s] marks: %v\n", scope, markers)
}

// Summary prints a final per-stage pass/fail count, sorted by stage name,
// and reports whether the overall run should be considered a success.
func (h *cliHost) Summary() (ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ok = true
	cliutil.Writef(os.Stdout, "\nSummary:\n")
	for _, stage := range maputil.SortedKeys(h.perStage) {
		t := h.perStage[stage]
		cliutil.Writef(os.Stdout, "  %-24s passed=%d failed=%d\n", stage, t.passed, t.failed)
		if t.failed > 0 {
			ok = false
		}
	}
	return ok
}

func iterationLabel(stage, iterationKey string) string {
	if iterationKey == "" {
		return stage
	}
	return fmt.Sprintf("%s[%s]", stage, iterationKey)
}
