package runner

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/erraggy/httpchain/hostiface"
	"github.com/erraggy/httpchain/httplog"
	"github.com/erraggy/httpchain/scenario"
	"github.com/erraggy/httpchain/template"
	"github.com/erraggy/httpchain/userfunc"
)

// Runner executes a built Scenario's stages in order, dispatching each
// stage's parametrize/parallel expansion and reporting every outcome to a
// hostiface.Host.
type Runner struct {
	transport Transport
	eval      template.Evaluator
	binder    *userfunc.Binder
	host      hostiface.Host
	rootPath  string
	suffix    string
	logger    httplog.Logger
}

// New constructs a Runner. host must not be nil; the other collaborators
// fall back to sensible defaults (see the Option functions) when omitted.
func New(host hostiface.Host, opts ...Option) *Runner {
	r := &Runner{
		transport: NewHTTPTransport(nil),
		eval:      template.NewExprEvaluator(),
		binder:    userfunc.NewBinder(nil),
		host:      host,
		suffix:    DefaultSuffix,
		logger:    httplog.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Discover walks dir for scenario files matching this Runner's configured
// suffix (see WithSuffix), defaulting to DefaultSuffix.
func (r *Runner) Discover(dir string) ([]string, error) {
	return Discover(dir, r.suffix)
}

// Run executes every stage of scn in authored order. A sequential stage
// failure marks subsequent non-always_run stages SKIPPED but does not abort
// the run; Run itself returns an error only when the scenario cannot start
// at all (e.g. scenario-level fixture resolution fails).
func (r *Runner) Run(ctx context.Context, scn *scenario.Scenario) error {
	tctx := template.NewContext()

	if len(scn.Fixtures) > 0 {
		fixtureVars, err := resolveFixtures(r.host, scn.Fixtures)
		if err != nil {
			return err
		}
		tctx.Push(template.NewFrame(scn.ID+"::fixtures", fixtureVars, false))
	}
	tctx.Push(template.NewFrame(scn.ID+"::saves", nil, true))

	deps := stageDeps{
		transport: r.transport,
		eval:      r.eval,
		binder:    r.binder,
		host:      r.host,
		rootPath:  r.rootPath,
		auth:      scn.Auth,
	}

	if _, err := evalSubstitutions(scn.Substitutions, tctx, r.eval, r.binder); err != nil {
		return err
	}

	r.host.ApplyMarkers("scenario", scn.Marks)

	priorFailed := false
	for _, stage := range scn.Stages {
		if r.host.Cancelled() {
			return nil
		}
		failed := r.runStageExpansion(ctx, deps, stage, tctx, priorFailed)
		priorFailed = priorFailed || failed
	}
	return nil
}

// runStageExpansion dispatches one stage's parametrize/parallel expansion,
// reports each resulting iteration to the host, and reports whether any
// iteration of this stage failed.
func (r *Runner) runStageExpansion(ctx context.Context, deps stageDeps, stage scenario.Stage, tctx *template.Context, priorFailed bool) bool {
	deps.host.ApplyMarkers("stage", stage.Marks)

	switch {
	case stage.Parallel != nil:
		return r.runParallel(ctx, deps, stage, tctx, priorFailed)
	case len(stage.Parametrize) > 0:
		return r.runParametrized(ctx, deps, stage, tctx, priorFailed)
	default:
		return r.runOne(ctx, deps, stage, tctx, "", priorFailed, nil)
	}
}

// runOne executes a single iteration against a fresh snapshot of tctx so
// its parameter/save layers never leak into sibling iterations, promoting
// saved values back into the caller's branch only on success. iterationVars,
// when non-empty, is pushed by executeStage above its own stage-scoped
// frames so parametrize/parallel row values outrank everything stage- and
// scenario-scoped.
func (r *Runner) runOne(ctx context.Context, deps stageDeps, stage scenario.Stage, tctx *template.Context, iterationKey string, priorFailed bool, iterationVars map[string]any) bool {
	branch := tctx.Snapshot()
	result := executeStage(ctx, deps, stage, branch, iterationKey, priorFailed, iterationVars)
	defer putStageResult(result)

	if result.Status == StatusSkipped {
		r.logger.Debug("stage skipped", "stage", stage.Name, "iteration", iterationKey)
		return priorFailed
	}
	if result.Status == StatusFailed {
		r.logger.Error("stage failed", "stage", stage.Name, "iteration", iterationKey, "err", result.Err)
		deps.host.ReportFail(stage.Name, iterationKey, result.Err)
		return true
	}

	r.logger.Debug("stage passed", "stage", stage.Name, "iteration", iterationKey)
	deps.host.ReportPass(stage.Name, iterationKey)
	promoteSaves(tctx, result.Saves)
	return false
}

// promoteSaves writes a completed stage's saved values into the scenario's
// shared global layer so later stages can reference them.
func promoteSaves(tctx *template.Context, saves map[string]any) {
	for k, v := range saves {
		_ = tctx.Set(k, v)
	}
}

// runParametrized runs each parametrize row sequentially, in authored
// (lexicographic) order; one row's failure does not stop later rows, but
// the overall stage reports failed if any row did.
func (r *Runner) runParametrized(ctx context.Context, deps stageDeps, stage scenario.Stage, tctx *template.Context, priorFailed bool) bool {
	rows, err := scenario.CartesianProduct(stage.Parametrize)
	if err != nil {
		deps.host.ReportFail(stage.Name, "", err)
		return true
	}
	ids := parameterRowIDs(stage.Parametrize, len(rows))

	anyFailed := false
	for i, row := range rows {
		if r.runOne(ctx, deps, stage, tctx, ids[i], priorFailed, row) {
			anyFailed = true
		}
	}
	return anyFailed
}

// runParallel dispatches a stage's repeat{} or foreach{} parallel
// invocations with bounded concurrency and optional rate limiting, merging
// each iteration's saves under a single mutex once every invocation
// completes.
func (r *Runner) runParallel(ctx context.Context, deps stageDeps, stage scenario.Stage, tctx *template.Context, priorFailed bool) bool {
	p := stage.Parallel

	var (
		iterations []string
		rows       []map[string]any
		maxConc    int
		callsPerSec float64
	)

	switch p.Kind {
	case scenario.ParallelRepeat:
		maxConc = p.Repeat.MaxConcurrency
		callsPerSec = p.Repeat.CallsPerSec
		iterations = make([]string, p.Repeat.N)
		rows = make([]map[string]any, p.Repeat.N)
		for i := range iterations {
			iterations[i] = fmt.Sprintf("%d", i)
		}
	case scenario.ParallelForeach:
		maxConc = p.Foreach.MaxConcurrency
		callsPerSec = p.Foreach.CallsPerSec
		expandedRows, err := scenario.CartesianProduct(p.Foreach.Parameters)
		if err != nil {
			deps.host.ReportFail(stage.Name, "", err)
			return true
		}
		rows = expandedRows
		iterations = parameterRowIDs(p.Foreach.Parameters, len(rows))
	}

	var limiter *rate.Limiter
	if callsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(callsPerSec), 1)
	}

	sem := semaphore.NewWeighted(int64(maxConc))
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	anyFailed := false
	var completed []map[string]any

	for i := range iterations {
		i := i
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return nil
				}
			}
			if deps.host.Cancelled() {
				return nil
			}

			iterCtx := tctx.Snapshot()
			iterSaves := template.NewFrame(stage.Name+"::parallel_saves", nil, true)
			iterCtx.Push(iterSaves)
			failed := r.runOne(gctx, deps, stage, iterCtx, iterations[i], priorFailed, rows[i])

			mu.Lock()
			anyFailed = anyFailed || failed
			completed = append(completed, iterSaves.Vars)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, saves := range completed {
		promoteSaves(tctx, saves)
	}
	return anyFailed
}

// parameterRowIDs derives an iteration key per Cartesian-product row. When a
// single parameter block supplies authored IDs matching the row count (the
// common case: one block, no further composition), those are used verbatim;
// otherwise rows are identified by their positional index.
func parameterRowIDs(params []scenario.Parameter, n int) []string {
	for _, p := range params {
		if ids := p.IDs(); len(ids) == n {
			return ids
		}
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}
	return ids
}
