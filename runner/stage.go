package runner

import (
	"context"
	"net/http"
	"time"

	"github.com/erraggy/httpchain/hostiface"
	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/scenario"
	"github.com/erraggy/httpchain/template"
	"github.com/erraggy/httpchain/userfunc"
)

// StageStatus names a stage execution's current phase, following the
// lifecycle: PENDING -> (SKIPPED | BUILDING_CTX -> RENDERING -> SENDING ->
// PROCESSING_RESPONSE -> DONE), with any of the active phases able to
// transition to FAILED.
type StageStatus int

const (
	StatusPending StageStatus = iota
	StatusSkipped
	StatusBuildingContext
	StatusRendering
	StatusSending
	StatusProcessingResponse
	StatusDone
	StatusFailed
)

func (s StageStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSkipped:
		return "skipped"
	case StatusBuildingContext:
		return "building_context"
	case StatusRendering:
		return "rendering"
	case StatusSending:
		return "sending"
	case StatusProcessingResponse:
		return "processing_response"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StageResult is one stage invocation's outcome: a single iteration of a
// parametrized or parallel stage gets its own StageResult, identified by
// IterationKey.
type StageResult struct {
	Stage        string
	IterationKey string
	Status       StageStatus
	Saves        map[string]any
	Err          error
}

// stageDeps bundles the collaborators an executeStage call needs, shared
// across every iteration of a scenario run.
type stageDeps struct {
	transport Transport
	eval      template.Evaluator
	binder    *userfunc.Binder
	host      hostiface.Host
	rootPath  string
	auth      *scenario.UserFunctionRef // scenario-level default, overridden per-stage/request
}

// executeStage runs one stage invocation to completion against tctx, which
// must already carry the stage's scenario-scoped ancestry (pushed by the
// caller). priorFailed reports whether an earlier stage in the same
// sequential chain failed, to decide SKIPPED vs running for AlwaysRun
// stages. iterationVars, when non-empty, is pushed above the stage's own
// fixtures/saves frames so a parametrize/parallel row outranks every
// stage- and scenario-scoped name.
func executeStage(ctx context.Context, deps stageDeps, stage scenario.Stage, tctx *template.Context, iterationKey string, priorFailed bool, iterationVars map[string]any) *StageResult {
	result := getStageResult()
	result.Stage = stage.Name
	result.IterationKey = iterationKey

	if priorFailed && !stage.AlwaysRun {
		result.Status = StatusSkipped
		return result
	}

	result.Status = StatusBuildingContext
	if len(stage.Fixtures) > 0 {
		fixtureVars, err := resolveFixtures(deps.host, stage.Fixtures)
		if err != nil {
			return fail(result, err)
		}
		tctx.Push(template.NewFrame(stage.Name+"::fixtures", fixtureVars, false))
	}
	tctx.Push(template.NewFrame(stage.Name+"::saves", nil, true))
	if len(iterationVars) > 0 {
		tctx.Push(template.NewFrame(stage.Name+"::iteration", iterationVars, false))
	}
	if _, err := evalSubstitutions(stage.Substitutions, tctx, deps.eval, deps.binder); err != nil {
		return fail(result, err)
	}

	result.Status = StatusRendering
	renderedReq, err := template.WalkTyped(stage.Request, deps.eval, tctx)
	if err != nil {
		return fail(result, err)
	}

	result.Status = StatusSending
	httpReq, err := buildRequest(ctx, renderedReq, deps.rootPath)
	if err != nil {
		return fail(result, err)
	}
	if err := applyAuth(httpReq, deps, renderedReq.Auth, tctx, deps.eval); err != nil {
		return fail(result, err)
	}
	timeout := time.Duration(renderedReq.EffectiveTimeout() * float64(time.Second))
	httpResp, err := deps.transport.Send(ctx, httpReq, timeout, nil, renderedReq.EffectiveAllowRedirects())
	if err != nil {
		return fail(result, err)
	}

	result.Status = StatusProcessingResponse
	resp, err := buildResponse(httpResp)
	if err != nil {
		return fail(result, err)
	}
	saves, err := processResponse(stage.Name, stage, resp, tctx, deps.eval, deps.binder, deps.rootPath)
	if err != nil {
		for k, v := range saves {
			result.Saves[k] = v
		}
		return fail(result, err)
	}
	for k, v := range saves {
		result.Saves[k] = v
	}

	result.Status = StatusDone
	return result
}

func fail(result *StageResult, err error) *StageResult {
	result.Status = StatusFailed
	result.Err = err
	return result
}

// applyAuth resolves the effective auth ref (request override beats the
// scenario-level default) and, if one applies, invokes its AuthFactory to
// mutate req in place.
func applyAuth(req *http.Request, deps stageDeps, override *scenario.UserFunctionRef, tctx *template.Context, eval template.Evaluator) error {
	ref := override
	if ref == nil {
		ref = deps.auth
	}
	if ref == nil {
		return nil
	}

	factory, err := deps.binder.BindAuth(*ref)
	if err != nil {
		return err
	}
	kwargs, err := walkKwargs(ref.Kwargs, eval, tctx)
	if err != nil {
		return err
	}
	authenticator, err := factory.Auth(kwargs)
	if err != nil {
		return &httperrors.BindError{Ref: ref.Raw, Kind: "auth", Message: "constructing authenticator", Cause: err}
	}
	return authenticator.Apply(req)
}

func resolveFixtures(host hostiface.Host, names []string) (map[string]any, error) {
	vars := make(map[string]any, len(names))
	for _, name := range names {
		v, err := host.FixtureValue(name)
		if err != nil {
			return nil, &httperrors.ScenarioError{Message: "resolving fixture " + name, Cause: err}
		}
		vars[name] = v
	}
	return vars, nil
}
