package scenario

import (
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/internal/httputil"
	"github.com/erraggy/httpchain/internal/pathutil"
)

// Validate enforces the structural and cross-field invariants spec.md §4.2
// requires, returning every violation found (not just the first).
func Validate(scn *Scenario) []error {
	var errs []error

	errs = append(errs, validateFixtureNames(scn.Fixtures, "fixtures")...)
	errs = append(errs, validateSubstitutionVsFixtures(scn.Substitutions, scn.Fixtures, "substitutions")...)

	p := pathutil.Get()
	defer pathutil.Put(p)
	p.Push("stages")

	seenStages := make(map[string]bool, len(scn.Stages))
	for i, stage := range scn.Stages {
		p.PushIndex(i)
		path := p.String()

		if stage.Name == "" {
			errs = append(errs, &httperrors.ValidationError{Path: path, Field: "name", Message: "stage name must not be empty"})
		} else if seenStages[stage.Name] {
			errs = append(errs, &httperrors.ValidationError{Path: path, Field: "name", Message: fmt.Sprintf("duplicate stage name %q", stage.Name)})
		}
		seenStages[stage.Name] = true

		errs = append(errs, validateStage(stage, p)...)
		p.Pop()
	}

	return errs
}

func validateStage(stage Stage, p *pathutil.PathBuilder) []error {
	var errs []error
	path := p.String()

	errs = append(errs, validateFixtureNames(stage.Fixtures, path+".fixtures")...)
	errs = append(errs, validateSubstitutionVsFixtures(stage.Substitutions, stage.Fixtures, path+".substitutions")...)

	if stage.Request.Timeout < 0 {
		errs = append(errs, &httperrors.ValidationError{Path: path, Field: "request.timeout", Message: "timeout must be positive"})
	}

	p.Push("parametrize")
	for i, param := range stage.Parametrize {
		p.PushIndex(i)
		errs = append(errs, validateParameterBlock(param, p.String())...)
		p.Pop()
	}
	p.Pop()

	if stage.Parallel != nil {
		p.Push("parallel")
		errs = append(errs, validateParallel(*stage.Parallel, p)...)
		p.Pop()
	}

	p.Push("response")
	for i, step := range stage.Response {
		p.PushIndex(i)
		errs = append(errs, validateResponseStep(step, p.String())...)
		p.Pop()
	}
	p.Pop()

	return errs
}

func validateParameterBlock(param Parameter, path string) []error {
	var errs []error
	rows, err := param.Rows()
	if err != nil {
		return append(errs, &httperrors.ValidationError{Path: path, Message: err.Error()})
	}
	if ids := param.IDs(); len(ids) > 0 && len(ids) != len(rows) {
		errs = append(errs, &httperrors.ValidationError{
			Path:    path,
			Field:   "ids",
			Message: fmt.Sprintf("ids length %d does not match value set length %d", len(ids), len(rows)),
		})
	}
	return errs
}

func validateParallel(pc ParallelConfig, p *pathutil.PathBuilder) []error {
	var errs []error
	path := p.String()
	switch pc.Kind {
	case ParallelRepeat:
		if pc.Repeat.N < 1 {
			errs = append(errs, &httperrors.ValidationError{Path: path, Field: "repeat.n", Message: "n must be at least 1"})
		}
		errs = append(errs, validateConcurrencyFields(pc.Repeat.MaxConcurrency, pc.Repeat.CallsPerSec, path+".repeat")...)
	case ParallelForeach:
		p.Push("foreach")
		p.Push("parameters")
		for i, b := range pc.Foreach.Parameters {
			p.PushIndex(i)
			errs = append(errs, validateParameterBlock(b, p.String())...)
			p.Pop()
		}
		p.Pop()
		p.Pop()
		errs = append(errs, validateConcurrencyFields(pc.Foreach.MaxConcurrency, pc.Foreach.CallsPerSec, path+".foreach")...)
	}
	return errs
}

func validateConcurrencyFields(maxConcurrency int, callsPerSec float64, path string) []error {
	var errs []error
	if maxConcurrency < 1 {
		errs = append(errs, &httperrors.ValidationError{Path: path, Field: "max_concurrency", Message: "max_concurrency must be at least 1"})
	}
	if callsPerSec < 0 {
		errs = append(errs, &httperrors.ValidationError{Path: path, Field: "calls_per_sec", Message: "calls_per_sec must be positive when present"})
	}
	return errs
}

func validateResponseStep(step ResponseStep, path string) []error {
	var errs []error
	if step.Kind != ResponseStepVerify && step.Kind != ResponseStepSave {
		errs = append(errs, &httperrors.ValidationError{Path: path, Message: "response step must be exactly one of verify or save"})
		return errs
	}
	if step.Kind == ResponseStepVerify && step.Verify.Status != nil {
		errs = append(errs, validateStatusField(step.Verify.Status, path+".verify.status")...)
	}
	return errs
}

func validateStatusField(status any, path string) []error {
	var errs []error
	switch v := status.(type) {
	case float64:
		if !httputil.IsValidStatusCode(int(v)) {
			errs = append(errs, &httperrors.ValidationError{Path: path, Message: fmt.Sprintf("status code %v is not a valid HTTP status", v)})
		}
	case int:
		if !httputil.IsValidStatusCode(v) {
			errs = append(errs, &httperrors.ValidationError{Path: path, Message: fmt.Sprintf("status code %d is not a valid HTTP status", v)})
		}
	case []any:
		for i, item := range v {
			errs = append(errs, validateStatusField(item, fmt.Sprintf("%s[%d]", path, i))...)
		}
	default:
		errs = append(errs, &httperrors.ValidationError{Path: path, Message: fmt.Sprintf("status must be an integer or list of integers, got %T", v)})
	}
	return errs
}

func validateFixtureNames(fixtures []string, path string) []error {
	var errs []error
	seen := make(map[string]bool, len(fixtures))
	for i, name := range fixtures {
		if seen[name] {
			errs = append(errs, &httperrors.ValidationError{Path: fmt.Sprintf("%s[%d]", path, i), Message: fmt.Sprintf("duplicate fixture name %q", name)})
		}
		seen[name] = true
	}
	return errs
}

// validateSubstitutionVsFixtures enforces that a vars-kind substitution
// never shadows a fixture name at the same scope (fixtures are immutable
// within a scenario).
func validateSubstitutionVsFixtures(subs []Substitution, fixtures []string, path string) []error {
	var errs []error
	fixtureSet := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		fixtureSet[f] = true
	}
	for i, sub := range subs {
		if sub.Kind != SubstitutionVars {
			continue
		}
		for name := range sub.Vars {
			if fixtureSet[name] {
				errs = append(errs, &httperrors.ValidationError{
					Path:    fmt.Sprintf("%s[%d].vars", path, i),
					Field:   name,
					Message: fmt.Sprintf("substitution name %q collides with a fixture name", name),
				})
			}
		}
	}
	return errs
}
