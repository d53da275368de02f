package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/jmespath/go-jmespath"
	"github.com/xeipuuv/gojsonschema"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/internal/pathutil"
	"github.com/erraggy/httpchain/scenario"
	"github.com/erraggy/httpchain/template"
	"github.com/erraggy/httpchain/userfunc"
)

// buildResponse drains and closes resp.Body, decoding it as JSON when
// possible so body.schema / save.jmespath / user functions can use the
// parsed form without each re-reading the stream.
func buildResponse(resp *http.Response) (*userfunc.Response, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &httperrors.TransportError{Message: "reading response body", Cause: err}
	}

	var parsed any
	_ = json.Unmarshal(body, &parsed) // best-effort; non-JSON bodies leave JSON nil

	return &userfunc.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		JSON:       parsed,
	}, nil
}

func responseFrame(resp *userfunc.Response) *template.Frame {
	headers := make(map[string]any, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}
	return template.NewFrame("response", map[string]any{
		"resp": map[string]any{
			"status_code": resp.StatusCode,
			"headers":     headers,
			"body":        string(resp.Body),
			"json":        resp.JSON,
		},
	}, false)
}

// processResponse runs stage.Response in order, stopping at the first
// failing verify step. Saves accumulated before a failure are still
// returned so callers can decide whether partial promotion is wanted; the
// stage executor discards them on failure per spec.
func processResponse(stageName string, stage scenario.Stage, resp *userfunc.Response, ctx *template.Context, eval template.Evaluator, binder *userfunc.Binder, rootPath string) (map[string]any, error) {
	ctx.Push(responseFrame(resp))
	defer ctx.Pop()

	saves := make(map[string]any)
	for _, step := range stage.Response {
		switch step.Kind {
		case scenario.ResponseStepVerify:
			if err := runVerify(stageName, step.Verify, resp, ctx, eval, binder, rootPath); err != nil {
				return saves, err
			}
		case scenario.ResponseStepSave:
			stepSaves, err := runSave(stageName, step.Save, resp, ctx, eval, binder)
			if err != nil {
				return saves, err
			}
			for k, v := range stepSaves {
				saves[k] = v
			}
		}
	}
	return saves, nil
}

func runVerify(stageName string, v *scenario.Verify, resp *userfunc.Response, ctx *template.Context, eval template.Evaluator, binder *userfunc.Binder, rootPath string) error {
	if v.Status != nil && !statusMatches(v.Status, resp.StatusCode) {
		return &httperrors.VerifyError{Stage: stageName, Check: "status", Expected: v.Status, Actual: resp.StatusCode}
	}

	for name, want := range v.Headers {
		got := resp.Header.Get(name)
		if got != want {
			return &httperrors.VerifyError{Stage: stageName, Check: "headers", Expected: want, Actual: got, Message: name}
		}
	}

	for _, exprSrc := range v.Expressions {
		val, err := template.Evaluate(eval, exprSrc, ctx)
		if err != nil {
			return err
		}
		if !isTruthy(val) {
			return &httperrors.VerifyError{Stage: stageName, Check: "expressions", Message: fmt.Sprintf("%q evaluated falsy", exprSrc)}
		}
	}

	if v.Body != nil {
		if err := runBodyVerify(stageName, v.Body, resp, rootPath); err != nil {
			return err
		}
	}

	for _, ref := range v.UserFunctions {
		fn, err := binder.BindVerify(ref)
		if err != nil {
			return err
		}
		kwargs, err := walkKwargs(ref.Kwargs, eval, ctx)
		if err != nil {
			return err
		}
		ok, err := fn.Verify(resp, kwargs)
		if err != nil {
			return &httperrors.VerifyError{Stage: stageName, Check: "user_functions", Message: ref.Raw + ": " + err.Error()}
		}
		if !ok {
			return &httperrors.VerifyError{Stage: stageName, Check: "user_functions", Message: ref.Raw + " returned false"}
		}
	}

	return nil
}

func runBodyVerify(stageName string, bv *scenario.BodyVerify, resp *userfunc.Response, rootPath string) error {
	if bv.Absent {
		if len(resp.Body) != 0 && resp.JSON != nil {
			return &httperrors.VerifyError{Stage: stageName, Check: "body.absent", Message: "response body was not empty"}
		}
	}

	if bv.Schema != nil {
		if err := verifySchema(stageName, bv.Schema, resp, rootPath); err != nil {
			return err
		}
	}

	text := string(resp.Body)
	for _, s := range bv.Contains {
		if !strings.Contains(text, s) {
			return &httperrors.VerifyError{Stage: stageName, Check: "body.contains", Message: s}
		}
	}
	for _, s := range bv.NotContains {
		if strings.Contains(text, s) {
			return &httperrors.VerifyError{Stage: stageName, Check: "body.not_contains", Message: s}
		}
	}
	for _, pattern := range bv.Matches {
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return &httperrors.VerifyError{Stage: stageName, Check: "body.matches", Message: "invalid pattern: " + err.Error()}
		}
		if !re.MatchString(text) {
			return &httperrors.VerifyError{Stage: stageName, Check: "body.matches", Message: pattern}
		}
	}
	for _, pattern := range bv.NotMatches {
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return &httperrors.VerifyError{Stage: stageName, Check: "body.not_matches", Message: "invalid pattern: " + err.Error()}
		}
		if re.MatchString(text) {
			return &httperrors.VerifyError{Stage: stageName, Check: "body.not_matches", Message: pattern}
		}
	}
	return nil
}

func verifySchema(stageName string, schema any, resp *userfunc.Response, rootPath string) error {
	var schemaLoader gojsonschema.JSONLoader
	if path, ok := schema.(string); ok {
		abs, _, err := pathutil.Contained(rootPath, rootPath, path)
		if err != nil {
			return &httperrors.PathError{Ref: path, RootPath: rootPath, Message: "schema path escapes root_path"}
		}
		schemaLoader = gojsonschema.NewReferenceLoader("file://" + abs)
	} else {
		schemaLoader = gojsonschema.NewGoLoader(schema)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(resp.JSON))
	if err != nil {
		return &httperrors.VerifyError{Stage: stageName, Check: "body.schema", Message: err.Error()}
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			msgs[i] = e.String()
		}
		return &httperrors.VerifyError{Stage: stageName, Check: "body.schema", Message: strings.Join(msgs, "; ")}
	}
	return nil
}

func runSave(stageName string, s *scenario.Save, resp *userfunc.Response, ctx *template.Context, eval template.Evaluator, binder *userfunc.Binder) (map[string]any, error) {
	saves := make(map[string]any)

	for name, expr := range s.JMESPath {
		val, err := jmespath.Search(expr, resp.JSON)
		if err != nil {
			return saves, &httperrors.SaveError{Stage: stageName, Source: "jmespath", Name: name, Message: "evaluating jmespath", Cause: err}
		}
		saves[name] = val
		if err := ctx.Set(name, val); err != nil {
			return saves, &httperrors.SaveError{Stage: stageName, Source: "jmespath", Name: name, Cause: err}
		}
	}

	if len(s.Substitutions) > 0 {
		subSaves, err := evalSubstitutions(s.Substitutions, ctx, eval, binder)
		if err != nil {
			return saves, &httperrors.SaveError{Stage: stageName, Source: "substitutions", Cause: err}
		}
		for k, v := range subSaves {
			saves[k] = v
		}
	}

	for _, ref := range s.UserFunctions {
		fn, err := binder.BindSave(ref)
		if err != nil {
			return saves, err
		}
		kwargs, err := walkKwargs(ref.Kwargs, eval, ctx)
		if err != nil {
			return saves, err
		}
		result, err := fn.Save(resp, kwargs)
		if err != nil {
			return saves, &httperrors.SaveError{Stage: stageName, Source: "user_functions", Message: ref.Raw, Cause: err}
		}
		for k, v := range result {
			saves[k] = v
			if err := ctx.Set(k, v); err != nil {
				return saves, &httperrors.SaveError{Stage: stageName, Source: "user_functions", Name: k, Cause: err}
			}
		}
	}

	return saves, nil
}

func statusMatches(status any, actual int) bool {
	switch v := status.(type) {
	case float64:
		return int(v) == actual
	case int:
		return v == actual
	case []any:
		for _, item := range v {
			if statusMatches(item, actual) {
				return true
			}
		}
	}
	return false
}

func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() != 0
	default:
		return true
	}
}
