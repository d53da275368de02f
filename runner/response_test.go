package runner

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/scenario"
	"github.com/erraggy/httpchain/template"
	"github.com/erraggy/httpchain/userfunc"
)

func newTestContext() *template.Context {
	ctx := template.NewContext()
	ctx.Push(template.NewFrame("saves", nil, true))
	return ctx
}

func jsonResponse(status int, body string, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestProcessResponse_StatusAndHeaderVerifyPass(t *testing.T) {
	resp, err := buildResponse(jsonResponse(200, `{"id": 7}`, map[string]string{"X-Trace": "abc"}))
	if err != nil {
		t.Fatalf("buildResponse: %v", err)
	}

	stage := scenario.Stage{
		Name: "create",
		Response: []scenario.ResponseStep{
			{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{
				Status:  float64(200),
				Headers: map[string]string{"X-Trace": "abc"},
			}},
		},
	}

	ctx := newTestContext()
	eval := template.NewExprEvaluator()
	binder := userfunc.NewBinder(nil)

	if _, err := processResponse("create", stage, resp, ctx, eval, binder, ""); err != nil {
		t.Fatalf("processResponse returned error: %v", err)
	}
}

func TestProcessResponse_StatusMismatchFails(t *testing.T) {
	resp, _ := buildResponse(jsonResponse(500, `{}`, nil))
	stage := scenario.Stage{
		Name: "create",
		Response: []scenario.ResponseStep{
			{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{Status: float64(200)}},
		},
	}
	ctx := newTestContext()
	eval := template.NewExprEvaluator()
	binder := userfunc.NewBinder(nil)

	_, err := processResponse("create", stage, resp, ctx, eval, binder, "")
	if err == nil {
		t.Fatal("expected verify error for status mismatch")
	}
	var ve *httperrors.VerifyError
	if !castAs(err, &ve) {
		t.Fatalf("error = %v, want *httperrors.VerifyError", err)
	}
	if ve.Check != "status" {
		t.Fatalf("Check = %q, want status", ve.Check)
	}
}

func TestProcessResponse_StatusAcceptsList(t *testing.T) {
	resp, _ := buildResponse(jsonResponse(201, `{}`, nil))
	stage := scenario.Stage{
		Response: []scenario.ResponseStep{
			{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{Status: []any{float64(200), float64(201)}}},
		},
	}
	ctx := newTestContext()
	eval := template.NewExprEvaluator()
	binder := userfunc.NewBinder(nil)

	if _, err := processResponse("create", stage, resp, ctx, eval, binder, ""); err != nil {
		t.Fatalf("processResponse returned error: %v", err)
	}
}

func TestProcessResponse_ExpressionVerify(t *testing.T) {
	resp, _ := buildResponse(jsonResponse(200, `{"id": 7}`, nil))
	stage := scenario.Stage{
		Response: []scenario.ResponseStep{
			{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{
				Expressions: []string{"resp.json.id == 7"},
			}},
		},
	}
	ctx := newTestContext()
	eval := template.NewExprEvaluator()
	binder := userfunc.NewBinder(nil)

	if _, err := processResponse("create", stage, resp, ctx, eval, binder, ""); err != nil {
		t.Fatalf("processResponse returned error: %v", err)
	}
}

func TestProcessResponse_BodyContainsAndNotContains(t *testing.T) {
	resp, _ := buildResponse(jsonResponse(200, `{"status":"ok"}`, nil))
	stage := scenario.Stage{
		Response: []scenario.ResponseStep{
			{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{
				Body: &scenario.BodyVerify{
					Contains:    []string{"\"ok\""},
					NotContains: []string{"error"},
				},
			}},
		},
	}
	ctx := newTestContext()
	eval := template.NewExprEvaluator()
	binder := userfunc.NewBinder(nil)

	if _, err := processResponse("create", stage, resp, ctx, eval, binder, ""); err != nil {
		t.Fatalf("processResponse returned error: %v", err)
	}
}

func TestProcessResponse_JMESPathSave(t *testing.T) {
	resp, _ := buildResponse(jsonResponse(200, `{"user":{"id": 42}}`, nil))
	stage := scenario.Stage{
		Response: []scenario.ResponseStep{
			{Kind: scenario.ResponseStepSave, Save: &scenario.Save{
				JMESPath: map[string]string{"user_id": "user.id"},
			}},
		},
	}
	ctx := newTestContext()
	eval := template.NewExprEvaluator()
	binder := userfunc.NewBinder(nil)

	saves, err := processResponse("create", stage, resp, ctx, eval, binder, "")
	if err != nil {
		t.Fatalf("processResponse returned error: %v", err)
	}
	got, ok := saves["user_id"]
	if !ok {
		t.Fatal("expected user_id in saves")
	}
	if f, ok := got.(float64); !ok || f != 42 {
		t.Fatalf("user_id = %v, want 42", got)
	}
	if v, _ := ctx.Get("user_id"); v != got {
		t.Fatalf("ctx did not receive saved value: %v", v)
	}
}

func TestProcessResponse_StopsAtFirstFailingVerify(t *testing.T) {
	resp, _ := buildResponse(jsonResponse(200, `{"user":{"id": 1}}`, nil))
	stage := scenario.Stage{
		Response: []scenario.ResponseStep{
			{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{Status: float64(404)}},
			{Kind: scenario.ResponseStepSave, Save: &scenario.Save{JMESPath: map[string]string{"id": "user.id"}}},
		},
	}
	ctx := newTestContext()
	eval := template.NewExprEvaluator()
	binder := userfunc.NewBinder(nil)

	saves, err := processResponse("create", stage, resp, ctx, eval, binder, "")
	if err == nil {
		t.Fatal("expected verify failure")
	}
	if _, ok := saves["id"]; ok {
		t.Fatal("save step after a failing verify should not have run")
	}
}

func castAs(err error, target **httperrors.VerifyError) bool {
	v, ok := err.(*httperrors.VerifyError)
	if ok {
		*target = v
	}
	return ok
}
