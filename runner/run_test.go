package runner

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/erraggy/httpchain/scenario"
)

type fakeTransport struct {
	statusCode int
	body       string
	err        error
	calls      int
}

func (f *fakeTransport) Send(_ context.Context, _ *http.Request, _ time.Duration, _ *tls.Config, _ bool) (*http.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.statusCode,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

type fakeHost struct {
	mu       sync.Mutex
	fixtures map[string]any
	passes   []string
	fails    []string
}

func (h *fakeHost) FixtureValue(name string) (any, error) {
	if v, ok := h.fixtures[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("fixture %q not found", name)
}

func (h *fakeHost) ReportPass(stage, iterationKey string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.passes = append(h.passes, stage+"/"+iterationKey)
}

func (h *fakeHost) ReportFail(stage, iterationKey string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fails = append(h.fails, stage+"/"+iterationKey)
}

func (h *fakeHost) Cancelled() bool             { return false }
func (h *fakeHost) Cancel() <-chan struct{}     { return nil }
func (h *fakeHost) ApplyMarkers(string, []string) {}

func TestRunner_SingleStagePasses(t *testing.T) {
	host := &fakeHost{}
	transport := &fakeTransport{statusCode: 200, body: `{"ok": true}`}
	r := New(host, WithTransport(transport))

	scn := &scenario.Scenario{
		ID: "scn",
		Stages: []scenario.Stage{
			{
				Name:    "create",
				Request: scenario.Request{URL: "http://example.com/orders", Method: "POST"},
				Response: []scenario.ResponseStep{
					{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{Status: float64(200)}},
				},
			},
		},
	}

	if err := r.Run(context.Background(), scn); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(host.passes) != 1 || host.passes[0] != "create/" {
		t.Fatalf("passes = %v, want [create/]", host.passes)
	}
	if len(host.fails) != 0 {
		t.Fatalf("fails = %v, want none", host.fails)
	}
}

func TestRunner_FailedStageSkipsNonAlwaysRunSuccessor(t *testing.T) {
	host := &fakeHost{}
	transport := &fakeTransport{statusCode: 500, body: `{}`}
	r := New(host, WithTransport(transport))

	scn := &scenario.Scenario{
		ID: "scn",
		Stages: []scenario.Stage{
			{
				Name:    "create",
				Request: scenario.Request{URL: "http://example.com/orders", Method: "POST"},
				Response: []scenario.ResponseStep{
					{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{Status: float64(200)}},
				},
			},
			{
				Name:    "followup",
				Request: scenario.Request{URL: "http://example.com/followup"},
			},
		},
	}

	if err := r.Run(context.Background(), scn); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(host.fails) != 1 || host.fails[0] != "create/" {
		t.Fatalf("fails = %v, want [create/]", host.fails)
	}
	if len(host.passes) != 0 {
		t.Fatalf("passes = %v, want none (followup should be skipped)", host.passes)
	}
	if transport.calls != 1 {
		t.Fatalf("transport.calls = %d, want 1 (followup should not send)", transport.calls)
	}
}

func TestRunner_AlwaysRunStageStillExecutesAfterFailure(t *testing.T) {
	host := &fakeHost{}
	transport := &fakeTransport{statusCode: 500, body: `{}`}
	r := New(host, WithTransport(transport))

	scn := &scenario.Scenario{
		ID: "scn",
		Stages: []scenario.Stage{
			{
				Name:    "create",
				Request: scenario.Request{URL: "http://example.com/orders", Method: "POST"},
				Response: []scenario.ResponseStep{
					{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{Status: float64(200)}},
				},
			},
			{
				Name:      "cleanup",
				AlwaysRun: true,
				Request:   scenario.Request{URL: "http://example.com/cleanup"},
			},
		},
	}

	if err := r.Run(context.Background(), scn); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if transport.calls != 2 {
		t.Fatalf("transport.calls = %d, want 2 (cleanup runs despite failure)", transport.calls)
	}
}

func TestRunner_ParametrizedStageRunsEachRow(t *testing.T) {
	host := &fakeHost{}
	transport := &fakeTransport{statusCode: 200, body: `{}`}
	r := New(host, WithTransport(transport))

	scn := &scenario.Scenario{
		ID: "scn",
		Stages: []scenario.Stage{
			{
				Name:    "create",
				Request: scenario.Request{URL: "http://example.com/orders", Method: "POST"},
				Parametrize: []scenario.Parameter{
					{Kind: scenario.ParameterIndividual, Individual: &scenario.IndividualParam{
						Key:    "id",
						Values: []any{1, 2, 3},
					}},
				},
				Response: []scenario.ResponseStep{
					{Kind: scenario.ResponseStepVerify, Verify: &scenario.Verify{Status: float64(200)}},
				},
			},
		},
	}

	if err := r.Run(context.Background(), scn); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(host.passes) != 3 {
		t.Fatalf("passes = %v, want 3 entries", host.passes)
	}
	if transport.calls != 3 {
		t.Fatalf("transport.calls = %d, want 3", transport.calls)
	}
}

func TestRunner_ParallelRepeatBoundedConcurrency(t *testing.T) {
	host := &fakeHost{}
	transport := &fakeTransport{statusCode: 200, body: `{}`}
	r := New(host, WithTransport(transport))

	scn := &scenario.Scenario{
		ID: "scn",
		Stages: []scenario.Stage{
			{
				Name:    "ping",
				Request: scenario.Request{URL: "http://example.com/ping"},
				Parallel: &scenario.ParallelConfig{
					Kind:   scenario.ParallelRepeat,
					Repeat: &scenario.RepeatConfig{N: 5, MaxConcurrency: 2},
				},
			},
		},
	}

	if err := r.Run(context.Background(), scn); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(host.passes) != 5 {
		t.Fatalf("passes = %v, want 5 entries", host.passes)
	}
}

func TestRunner_ScenarioFixtureResolutionFailureAbortsRun(t *testing.T) {
	host := &fakeHost{fixtures: map[string]any{}}
	transport := &fakeTransport{statusCode: 200, body: `{}`}
	r := New(host, WithTransport(transport))

	scn := &scenario.Scenario{
		ID:       "scn",
		Fixtures: []string{"missing"},
		Stages: []scenario.Stage{
			{Name: "s1", Request: scenario.Request{URL: "http://example.com"}},
		},
	}

	if err := r.Run(context.Background(), scn); err == nil {
		t.Fatal("expected error for unresolved scenario fixture")
	}
	if transport.calls != 0 {
		t.Fatalf("transport.calls = %d, want 0", transport.calls)
	}
}
