package runner

import (
	"github.com/erraggy/httpchain/httplog"
	"github.com/erraggy/httpchain/template"
	"github.com/erraggy/httpchain/userfunc"
)

// Option configures a Runner.
type Option func(*Runner)

// WithTransport overrides the default net/http-backed Transport, primarily
// for tests substituting a fake that never dials out.
func WithTransport(t Transport) Option {
	return func(r *Runner) { r.transport = t }
}

// WithRootPath bounds binary{}/files{} body paths and body.schema file
// references the same way resolver.WithRootPath bounds $ref file paths.
func WithRootPath(root string) Option {
	return func(r *Runner) { r.rootPath = root }
}

// WithEvaluator overrides the default ExprEvaluator, e.g. to configure a
// non-default comprehension length bound via template.WithMaxComprehensionLength.
func WithEvaluator(eval template.Evaluator) Option {
	return func(r *Runner) { r.eval = eval }
}

// WithBinder overrides the default empty Binder. Callers normally construct
// one with userfunc.NewBinder, call RegisterModule for each test module,
// and pass it here.
func WithBinder(binder *userfunc.Binder) Option {
	return func(r *Runner) { r.binder = binder }
}

// WithSuffix sets the discovery suffix used by Discover (spec §6's
// `suffix` configuration key). Default DefaultSuffix ("http").
func WithSuffix(suffix string) Option {
	return func(r *Runner) {
		if suffix != "" {
			r.suffix = suffix
		}
	}
}

// WithLogger sets the structured logger used for per-stage pass/skip/fail
// diagnostics, alongside the outcomes reported through hostiface.Host.
func WithLogger(logger httplog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
