package resolver

import "github.com/erraggy/httpchain/httplog"

// config holds resolver construction options.
type config struct {
	rootPath           string
	maxParentTraversal int
	maxCachedDocuments int
	maxFileSize        int64
	logger             httplog.Logger
}

func defaultConfig() *config {
	return &config{
		maxParentTraversal: 3,
		maxCachedDocuments: MaxCachedDocuments,
		maxFileSize:        MaxFileSize,
		logger:             httplog.NopLogger{},
	}
}

// Option configures a Resolver.
type Option func(*config)

// WithRootPath constrains every resolved file reference to lie under root.
// When unset, the root defaults to the directory of the document passed to
// [Load].
func WithRootPath(root string) Option {
	return func(c *config) { c.rootPath = root }
}

// WithMaxParentTraversal sets how many ".." segments a $ref file path may
// use before [Load] fails with a PathError. Default 3.
func WithMaxParentTraversal(depth int) Option {
	return func(c *config) { c.maxParentTraversal = depth }
}

// WithMaxCachedDocuments bounds how many distinct files, the scenario
// document itself included, a single Load may read before failing. Default
// MaxCachedDocuments.
func WithMaxCachedDocuments(n int) Option {
	return func(c *config) { c.maxCachedDocuments = n }
}

// WithMaxFileSize bounds the size, in bytes, of any single referenced file.
// Default MaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(c *config) { c.maxFileSize = n }
}

// WithLogger sets the structured logger used during resolution.
func WithLogger(logger httplog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
