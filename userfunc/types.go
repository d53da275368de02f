package userfunc

import "net/http"

// Response is the read-only view of an HTTP response passed to save and
// verify functions. JSON holds the body decoded as JSON by the caller, or
// nil when the body is not valid JSON.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	JSON       any
}

// Authenticator mutates an outgoing request to carry credentials, returned
// by an AuthFactory.
type Authenticator interface {
	Apply(req *http.Request) error
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(req *http.Request) error

func (f AuthenticatorFunc) Apply(req *http.Request) error { return f(req) }

// SaveFunc extracts named values from a response for promotion into the
// saved-values context layer.
type SaveFunc interface {
	Save(resp *Response, kwargs map[string]any) (map[string]any, error)
}

// SaveFuncAdapter adapts a plain function to SaveFunc.
type SaveFuncAdapter func(resp *Response, kwargs map[string]any) (map[string]any, error)

func (f SaveFuncAdapter) Save(resp *Response, kwargs map[string]any) (map[string]any, error) {
	return f(resp, kwargs)
}

// VerifyFunc asserts a property of a response, returning the assertion's
// truth value.
type VerifyFunc interface {
	Verify(resp *Response, kwargs map[string]any) (bool, error)
}

// VerifyFuncAdapter adapts a plain function to VerifyFunc.
type VerifyFuncAdapter func(resp *Response, kwargs map[string]any) (bool, error)

func (f VerifyFuncAdapter) Verify(resp *Response, kwargs map[string]any) (bool, error) {
	return f(resp, kwargs)
}

// AuthFactory builds an Authenticator from kwargs, applied to a request
// before it is sent.
type AuthFactory interface {
	Auth(kwargs map[string]any) (Authenticator, error)
}

// AuthFactoryAdapter adapts a plain function to AuthFactory.
type AuthFactoryAdapter func(kwargs map[string]any) (Authenticator, error)

func (f AuthFactoryAdapter) Auth(kwargs map[string]any) (Authenticator, error) { return f(kwargs) }

// SubstitutionFunc computes a single value from kwargs, with no access to
// any response.
type SubstitutionFunc interface {
	Substitute(kwargs map[string]any) (any, error)
}

// SubstitutionFuncAdapter adapts a plain function to SubstitutionFunc.
type SubstitutionFuncAdapter func(kwargs map[string]any) (any, error)

func (f SubstitutionFuncAdapter) Substitute(kwargs map[string]any) (any, error) { return f(kwargs) }

// SymbolTable resolves a bare symbol (no explicit module) the way spec
// §4.7's "host's test-module-local helper module" search does. The
// embedding test binary implements this over whatever registry it already
// keeps, since Go has no dynamic import to search call-stack frames with.
type SymbolTable interface {
	Lookup(symbol string) (any, bool)
}
