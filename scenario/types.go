package scenario

// Scenario is the top-level document describing an ordered chain of HTTP
// interactions.
type Scenario struct {
	// ID is a stable slug derived from the scenario file path, used as the
	// namespace root for iteration keys reported to the host.
	ID string `json:"-"`

	Description   string         `json:"description,omitempty"`
	Marks         []string       `json:"marks,omitempty"`
	Fixtures      []string       `json:"fixtures,omitempty"`
	Auth          *UserFunctionRef `json:"auth,omitempty"`
	SSL           *SSLConfig     `json:"ssl,omitempty"`
	Substitutions []Substitution `json:"substitutions,omitempty"`
	Stages        []Stage        `json:"stages,omitempty"`
}

// SSLConfig holds a scenario's ssl settings as decoded from the document.
// The runner does not apply them: every request is sent with a nil
// tls.Config (Go's default certificate verification, no client
// certificate), and stages have no SSL override.
type SSLConfig struct {
	// Verify is either a bool (enable/disable verification) or a string
	// path to a CA bundle.
	Verify any `json:"verify,omitempty"`
	// Cert is either a path to a combined cert+key file, a two-element
	// [cert, key] pair, or nil.
	Cert any `json:"cert,omitempty"`
}

// Stage is one HTTP request plus its response processing, executed as a
// unit.
type Stage struct {
	// ID is a stable slug derived from Scenario.ID + Name.
	ID string `json:"-"`

	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Marks         []string       `json:"marks,omitempty"`
	Fixtures      []string       `json:"fixtures,omitempty"`
	Substitutions []Substitution `json:"substitutions,omitempty"`
	AlwaysRun     bool           `json:"always_run,omitempty"`
	Parametrize   []Parameter    `json:"parametrize,omitempty"`
	Parallel      *ParallelConfig `json:"parallel,omitempty"`
	Request       Request        `json:"request"`
	Response      []ResponseStep `json:"response,omitempty"`
}

// Request describes a single HTTP call, before template substitution.
type Request struct {
	URL            string            `json:"url"`
	Method         string            `json:"method,omitempty"`
	Params         map[string]any    `json:"params,omitempty"`
	Headers        map[string]any    `json:"headers,omitempty"`
	Cookies        map[string]string `json:"cookies,omitempty"`
	Body           *Body             `json:"body,omitempty"`
	Auth           *UserFunctionRef  `json:"auth,omitempty"`
	Timeout        float64           `json:"timeout,omitempty"`
	AllowRedirects *bool             `json:"allow_redirects,omitempty"`
}

// EffectiveMethod returns Method, defaulting to GET.
func (r Request) EffectiveMethod() string {
	if r.Method == "" {
		return "GET"
	}
	return r.Method
}

// EffectiveTimeout returns Timeout in seconds, defaulting to 30.
func (r Request) EffectiveTimeout() float64 {
	if r.Timeout == 0 {
		return 30
	}
	return r.Timeout
}

// EffectiveAllowRedirects returns AllowRedirects, defaulting to true.
func (r Request) EffectiveAllowRedirects() bool {
	if r.AllowRedirects == nil {
		return true
	}
	return *r.AllowRedirects
}
