package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
)

// BodyKind identifies which variant of Body is populated.
type BodyKind string

const (
	BodyJSON     BodyKind = "json"
	BodyForm     BodyKind = "form"
	BodyXML      BodyKind = "xml"
	BodyText     BodyKind = "text"
	BodyBase64   BodyKind = "base64"
	BodyBinary   BodyKind = "binary"
	BodyFiles    BodyKind = "files"
	BodyGraphQL  BodyKind = "graphql"
)

// Body is a discriminated union of request body encodings. Exactly one
// variant is populated, identified by Kind.
type Body struct {
	Kind BodyKind

	JSONValue     any               // json{value}
	FormPairs     map[string]any    // form{pairs}
	XMLText       string            // xml{text}
	Text          string            // text{text}
	Base64Encoded string            // base64{encoded}
	BinaryPath    string            // binary{path}
	Files         map[string]string // files{name -> path}
	GraphQLQuery  string            // graphql{query, variables?}
	GraphQLVars   map[string]any
}

// bodyKeys lists the single top-level key each variant is identified by, in
// the order checked so an error message lists them deterministically.
var bodyKeys = []string{"json", "form", "xml", "text", "base64", "binary", "files", "graphql"}

// UnmarshalJSON decodes whichever single variant key is present.
func (b *Body) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return &httperrors.ValidationError{Field: "body", Message: "body must be an object", Value: string(data)}
	}

	present := make([]string, 0, 1)
	for _, k := range bodyKeys {
		if _, ok := m[k]; ok {
			present = append(present, k)
		}
	}
	if len(present) != 1 {
		return &httperrors.ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("exactly one body variant required, got %v", present),
		}
	}

	kind := present[0]
	b.Kind = BodyKind(kind)
	switch kind {
	case "json":
		var v any
		if err := json.Unmarshal(m["json"], &v); err != nil {
			return &httperrors.ValidationError{Field: "body.json", Message: err.Error()}
		}
		b.JSONValue = v
	case "form":
		var v map[string]any
		if err := json.Unmarshal(m["form"], &v); err != nil {
			return &httperrors.ValidationError{Field: "body.form", Message: err.Error()}
		}
		b.FormPairs = v
	case "xml":
		if err := json.Unmarshal(m["xml"], &b.XMLText); err != nil {
			return &httperrors.ValidationError{Field: "body.xml", Message: err.Error()}
		}
	case "text":
		if err := json.Unmarshal(m["text"], &b.Text); err != nil {
			return &httperrors.ValidationError{Field: "body.text", Message: err.Error()}
		}
	case "base64":
		if err := json.Unmarshal(m["base64"], &b.Base64Encoded); err != nil {
			return &httperrors.ValidationError{Field: "body.base64", Message: err.Error()}
		}
	case "binary":
		if err := json.Unmarshal(m["binary"], &b.BinaryPath); err != nil {
			return &httperrors.ValidationError{Field: "body.binary", Message: err.Error()}
		}
	case "files":
		var v map[string]string
		if err := json.Unmarshal(m["files"], &v); err != nil {
			return &httperrors.ValidationError{Field: "body.files", Message: err.Error()}
		}
		b.Files = v
	case "graphql":
		var gq struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables,omitempty"`
		}
		if err := json.Unmarshal(m["graphql"], &gq); err != nil {
			return &httperrors.ValidationError{Field: "body.graphql", Message: err.Error()}
		}
		b.GraphQLQuery = gq.Query
		b.GraphQLVars = gq.Variables
	}
	return nil
}

// MarshalJSON re-encodes Body as the single-key object UnmarshalJSON expects.
func (b Body) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BodyJSON:
		return json.Marshal(map[string]any{"json": b.JSONValue})
	case BodyForm:
		return json.Marshal(map[string]any{"form": b.FormPairs})
	case BodyXML:
		return json.Marshal(map[string]any{"xml": b.XMLText})
	case BodyText:
		return json.Marshal(map[string]any{"text": b.Text})
	case BodyBase64:
		return json.Marshal(map[string]any{"base64": b.Base64Encoded})
	case BodyBinary:
		return json.Marshal(map[string]any{"binary": b.BinaryPath})
	case BodyFiles:
		return json.Marshal(map[string]any{"files": b.Files})
	case BodyGraphQL:
		gq := map[string]any{"query": b.GraphQLQuery}
		if b.GraphQLVars != nil {
			gq["variables"] = b.GraphQLVars
		}
		return json.Marshal(map[string]any{"graphql": gq})
	default:
		return nil, fmt.Errorf("body: unknown kind %q", b.Kind)
	}
}

// DefaultContentType returns the Content-Type this body variant implies
// when the request does not set one explicitly.
func (b Body) DefaultContentType() string {
	switch b.Kind {
	case BodyJSON, BodyGraphQL:
		return "application/json"
	case BodyForm:
		return "application/x-www-form-urlencoded"
	case BodyXML:
		return "application/xml"
	case BodyText:
		return "text/plain"
	case BodyBase64, BodyBinary:
		return "application/octet-stream"
	case BodyFiles:
		return "" // multipart boundary is set by the request builder
	default:
		return ""
	}
}
