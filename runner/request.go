package runner

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"

	"github.com/erraggy/httpchain/httperrors"
	"github.com/erraggy/httpchain/internal/pathutil"
	"github.com/erraggy/httpchain/scenario"
)

// MaxBodyFileSize bounds how large a files{}/binary{} body source file may
// be, mirroring resolver.MaxFileSize's resource cap for the request side.
const MaxBodyFileSize = 10 * 1024 * 1024

// buildRequest turns an already-templated scenario.Request into a
// net/http request. rootPath bounds binary{}/files{} source paths using
// the same containment guard resolver uses for $ref file paths.
func buildRequest(ctx context.Context, req scenario.Request, rootPath string) (*http.Request, error) {
	fullURL, err := withQueryParams(req.URL, req.Params)
	if err != nil {
		return nil, &httperrors.TransportError{URL: req.URL, Method: req.EffectiveMethod(), Message: "building query string", Cause: err}
	}

	body, contentType, err := buildBody(req.Body, rootPath)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.EffectiveMethod(), fullURL, bytes.NewReader(body))
	if err != nil {
		return nil, &httperrors.TransportError{URL: fullURL, Method: req.EffectiveMethod(), Message: "constructing request", Cause: err}
	}

	for name, v := range req.Headers {
		httpReq.Header.Set(name, fmt.Sprintf("%v", v))
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for name, value := range req.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	return httpReq, nil
}

func withQueryParams(rawURL string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := parsed.Query()
	for k, v := range params {
		addQueryParam(q, k, v)
	}
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// addQueryParam sets k=v for a scalar value, or repeats k=item for each
// element when v is list-valued, matching the wire format a server expects
// for a multi-value query parameter.
func addQueryParam(q url.Values, k string, v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		q.Set(k, fmt.Sprintf("%v", v))
		return
	}
	q.Del(k)
	for i := 0; i < rv.Len(); i++ {
		q.Add(k, fmt.Sprintf("%v", rv.Index(i).Interface()))
	}
}

func buildBody(body *scenario.Body, rootPath string) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}

	switch body.Kind {
	case scenario.BodyJSON:
		data, err := json.Marshal(body.JSONValue)
		return data, body.DefaultContentType(), wrapBodyErr(err)
	case scenario.BodyGraphQL:
		data, err := json.Marshal(map[string]any{"query": body.GraphQLQuery, "variables": body.GraphQLVars})
		return data, body.DefaultContentType(), wrapBodyErr(err)
	case scenario.BodyForm:
		values := url.Values{}
		for k, v := range body.FormPairs {
			values.Set(k, fmt.Sprintf("%v", v))
		}
		return []byte(values.Encode()), body.DefaultContentType(), nil
	case scenario.BodyXML:
		return []byte(body.XMLText), body.DefaultContentType(), nil
	case scenario.BodyText:
		return []byte(body.Text), body.DefaultContentType(), nil
	case scenario.BodyBase64:
		data, err := base64.StdEncoding.DecodeString(body.Base64Encoded)
		return data, body.DefaultContentType(), wrapBodyErr(err)
	case scenario.BodyBinary:
		data, err := readContainedFile(rootPath, body.BinaryPath)
		return data, body.DefaultContentType(), err
	case scenario.BodyFiles:
		return buildMultipartBody(body.Files, rootPath)
	default:
		return nil, "", &httperrors.TransportError{Message: fmt.Sprintf("unsupported body kind %q", body.Kind)}
	}
}

func buildMultipartBody(files map[string]string, rootPath string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, relPath := range files {
		data, err := readContainedFile(rootPath, relPath)
		if err != nil {
			return nil, "", err
		}
		part, err := w.CreateFormFile(field, filepath.Base(relPath))
		if err != nil {
			return nil, "", wrapBodyErr(err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", wrapBodyErr(err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", wrapBodyErr(err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func readContainedFile(rootPath, relPath string) ([]byte, error) {
	abs, _, err := pathutil.Contained(rootPath, rootPath, relPath)
	if err != nil {
		if pathutil.IsEscapesRoot(err) {
			return nil, &httperrors.PathError{Ref: relPath, RootPath: rootPath, Message: "body file path escapes root_path"}
		}
		return nil, &httperrors.PathError{Ref: relPath, Message: err.Error()}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &httperrors.PathError{Ref: relPath, Message: err.Error()}
	}
	if info.Size() > MaxBodyFileSize {
		return nil, &httperrors.PathError{Ref: relPath, Message: fmt.Sprintf("body file exceeds max size of %d bytes", MaxBodyFileSize)}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &httperrors.PathError{Ref: relPath, Message: err.Error()}
	}
	return data, nil
}

func wrapBodyErr(err error) error {
	if err == nil {
		return nil
	}
	return &httperrors.TransportError{Message: "encoding request body", Cause: err}
}
