// Package httputil provides HTTP-related validation utilities and constants.
package httputil

import (
	"mime"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
)

// StandardHTTPStatusCodes contains RFC 9110 officially defined HTTP status codes.
// Used to flag non-standard-but-syntactically-valid codes during scenario validation.
var StandardHTTPStatusCodes = map[int]bool{
	// 1xx Informational
	100: true, 101: true, 102: true, 103: true,
	// 2xx Success
	200: true, 201: true, 202: true, 203: true, 204: true, 205: true,
	206: true, 207: true, 208: true, 226: true,
	// 3xx Redirection
	300: true, 301: true, 302: true, 303: true, 304: true, 305: true,
	307: true, 308: true,
	// 4xx Client Error
	400: true, 401: true, 402: true, 403: true, 404: true, 405: true,
	406: true, 407: true, 408: true, 409: true, 410: true, 411: true,
	412: true, 413: true, 414: true, 415: true, 416: true, 417: true,
	418: true, 421: true, 422: true, 423: true, 424: true, 425: true,
	426: true, 428: true, 429: true, 431: true, 451: true,
	// 5xx Server Error
	500: true, 501: true, 502: true, 503: true, 504: true, 505: true,
	506: true, 507: true, 508: true, 510: true, 511: true,
}

// IsValidStatusCode reports whether code is a syntactically valid HTTP status
// code (100-599), per spec's "status codes are HTTP-valid integers" check.
func IsValidStatusCode(code int) bool {
	return code >= MinStatusCode && code <= MaxStatusCode
}

// IsStandardStatusCode reports whether code is one of the codes registered
// with IANA/RFC 9110. A non-standard-but-valid code (e.g. 499) still passes
// IsValidStatusCode.
func IsStandardStatusCode(code int) bool {
	return StandardHTTPStatusCodes[code]
}

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Handles wildcards (*/* and type/*) and prevents invalid combinations (*/subtype).
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(parsed, "*/")
}
