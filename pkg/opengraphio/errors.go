package opengraphio

import (
	"fmt"
	"strings"
)

// ConfigurationError reports invalid Options at construction time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps a failure of the underlying HTTP transport verbatim.
type TransportError struct {
	// URL is the request URL with the app_id value redacted.
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// EmptyResponseError reports a response that arrived without a body.
type EmptyResponseError struct {
	StatusCode int
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response body (status %d)", e.StatusCode)
}

// DecodeError reports a body that matches none of the response schemas, or a
// text/plain body that is not valid UTF-8.
type DecodeError struct {
	Reason string
	// StatusCode and Snippet are set when the body came from a live response.
	StatusCode int
	Snippet    string
	Err        error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode response: ")
	b.WriteString(e.Reason)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

const (
	reasonInvalidText = "invalid text encoding"
	reasonNoSchema    = "no matching response schema"
)
