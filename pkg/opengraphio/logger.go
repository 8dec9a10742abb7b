package opengraphio

import "time"

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// Observer receives one notification per FetchSiteInfo call. outcome is the
// Result variant on success, otherwise one of the Outcome* error kinds.
type Observer interface {
	ObserveFetch(service, outcome string, elapsed time.Duration)
}

const (
	OutcomeTransport     = "transport"
	OutcomeEmptyResponse = "empty_response"
	OutcomeDecode        = "decode"
)

type noopObserver struct{}

func (noopObserver) ObserveFetch(string, string, time.Duration) {}
