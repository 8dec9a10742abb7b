package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// Header returns the first value of the named response header, or "".
	Header(key string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// Sender issues requests with an arbitrary method and a body.
type Sender interface {
	Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error)
}
