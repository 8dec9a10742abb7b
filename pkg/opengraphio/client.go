package opengraphio

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samvad-hq/opengraphio-go/pkg/httpclient"
)

const (
	acceptHeader    = "application/json, text/plain"
	maxSnippetBytes = 512
)

// Client fetches site information for one Options set. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	opts     Options
	http     httpclient.Client
	log      Logger
	observer Observer
	now      func() time.Time
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient swaps the transport. The default is a resty client with no
// timeout of its own; deadlines come from the caller's context.
func WithHTTPClient(c httpclient.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// WithObserver attaches a per-call observer, e.g. a metrics recorder.
func WithObserver(o Observer) ClientOption {
	return func(cl *Client) {
		if o != nil {
			cl.observer = o
		}
	}
}

// NewClient builds a Client around already validated Options.
func NewClient(opts Options, clientOpts ...ClientOption) *Client {
	c := &Client{
		opts:     opts,
		log:      noopLogger{},
		observer: noopObserver{},
		now:      time.Now,
	}
	for _, opt := range clientOpts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c
}

// Options returns the options the client was built with.
func (c *Client) Options() Options { return c.opts }

// FetchSiteInfo is a one-off call using a default Client.
func FetchSiteInfo(ctx context.Context, targetURL string, opts Options) (*Result, error) {
	return NewClient(opts).FetchSiteInfo(ctx, targetURL)
}

// FetchSiteInfo performs a single GET against the service for targetURL and
// decodes the answer. Errors are one of *TransportError, *EmptyResponseError
// or *DecodeError.
func (c *Client) FetchSiteInfo(ctx context.Context, targetURL string) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := c.now()
	res, err := c.fetch(ctx, targetURL)
	c.observer.ObserveFetch(string(c.opts.Service()), outcomeOf(res, err), c.now().Sub(start))
	return res, err
}

func (c *Client) fetch(ctx context.Context, targetURL string) (*Result, error) {
	fullURL, _ := BuildRequest(targetURL, c.opts)
	logURL := redactedURL(fullURL)

	c.log.DebugObj("opengraphio request", "opengraphio_request", map[string]any{
		"target_url": targetURL,
		"service":    c.opts.Service(),
		"url":        logURL,
	})

	resp, err := c.http.Get(ctx, fullURL, map[string]string{"Accept": acceptHeader})
	if err != nil {
		c.log.WarnObj("opengraphio transport failed", "opengraphio_error", map[string]any{
			"target_url": targetURL,
			"error":      err.Error(),
		})
		return nil, &TransportError{URL: logURL, Err: err}
	}

	body := resp.Body()
	if len(body) == 0 {
		c.log.WarnObj("opengraphio empty response", "opengraphio_error", map[string]any{
			"target_url":  targetURL,
			"status_code": resp.StatusCode(),
		})
		return nil, &EmptyResponseError{StatusCode: resp.StatusCode()}
	}

	res, err := Decode(body, resp.Header("Content-Type"))
	if err != nil {
		var decErr *DecodeError
		if errors.As(err, &decErr) {
			decErr.StatusCode = resp.StatusCode()
			decErr.Snippet = responseSnippet(body)
		}
		c.log.WarnObj("opengraphio decode failed", "opengraphio_error", map[string]any{
			"target_url":  targetURL,
			"status_code": resp.StatusCode(),
			"error":       err.Error(),
		})
		return nil, err
	}

	c.log.DebugObj("opengraphio response decoded", "opengraphio_response", map[string]any{
		"target_url":  targetURL,
		"status_code": resp.StatusCode(),
		"variant":     res.Variant,
	})
	return res, nil
}

func outcomeOf(res *Result, err error) string {
	var (
		transportErr *TransportError
		emptyErr     *EmptyResponseError
	)
	switch {
	case err == nil && res != nil:
		return string(res.Variant)
	case errors.As(err, &transportErr):
		return OutcomeTransport
	case errors.As(err, &emptyErr):
		return OutcomeEmptyResponse
	default:
		return OutcomeDecode
	}
}

// responseSnippet trims body to at most maxSnippetBytes without splitting a
// rune. Invalid bytes are replaced so the snippet is always valid UTF-8.
func responseSnippet(body []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
	if len(s) <= maxSnippetBytes {
		return s
	}
	cut := maxSnippetBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
