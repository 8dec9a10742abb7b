package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/opengraphio-go/internal/logger"
	"github.com/samvad-hq/opengraphio-go/pkg/httpclient"
)

const (
	httpDefaultMethod  = http.MethodPost
	httpDefaultTimeout = 5 * time.Second
	httpErrorSnippet   = 512
)

// HTTPPublisherConfig posts each event as JSON to a webhook.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

func (c *HTTPPublisherConfig) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = httpDefaultMethod
	}
	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			headers[k] = v
		}
	}
	c.Headers = headers
}

func (c *HTTPPublisherConfig) check() error {
	if c.URL == "" {
		return errors.New("http.url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("http.url %q is not an absolute http(s) URL", c.URL)
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("http.timeout_seconds must not be negative")
	}
	return nil
}

func (c *HTTPPublisherConfig) timeout() time.Duration {
	if c.TimeoutSeconds == 0 {
		return httpDefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  httpclient.Sender
	log     logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range cfg.HTTP.Headers {
		headers[k] = v
	}
	return &httpPublisher{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: headers,
		client:  httpclient.NewRestyClient(cfg.HTTP.timeout()),
		log:     log,
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish sends the event; any non-2xx answer is an error.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	resp, err := h.client.Send(ctx, h.method, h.url, h.headers, body)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("http response status %d: %s", code, bodySnippet(resp.Body()))
	}

	h.log.DebugObj("lookup delivered to webhook", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"lookup_id":    evt.Lookup.ID,
		"status_code":  resp.StatusCode(),
	})
	return nil
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > httpErrorSnippet {
		s = s[:httpErrorSnippet]
	}
	return strings.ToValidUTF8(s, "")
}
