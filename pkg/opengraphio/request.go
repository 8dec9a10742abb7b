package opengraphio

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParam is a single query string entry.
type QueryParam struct {
	Key   string
	Value string
}

// QueryParams keeps query entries in the order they were added.
type QueryParams []QueryParam

// Get returns the value for key and whether it is present.
func (q QueryParams) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the params as a query string, preserving order.
func (q QueryParams) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

const upperHex = "0123456789ABCDEF"

// EncodeTargetURL percent-encodes every byte of target outside the unreserved
// set (A-Z a-z 0-9 - . _ ~), so the result is safe as a single path segment.
func EncodeTargetURL(target string) string {
	var b strings.Builder
	b.Grow(len(target) * 3)
	for i := 0; i < len(target); i++ {
		c := target[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// BuildRequest returns the endpoint URL (query string included) for target
// and the query params it carries.
func BuildRequest(target string, opts Options) (string, QueryParams) {
	endpoint := endpointURL(target, opts)
	params := queryParams(opts)
	return endpoint + "?" + params.Encode(), params
}

func endpointURL(target string, opts Options) string {
	return strings.Join([]string{
		opts.BaseURL(),
		"api",
		opts.APIVersion(),
		string(opts.Service()),
		EncodeTargetURL(target),
	}, "/")
}

func queryParams(opts Options) QueryParams {
	params := QueryParams{
		{Key: "app_id", Value: opts.AppID()},
		{Key: "cache_ok", Value: strconv.FormatBool(opts.CacheOK())},
	}
	if opts.UseProxy() {
		params = append(params, QueryParam{Key: "use_proxy", Value: "true"})
	}
	if opts.FullRender() {
		params = append(params, QueryParam{Key: "full_render", Value: "true"})
	}
	if age, ok := opts.MaxCacheAge(); ok {
		params = append(params, QueryParam{Key: "max_cache_age", Value: strconv.Itoa(age)})
	}
	if lang, ok := opts.AcceptLanguage(); ok {
		params = append(params, QueryParam{Key: "accept_lang", Value: lang})
	}
	if elements, ok := opts.HTMLElements(); ok {
		params = append(params, QueryParam{Key: "html_elements", Value: elements})
	}
	return params
}

// redactedURL hides the app_id value so request URLs can be logged.
func redactedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("app_id") {
		q.Set("app_id", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
