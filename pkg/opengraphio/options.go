package opengraphio

import (
	"net/url"
	"strings"
	"unicode"
)

// Service selects which API behaviour a request targets.
type Service string

const (
	ServiceSite    Service = "site"
	ServiceExtract Service = "extract"
	ServiceScrape  Service = "scrape"
)

const (
	DefaultBaseURL    = "https://opengraph.io"
	DefaultAPIVersion = "1.1"
	DefaultService    = ServiceSite
)

// Options holds the immutable per-client request settings.
// Build it with NewOptions; the zero value is not usable.
type Options struct {
	appID          string
	cacheOK        bool
	service        Service
	apiVersion     string
	useProxy       bool
	fullRender     bool
	maxCacheAge    *int
	acceptLanguage *string
	htmlElements   *string
	baseURL        string
}

// Option customises Options during NewOptions.
type Option func(*Options)

// NewOptions validates appID and applies opts over the defaults
// (cache allowed, service "site", api version "1.1", no proxy, no full render).
func NewOptions(appID string, opts ...Option) (Options, error) {
	o := Options{
		appID:      strings.TrimSpace(appID),
		cacheOK:    true,
		service:    DefaultService,
		apiVersion: DefaultAPIVersion,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.appID == "" {
		return Options{}, &ConfigurationError{
			Field:  "app_id",
			Reason: "must be supplied when making requests to the API (sign up at https://www.opengraph.io/)",
		}
	}
	if o.service == "" {
		o.service = DefaultService
	}
	if o.apiVersion == "" {
		o.apiVersion = DefaultAPIVersion
	}

	base, err := url.Parse(o.baseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return Options{}, &ConfigurationError{Field: "base_url", Reason: "must be an absolute http(s) URL"}
	}
	if base.RawQuery != "" || base.ForceQuery || base.Fragment != "" {
		return Options{}, &ConfigurationError{Field: "base_url", Reason: "must not carry a query or fragment"}
	}
	o.baseURL = strings.TrimRight(o.baseURL, "/")

	return o, nil
}

// WithCacheOK controls whether the service may answer from its cache.
func WithCacheOK(ok bool) Option {
	return func(o *Options) { o.cacheOK = ok }
}

// WithService selects the API mode. An empty value keeps the default.
func WithService(s Service) Option {
	return func(o *Options) { o.service = Service(strings.TrimSpace(string(s))) }
}

// WithAPIVersion overrides the API version path segment.
func WithAPIVersion(v string) Option {
	return func(o *Options) { o.apiVersion = strings.TrimSpace(v) }
}

// WithProxy asks the service to fetch the target through its proxy pool.
func WithProxy(use bool) Option {
	return func(o *Options) { o.useProxy = use }
}

// WithFullRender asks the service to render JavaScript before extraction.
func WithFullRender(render bool) Option {
	return func(o *Options) { o.fullRender = render }
}

// WithMaxCacheAge limits how old (in seconds) a cached answer may be.
func WithMaxCacheAge(seconds int) Option {
	return func(o *Options) { o.maxCacheAge = &seconds }
}

// WithAcceptLanguage sets the Accept-Language the service uses upstream.
func WithAcceptLanguage(lang string) Option {
	return func(o *Options) { o.acceptLanguage = &lang }
}

// WithHTMLElements sets the comma separated tag list for the extract service.
// All whitespace is stripped, so "h1, h2" is stored as "h1,h2".
func WithHTMLElements(elements string) Option {
	return func(o *Options) {
		normalized := stripWhitespace(elements)
		o.htmlElements = &normalized
	}
}

// WithBaseURL points requests at a different scheme and host.
func WithBaseURL(base string) Option {
	return func(o *Options) { o.baseURL = strings.TrimSpace(base) }
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func (o Options) AppID() string      { return o.appID }
func (o Options) CacheOK() bool      { return o.cacheOK }
func (o Options) Service() Service   { return o.service }
func (o Options) APIVersion() string { return o.apiVersion }
func (o Options) UseProxy() bool     { return o.useProxy }
func (o Options) FullRender() bool   { return o.fullRender }
func (o Options) BaseURL() string    { return o.baseURL }

// MaxCacheAge returns the configured max cache age in seconds, if any.
func (o Options) MaxCacheAge() (int, bool) {
	if o.maxCacheAge == nil {
		return 0, false
	}
	return *o.maxCacheAge, true
}

// AcceptLanguage returns the configured accept language, if any.
func (o Options) AcceptLanguage() (string, bool) {
	if o.acceptLanguage == nil {
		return "", false
	}
	return *o.acceptLanguage, true
}

// HTMLElements returns the normalized tag list, if any.
func (o Options) HTMLElements() (string, bool) {
	if o.htmlElements == nil {
		return "", false
	}
	return *o.htmlElements, true
}
