package opengraphio

import (
	"errors"
	"testing"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts, err := NewOptions("app-123")
	if err != nil {
		t.Fatalf("NewOptions: %v", err)
	}
	if opts.AppID() != "app-123" {
		t.Fatalf("unexpected app id %q", opts.AppID())
	}
	if !opts.CacheOK() {
		t.Fatalf("expected cache_ok to default to true")
	}
	if opts.Service() != ServiceSite {
		t.Fatalf("expected default service site, got %q", opts.Service())
	}
	if opts.APIVersion() != "1.1" {
		t.Fatalf("expected default api version 1.1, got %q", opts.APIVersion())
	}
	if opts.UseProxy() || opts.FullRender() {
		t.Fatalf("expected proxy and full render to be off")
	}
	if _, ok := opts.MaxCacheAge(); ok {
		t.Fatalf("expected max cache age unset")
	}
	if _, ok := opts.AcceptLanguage(); ok {
		t.Fatalf("expected accept language unset")
	}
	if _, ok := opts.HTMLElements(); ok {
		t.Fatalf("expected html elements unset")
	}
	if opts.BaseURL() != DefaultBaseURL {
		t.Fatalf("unexpected base url %q", opts.BaseURL())
	}
}

func TestNewOptionsRejectsEmptyAppID(t *testing.T) {
	cases := map[string][]Option{
		"no options": nil,
		"every option": {
			WithCacheOK(false),
			WithService(ServiceScrape),
			WithAPIVersion("2.0"),
			WithProxy(true),
			WithFullRender(true),
			WithMaxCacheAge(60),
			WithAcceptLanguage("en"),
			WithHTMLElements("h1"),
		},
	}
	for name, opts := range cases {
		for _, appID := range []string{"", "   "} {
			_, err := NewOptions(appID, opts...)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("%s: expected ConfigurationError for app id %q, got %v", name, appID, err)
			}
			if cfgErr.Field != "app_id" {
				t.Fatalf("%s: unexpected field %q", name, cfgErr.Field)
			}
		}
	}
}

func TestWithHTMLElementsStripsWhitespace(t *testing.T) {
	cases := map[string]string{
		"h1, h2":              "h1,h2",
		"h1, h2 , h3":         "h1,h2,h3",
		"  p,\tspan\n, div  ": "p,span,div",
		"h1,h2":               "h1,h2",
		"h1,\u00a0h2":         "h1,h2",
		"":                    "",
	}
	for in, want := range cases {
		opts, err := NewOptions("app", WithHTMLElements(in))
		if err != nil {
			t.Fatalf("NewOptions: %v", err)
		}
		got, ok := opts.HTMLElements()
		if !ok {
			t.Fatalf("expected html elements to be set for %q", in)
		}
		if got != want {
			t.Errorf("WithHTMLElements(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewOptionsEmptyServiceFallsBackToDefault(t *testing.T) {
	opts, err := NewOptions("app", WithService(""), WithAPIVersion(" "))
	if err != nil {
		t.Fatalf("NewOptions: %v", err)
	}
	if opts.Service() != ServiceSite || opts.APIVersion() != DefaultAPIVersion {
		t.Fatalf("expected defaults, got service=%q version=%q", opts.Service(), opts.APIVersion())
	}
}

func TestNewOptionsRejectsBadBaseURL(t *testing.T) {
	for _, base := range []string{"opengraph.io", "ftp://opengraph.io", "://bad", "https://h.example?x=1", "https://h.example/?", "https://h.example/#top"} {
		_, err := NewOptions("app", WithBaseURL(base))
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) || cfgErr.Field != "base_url" {
			t.Fatalf("expected base_url ConfigurationError for %q, got %v", base, err)
		}
	}
}

func TestOptionsKeepOptionalValues(t *testing.T) {
	opts, err := NewOptions("app",
		WithMaxCacheAge(0),
		WithAcceptLanguage("fr-FR"),
		WithBaseURL("http://127.0.0.1:8080/"),
	)
	if err != nil {
		t.Fatalf("NewOptions: %v", err)
	}
	if age, ok := opts.MaxCacheAge(); !ok || age != 0 {
		t.Fatalf("expected max cache age 0 to be kept, got %d %v", age, ok)
	}
	if lang, ok := opts.AcceptLanguage(); !ok || lang != "fr-FR" {
		t.Fatalf("unexpected accept language %q %v", lang, ok)
	}
	if opts.BaseURL() != "http://127.0.0.1:8080" {
		t.Fatalf("expected trailing slash trimmed, got %q", opts.BaseURL())
	}
}
