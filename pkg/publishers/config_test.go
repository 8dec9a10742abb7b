package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePublishersFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadYAMLNormalizesAndFilters(t *testing.T) {
	path := writePublishersFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: " http2 "
    type: HTTP
    variants: [" Site ", scrape, site]
    http:
      url: " https://example.com/2 "
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:us-east-1:123456789012:lookups
      region: us-east-1
`)

	pubs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	enabled := pubs.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "topic" {
		t.Fatalf("expected http2 and topic enabled, got %#v", enabled)
	}
	hook := enabled[0]
	if hook.HTTP.URL != "https://example.com/2" || hook.HTTP.Method != "POST" {
		t.Fatalf("http config not normalized: %#v", hook.HTTP)
	}
	if strings.Join(hook.Variants, ",") != "site,scrape" {
		t.Fatalf("variants not normalized: %v", hook.Variants)
	}
	if cfg, ok := pubs.ByID("http1"); !ok || cfg.IsEnabled() {
		t.Fatalf("expected disabled http1 to be kept in the file, got %#v %v", cfg, ok)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writePublishersFile(t, "publishers.json",
		`{"publishers": [{"id": "q", "type": "sqs", "variants": ["extract"], "sqs": {"uri": "https://sqs.example/q", "region": "eu-west-1"}}]}`)

	pubs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pubs) != 1 || pubs[0].SQS.Region != "eu-west-1" || pubs[0].Variants[0] != "extract" {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]struct{ name, content string }{
		"duplicate id": {"p.yaml", `
publishers:
  - {id: dup, type: http, http: {url: "https://a.example"}}
  - {id: dup, type: http, http: {url: "https://b.example"}}
`},
		"unknown variant": {"p.yaml", `
publishers:
  - {id: h, type: http, variants: [video], http: {url: "https://a.example"}}
`},
		"unknown yaml key": {"p.yaml", `
publishers:
  - {id: h, type: http, http: {url: "https://a.example", retries: 3}}
`},
		"unknown json key": {"p.json", `{"publishers": [{"id": "h", "type": "http", "color": "red", "http": {"url": "https://a.example"}}]}`},
		"empty file":       {"p.yaml", ""},
	}
	for name, tc := range cases {
		if _, err := Load(writePublishersFile(t, tc.name, tc.content)); err == nil {
			t.Errorf("%s: expected Load error", name)
		}
	}
}

func TestPrepareChecksSinkBlock(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing id":           {Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://a.example"}},
		"missing type":         {ID: "x"},
		"missing http block":   {ID: "h1", Type: TypeHTTP},
		"missing sns arn":      {ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}},
		"sns arn not an arn":   {ID: "s2", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "lookups", Region: "us-east-1"}},
		"missing sqs region":   {ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		"missing pubsub topic": {ID: "g1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
		"wrong block for type": {ID: "w1", Type: TypeSQS, HTTP: &HTTPPublisherConfig{URL: "https://a.example"}},
		"unknown type":         {ID: "k1", Type: "kafka"},
	}
	for name, cfg := range cases {
		if err := cfg.prepare(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
