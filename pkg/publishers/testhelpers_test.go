package publishers

import (
	"testing"

	"github.com/samvad-hq/opengraphio-go/internal/domain"
	"github.com/samvad-hq/opengraphio-go/internal/logger"
	"github.com/samvad-hq/opengraphio-go/pkg/opengraphio"
)

var nopLog = &logger.NopLogger{}

func testEvent() Event {
	return NewEvent(domain.Lookup{
		ID:        "lookup-1",
		TargetURL: "https://example.com",
		Service:   "extract",
		Variant:   "extract",
		Result: &opengraphio.Result{
			Variant: opengraphio.VariantExtract,
			Extract: &opengraphio.ExtractInfo{
				Tags:             []opengraphio.Tag{{Tag: "h1", InnerText: "Hello"}},
				ConcatenatedText: "Hello",
			},
		},
	})
}

func eventWithVariant(v opengraphio.Variant) Event {
	evt := testEvent()
	evt.Lookup.Variant = string(v)
	return evt
}

func mustPrepare(t *testing.T, cfg PublisherConfig) PublisherConfig {
	t.Helper()
	if err := cfg.prepare(); err != nil {
		t.Fatalf("prepare %q: %v", cfg.ID, err)
	}
	return cfg
}
