package publishers

import (
	"context"
	"fmt"

	"github.com/samvad-hq/opengraphio-go/internal/logger"
)

// Builder creates the sink for one config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Builders maps sink types to their Builder.
type Builders map[string]Builder

// DefaultBuilders knows every sink type the publishers file accepts.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	}
}

// Build turns config entries into routes. When one sink fails to build,
// the ones already built are closed.
func (b Builders) Build(ctx context.Context, cfgs Publishers, log logger.Logger) ([]Route, error) {
	if log == nil {
		log = &logger.NopLogger{}
	}

	routes := make([]Route, 0, len(cfgs))
	for _, cfg := range cfgs {
		build, ok := b[cfg.Type]
		if !ok {
			closeRoutes(routes)
			return nil, fmt.Errorf("build publisher %q: no builder for type %q", cfg.ID, cfg.Type)
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			closeRoutes(routes)
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		routes = append(routes, Route{Publisher: pub, Variants: cfg.Variants})
	}
	return routes, nil
}
