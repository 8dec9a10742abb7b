package publishers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samvad-hq/opengraphio-go/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	Lookup      domain.Lookup `json:"lookup"`
	PublishedAt time.Time     `json:"published_at"`
}

// NewEvent wraps a lookup for publishing.
func NewEvent(l domain.Lookup) Event {
	return Event{
		Lookup:      l,
		PublishedAt: time.Now().UTC(),
	}
}

// message is the wire form queue sinks send: the JSON event plus routing
// attributes. Empty attributes are left out.
func (e Event) message() ([]byte, map[string]string, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal event: %w", err)
	}
	attrs := make(map[string]string, 3)
	for k, v := range map[string]string{
		"lookup_id": e.Lookup.ID,
		"service":   e.Lookup.Service,
		"variant":   e.Lookup.Variant,
	} {
		if v != "" {
			attrs[k] = v
		}
	}
	return body, attrs, nil
}
