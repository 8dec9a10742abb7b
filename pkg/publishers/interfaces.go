package publishers

import "context"

// Publisher forwards archived lookups to one downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
