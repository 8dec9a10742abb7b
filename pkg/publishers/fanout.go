package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Route is a publisher plus the result variants it subscribes to.
// No variants means every lookup.
type Route struct {
	Publisher Publisher
	Variants  []string
}

func (r Route) wants(variant string) bool {
	return len(r.Variants) == 0 || slices.Contains(r.Variants, variant)
}

// Delivery counts what one Fanout.Publish call did.
type Delivery struct {
	Delivered int
	Failed    int
	// Skipped counts routes not subscribed to the event's variant.
	Skipped int
}

// Fanout sends each lookup to every subscribed route, one after another.
type Fanout struct {
	routes []Route
}

// NewFanout drops routes without a publisher.
func NewFanout(routes []Route) *Fanout {
	kept := make([]Route, 0, len(routes))
	for _, r := range routes {
		if r.Publisher != nil {
			kept = append(kept, r)
		}
	}
	return &Fanout{routes: kept}
}

// Publish forwards evt to the routes subscribed to its variant. Failures
// do not stop later routes; they are joined into the returned error.
func (f *Fanout) Publish(ctx context.Context, evt Event) (Delivery, error) {
	var (
		d    Delivery
		errs []error
	)
	if f == nil {
		return d, nil
	}
	for _, r := range f.routes {
		if !r.wants(evt.Lookup.Variant) {
			d.Skipped++
			continue
		}
		if err := r.Publisher.Publish(ctx, evt); err != nil {
			d.Failed++
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", r.Publisher.Type(), r.Publisher.ID(), err))
			continue
		}
		d.Delivered++
	}
	return d, errors.Join(errs...)
}

// Size returns the number of routes.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.routes)
}

// Close releases publishers that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeRoutes(f.routes)
}

func closeRoutes(routes []Route) error {
	var errs []error
	for _, r := range routes {
		c, ok := r.Publisher.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", r.Publisher.Type(), r.Publisher.ID(), err))
		}
	}
	return errors.Join(errs...)
}
