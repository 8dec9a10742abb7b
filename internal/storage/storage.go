package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/opengraphio-go/internal/domain"
)

// Package storage keeps a local archive of decoded lookups. It is history
// only: nothing reads it before issuing a request.

// Store archives lookups by id.
type Store interface {
	Close() error
	Save(l domain.Lookup) error
	Get(id string) (domain.Lookup, bool, error)
	// List returns live lookups, newest first.
	List() ([]domain.Lookup, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	LookupTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultLookupTTL       = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.LookupTTL <= 0 {
		opts.LookupTTL = defaultLookupTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                            { return nil }
func (noopStore) Save(domain.Lookup) error                { return nil }
func (noopStore) Get(string) (domain.Lookup, bool, error) { return domain.Lookup{}, false, nil }
func (noopStore) List() ([]domain.Lookup, error)          { return nil, nil }
