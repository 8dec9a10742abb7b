package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/opengraphio-go/pkg/opengraphio"
)

// Lookup is one decoded service answer for a target URL.
type Lookup struct {
	ID        string              `json:"id"`
	TargetURL string              `json:"target_url"`
	Service   string              `json:"service"`
	Variant   string              `json:"variant"`
	Result    *opengraphio.Result `json:"result"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// NewLookup stamps a fresh id and fetch time onto a decoded result.
func NewLookup(targetURL string, service opengraphio.Service, res *opengraphio.Result) Lookup {
	l := Lookup{
		ID:        uuid.NewString(),
		TargetURL: targetURL,
		Service:   string(service),
		Result:    res,
		FetchedAt: time.Now().UTC(),
	}
	if res != nil {
		l.Variant = string(res.Variant)
	}
	return l
}
