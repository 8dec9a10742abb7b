package publishers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/opengraphio-go/pkg/opengraphio"
	"gopkg.in/yaml.v3"
)

// Sink types accepted in the publishers file.
const (
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "gcp_pubsub"
)

// PublisherConfig is one sink entry of the publishers file.
type PublisherConfig struct {
	ID      string `json:"id" yaml:"id"`
	Type    string `json:"type" yaml:"type"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
	// Variants limits the sink to lookups that decoded to one of these
	// result variants (site, extract, scrape). Empty forwards every lookup.
	Variants []string `json:"variants" yaml:"variants"`

	HTTP   *HTTPPublisherConfig   `json:"http" yaml:"http"`
	SQS    *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS    *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub *PubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
}

// IsEnabled reports the enabled flag; a missing flag means enabled.
func (cfg PublisherConfig) IsEnabled() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// sinkSettings is the type specific block of a PublisherConfig.
type sinkSettings interface {
	normalize()
	check() error
}

// settings returns the block named by cfg.Type.
func (cfg PublisherConfig) settings() (sinkSettings, error) {
	var s sinkSettings
	switch cfg.Type {
	case TypeHTTP:
		if cfg.HTTP != nil {
			s = cfg.HTTP
		}
	case TypeSQS:
		if cfg.SQS != nil {
			s = cfg.SQS
		}
	case TypeSNS:
		if cfg.SNS != nil {
			s = cfg.SNS
		}
	case TypePubSub:
		if cfg.PubSub != nil {
			s = cfg.PubSub
		}
	case "":
		return nil, errors.New("type is required")
	default:
		return nil, fmt.Errorf("unsupported type %q", cfg.Type)
	}
	if s == nil {
		return nil, fmt.Errorf("%s block is required for type %q", cfg.Type, cfg.Type)
	}
	return s, nil
}

// prepare normalizes cfg in place and checks it.
func (cfg *PublisherConfig) prepare() error {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	variants, err := normalizeVariants(cfg.Variants)
	if err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	cfg.Variants = variants

	s, err := cfg.settings()
	if err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	s.normalize()
	if err := s.check(); err != nil {
		return fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return nil
}

var knownVariants = map[string]bool{
	string(opengraphio.VariantSite):    true,
	string(opengraphio.VariantExtract): true,
	string(opengraphio.VariantScrape):  true,
}

// normalizeVariants lowercases, drops blanks and duplicates, and rejects
// names that are not result variants.
func normalizeVariants(in []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		if !knownVariants[v] {
			return nil, fmt.Errorf("unknown variant %q (want site, extract or scrape)", v)
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// Publishers is the ordered content of a publishers file.
type Publishers []PublisherConfig

// Load reads a publishers file. Files ending in .json are decoded as JSON,
// anything else as YAML; unknown keys are rejected either way. Every entry
// is normalized and checked, and ids must be unique.
func Load(path string) (Publishers, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file struct {
		Publishers Publishers `json:"publishers" yaml:"publishers"`
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&file)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode publishers file %s: %w", filepath.Base(path), err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	ids := make(map[string]bool, len(file.Publishers))
	for i := range file.Publishers {
		cfg := &file.Publishers[i]
		if err := cfg.prepare(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if ids[cfg.ID] {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		ids[cfg.ID] = true
	}
	return file.Publishers, nil
}

// Enabled returns the entries that are switched on, in file order.
func (p Publishers) Enabled() Publishers {
	var out Publishers
	for _, cfg := range p {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out
}

// ByID finds an entry by id.
func (p Publishers) ByID(id string) (PublisherConfig, bool) {
	id = strings.TrimSpace(id)
	for _, cfg := range p {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return PublisherConfig{}, false
}
