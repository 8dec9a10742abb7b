package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samvad-hq/opengraphio-go/internal/config"
	"github.com/samvad-hq/opengraphio-go/internal/domain"
	"github.com/samvad-hq/opengraphio-go/internal/logger"
	"github.com/samvad-hq/opengraphio-go/internal/metrics"
	"github.com/samvad-hq/opengraphio-go/internal/storage"
	"github.com/samvad-hq/opengraphio-go/pkg/httpclient"
	"github.com/samvad-hq/opengraphio-go/pkg/opengraphio"
	"github.com/samvad-hq/opengraphio-go/pkg/publishers"
)

// Ogio is the CLI runtime. It owns the lookup archive, the publisher fanout
// and the metrics recorder, and runs single lookups against the service.
// Publishers are only connected by Fetch.
type Ogio struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	store    storage.Store
	recorder *metrics.Recorder
	log      logger.Logger
	out      io.Writer
}

// NewOgio builds the runtime from config. Results are written to out
// (stdout when nil).
func NewOgio(cfg *config.Config, log logger.Logger, out io.Writer) (*Ogio, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		LookupTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"lookup_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanup.Seconds()),
	})

	return &Ogio{
		cfg:      cfg,
		store:    store,
		recorder: metrics.NewRecorder(),
		log:      log,
		out:      out,
	}, nil
}

// connectPublishers builds the fanout on first use. An empty publishers
// file path disables publishing.
func (o *Ogio) connectPublishers(ctx context.Context) error {
	if o.fanout != nil {
		return nil
	}
	path := strings.TrimSpace(o.cfg.PublishersFile)
	if path == "" {
		o.fanout = publishers.NewFanout(nil)
		return nil
	}

	pubs, err := publishers.Load(path)
	if err != nil {
		return fmt.Errorf("load publishers: %w", err)
	}
	enabled := pubs.Enabled()
	if len(enabled) == 0 {
		o.log.WarnObj("no publishers enabled; lookups will not be forwarded", "publishers_file", path)
		o.fanout = publishers.NewFanout(nil)
		return nil
	}

	routes, err := publishers.DefaultBuilders().Build(ctx, enabled, o.log)
	if err != nil {
		return fmt.Errorf("build publishers: %w", err)
	}
	o.fanout = publishers.NewFanout(routes)

	summaries := make([]map[string]any, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]any{"id": p.ID, "type": p.Type, "variants": p.Variants})
	}
	o.log.InfoObj("publishers connected", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return nil
}

// OptionsFromConfig maps CLI config onto request options. Zero or empty
// optional values leave the parameter unset.
func OptionsFromConfig(cfg *config.Config) (opengraphio.Options, error) {
	opts := []opengraphio.Option{
		opengraphio.WithCacheOK(cfg.CacheOK),
		opengraphio.WithService(opengraphio.Service(cfg.Service)),
		opengraphio.WithAPIVersion(cfg.APIVersion),
		opengraphio.WithProxy(cfg.UseProxy),
		opengraphio.WithFullRender(cfg.FullRender),
		opengraphio.WithBaseURL(cfg.BaseURL),
	}
	if cfg.MaxCacheAge > 0 {
		opts = append(opts, opengraphio.WithMaxCacheAge(cfg.MaxCacheAge))
	}
	if cfg.AcceptLang != "" {
		opts = append(opts, opengraphio.WithAcceptLanguage(cfg.AcceptLang))
	}
	if cfg.HTMLElements != "" {
		opts = append(opts, opengraphio.WithHTMLElements(cfg.HTMLElements))
	}
	return opengraphio.NewOptions(cfg.AppID, opts...)
}

// Fetch looks up target, prints the result and then archives and publishes
// it. Archive and publish failures are returned after the result is printed.
// A non-empty selector prints the matched element texts of a scrape result
// instead of JSON.
func (o *Ogio) Fetch(ctx context.Context, target, selector string) error {
	if o == nil {
		return fmt.Errorf("ogio is not initialized")
	}
	opts, err := OptionsFromConfig(o.cfg)
	if err != nil {
		return err
	}
	if err := o.connectPublishers(ctx); err != nil {
		return err
	}

	client := opengraphio.NewClient(opts,
		opengraphio.WithHTTPClient(httpclient.NewRestyClient(o.cfg.HTTPTimeout)),
		opengraphio.WithLogger(o.log),
		opengraphio.WithObserver(o.recorder),
	)

	res, err := client.FetchSiteInfo(ctx, target)
	o.writeMetrics()
	if err != nil {
		return fmt.Errorf("fetch %s: %w", target, err)
	}

	if err := o.print(res, selector); err != nil {
		return err
	}

	lookup := domain.NewLookup(target, opts.Service(), res)
	var errs []error
	if err := o.store.Save(lookup); err != nil {
		errs = append(errs, fmt.Errorf("archive lookup: %w", err))
	}
	if o.fanout.Size() > 0 {
		d, err := o.fanout.Publish(ctx, publishers.NewEvent(lookup))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish lookup: %w", err))
		}
		o.log.InfoObj("lookup published", "publish_meta", map[string]any{
			"lookup_id": lookup.ID,
			"variant":   lookup.Variant,
			"delivered": d.Delivered,
			"failed":    d.Failed,
			"skipped":   d.Skipped,
		})
	}
	return errors.Join(errs...)
}

func (o *Ogio) print(res *opengraphio.Result, selector string) error {
	if selector == "" {
		enc := json.NewEncoder(o.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return nil
	}

	if res.Scrape == nil {
		return fmt.Errorf("--select needs a scrape result, got %s", res.Variant)
	}
	texts, err := res.Scrape.Select(selector)
	if err != nil {
		return err
	}
	for _, t := range texts {
		if _, err := fmt.Fprintln(o.out, t); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}

// History writes archived lookups as JSON lines, newest first. With ids it
// writes just those lookups, in the order given.
func (o *Ogio) History(ids ...string) error {
	if o == nil {
		return fmt.Errorf("ogio is not initialized")
	}

	var lookups []domain.Lookup
	if len(ids) == 0 {
		all, err := o.store.List()
		if err != nil {
			return fmt.Errorf("list lookups: %w", err)
		}
		lookups = all
	}
	for _, id := range ids {
		l, found, err := o.store.Get(id)
		if err != nil {
			return fmt.Errorf("get lookup %s: %w", id, err)
		}
		if !found {
			return fmt.Errorf("lookup %s not found", id)
		}
		lookups = append(lookups, l)
	}

	enc := json.NewEncoder(o.out)
	for _, l := range lookups {
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("write lookup: %w", err)
		}
	}
	return nil
}

func (o *Ogio) writeMetrics() {
	if err := o.recorder.WriteTextfile(o.cfg.MetricsFile); err != nil {
		o.log.WarnObj("metrics export failed", "error", err.Error())
	}
}

// Close releases the archive and publisher connections.
func (o *Ogio) Close() error {
	if o == nil {
		return nil
	}
	var fanoutErr error
	if o.fanout != nil {
		fanoutErr = o.fanout.Close()
	}
	return errors.Join(fanoutErr, o.store.Close())
}
