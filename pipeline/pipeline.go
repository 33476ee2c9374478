// Package pipeline drives a full run: resolve manifests, fetch the string
// blobs of every locale, then decode and serialize them. Each locale is
// processed on its own so one failure never stops the others.
package pipeline

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"soulframe-lang/asset"
	"soulframe-lang/asset/aoutput"
	"soulframe-lang/catalog"
	"soulframe-lang/config"
	"soulframe-lang/fetch"
)

type Pipeline struct {
	Config   *config.Config
	Fetcher  *fetch.Fetcher
	Decoders *asset.Decoders
	// Catalog is optional.
	Catalog  *catalog.Catalog
	Logger   *slog.Logger
	Observer Observer
	Format   aoutput.Format
	// Force rewrites outputs even when they are unchanged.
	Force bool
	Now   func() time.Time

	mirrors []fetch.URLBuilder
	aborted atomic.Bool
}

// ExpandMirrors turns configured mirror URLs into URL builders, filling in
// the cache-busting placeholder with id.
func ExpandMirrors(mirrors []string, id uint32) []fetch.URLBuilder {
	return lo.Map(lo.Compact(mirrors), func(mirror string, _ int) fetch.URLBuilder {
		return fetch.URLBuilder{
			Base: strings.ReplaceAll(mirror, config.CacheBust, fmt.Sprintf("%08X", id)),
		}
	})
}

func New(
	cfg *config.Config,
	fetcher *fetch.Fetcher,
	decoders *asset.Decoders,
	logger *slog.Logger,
) (*Pipeline, error) {
	format, err := aoutput.ParseFormat(cfg.Format)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline.New error")
	}
	return &Pipeline{
		Config:   cfg,
		Fetcher:  fetcher,
		Decoders: decoders,
		Logger:   logger,
		Observer: LogObserver(logger),
		Format:   format,
		Now:      time.Now,
		mirrors:  ExpandMirrors(cfg.Mirrors, rand.Uint32()),
	}, nil
}

// Abort stops the run before its next stage. A stage already in progress
// finishes.
func (r *Pipeline) Abort() {
	r.aborted.Store(true)
}

func (r *Pipeline) Aborted() bool {
	return r.aborted.Load()
}

func (r *Pipeline) emit(event Event) {
	if r.Observer != nil {
		r.Observer.Observe(event)
	}
}

func (r *Pipeline) checkpoint() error {
	if r.Aborted() {
		return ErrAborted
	}
	return nil
}

// fetchAny tries each mirror in order. Only transport failures move on to
// the next mirror.
func (r *Pipeline) fetchAny(target fetch.Target) (*fetch.Result, error) {
	var lastErr error
	for _, urls := range r.mirrors {
		result, err := r.Fetcher.Fetch(target, r.Config.DownloadDir, urls)
		if err == nil {
			r.recordFetch(target, result)
			return result, nil
		}
		if !fetch.IsTransportError(err) {
			return nil, err
		}
		r.Logger.Warn("mirror failed", "mirror", urls.Base, "path", target.Entry.Path, "error", err)
		lastErr = err
	}
	if lastErr == nil {
		return nil, errors.New("pipeline: no mirrors configured")
	}
	return nil, errors.Wrapf(lastErr, "all %d mirrors failed", len(r.mirrors))
}

func (r *Pipeline) recordFetch(target fetch.Target, result *fetch.Result) {
	if r.Catalog == nil {
		return
	}
	record := catalog.FetchRecord{
		Path:    target.Entry.Path,
		Outcome: result.Outcome.String(),
		Hash:    target.Entry.Hash,
		Size:    result.Size,
		At:      r.Now(),
	}
	if err := r.Catalog.RecordFetch(target.Locale, record); err != nil {
		r.Logger.Warn("could not update catalog", "path", target.Entry.Path, "error", err)
	}
}

func readFile(path string) ([]byte, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	return bs, nil
}

// Sync downloads then extracts. Locales whose download failed are not
// extracted and keep their download error.
func (r *Pipeline) Sync(locales []string) (*Report, error) {
	downloaded, err := r.Download(locales)
	if err != nil {
		return downloaded, err
	}
	ready := lo.FilterMap(downloaded.Locales, func(result LocaleResult, _ int) (string, bool) {
		return result.Locale, result.Err == nil
	})
	extracted, err := r.Extract(ready)

	report := &Report{
		Alias:       extracted.Alias,
		AliasLocale: extracted.AliasLocale,
	}
	for _, result := range downloaded.Locales {
		if extractResult, ok := extracted.Result(result.Locale); ok {
			extractResult.Downloaded = result.Downloaded
			result = extractResult
		}
		report.Locales = append(report.Locales, result)
	}
	return report, err
}
