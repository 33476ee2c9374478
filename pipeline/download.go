package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
	"soulframe-lang/asset/amanifest"
	"soulframe-lang/fetch"
)

func (r *Pipeline) fetchManifest(target fetch.Target) (*amanifest.Manifest, *fetch.Result, error) {
	result, err := r.fetchAny(target)
	if err != nil {
		return nil, nil, err
	}
	blob, err := readFile(result.Path)
	if err != nil {
		return nil, nil, err
	}
	manifest, err := r.Decoders.DecodeManifest(blob)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decoding %s", target.Entry.Path)
	}
	return manifest, result, nil
}

func lookup(manifest *amanifest.Manifest, path string, listedIn string) (amanifest.Entry, error) {
	entry, ok := manifest.Lookup(path)
	if !ok {
		return entry, errors.WithStack(ErrNotListed{Path: path, Manifest: listedIn})
	}
	return entry, nil
}

// downloadLocale resolves and fetches the string blob of one locale.
func (r *Pipeline) downloadLocale(root *amanifest.Manifest, locale string, index int, total int) LocaleResult {
	result := LocaleResult{Locale: locale}
	stage := func(stage Stage, run func() (string, bool, error)) error {
		result.Stage = stage
		if err := r.checkpoint(); err != nil {
			return err
		}
		r.emit(Event{Kind: StageStarted, Locale: locale, Stage: stage, Index: index, Total: total})
		detail, downloaded, err := run()
		if err != nil {
			return err
		}
		kind := StageSkipped
		if downloaded {
			kind = StageDone
			result.Downloaded++
		}
		r.emit(Event{Kind: kind, Locale: locale, Stage: stage, Detail: detail, Index: index, Total: total})
		return nil
	}

	types := r.Config.Types
	paths := r.Config.Paths
	var manifest *amanifest.Manifest
	err := stage(StageLocaleManifest, func() (string, bool, error) {
		path := fmt.Sprintf(paths.LocaleManifest, locale)
		entry, err := lookup(root, path, paths.RootManifest)
		if err != nil {
			return "", false, err
		}
		var fetched *fetch.Result
		manifest, fetched, err = r.fetchManifest(fetch.Target{Entry: entry, Type: types.Manifest})
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf("%d entries", manifest.Len()), fetched.Outcome == fetch.Downloaded, nil
	})
	if err == nil {
		err = stage(StageStrings, func() (string, bool, error) {
			entry, err := lookup(manifest, paths.Strings, fmt.Sprintf(paths.LocaleManifest, locale))
			if err != nil {
				return "", false, err
			}
			fetched, err := r.fetchAny(fetch.Target{Entry: entry, Locale: locale, Type: types.Strings})
			if err != nil {
				return "", false, err
			}
			return fetched.Path, fetched.Outcome == fetch.Downloaded, nil
		})
	}

	if err != nil {
		result.Err = errors.Wrapf(err, "locale %s", locale)
		r.emit(Event{Kind: LocaleFailed, Locale: locale, Stage: result.Stage, Err: result.Err, Index: index, Total: total})
		return result
	}
	r.emit(Event{Kind: LocaleDone, Locale: locale, Stage: result.Stage, Index: index, Total: total})
	return result
}

// Download fetches the root manifest, then the manifest and string blob of
// every locale. The returned error is set only when the root manifest could
// not be resolved; per-locale failures are in the report.
func (r *Pipeline) Download(locales []string) (*Report, error) {
	report := &Report{}
	if err := r.checkpoint(); err != nil {
		return report, err
	}

	r.emit(Event{Kind: StageStarted, Stage: StageRootManifest, Total: len(locales)})
	target := fetch.UnknownTarget(r.Config.Paths.RootManifest, "", r.Config.Types.Manifest)
	root, _, err := r.fetchManifest(target)
	if err != nil {
		err = errors.Wrap(err, "pipeline.Download error resolving root manifest")
		for _, locale := range locales {
			report.Locales = append(report.Locales, LocaleResult{Locale: locale, Stage: StageRootManifest, Err: err})
		}
		return report, err
	}
	r.emit(Event{
		Kind: StageDone, Stage: StageRootManifest, Total: len(locales),
		Detail: fmt.Sprintf("%d entries", root.Len()),
	})

	for i, locale := range locales {
		report.Locales = append(report.Locales, r.downloadLocale(root, locale, i, len(locales)))
	}
	return report, nil
}
