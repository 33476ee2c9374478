package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"soulframe-lang/asset/aoutput"
	"soulframe-lang/catalog"
	"soulframe-lang/fetch"
)

const OutputDirName = "Languages"

// OutputPath is where the serialized table of locale is written.
func (r *Pipeline) OutputPath(locale string) string {
	return filepath.Join(r.Config.ExtractDir, OutputDirName, locale+"."+aoutput.Extension(r.Format))
}

// AliasPath is the output that mirrors the default locale.
func (r *Pipeline) AliasPath() string {
	return filepath.Join(r.Config.ExtractDir, OutputDirName+"."+aoutput.Extension(r.Format))
}

func (r *Pipeline) stringsPath(locale string) string {
	target := fetch.UnknownTarget(r.Config.Paths.Strings, locale, r.Config.Types.Strings)
	return filepath.FromSlash(fetch.LocalPath(r.Config.DownloadDir, target))
}

func writeOutput(path string, bs []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating %q", filepath.Dir(path))
	}
	temp := path + ".part"
	if err := os.WriteFile(temp, bs, 0o644); err != nil {
		return errors.Wrapf(err, "writing %q", temp)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return errors.Wrapf(err, "moving %q into place", path)
	}
	return nil
}

// unchanged reports whether path already holds output with digest, as
// recorded by a previous extraction in the same format.
func (r *Pipeline) unchanged(locale string, path string, digest string) bool {
	if r.Force || r.Catalog == nil {
		return false
	}
	record, ok, err := r.Catalog.Extract(locale)
	if err != nil || !ok {
		return false
	}
	if record.Digest != digest || record.Format != string(r.Format) || record.Output != path {
		return false
	}
	existing, err := os.ReadFile(path)
	return err == nil && catalog.Digest(existing) == digest
}

func (r *Pipeline) extractLocale(locale string, index int, total int) (LocaleResult, []byte) {
	result := LocaleResult{Locale: locale, Stage: StageDecode}
	fail := func(err error) (LocaleResult, []byte) {
		result.Err = errors.Wrapf(err, "locale %s", locale)
		r.emit(Event{Kind: LocaleFailed, Locale: locale, Stage: result.Stage, Err: result.Err, Index: index, Total: total})
		return result, nil
	}

	if err := r.checkpoint(); err != nil {
		return fail(err)
	}
	r.emit(Event{Kind: StageStarted, Locale: locale, Stage: StageDecode, Index: index, Total: total})
	blob, err := readFile(r.stringsPath(locale))
	if err != nil {
		return fail(err)
	}
	table, err := r.Decoders.DecodeStrings(blob)
	if err != nil {
		return fail(err)
	}
	result.Records = table.Len()
	r.emit(Event{
		Kind: StageDone, Locale: locale, Stage: StageDecode, Index: index, Total: total,
		Detail: fmt.Sprintf("%d strings", table.Len()),
	})

	result.Stage = StageWrite
	if err := r.checkpoint(); err != nil {
		return fail(err)
	}
	bs, err := aoutput.Serialize(table, r.Format)
	if err != nil {
		return fail(err)
	}
	path := r.OutputPath(locale)
	result.Output = path
	digest := catalog.Digest(bs)
	if r.unchanged(locale, path, digest) {
		result.Unchanged = true
		r.emit(Event{Kind: StageSkipped, Locale: locale, Stage: StageWrite, Detail: path, Index: index, Total: total})
	} else {
		if err := writeOutput(path, bs); err != nil {
			return fail(err)
		}
		r.emit(Event{Kind: StageDone, Locale: locale, Stage: StageWrite, Detail: path, Index: index, Total: total})
	}

	if r.Catalog != nil {
		record := catalog.ExtractRecord{
			Locale:  locale,
			Records: table.Len(),
			Output:  path,
			Format:  string(r.Format),
			Digest:  digest,
			At:      r.Now(),
		}
		if err := r.Catalog.RecordExtract(record); err != nil {
			r.Logger.Warn("could not update catalog", "locale", locale, "error", err)
		}
	}
	r.emit(Event{Kind: LocaleDone, Locale: locale, Stage: StageWrite, Index: index, Total: total})
	return result, bs
}

// Extract decodes the downloaded string blob of every locale and writes one
// output per locale, then the alias output. The returned error is set only
// when the alias could not be written.
func (r *Pipeline) Extract(locales []string) (*Report, error) {
	report := &Report{}
	outputs := map[string][]byte{}
	extracted := make([]string, 0, len(locales))
	for i, locale := range locales {
		result, bs := r.extractLocale(locale, i, len(locales))
		report.Locales = append(report.Locales, result)
		if result.Err == nil {
			outputs[locale] = bs
			extracted = append(extracted, locale)
		}
	}
	if len(extracted) == 0 {
		return report, nil
	}

	aliasLocale := extracted[0]
	if _, ok := outputs[r.Config.DefaultLocale]; ok {
		aliasLocale = r.Config.DefaultLocale
	}
	r.emit(Event{Kind: StageStarted, Locale: aliasLocale, Stage: StageAlias})
	if err := writeOutput(r.AliasPath(), outputs[aliasLocale]); err != nil {
		return report, errors.Wrap(err, "pipeline.Extract error writing alias")
	}
	report.Alias = r.AliasPath()
	report.AliasLocale = aliasLocale
	r.emit(Event{Kind: StageDone, Locale: aliasLocale, Stage: StageAlias, Detail: report.Alias})
	return report, nil
}
