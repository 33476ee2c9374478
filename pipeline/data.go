package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrAborted = errors.New("pipeline: aborted")

type ErrNotListed struct {
	Path     string
	Manifest string
}

func (r ErrNotListed) Error() string {
	return fmt.Sprintf("%s is not listed in %s", r.Path, r.Manifest)
}

type Stage string

const (
	StageRootManifest   = Stage("root manifest")
	StageLocaleManifest = Stage("locale manifest")
	StageStrings        = Stage("strings")
	StageDecode         = Stage("decode")
	StageWrite          = Stage("write")
	StageAlias          = Stage("alias")
)

type EventKind int

const (
	StageStarted = EventKind(iota)
	StageDone
	StageSkipped
	LocaleDone
	LocaleFailed
)

func (k EventKind) String() string {
	switch k {
	case StageStarted:
		return "started"
	case StageDone:
		return "done"
	case StageSkipped:
		return "skipped"
	case LocaleDone:
		return "locale done"
	case LocaleFailed:
		return "locale failed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

type (
	Event struct {
		Kind   EventKind
		Locale string
		Stage  Stage
		Detail string
		Err    error
		// Index and Total place Locale among the locales of the run.
		Index int
		Total int
	}
	Observer interface {
		Observe(event Event)
	}
	ObserverFunc func(event Event)

	LocaleResult struct {
		Locale string
		// Stage is the last stage reached.
		Stage Stage
		Err   error
		// Downloaded counts blobs fetched from a mirror rather than skipped.
		Downloaded int
		Records    int
		Output     string
		// Unchanged is set when extraction found identical output already on
		// disk.
		Unchanged bool
	}
	Report struct {
		Locales []LocaleResult
		// Alias is the alias output file, empty when nothing was extracted.
		Alias       string
		AliasLocale string
	}
)

func (f ObserverFunc) Observe(event Event) {
	f(event)
}

func (r *Report) Failed() []LocaleResult {
	failed := make([]LocaleResult, 0)
	for _, result := range r.Locales {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

func (r *Report) Result(locale string) (LocaleResult, bool) {
	for _, result := range r.Locales {
		if result.Locale == locale {
			return result, true
		}
	}
	return LocaleResult{}, false
}
