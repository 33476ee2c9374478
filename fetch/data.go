// Package fetch downloads hash-addressed blobs from the CDN into a local
// directory tree, skipping files that are already up to date.
package fetch

import (
	"fmt"
	"path"
	"strings"

	"soulframe-lang/asset/ahash"
	"soulframe-lang/asset/amanifest"
)

type Outcome int

const (
	Skipped = Outcome(iota)
	Downloaded
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Downloaded:
		return "downloaded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type (
	// Target is one blob to fetch. Locale is empty for blobs shared by every
	// locale.
	Target struct {
		Entry  amanifest.Entry
		Locale string
		Type   uint8
	}
	Result struct {
		Outcome Outcome
		// Path is the local file the blob now lives at.
		Path string
		Size int
	}
	// URLBuilder renders request URLs against one CDN base.
	URLBuilder struct {
		Base string
	}
)

// UnknownTarget is a blob no manifest describes, such as the root manifest.
// It is always downloaded and never verified.
func UnknownTarget(path string, locale string, fileType uint8) Target {
	return Target{
		Entry: amanifest.Entry{
			Path: path,
			Hash: ahash.Unknown,
		},
		Locale: locale,
		Type:   fileType,
	}
}

func (r Target) Verifiable() bool {
	return !r.Entry.Hash.IsUnknown()
}

// Prefix is the CDN directory of the target: "0" or "0_<locale>".
func (r Target) Prefix() string {
	if r.Locale == "" {
		return "0"
	}
	return "0_" + r.Locale
}

func (r Target) normalizedPath() string {
	if strings.HasPrefix(r.Entry.Path, "/") {
		return r.Entry.Path
	}
	return "/" + r.Entry.Path
}

// URL renders <base>/0[_<locale>]<path>!<TYPE>_<hash>.
func (r URLBuilder) URL(target Target) string {
	return fmt.Sprintf(
		"%s/%s%s!%X_%s",
		strings.TrimSuffix(r.Base, "/"),
		target.Prefix(),
		target.normalizedPath(),
		target.Type,
		target.Entry.Hash,
	)
}

// LocalPath is where target is stored under dir, as a slash path.
func LocalPath(dir string, target Target) string {
	return path.Join(dir, target.Prefix(), target.normalizedPath())
}
