// Package config loads the downloader configuration.
//
// Configuration is read from a single YAML file given by --config or the
// SOULFRAME_CONFIG environment variable. Without one, the built-in defaults
// are used. Fields missing from the file keep their default values.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"soulframe-lang/asset/aoutput"
)

const EnvVar = "SOULFRAME_CONFIG"

// CacheBust in a mirror URL is replaced by a random hex id per run.
const CacheBust = "{cachebust}"

type Config struct {
	// Mirrors are CDN base URLs, tried in order.
	Mirrors []string `yaml:"mirrors"`
	// Locales are processed when the command line names none.
	Locales []string `yaml:"locales"`
	// DefaultLocale is written to the alias output file when it was extracted.
	DefaultLocale string `yaml:"default_locale"`

	DownloadDir string `yaml:"download_dir"`
	ExtractDir  string `yaml:"extract_dir"`
	// Catalog is the bbolt file recording fetches and extractions.
	Catalog string `yaml:"catalog"`
	// LibDir is searched first for the Oodle runtime library.
	LibDir string `yaml:"lib_dir"`
	// Dictionary overrides the built-in string-table dictionary.
	Dictionary string `yaml:"dictionary"`
	Format     string `yaml:"format"`

	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`

	Paths PathsConfig `yaml:"paths"`
	Types TypesConfig `yaml:"types"`
}

type PathsConfig struct {
	RootManifest string `yaml:"root_manifest"`
	// LocaleManifest takes the locale through a single %s.
	LocaleManifest string `yaml:"locale_manifest"`
	Strings        string `yaml:"strings"`
}

// TypesConfig holds the type tags appended to request URLs.
type TypesConfig struct {
	Manifest uint8 `yaml:"manifest"`
	Strings  uint8 `yaml:"strings"`
}

func Default() *Config {
	return &Config{
		Mirrors: []string{
			"https://content.soulframe.com",
			"https://origin.soulframe.com",
			"https://origin.soulframe.com/origin/" + CacheBust,
			"https://origin.soulframe.com/origin/0",
		},
		Locales:       []string{"en", "fr", "de", "es", "it", "pt", "ru", "pl", "tr", "ja", "ko", "zh"},
		DefaultLocale: "en",
		DownloadDir:   "downloaded-data",
		ExtractDir:    "extracted-data",
		Catalog:       "soulframe-lang.db",
		Format:        string(aoutput.FormatJSON),
		Timeout:       30 * time.Second,
		UserAgent:     "soulframe-lang",
		Paths: PathsConfig{
			RootManifest:   "/H.Cache.bin",
			LocaleManifest: "/B.Cache.Windows_%s.bin",
			Strings:        "/Languages.bin",
		},
		Types: TypesConfig{
			Manifest: 0x0E,
			Strings:  0x2C,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config.Load error reading %q", path)
	}
	if err := Parse(bs, cfg); err != nil {
		return nil, errors.Wrapf(err, "config.Load error in %q", path)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, rejecting unknown keys, and validates the
// result.
func Parse(bs []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(bs))
	decoder.KnownFields(true)
	// an empty document leaves cfg untouched
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "config.Parse error")
	}
	return cfg.Validate()
}

func (r *Config) Validate() error {
	switch {
	case len(lo.Compact(r.Mirrors)) == 0:
		return errors.New("config: at least one mirror is required")
	case len(lo.Compact(r.Locales)) == 0:
		return errors.New("config: at least one locale is required")
	case strings.Count(r.Paths.LocaleManifest, "%s") != 1:
		return errors.Errorf("config: paths.locale_manifest %q must contain exactly one %%s", r.Paths.LocaleManifest)
	case !strings.HasPrefix(r.Paths.RootManifest, "/") || !strings.HasPrefix(r.Paths.Strings, "/"):
		return errors.New("config: paths must start with /")
	case r.Timeout < 0:
		return errors.Errorf("config: negative timeout %s", r.Timeout)
	}
	if _, err := aoutput.ParseFormat(r.Format); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}

// SplitLocales parses a comma separated locale list such as "en,fr, de".
func SplitLocales(s string) []string {
	return lo.Uniq(lo.Compact(lo.Map(strings.Split(s, ","), func(locale string, _ int) string {
		return strings.ToLower(strings.TrimSpace(locale))
	})))
}
