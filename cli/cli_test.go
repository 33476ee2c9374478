package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexflint/go-arg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"soulframe-lang/asset/acodec"
	"soulframe-lang/asset/afixture"
	"soulframe-lang/asset/ahash"
	"soulframe-lang/asset/amanifest"
	"soulframe-lang/asset/astrings"
	"soulframe-lang/config"
	"soulframe-lang/fetch"
	"soulframe-lang/pipeline"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var records = []astrings.Record{
	{Key: "/Lotus/Language/Menu/Title", Value: "Soulframe"},
	{Key: "/Lotus/Language/Menu/Quit", Value: "Quit"},
}

func parse(t *testing.T, argv ...string) Args {
	args := Args{}
	parser, err := arg.NewParser(arg.Config{}, &args)
	require.NoError(t, err)
	require.NoError(t, parser.Parse(argv))
	return args
}

func TestArgs_Parse(t *testing.T) {
	args := parse(t, "sync", "--locales", "en,fr", "--format", "yaml", "--force", "-i")
	require.NotNil(t, args.Sync)
	assert.Equal(t, "en,fr", args.Sync.Locales)
	assert.True(t, args.Sync.Interactive)
	assert.Equal(t, "yaml", args.Sync.Format)
	assert.True(t, args.Sync.Force)
	assert.Nil(t, args.Download)

	args = parse(t, "-v", "inspect", "Languages.bin")
	require.NotNil(t, args.Inspect)
	assert.True(t, args.Verbose)
	assert.Equal(t, "Languages.bin", args.Inspect.File)
	assert.Equal(t, 10, args.Inspect.Keys)
	assert.False(t, args.Inspect.JSON)
}

func TestNewLogger(t *testing.T) {
	buf := bytes.Buffer{}
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())
	NewLogger(&buf, true).Debug("shown", "locale", "en")
	assert.Contains(t, buf.String(), "locale=en")
}

// newServer serves the blobs of a CDN holding locales over HTTP.
func newServer(t *testing.T, locales ...string) *httptest.Server {
	blobs := map[string][]byte{}
	rootEntries := make([]amanifest.Entry, 0)
	for _, locale := range locales {
		blob, err := afixture.LanguagesBlob(records, astrings.DefaultDictionary())
		require.NoError(t, err)
		stringsEntry := amanifest.Entry{Path: "/Languages.bin", Hash: ahash.Sum(blob), Size: uint32(len(blob))}
		blobs[fetch.URLBuilder{}.URL(fetch.Target{Entry: stringsEntry, Locale: locale, Type: 0x2C})] = blob

		manifest, err := afixture.ManifestBlob(stringsEntry)
		require.NoError(t, err)
		manifestEntry := amanifest.Entry{
			Path: fmt.Sprintf("/B.Cache.Windows_%s.bin", locale),
			Hash: ahash.Sum(manifest),
			Size: uint32(len(manifest)),
		}
		blobs[fetch.URLBuilder{}.URL(fetch.Target{Entry: manifestEntry, Type: 0x0E})] = manifest
		rootEntries = append(rootEntries, manifestEntry)
	}
	root, err := afixture.ManifestBlob(rootEntries...)
	require.NoError(t, err)
	blobs[fetch.URLBuilder{}.URL(fetch.UnknownTarget("/H.Cache.bin", "", 0x0E))] = root

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := blobs[r.RequestURI]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, mirrors ...string) *config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Mirrors = mirrors
	cfg.Locales = []string{"en"}
	cfg.DownloadDir = filepath.Join(dir, "downloaded-data")
	cfg.ExtractDir = filepath.Join(dir, "extracted-data")
	cfg.Catalog = filepath.Join(dir, "soulframe-lang.db")
	return cfg
}

func TestRunSync(t *testing.T) {
	server := newServer(t, "en", "fr")
	cfg := testConfig(t, server.URL)

	stdout := bytes.Buffer{}
	err := RunSync(cfg, discard, &stdout, RunOptions{Locales: "fr,en"}, OutputOptions{Format: "yaml"})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "LOCALE")
	assert.Contains(t, stdout.String(), filepath.Join(cfg.ExtractDir, "Languages", "fr.yaml"))

	bs, err := os.ReadFile(filepath.Join(cfg.ExtractDir, "Languages", "en.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "/Lotus/Language/Menu/Title")
	_, err = os.Stat(filepath.Join(cfg.ExtractDir, "Languages.yaml"))
	assert.NoError(t, err)

	stdout.Reset()
	require.NoError(t, RunStatus(cfg, &stdout))
	assert.Contains(t, stdout.String(), "/Languages.bin")
	assert.Contains(t, stdout.String(), "/H.Cache.bin")
	assert.Contains(t, stdout.String(), "yaml")

	stdout.Reset()
	require.NoError(t, RunExtract(cfg, discard, &stdout, RunOptions{}, OutputOptions{Format: "yaml"}))
	assert.Contains(t, stdout.String(), "(unchanged)")
}

func TestRunSync_FailedLocale(t *testing.T) {
	server := newServer(t, "en")
	cfg := testConfig(t, server.URL)

	stdout := bytes.Buffer{}
	err := RunSync(cfg, discard, &stdout, RunOptions{Locales: "en,xx"}, OutputOptions{})
	failed := ErrLocalesFailed{}
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, []string{"xx"}, failed.Failed)

	_, err = os.Stat(filepath.Join(cfg.ExtractDir, "Languages", "en.json"))
	assert.NoError(t, err)
}

func TestRunDownload_RootUnavailable(t *testing.T) {
	server := newServer(t)
	cfg := testConfig(t, server.URL+"/missing")

	err := RunDownload(cfg, discard, io.Discard, RunOptions{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, pipeline.ErrAborted)
}

func TestRunExtract_UnknownFormat(t *testing.T) {
	cfg := testConfig(t, "https://cdn.test")
	err := RunExtract(cfg, discard, io.Discard, RunOptions{}, OutputOptions{Format: "toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toml")
}

func writeFile(t *testing.T, bs []byte) string {
	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, bs, 0o644))
	return path
}

func TestRunInspect_Manifest(t *testing.T) {
	entry := amanifest.Entry{Path: "/Languages.bin", Hash: ahash.Sum([]byte("abc")), Size: 3, Flags: 1}
	blob, err := afixture.ManifestBlob(entry)
	require.NoError(t, err)
	path := writeFile(t, blob)

	stdout := bytes.Buffer{}
	err = Dispatch(parse(t, "inspect", path), config.Default(), discard, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "oodle: ")
	assert.Contains(t, stdout.String(), "container: 1 chunks")
	assert.Contains(t, stdout.String(), "manifest: 1 entries")
	assert.Contains(t, stdout.String(), "kAFQmDzST7DWlj99KOF-cg")
}

func TestRunInspect_StringsJSON(t *testing.T) {
	payload, err := afixture.StringsPayload(records, astrings.DefaultDictionary())
	require.NoError(t, err)
	path := writeFile(t, payload)

	stdout := bytes.Buffer{}
	err = Dispatch(parse(t, "inspect", "--keys", "1", "--json", path), config.Default(), discard, &stdout)
	require.NoError(t, err)

	inspection := Inspection{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &inspection))
	assert.Equal(t, KindStrings, inspection.Kind)
	assert.NotEmpty(t, inspection.Oodle)
	assert.Empty(t, inspection.Chunks)
	assert.Equal(t, 2, inspection.Records)
	assert.Equal(t, records[:1], inspection.Sample)
}

type missingEngine struct{}

func (missingEngine) Decompress(src []byte, size int) ([]byte, error) {
	return nil, acodec.ErrEngineUnavailable{Engine: "oodle", Reason: "not installed"}
}

func (missingEngine) Available() error {
	return acodec.ErrEngineUnavailable{Engine: "oodle", Reason: "not installed"}
}

func TestInspect_ReportsOodle(t *testing.T) {
	blob, err := afixture.ManifestBlob()
	require.NoError(t, err)

	codecs := &acodec.Context{Block: missingEngine{}, Dict: acodec.NewZstd()}
	inspection, err := Inspect("H.Cache.bin", blob, codecs, nil, 10)
	require.NoError(t, err)
	assert.Contains(t, inspection.Oodle, "not installed")

	codecs.Block = acodec.BlockFunc(func(src []byte, size int) ([]byte, error) { return src, nil })
	inspection, err = Inspect("H.Cache.bin", blob, codecs, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, "available", inspection.Oodle)
	assert.Equal(t, KindManifest, inspection.Kind)
	assert.Empty(t, inspection.Entries)
}

func TestRunInspect_Unrecognized(t *testing.T) {
	path := writeFile(t, []byte("not a blob"))
	err := RunInspect(config.Default(), io.Discard, InspectCmd{File: path, Keys: 10})
	unrecognized := ErrUnrecognizedPayload{}
	require.ErrorAs(t, err, &unrecognized)
	assert.Equal(t, path, unrecognized.File)
}

func TestWriteReport(t *testing.T) {
	report := &pipeline.Report{
		Locales: []pipeline.LocaleResult{
			{Locale: "en", Stage: pipeline.StageAlias, Records: 2, Output: "out/en.json"},
			{Locale: "xx", Stage: pipeline.StageLocaleManifest, Err: pipeline.ErrNotListed{Path: "/B.Cache.Windows_xx.bin", Manifest: "/H.Cache.bin"}},
		},
		Alias:       "out/Languages.json",
		AliasLocale: "en",
	}
	buf := bytes.Buffer{}
	WriteReport(&buf, report)
	assert.Contains(t, buf.String(), "out/en.json")
	assert.Contains(t, buf.String(), "/B.Cache.Windows_xx.bin")
	assert.Contains(t, buf.String(), "alias en -> out/Languages.json")
}
