package fetch

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"soulframe-lang/asset/aerr"
	"soulframe-lang/asset/ahash"
	"soulframe-lang/asset/amanifest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingTransport struct {
	bodies map[string][]byte
	urls   []string
}

func (r *countingTransport) Get(url string) ([]byte, error) {
	r.urls = append(r.urls, url)
	body, ok := r.bodies[url]
	if !ok {
		return nil, StatusError{URL: url, Code: http.StatusNotFound}
	}
	return body, nil
}

type FetchSuite struct {
	suite.Suite
	dir       string
	body      []byte
	target    Target
	urls      URLBuilder
	transport *countingTransport
	fetcher   *Fetcher
}

func (s *FetchSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.body = []byte("localized strings blob")
	s.target = Target{
		Entry: amanifest.Entry{
			Path: "/Languages.bin",
			Hash: ahash.Sum(s.body),
			Size: uint32(len(s.body)),
		},
		Locale: "fr",
		Type:   0x2C,
	}
	s.urls = URLBuilder{Base: "https://cdn.test/"}
	s.transport = &countingTransport{
		bodies: map[string][]byte{s.urls.URL(s.target): s.body},
	}
	s.fetcher = NewFetcher(s.transport, discard)
}

func (s *FetchSuite) TestDownloadThenSkip() {
	first, err := s.fetcher.Fetch(s.target, s.dir, s.urls)
	s.Require().NoError(err)
	s.Equal(Downloaded, first.Outcome)
	s.Equal(filepath.Join(s.dir, "0_fr", "Languages.bin"), first.Path)
	s.Len(s.transport.urls, 1)

	second, err := s.fetcher.Fetch(s.target, s.dir, s.urls)
	s.Require().NoError(err)
	s.Equal(Skipped, second.Outcome)
	s.Len(s.transport.urls, 1)

	bs, err := os.ReadFile(second.Path)
	s.Require().NoError(err)
	s.Equal(s.body, bs)
}

func (s *FetchSuite) TestStaleFileIsReplaced() {
	path := filepath.Join(s.dir, "0_fr", "Languages.bin")
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	// same size, different content
	stale := make([]byte, len(s.body))
	s.Require().NoError(os.WriteFile(path, stale, 0o644))

	result, err := s.fetcher.Fetch(s.target, s.dir, s.urls)
	s.Require().NoError(err)
	s.Equal(Downloaded, result.Outcome)
	bs, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal(s.body, bs)
}

func (s *FetchSuite) TestIntegrityFailureLeavesNothing() {
	s.transport.bodies[s.urls.URL(s.target)] = []byte("tampered body")

	_, err := s.fetcher.Fetch(s.target, s.dir, s.urls)
	s.True(errors.Is(err, aerr.ErrIntegrity), err)
	s.False(IsTransportError(err))

	entries, err := os.ReadDir(filepath.Join(s.dir, "0_fr"))
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *FetchSuite) TestTransportError() {
	s.transport.bodies = map[string][]byte{}

	_, err := s.fetcher.Fetch(s.target, s.dir, s.urls)
	var statusErr StatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Equal(http.StatusNotFound, statusErr.Code)
	s.True(IsTransportError(err))
	_, statErr := os.Stat(filepath.Join(s.dir, "0_fr", "Languages.bin"))
	s.True(os.IsNotExist(statErr))
}

func (s *FetchSuite) TestUnknownTargetAlwaysDownloads() {
	target := UnknownTarget("/H.Cache.bin", "", 0x0E)
	root := []byte("root manifest")
	s.transport.bodies[s.urls.URL(target)] = root

	for i := 0; i < 2; i++ {
		result, err := s.fetcher.Fetch(target, s.dir, s.urls)
		s.Require().NoError(err)
		s.Equal(Downloaded, result.Outcome)
		s.Equal(filepath.Join(s.dir, "0", "H.Cache.bin"), result.Path)
	}
	s.Len(s.transport.urls, 2)
}

func TestFetchSuite(t *testing.T) {
	suite.Run(t, new(FetchSuite))
}

func TestURLBuilder_URL(t *testing.T) {
	urls := URLBuilder{Base: "https://content.soulframe.com"}

	root := UnknownTarget("/H.Cache.bin", "", 0x0E)
	assert.Equal(t, "https://content.soulframe.com/0/H.Cache.bin!E_---------------------w", urls.URL(root))

	strings := Target{
		Entry:  amanifest.Entry{Path: "Languages.bin", Hash: ahash.Sum([]byte("abc"))},
		Locale: "en",
		Type:   0x2C,
	}
	assert.Equal(t, "https://content.soulframe.com/0_en/Languages.bin!2C_kAFQmDzST7DWlj99KOF-cg", urls.URL(strings))
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "data/0/H.Cache.bin", LocalPath("data", UnknownTarget("/H.Cache.bin", "", 0x0E)))
	assert.Equal(t, "data/0_de/Languages.bin", LocalPath("data", UnknownTarget("Languages.bin", "de", 0x2C)))
}

func TestHTTPTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(r.Header.Get("User-Agent") + " " + r.URL.Path))
	}))
	defer server.Close()

	transport := NewHTTPTransport(5*time.Second, "soulframe-lang-test")
	body, err := transport.Get(server.URL + "/0_en/Languages.bin")
	require.NoError(t, err)
	assert.Equal(t, "soulframe-lang-test /0_en/Languages.bin", string(body))

	_, err = transport.Get(server.URL + "/missing")
	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, server.URL+"/missing", statusErr.URL)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "downloaded", Downloaded.String())
}
