package fetch

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"soulframe-lang/asset/aerr"
	"soulframe-lang/asset/ahash"
	"soulframe-lang/asset/amanifest"
)

type Fetcher struct {
	Transport Transport
	Logger    *slog.Logger
}

func NewFetcher(transport Transport, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		Transport: transport,
		Logger:    logger,
	}
}

// Matches reports whether the file at path has exactly the size and hash of
// entry. A missing file does not match.
func Matches(path string, entry amanifest.Entry) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "fetch.Matches error checking %q", path)
	}
	if info.IsDir() || info.Size() != int64(entry.Size) {
		return false, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrapf(err, "fetch.Matches error reading %q", path)
	}
	return ahash.Sum(bs) == entry.Hash, nil
}

func verify(bs []byte, target Target, path string) error {
	hash := ahash.Sum(bs)
	if len(bs) == int(target.Entry.Size) && hash == target.Entry.Hash {
		return nil
	}
	return aerr.ForPath(
		aerr.ErrIntegrity, "fetch.Fetch", target.Entry.Path,
		"expected %s (%d bytes), got %s (%d bytes) for %s",
		target.Entry.Hash, target.Entry.Size, hash, len(bs), path,
	)
}

// writeVerified stores body next to path, re-reads and verifies it, then
// moves it into place. Nothing is left behind on failure.
func writeVerified(body []byte, target Target, path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "fetch.Fetch error creating %q", dir)
	}
	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return errors.Wrapf(err, "fetch.Fetch error creating temp file in %q", dir)
	}
	tempPath := file.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(body); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "fetch.Fetch error writing %q", tempPath)
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "fetch.Fetch error closing %q", tempPath)
	}

	if target.Verifiable() {
		written, err := os.ReadFile(tempPath)
		if err != nil {
			return errors.Wrapf(err, "fetch.Fetch error re-reading %q", tempPath)
		}
		if err := verify(written, target, path); err != nil {
			return err
		}
	}
	if err := os.Rename(tempPath, path); err != nil {
		return errors.Wrapf(err, "fetch.Fetch error moving %q into place", path)
	}
	return nil
}

// Fetch makes the blob for target present under dir. A verifiable target
// whose local copy already matches is skipped without touching the
// transport.
func (r *Fetcher) Fetch(target Target, dir string, urls URLBuilder) (*Result, error) {
	path := filepath.FromSlash(LocalPath(dir, target))
	logger := r.Logger.With("path", target.Entry.Path, "locale", target.Locale)

	if target.Verifiable() {
		matches, err := Matches(path, target.Entry)
		if err != nil {
			return nil, err
		}
		if matches {
			logger.Debug("up to date, skipping", "file", path)
			return &Result{Outcome: Skipped, Path: path, Size: int(target.Entry.Size)}, nil
		}
	}

	url := urls.URL(target)
	logger.Debug("downloading", "url", url)
	body, err := r.Transport.Get(url)
	if err != nil {
		return nil, errors.Wrapf(TransportError{URL: url, Err: err}, "fetch.Fetch error downloading %s", target.Entry.Path)
	}
	if err := writeVerified(body, target, path); err != nil {
		return nil, err
	}

	logger.Info("downloaded", "file", path, "bytes", len(body))
	return &Result{Outcome: Downloaded, Path: path, Size: len(body)}, nil
}
