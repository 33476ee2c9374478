// Package catalog is the local ledger of fetched blobs and extracted
// outputs, kept in a bbolt file with msgpack values.
package catalog

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
	"go.etcd.io/bbolt"
	"soulframe-lang/asset/ahash"
)

var (
	fetchesBucket  = []byte("fetches")
	extractsBucket = []byte("extracts")
)

// SharedLocale is the bucket name for blobs that belong to no locale.
const SharedLocale = "_shared"

type (
	FetchRecord struct {
		Path    string     `msgpack:"path"`
		Outcome string     `msgpack:"outcome"`
		Hash    ahash.Hash `msgpack:"hash"`
		Size    int        `msgpack:"size"`
		At      time.Time  `msgpack:"at"`
	}
	ExtractRecord struct {
		Locale  string    `msgpack:"locale"`
		Records int       `msgpack:"records"`
		Output  string    `msgpack:"output"`
		Format  string    `msgpack:"format"`
		Digest  string    `msgpack:"digest"`
		At      time.Time `msgpack:"at"`
	}
	Catalog struct {
		db *bbolt.DB
	}
)

// Digest is the hex BLAKE3 digest used to detect unchanged outputs.
func Digest(bs []byte) string {
	sum := blake3.Sum256(bs)
	return hex.EncodeToString(sum[:])
}

func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "catalog.Open error")
	}
	options := *bbolt.DefaultOptions
	options.Timeout = 5 * time.Second
	db, err := bbolt.Open(path, 0o644, &options)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog.Open error opening %q", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{fetchesBucket, extractsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "catalog.Open error creating buckets")
	}
	return &Catalog{db: db}, nil
}

func (r *Catalog) Close() error {
	return r.db.Close()
}

func localeBucket(locale string) []byte {
	if locale == "" {
		return []byte(SharedLocale)
	}
	return []byte(locale)
}

func (r *Catalog) RecordFetch(locale string, record FetchRecord) error {
	value, err := msgpack.Marshal(&record)
	if err != nil {
		return errors.Wrap(err, "Catalog.RecordFetch error encoding")
	}
	err = r.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.Bucket(fetchesBucket).CreateBucketIfNotExists(localeBucket(locale))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(record.Path), value)
	})
	return errors.Wrap(err, "Catalog.RecordFetch error")
}

// Fetches lists the fetch records of locale ordered by path.
func (r *Catalog) Fetches(locale string) ([]FetchRecord, error) {
	records := make([]FetchRecord, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(fetchesBucket).Bucket(localeBucket(locale))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			record := FetchRecord{}
			if err := msgpack.Unmarshal(v, &record); err != nil {
				return errors.Wrapf(err, "decoding fetch record %q", k)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "Catalog.Fetches error")
	}
	return records, nil
}

// FetchLocales lists the locales that have fetch records, SharedLocale
// included.
func (r *Catalog) FetchLocales() ([]string, error) {
	locales := make([]string, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(fetchesBucket).ForEach(func(k, v []byte) error {
			// nested buckets have a nil value
			if v == nil {
				locales = append(locales, string(k))
			}
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "Catalog.FetchLocales error")
	}
	return locales, nil
}

func (r *Catalog) RecordExtract(record ExtractRecord) error {
	value, err := msgpack.Marshal(&record)
	if err != nil {
		return errors.Wrap(err, "Catalog.RecordExtract error encoding")
	}
	err = r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(extractsBucket).Put([]byte(record.Locale), value)
	})
	return errors.Wrap(err, "Catalog.RecordExtract error")
}

func (r *Catalog) Extract(locale string) (*ExtractRecord, bool, error) {
	var record *ExtractRecord
	err := r.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(extractsBucket).Get([]byte(locale))
		if v == nil {
			return nil
		}
		record = &ExtractRecord{}
		return msgpack.Unmarshal(v, record)
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "Catalog.Extract error")
	}
	return record, record != nil, nil
}

func (r *Catalog) Extracts() ([]ExtractRecord, error) {
	records := make([]ExtractRecord, 0)
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(extractsBucket).ForEach(func(k, v []byte) error {
			record := ExtractRecord{}
			if err := msgpack.Unmarshal(v, &record); err != nil {
				return errors.Wrapf(err, "decoding extract record %q", k)
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "Catalog.Extracts error")
	}
	return records, nil
}
