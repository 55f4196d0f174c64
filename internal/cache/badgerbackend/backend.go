// Package badgerbackend implements cache.Backend against an embedded
// BadgerDB instance: the dev/test/no-Redis-configured cache store (§6
// hss_configured / cache backend selection), grounded on the
// db.View/db.Update transaction style used for metadata storage elsewhere
// in the retrieved corpus.
package badgerbackend

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/clearwater-hss/cx-gateway/internal/domain"
)

const (
	irsPrefix   = "irs:"
	indexPrefix = "idx:"
)

func keyIRS(impu string) []byte {
	return []byte(irsPrefix + impu)
}

func keyIndex(impi string) []byte {
	return []byte(indexPrefix + impi)
}

// Backend is a cache.Backend backed by an embedded *badger.DB. Each IRS is
// stored as a JSON document under one key per PublicID; the private-ID to
// public-ID index is a JSON-encoded string slice per IMPI.
type Backend struct {
	db *badger.DB
}

// Open opens (creating if necessary) a BadgerDB at dir.
func Open(dir string) (*Backend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerbackend: open %s: %w", dir, err)
	}
	return &Backend{db: db}, nil
}

// New wraps an already-open *badger.DB.
func New(db *badger.DB) *Backend {
	return &Backend{db: db}
}

// Close releases the underlying database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Get implements cache.Backend.
func (b *Backend) Get(ctx context.Context, impu string) (*domain.IRS, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var irs domain.IRS
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyIRS(impu))
		if err == badger.ErrKeyNotFound {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &irs)
		})
	})
	if err != nil {
		return nil, err
	}
	return &irs, nil
}

// Put implements cache.Backend, writing irs under every one of its
// PublicIDs in a single transaction.
func (b *Backend) Put(ctx context.Context, irs *domain.IRS) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(irs)
	if err != nil {
		return fmt.Errorf("badgerbackend: encode %s: %w", irs.DefaultPublicID, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for _, impu := range irs.PublicIDs {
			if err := txn.Set(keyIRS(impu), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete implements cache.Backend.
func (b *Backend) Delete(ctx context.Context, irs *domain.IRS) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for _, impu := range irs.PublicIDs {
			if err := txn.Delete(keyIRS(impu)); err != nil && err != badger.ErrKeyNotFound {
				return err
			}
		}
		return nil
	})
}

// IMPUsForIMPI implements cache.Backend.
func (b *Backend) IMPUsForIMPI(ctx context.Context, impi string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var impus []string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyIndex(impi))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &impus)
		})
	})
	if err != nil {
		return nil, err
	}
	return impus, nil
}

// PutIndex implements cache.Backend, adding impu to impi's set if absent.
func (b *Backend) PutIndex(ctx context.Context, impi, impu string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		var impus []string
		item, err := txn.Get(keyIndex(impi))
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &impus)
			}); err != nil {
				return err
			}
		}
		for _, existing := range impus {
			if existing == impu {
				return nil
			}
		}
		impus = append(impus, impu)
		data, err := json.Marshal(impus)
		if err != nil {
			return err
		}
		return txn.Set(keyIndex(impi), data)
	})
}

// DeleteIndex implements cache.Backend, removing impu from impi's set.
func (b *Backend) DeleteIndex(ctx context.Context, impi, impu string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(keyIndex(impi))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var impus []string
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &impus)
		}); err != nil {
			return err
		}
		out := impus[:0]
		for _, existing := range impus {
			if existing != impu {
				out = append(out, existing)
			}
		}
		if len(out) == 0 {
			return txn.Delete(keyIndex(impi))
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		return txn.Set(keyIndex(impi), data)
	})
}
