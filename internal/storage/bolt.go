package storage

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// bucketName is the single bucket all application keys live in.
var bucketName = []byte("driverlog")

// Bolt is a file-backed Store on top of bbolt. One file, one bucket; each
// Get/Put/Delete is its own transaction, which matches the application's
// read-modify-write-whole-value access pattern.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the store file at path.
// The caller owns the returned store and must Close it.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("storage.OpenBolt: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.OpenBolt: create bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Get implements Store.
func (b *Bolt) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		// v is only valid inside the transaction; copy out.
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("storage.Bolt.Get %q: %w", key, err)
	}
	return out, found, nil
}

// Put implements Store.
func (b *Bolt) Put(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("storage.Bolt.Put %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (b *Bolt) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("storage.Bolt.Delete %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

var _ Store = (*Bolt)(nil)
