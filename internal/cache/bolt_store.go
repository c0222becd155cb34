package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltStore keeps one namespace per bbolt bucket in a local database file
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltStore opens (or creates) the database at path and ensures the namespace bucket exists
func NewBoltStore(path, namespace string, timeout time.Duration) (*BoltStore, error) {
	if path == "" || namespace == "" {
		return nil, fmt.Errorf("%w: bolt store needs a path and a namespace", ErrInvalidConfig)
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	bucket := []byte(namespace)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", namespace, err)
	}

	return &BoltStore{db: db, bucket: bucket}, nil
}

func (b *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return ErrKeyNotFound
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return ErrKeyNotFound
		}
		// bbolt memory is only valid inside the transaction
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BoltStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(b.bucket)
		if err != nil {
			return err
		}
		for key, value := range entries {
			if err := bucket.Put([]byte(key), value); err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}
		}
		return nil
	})
}

func (b *BoltStore) DeleteAll(ctx context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(b.bucket) != nil {
			if err := tx.DeleteBucket(b.bucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(b.bucket)
		return err
	})
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}
