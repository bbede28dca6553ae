package state

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

var keyVarsBucket = []byte("keyvars")

// SaveSnapshot replaces the keyvars bucket at path with vars.
func SaveSnapshot(path string, vars []KeyVar) error {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(keyVarsBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(keyVarsBucket)
		if err != nil {
			return err
		}
		for _, kv := range vars {
			v, err := json.Marshal(kv)
			if err != nil {
				return fmt.Errorf("encode %s: %w", kv.Key(), err)
			}
			if err := b.Put([]byte(kv.Key()), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSnapshot reads the vars saved at path, in key order.
// A missing file is an empty snapshot.
func LoadSnapshot(path string) ([]KeyVar, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	defer func() { _ = db.Close() }()

	var out []KeyVar
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(keyVarsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var kv KeyVar
			if err := json.Unmarshal(v, &kv); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			out = append(out, kv)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
