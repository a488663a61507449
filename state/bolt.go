package state

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var publishedBucket = []byte("published_topics")

// BoltStore persists published topics to a bbolt database file, surviving process restarts. Values are the RFC 3339
// timestamp of when the topic was recorded, to aid debugging with bbolt's CLI tooling.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = &BoltStore{}

// OpenBolt opens (creating if necessary) a BoltStore at the given path. The file is locked for the lifetime of the
// store; call Close when done.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state store %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(publishedBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("initialize state store %s: %w", path, err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Published(topic string) (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket(publishedBucket).Get([]byte(topic)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("read state store: %w", err)
	}

	return ok, nil
}

func (s *BoltStore) MarkPublished(topic string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(publishedBucket).Put([]byte(topic), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return fmt.Errorf("write state store: %w", err)
	}

	return nil
}

func (s *BoltStore) Forget(topic string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(publishedBucket).Delete([]byte(topic))
	})
	if err != nil {
		return fmt.Errorf("write state store: %w", err)
	}

	return nil
}

func (s *BoltStore) Clear() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(publishedBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucket(publishedBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear state store: %w", err)
	}

	return nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
