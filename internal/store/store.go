// Package store keeps named semantic spaces in a single bbolt file.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/semspace/internal/space"
	bolt "go.etcd.io/bbolt"
)

var spacesBucket = []byte("spaces")

// ErrNotFound is returned for names that are not in the store.
var ErrNotFound = errors.New("store: space not found")

// Store is a bbolt-backed collection of saved spaces.
type Store struct {
	db  *bolt.DB
	log *slog.Logger
}

// Open opens or creates the store file at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(spacesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init %s: %w", path, err)
	}
	return &Store{db: db, log: logger}, nil
}

// Close releases the store file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves sp under name, replacing any previous space of that name.
func (s *Store) Put(name string, sp *space.Space) error {
	if name == "" {
		return fmt.Errorf("store: empty name")
	}
	var buf bytes.Buffer
	if err := sp.Save(&buf); err != nil {
		return fmt.Errorf("store: put %s: %w", name, err)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(spacesBucket).Put([]byte(name), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("store: put %s: %w", name, err)
	}
	s.log.Debug("Space stored", "name", name, "bytes", buf.Len())
	return nil
}

// Get loads the space stored under name.
func (s *Store) Get(name string) (*space.Space, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(spacesBucket).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction.
		data = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", name, err)
	}
	sp, err := space.Load(bytes.NewReader(data), s.log)
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", name, err)
	}
	return sp, nil
}

// List returns the stored names in byte order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(spacesBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return names, nil
}

// Delete removes name from the store.
func (s *Store) Delete(name string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(spacesBucket)
		if b.Get([]byte(name)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}
