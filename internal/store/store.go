package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Logical key names. The store prefixes each with its namespace.
const (
	KeyUsers         = "users"
	KeyLegacyUser    = "user"
	KeyCurrentUser   = "currentUser"
	KeyLogin         = "login"
	KeyRemember      = "remember"
	KeyAPICredential = "tmdb-key"
	KeyWishlist      = "wishlist"
	KeyPreferences   = "preferences"
	KeyGenres        = "genres"
	KeySearchHistory = "search-history"
	KeyWatchHistory  = "watch-history"
	KeyVersion       = "version"
)

// CurrentVersion is the storage schema version written by EnsureVersion.
const CurrentVersion = "1"

var bucketKV = []byte("kv")

// Store implements domain.KeyValueStore using BoltDB.
type Store struct {
	db        *bolt.DB
	namespace string

	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (creating if needed) the bolt file at path. An empty path gives a
// memory-only store with no persistence.
func Open(path, namespace string) (*Store, error) {
	if path == "" {
		return &Store{namespace: namespace, cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, namespace: namespace, cache: make(map[string][]byte)}, nil
}

// Close releases the underlying bolt file.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Key returns the namespaced storage key for a logical name.
func (s *Store) Key(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + ":" + name
}

// Get returns the raw value for name, or domain.ErrNotFound.
func (s *Store) Get(name string) ([]byte, error) {
	key := s.Key(name)

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, domain.ErrNotFound
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.StorageError{Op: "read", Key: key, Err: err}
	}
	if data == nil {
		return nil, domain.ErrNotFound
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return data, nil
}

// Set stores value under name, replacing any previous value.
func (s *Store) Set(name string, value []byte) error {
	key := s.Key(name)
	data := make([]byte, len(value))
	copy(data, value)

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketKV).Put([]byte(key), data)
		})
		if err != nil {
			// Drop any stale promoted copy so memory never claims a write that failed
			s.mu.Lock()
			delete(s.cache, key)
			s.mu.Unlock()
			return &domain.StorageError{Op: "write", Key: key, Err: err}
		}
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return nil
}

// Delete removes name. Deleting a missing key is not an error.
func (s *Store) Delete(name string) error {
	key := s.Key(name)

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Delete([]byte(key))
	})
	if err != nil {
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// ReadJSON decodes the value stored under name into dest. A missing key
// returns domain.ErrNotFound; corrupt data returns a *domain.StorageError.
func ReadJSON(kv domain.KeyValueStore, name string, dest any) error {
	data, err := kv.Get(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &domain.StorageError{Op: "decode", Key: name, Err: err}
	}
	return nil
}

// WriteJSON encodes value and stores it under name.
func WriteJSON(kv domain.KeyValueStore, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: name, Err: err}
	}
	return kv.Set(name, data)
}

// EnsureVersion compares the stored schema version with current. On mismatch
// (including a missing marker) it clears the disposable caches and histories,
// leaving accounts, wishlist and preferences alone, then writes the marker.
// It reports whether a reset happened.
func EnsureVersion(kv domain.KeyValueStore, current string) (bool, error) {
	// An unreadable marker counts as a mismatch
	if stored, err := kv.Get(KeyVersion); err == nil && string(stored) == current {
		return false, nil
	}

	var errs []error
	for _, name := range []string{KeyGenres, KeySearchHistory, KeyWatchHistory} {
		if err := kv.Delete(name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := kv.Set(KeyVersion, []byte(current)); err != nil {
		errs = append(errs, err)
	}
	return true, errors.Join(errs...)
}
