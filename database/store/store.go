package store

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// The interface that a generic store must implement to retain basic functionality that is common across all stores.
// Once converted to a concrete store type, further type-specific operations may become available.
type IStore interface {
	CleanPath() string
	WriteSnapshot() error
	LoadFromFile() error
}

type StoreKey = string
type StoreData[T any] map[StoreKey]T // Stores value not pointer. Use Set etc. to mutate data safely.

// What actually sits in the file: the data plus the unix time it was written at.
type snapshot[T any] struct {
	SavedAt int64        `json:"saved_at"`
	Data    StoreData[T] `json:"data"`
}

// Essentially a persistent cache that can be interfaced with like a KV store.
//
// Each 'store' is backed by a JSON file which the cache will be populated from when it is initialized (if the file exists).
// From there on, all operations are done in-memory and the current state can be saved to the file on demand.
//
// The store is thread-safe and can be used concurrently across multiple goroutines.
type Store[T any] struct {
	filePath string       // Path to the file/dataset for this store.
	data     StoreData[T] // The actual data within the file.
	savedAt  time.Time    // When the loaded file was last written. Zero if nothing was loaded.
	mu       sync.RWMutex // Mutex lock to stop read & write collisions.
}

// Creates a new store backed by a JSON file at `path` for persistence.
// The path should be relative to the current working dir, i.e. "./data/cogstate/mapvotes.json"
func New[T any](path string) (*Store[T], error) {
	s := &Store[T]{
		filePath: path,
		data:     make(StoreData[T]),
	}

	if err := s.LoadFromFile(); err != nil {
		return nil, fmt.Errorf("failed to load store from file: %w", err)
	}

	if !s.IsEmpty() {
		log.WithFields(log.Fields{"path": s.CleanPath(), "entries": s.Count()}).Debug("loaded store from file")
	}

	return s, nil
}

func (s *Store[T]) CleanPath() string {
	return filepath.Clean(s.filePath)
}

// The time the file this store was loaded from had been saved at.
func (s *Store[T]) SavedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.savedAt
}

func (s *Store[T]) Keys() []StoreKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Collect(maps.Keys(s.data))
}

func (s *Store[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Collect(maps.Values(s.data))
}

// Returns a snapshot of the map so the caller cannot mutate the store through it.
func (s *Store[T]) Entries() StoreData[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.data)
}

func (s *Store[T]) Overwrite(value StoreData[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == nil {
		value = make(StoreData[T])
	}
	s.data = value
}

func (s *Store[T]) IsEmpty() bool {
	return s.Count() == 0
}

func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Deletes the values in this store associated with the keys. Missing keys are ignored.
func (s *Store[T]) Delete(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data, k)
	}
}

// Checks whether the store has a value associated with the given key.
func (s *Store[T]) HasKey(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok
}

// Creates or overwrites the value in the store at the given key in a thread-safe manner.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
}

// Retrieves a value from this store that is associated with the key.
func (s *Store[T]) Get(key string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.data[key]; ok {
		return &v, nil
	}

	return nil, fmt.Errorf("could not get value for key '%s' from store: %s. no such key exists", key, s.CleanPath())
}

// Like Find(), but returns the keys of all values that pass the predicate.
func (s *Store[T]) FindKeys(predicate func(value T) bool) (keys []StoreKey) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for k, v := range s.data {
		if predicate(v) {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)
	return keys
}

// Iterates over the store data, calling iteratee for every element.
func (s *Store[T]) ForEach(iteratee func(k StoreKey, v T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for k, v := range s.data {
		iteratee(k, v)
	}
}

// Overwrite the current store state with data from the associated JSON file located at path.
// This should usually be called when the store is empty and needs fresh data, for example when the bot starts up.
func (s *Store[T]) LoadFromFile() error {
	contents, err := os.ReadFile(s.CleanPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return err
	}

	var snap snapshot[T]
	if err := sonic.Unmarshal(contents, &snap); err != nil {
		return fmt.Errorf("error reading store snapshot at %s: %w", s.CleanPath(), err)
	}

	s.Overwrite(snap.Data)

	s.mu.Lock()
	s.savedAt = time.Unix(snap.SavedAt, 0)
	s.mu.Unlock()

	return nil
}

// Creates a snapshot of the current state and writes it to the JSON file at the path we provided when the store was initialized.
func (s *Store[T]) WriteSnapshot() error {
	snap := snapshot[T]{
		SavedAt: time.Now().Unix(),
		Data:    s.Entries(),
	}

	data, err := sonic.Marshal(snap)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.CleanPath()), 0o755); err != nil {
		return err
	}

	// the real file is only replaced once the temp file is fully written
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, s.filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("error writing store snapshot to %s: %w", s.filePath, err)
	}

	return nil
}
