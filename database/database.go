package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mlbot/database/store"

	log "github.com/sirupsen/logrus"
)

type StoreDefinition[T any] struct {
	Name string
}

var MAP_VOTES_STORE = StoreDefinition[VoteExpiry]{Name: "mapvotes"}

// A database that is responsible for multiple persistent caches aka "stores"
// which can be assigned to this database and then retrieved for use again later.
// Each store is one JSON file under the database's dir.
type Database struct {
	dirPath string                  // Path (relative to cwd) to the dir where this db lives.
	stores  map[string]store.IStore // Mapping from file name → generic Store instance.
	storeMu sync.RWMutex            // Guards access to `stores`.
	flushMu sync.Mutex              // Ensures multiple flushes cannot happen simultaneously.
}

// Creates an instance of [Database] with its dir at dir (created if it does not exist).
//
// NOTE: To add a store to this DB, call [AssignStore] with the appropriate type which the store file can be unmarshalled into.
func New(dir string) (*Database, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Database{
		dirPath: dir,
		stores:  make(map[string]store.IStore),
	}, nil
}

// The clean path to the dir which all store files of this db live under.
func (db *Database) Dir() string {
	return filepath.Clean(db.dirPath)
}

// Calls WriteSnapshot on every store in this DB, flushing its current state to its associated file.
// A mutex lock is acquired before the loop, ensuring no two flushes can run simultaneously.
func (db *Database) Flush() error {
	errs := []error{}

	db.flushMu.Lock()
	defer db.flushMu.Unlock()

	db.storeMu.RLock()
	defer db.storeMu.RUnlock()

	for name, s := range db.stores {
		if err := s.WriteSnapshot(); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.WithField("dir", db.Dir()).Debug("flushed all stores to disk")
	return nil
}

// Creates a new store, loading its file if present, and adds it to the db.
// If the store was already assigned, the existing one is returned.
func AssignStore[T any](db *Database, def StoreDefinition[T]) (*store.Store[T], error) {
	db.storeMu.Lock()
	defer db.storeMu.Unlock()

	if s, ok := db.stores[def.Name]; ok {
		typed, ok := s.(*store.Store[T])
		if !ok {
			return nil, fmt.Errorf("store '%s' already assigned with type %T", def.Name, s)
		}

		return typed, nil
	}

	s, err := store.New[T](filepath.Join(db.dirPath, def.Name+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to create store '%s': %w", def.Name, err)
	}

	db.stores[def.Name] = s
	return s, nil
}

// Retrieves the Store for a specific file/db.
func GetStore[T any](db *Database, def StoreDefinition[T]) (*store.Store[T], error) {
	db.storeMu.RLock()
	defer db.storeMu.RUnlock()

	si, ok := db.stores[def.Name]
	if !ok {
		return nil, fmt.Errorf("could not find store '%s' in db: %s", def.Name, db.dirPath)
	}

	s, ok := si.(*store.Store[T])
	if !ok {
		return nil, fmt.Errorf(
			"store '%s' exists but with a different type: expected *Store[%T], got %T",
			def.Name, (*store.Store[T])(nil), si,
		)
	}

	return s, nil
}
