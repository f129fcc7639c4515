package database

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
)

// Keeps API responses on disk so repeated lookups (map info, NK profiles) skip the network.
// Entries expire on their own through badger's TTL.
type ResponseCache struct {
	db *badger.DB
}

func cacheOptions(dir string) badger.Options {
	opts := badger.DefaultOptions(dir)
	opts.ZSTDCompressionLevel = 2
	opts.NumLevelZeroTables = 1
	opts.NumVersionsToKeep = 1
	opts.CompactL0OnClose = true
	opts.Logger = badgerLogger{log.WithField("component", "badger")}

	return opts
}

// Opens (or creates) the cache under dir.
func OpenResponseCache(dir string) (*ResponseCache, error) {
	db, err := badger.Open(cacheOptions(dir))
	if err != nil {
		return nil, err
	}

	return &ResponseCache{db: db}, nil
}

// A cache that lives only as long as the process. Used by tests and when no data path is writable.
func OpenMemoryCache() (*ResponseCache, error) {
	opts := cacheOptions("").WithInMemory(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &ResponseCache{db: db}, nil
}

func (c *ResponseCache) Get(key string) (body []byte, ok bool) {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		body, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.WithError(err).WithField("key", key).Warn("response cache read failed")
		}

		return nil, false
	}

	return body, true
}

func (c *ResponseCache) Set(key string, body []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), body).WithTTL(ttl))
	})
}

// Reclaims space left behind by expired entries. Safe to call periodically, it is a no-op when there is nothing to collect.
func (c *ResponseCache) Collect() {
	for c.db.RunValueLogGC(0.5) == nil {
	}
}

func (c *ResponseCache) Close() error {
	return c.db.Close()
}

// Routes badger's chatter through logrus, demoting its info logs to debug.
type badgerLogger struct {
	*log.Entry
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.Entry.Debugf(format, args...)
}
