package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	bolt "go.etcd.io/bbolt"
)

var articlesBucket = []byte("articles")

// Ledger records the content hash of the last ingested version of each
// article, keyed by link. Unchanged articles are skipped before any
// embedding work. The ledger survives restarts.
type Ledger struct {
	DBPath string
	db     *bolt.DB
	mu     sync.RWMutex
}

// Init opens the ledger database, creating directories as needed.
func (l *Ledger) Init() error {
	dbDir := filepath.Dir(l.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for ledger: %w", err)
	}

	db, err := bolt.Open(l.DBPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(articlesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	l.db = db
	return nil
}

// IsCurrent reports whether the article at link was already ingested with
// this exact content hash.
func (l *Ledger) IsCurrent(link, hash string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var current bool
	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		v := b.Get([]byte(link))
		current = v != nil && string(v) == hash
		return nil
	})
	return current, err
}

// MarkIngested stores the content hash for link.
func (l *Ledger) MarkIngested(link, hash string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		return b.Put([]byte(link), []byte(hash))
	})
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// ContentHash is the stable fingerprint of an article's composed text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
