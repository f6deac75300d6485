// Package database provides data persistence using bbolt.
package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/amaumene/goanimefr/internal/models"
)

const (
	dbFileMode = 0600
	dbDirMode  = 0755

	defaultDBFile = "data.db"
)

var (
	bucketStreaming = []byte("streaming")
	bucketBookmarks = []byte("bookmarks")
)

// StreamingRecord is a persisted per-title reconciliation result. TTL 0
// means the record never expires.
type StreamingRecord struct {
	Title     string                 `json:"title"`
	Episodes  int                    `json:"episodes"`
	Streaming []models.StreamingLink `json:"streaming"`
	TTL       time.Duration          `json:"ttl"`
	CachedAt  time.Time              `json:"cached_at"`
}

// Expired reports whether the record is past its TTL at the given time.
func (r *StreamingRecord) Expired(now time.Time) bool {
	return r.TTL > 0 && now.After(r.CachedAt.Add(r.TTL))
}

// Bookmark is a title saved by the user.
type Bookmark struct {
	Anime   models.Anime `json:"anime"`
	AddedAt time.Time    `json:"added_at"`
}

// Database defines the interface for data persistence operations.
type Database interface {
	// GetStreaming retrieves a cached streaming result by title
	GetStreaming(title string) (*StreamingRecord, error)
	// StoreStreaming stores a streaming reconciliation result
	StoreStreaming(rec *StreamingRecord) error
	// GetBookmarks retrieves all saved bookmarks
	GetBookmarks() ([]Bookmark, error)
	// StoreBookmark saves a bookmark keyed by MAL id
	StoreBookmark(b *Bookmark) error
	// DeleteBookmark removes a bookmark by MAL id
	DeleteBookmark(malID int) error
	// Close closes the database connection
	Close() error
}

// BoltDB implements the Database interface using bbolt.
type BoltDB struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBolt creates a new bbolt database instance.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketStreaming, bucketBookmarks} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltDB{db: db, now: time.Now}, nil
}

// SetClock replaces the time source used for expiry checks in tests.
func (b *BoltDB) SetClock(now func() time.Time) {
	b.now = now
}

// Close closes the database connection.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// GetStreaming retrieves a cached streaming result by title.
// Returns nil without error when not found or expired.
func (b *BoltDB) GetStreaming(title string) (*StreamingRecord, error) {
	var rec *StreamingRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketStreaming).Get([]byte(title))
		if data == nil {
			return nil
		}
		var r StreamingRecord
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("failed to decode streaming record: %w", err)
		}
		rec = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Expired(b.now()) {
		return nil, nil
	}
	return rec, nil
}

// StoreStreaming stores a streaming reconciliation result keyed by title.
func (b *BoltDB) StoreStreaming(rec *StreamingRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode streaming record: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStreaming).Put([]byte(rec.Title), data)
	})
}

// GetBookmarks retrieves all saved bookmarks.
func (b *BoltDB) GetBookmarks() ([]Bookmark, error) {
	var bookmarks []Bookmark
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBookmarks).ForEach(func(k, v []byte) error {
			var bm Bookmark
			if err := json.Unmarshal(v, &bm); err != nil {
				return fmt.Errorf("failed to decode bookmark %s: %w", k, err)
			}
			bookmarks = append(bookmarks, bm)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// StoreBookmark saves a bookmark keyed by MAL id.
func (b *BoltDB) StoreBookmark(bm *Bookmark) error {
	if bm.Anime.MalID == 0 {
		return fmt.Errorf("bookmark has no mal_id")
	}
	data, err := json.Marshal(bm)
	if err != nil {
		return fmt.Errorf("failed to encode bookmark: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBookmarks).Put([]byte(strconv.Itoa(bm.Anime.MalID)), data)
	})
}

// DeleteBookmark removes a bookmark by MAL id.
func (b *BoltDB) DeleteBookmark(malID int) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBookmarks).Delete([]byte(strconv.Itoa(malID)))
	})
}
