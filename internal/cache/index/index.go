/**
* Copyright 2018 Comcast Cable Communications Management, LLC
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You may obtain a copy of the License at
* http://www.apache.org/licenses/LICENSE-2.0
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
 */

// Package index defines the RepoScope Cache Metadata Index, a durable
// SQLite table tracking access counts, timestamps, sizes and tags for
// every object held by the disk cache tier
package index

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_metadata (
	cache_key     TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	last_accessed TEXT NOT NULL,
	access_count  INTEGER NOT NULL DEFAULT 0,
	size_bytes    INTEGER NOT NULL DEFAULT 0,
	tags          TEXT NOT NULL DEFAULT '[]'
);`

// Object contains metadata about an item in the Cache
type Object struct {
	// Key represents the name of the Object and is the accessor in the cache
	Key string
	// CreatedAt is the time the object was first Written
	CreatedAt time.Time
	// LastAccessed is the time the object was last Accessed
	LastAccessed time.Time
	// AccessCount is the number of times the object has been retrieved
	AccessCount int64
	// Size is the size of the Object in bytes
	Size int64
	// Tags is a free-form list of labels associated with the Object
	Tags []string
}

// Index maintains durable metadata about the disk cache tier
type Index struct {
	db        *sql.DB
	name      string
	cacheType string
}

// Open opens (creating if necessary) the metadata database for the provided cache
func Open(cfg config.CacheIndexConfig, cacheName, cacheType string) (*Index, error) {
	log.Info("cache index setup", log.Pairs{"cacheName": cacheName, "filename": cfg.Filename})

	db, err := sql.Open("sqlite", cfg.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db, name: cacheName, cacheType: cacheType}, nil
}

// UpdateObject writes or updates the metadata row for the provided key.
// An existing row keeps its created_at and access_count; size, tags and
// last_accessed are replaced.
func (idx *Index) UpdateObject(key string, size int64, tags []string) error {
	if key == "" {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	tagJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	if tags == nil {
		tagJSON = []byte("[]")
	}
	_, err = idx.db.Exec(`
		INSERT INTO cache_metadata (cache_key, created_at, last_accessed, access_count, size_bytes, tags)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			last_accessed = excluded.last_accessed,
			size_bytes = excluded.size_bytes,
			tags = excluded.tags`,
		key, now, now, size, string(tagJSON))
	return err
}

// UpdateObjectAccess increments the access counter and touches last_accessed
// for the row with the provided key
func (idx *Index) UpdateObjectAccess(key string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := idx.db.Exec(`
		UPDATE cache_metadata
		SET access_count = access_count + 1, last_accessed = ?
		WHERE cache_key = ?`, now, key)
	return err
}

// Object returns the metadata row for the provided key, or sql.ErrNoRows
func (idx *Index) Object(key string) (*Object, error) {
	var o Object
	var created, accessed, tagJSON string
	err := idx.db.QueryRow(`
		SELECT cache_key, created_at, last_accessed, access_count, size_bytes, tags
		FROM cache_metadata WHERE cache_key = ?`, key).
		Scan(&o.Key, &created, &accessed, &o.AccessCount, &o.Size, &tagJSON)
	if err != nil {
		return nil, err
	}
	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, err
	}
	if o.LastAccessed, err = time.Parse(time.RFC3339Nano, accessed); err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(tagJSON), &o.Tags); err != nil {
		return nil, err
	}
	return &o, nil
}

// RemoveObject removes the metadata row for the provided key
func (idx *Index) RemoveObject(key string) error {
	_, err := idx.db.Exec(`DELETE FROM cache_metadata WHERE cache_key = ?`, key)
	return err
}

// RemoveObjects removes the metadata rows for the provided keys
func (idx *Index) RemoveObjects(keys []string) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM cache_metadata WHERE cache_key = ?`, key); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Count returns the number of metadata rows
func (idx *Index) Count() (int64, error) {
	var n int64
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM cache_metadata`).Scan(&n)
	return n, err
}

// TotalSize returns the summed size_bytes of all metadata rows
func (idx *Index) TotalSize() (int64, error) {
	var n int64
	err := idx.db.QueryRow(`SELECT COALESCE(SUM(size_bytes), 0) FROM cache_metadata`).Scan(&n)
	return n, err
}

// Close closes the metadata database
func (idx *Index) Close() error {
	return idx.db.Close()
}
