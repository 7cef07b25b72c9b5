// Package docstore is a minimal document database with JSON-file
// persistence, one pretty-printed array file per named collection under a
// local data directory. It stands in for a real MongoDB deployment.
//
// Durability is explicitly not a goal: every mutation rewrites the whole
// collection file in place with no append log and no atomic rename, and
// write failures are logged and swallowed, so callers cannot observe them.
// A per-collection mutex keeps the in-memory map safe under concurrent
// handlers, but there is no isolation between a caller's read and its
// later write; two concurrent read-modify-write sequences on the same
// collection race, and the last full-collection snapshot wins.
package docstore

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Document is implemented by every persisted record type. The store keys
// documents by the `_id` JSON field; DocumentID exposes it to callers.
type Document interface {
	DocumentID() string
}

// DB owns the data directory and the per-collection in-memory state.
// Collections load lazily from their backing file on first access and stay
// resident for the process lifetime.
type DB struct {
	mu    sync.Mutex
	dir   string
	colls map[string]*collection
	log   *zap.Logger
}

// Stats reports the connected flag and per-collection document counts,
// used by the debug endpoint.
type Stats struct {
	Connected   bool           `json:"connected"`
	Collections map[string]int `json:"collections"`
}

// Open prepares a DB rooted at dir, creating the directory if needed.
func Open(dir string, logger *zap.Logger) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: create data dir %s: %w", dir, err)
	}
	return &DB{
		dir:   dir,
		colls: make(map[string]*collection),
		log:   logger,
	}, nil
}

// Dir returns the data directory the store persists into.
func (db *DB) Dir() string { return db.dir }

// Stats counts documents across all collections touched so far. Each
// collection is locked for its count so a concurrent writer cannot race
// the map read.
func (db *DB) Stats() Stats {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := Stats{Connected: true, Collections: make(map[string]int, len(db.colls))}
	for name, c := range db.colls {
		c.mu.Lock()
		s.Collections[name] = c.count(nil)
		c.mu.Unlock()
	}
	return s
}

// Drop clears all in-memory collections. Backing files are left alone;
// this exists for tests.
func (db *DB) Drop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.colls = make(map[string]*collection)
}

func (db *DB) collection(name string) *collection {
	db.mu.Lock()
	defer db.mu.Unlock()
	if c, ok := db.colls[name]; ok {
		return c
	}
	c := &collection{
		name: name,
		path: filepath.Join(db.dir, name+".json"),
		log:  db.log,
	}
	c.load()
	db.colls[name] = c
	return c
}

// collection holds one named collection's documents in normalized JSON
// form (the result of marshalling then unmarshalling the typed record), in
// insertion order.
type collection struct {
	mu    sync.Mutex
	name  string
	path  string
	docs  map[string]map[string]any
	order []string
	log   *zap.Logger
}

// load reads the backing file. A missing or corrupt file is treated as an
// empty collection; the error is logged, never returned.
func (c *collection) load() {
	c.docs = make(map[string]map[string]any)
	c.order = nil

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Error("docstore: failed to read collection file",
				zap.String("collection", c.name), zap.Error(err))
		}
		return
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		c.log.Error("docstore: corrupt collection file, starting empty",
			zap.String("collection", c.name), zap.Error(err))
		return
	}
	for _, doc := range raw {
		id, _ := doc["_id"].(string)
		if id == "" {
			continue
		}
		if _, seen := c.docs[id]; !seen {
			c.order = append(c.order, id)
		}
		c.docs[id] = doc
	}
	c.log.Debug("docstore: loaded collection",
		zap.String("collection", c.name), zap.Int("documents", len(c.docs)))
}

// save rewrites the whole collection file. Failures are logged and
// swallowed so the triggering call still reports success.
func (c *collection) save() {
	out := make([]map[string]any, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		c.log.Error("docstore: failed to encode collection",
			zap.String("collection", c.name), zap.Error(err))
		return
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		c.log.Error("docstore: failed to write collection file",
			zap.String("collection", c.name), zap.Error(err))
	}
}

func (c *collection) count(query map[string]any) int {
	n := 0
	for _, id := range c.order {
		if matches(c.docs[id], query) {
			n++
		}
	}
	return n
}

// matches reports whether doc carries every query key with a strictly
// equal value. Absent fields exclude the document; a nil query matches
// everything.
func matches(doc, query map[string]any) bool {
	for k, want := range query {
		got, ok := doc[k]
		if !ok || !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

func jsonEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		// Nested objects and arrays: compare by canonical encoding.
		ab, errA := json.Marshal(a)
		bb, errB := json.Marshal(b)
		return errA == nil && errB == nil && string(ab) == string(bb)
	}
}

// newID builds a collection-scoped id: name, millisecond timestamp, and a
// random alphanumeric suffix.
func newID(collection string) string {
	return fmt.Sprintf("%s_%d_%s", collection, time.Now().UnixMilli(), randSuffix(9))
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back to
		// a timestamp-derived suffix rather than panicking.
		return fmt.Sprintf("%09d", time.Now().UnixNano()%1e9)
	}
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf)
}
