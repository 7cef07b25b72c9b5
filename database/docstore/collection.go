package docstore

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Query selects documents by exact match on every key present. There are
// no partial matches, no indexes and no query operators; matching is a
// linear scan.
type Query map[string]any

// Patch is a shallow merge applied over an existing document. Patch keys
// win; `_id` is always preserved. A patch does NOT carry over fields the
// caller dropped from a previously fetched document, so callers doing
// full-document overwrites must re-fetch first or risk losing fields.
type Patch map[string]any

// Collection is a typed view over one named collection. All reads return
// copies decoded from the stored form, never live references, so callers
// cannot mutate store state through a result.
type Collection[T Document] struct {
	c *collection
}

// CollectionOf returns the typed handle for name, creating and loading the
// collection on first use. Handles for the same name share state.
func CollectionOf[T Document](db *DB, name string) Collection[T] {
	return Collection[T]{c: db.collection(name)}
}

// Name returns the collection name.
func (col Collection[T]) Name() string { return col.c.name }

// InsertOne assigns a fresh id, stores the document and persists the
// collection. The stored document (with id) is returned; persistence
// failures are logged, not surfaced.
func (col Collection[T]) InsertOne(doc T) T {
	return col.insert(newID(col.c.name), doc)
}

// InsertWithID stores the document under a caller-chosen id. Upload
// sessions use this: their random hex id is the capability clients hold.
func (col Collection[T]) InsertWithID(id string, doc T) T {
	return col.insert(id, doc)
}

func (col Collection[T]) insert(id string, doc T) T {
	c := col.c
	m, ok := encode(doc, c.log)
	if !ok {
		return doc
	}
	m["_id"] = id

	c.mu.Lock()
	if _, seen := c.docs[id]; !seen {
		c.order = append(c.order, id)
	}
	c.docs[id] = m
	c.save()
	c.mu.Unlock()

	stored, _ := decode[T](m, c.log)
	return stored
}

// Find returns every document matching the query, in insertion order.
func (col Collection[T]) Find(query Query) []T {
	c := col.c
	q := normalize(query, c.log)

	c.mu.Lock()
	defer c.mu.Unlock()
	var out []T
	for _, id := range c.order {
		if matches(c.docs[id], q) {
			if doc, ok := decode[T](c.docs[id], c.log); ok {
				out = append(out, doc)
			}
		}
	}
	return out
}

// FindAll returns every document. Debug listing.
func (col Collection[T]) FindAll() []T { return col.Find(nil) }

// FindOne returns the first matching document.
func (col Collection[T]) FindOne(query Query) (T, bool) {
	c := col.c
	q := normalize(query, c.log)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.order {
		if matches(c.docs[id], q) {
			return decode[T](c.docs[id], c.log)
		}
	}
	var zero T
	return zero, false
}

// FindByID looks a document up by its id.
func (col Collection[T]) FindByID(id string) (T, bool) {
	c := col.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.docs[id]; ok {
		return decode[T](m, c.log)
	}
	var zero T
	return zero, false
}

// UpdateOne shallow-merges the patch over the first matching document and
// persists. Reports whether a document was updated.
func (col Collection[T]) UpdateOne(query Query, patch Patch) bool {
	c := col.c
	q := normalize(query, c.log)
	p := normalize(patch, c.log)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.order {
		doc := c.docs[id]
		if !matches(doc, q) {
			continue
		}
		merged := make(map[string]any, len(doc)+len(p))
		for k, v := range doc {
			merged[k] = v
		}
		for k, v := range p {
			merged[k] = v
		}
		merged["_id"] = id
		c.docs[id] = merged
		c.save()
		return true
	}
	return false
}

// DeleteOne removes the first matching document and persists.
func (col Collection[T]) DeleteOne(query Query) bool {
	c := col.c
	q := normalize(query, c.log)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range c.order {
		if matches(c.docs[id], q) {
			delete(c.docs, id)
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.save()
			return true
		}
	}
	return false
}

// DeleteMany removes every matching document, persisting once. Returns the
// number removed.
func (col Collection[T]) DeleteMany(query Query) int {
	c := col.c
	q := normalize(query, c.log)

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.order[:0]
	removed := 0
	for _, id := range c.order {
		if matches(c.docs[id], q) {
			delete(c.docs, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	if removed > 0 {
		c.save()
	}
	return removed
}

// Count returns the number of matching documents without persisting.
func (col Collection[T]) Count(query Query) int {
	c := col.c
	q := normalize(query, c.log)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count(q)
}

// Reload re-reads the backing file, discarding in-memory state. Used after
// startup migrations touch files directly.
func (col Collection[T]) Reload() {
	c := col.c
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
}

// encode marshals a typed record into its normalized JSON-map form.
func encode[T Document](doc T, log *zap.Logger) (map[string]any, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		log.Error("docstore: failed to encode document", zap.Error(err))
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error("docstore: document is not a JSON object", zap.Error(err))
		return nil, false
	}
	return m, true
}

// decode copies a stored map back into the typed record.
func decode[T Document](m map[string]any, log *zap.Logger) (T, bool) {
	var out T
	data, err := json.Marshal(m)
	if err != nil {
		log.Error("docstore: failed to re-encode document", zap.Error(err))
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		log.Error("docstore: failed to decode document", zap.Error(err))
		return out, false
	}
	return out, true
}

// normalize runs query/patch values through JSON so that numbers, times
// and nested values compare in the same representation stored documents
// use.
func normalize(m map[string]any, log *zap.Logger) map[string]any {
	if len(m) == 0 {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		log.Error("docstore: failed to normalize query", zap.Error(err))
		return m
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return m
	}
	return out
}
