// Package jsonstore persists collections as single JSON documents on disk.
// Every mutation rewrites the whole document before returning, matching the
// flat-file layout the admin tooling reads directly.
package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Record is anything storable in a Collection. Records with an empty id
// get one assigned on append. Clone must return a copy sharing no memory
// with the receiver: the collection hands out copies only, so callers can
// read and mutate results without racing concurrent updates.
type Record[T any] interface {
	RecordID() string
	SetRecordID(id string)
	Clone() T
}

// Collection is a mutex-guarded slice of records mirrored to one JSON
// array file. Mutations complete the file write before returning. Stored
// records never escape: every accessor returns a clone.
type Collection[T Record[T]] struct {
	path  string
	mu    sync.Mutex
	items []T
}

// Open loads the collection at path. A missing file is an empty
// collection; the file is created on first write.
func Open[T Record[T]](path string) (*Collection[T], error) {
	c := &Collection[T]{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return c, nil
}

// Append stores the record, assigning a fresh id when it has none, and
// returns it.
func (c *Collection[T]) Append(rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec.RecordID() == "" {
		rec.SetRecordID(uuid.NewString())
	}
	c.items = append(c.items, rec.Clone())
	if err := c.save(); err != nil {
		c.items = c.items[:len(c.items)-1]
		var zero T
		return zero, err
	}
	return rec, nil
}

// Find returns a copy of the record with the given id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.RecordID() == id {
			return it.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// FindBy returns a copy of the first record matching pred. pred runs under
// the collection mutex and must not mutate its argument.
func (c *Collection[T]) FindBy(pred func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if pred(it) {
			return it.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// All returns a copy of every record in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// Update applies fn to the record with the given id, rewrites the file and
// returns a copy of the result.
func (c *Collection[T]) Update(id string, fn func(T)) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.RecordID() == id {
			fn(it)
			if err := c.save(); err != nil {
				var zero T
				return zero, false, err
			}
			return it.Clone(), true, nil
		}
	}
	var zero T
	return zero, false, nil
}

// Remove deletes the record with the given id.
func (c *Collection[T]) Remove(id string) (bool, error) {
	n, err := c.RemoveBy(func(it T) bool { return it.RecordID() == id })
	return n > 0, err
}

// RemoveBy deletes every record matching pred and returns how many went.
func (c *Collection[T]) RemoveBy(pred func(T) bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0:0]
	removed := 0
	for _, it := range c.items {
		if pred(it) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	if removed == 0 {
		return 0, nil
	}
	prev := c.items
	c.items = kept
	if err := c.save(); err != nil {
		c.items = prev
		return 0, err
	}
	return removed, nil
}

// save writes the whole collection. Callers hold c.mu. The write goes to a
// temp file first so a crash never leaves a truncated document.
func (c *Collection[T]) save() error {
	data, err := json.MarshalIndent(c.items, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", c.path)
	}
	return writeFileAtomic(c.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir for %s", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}
