package jsonstore

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Document is a single JSON object on disk, used for singleton records
// such as the settings.
type Document[T any] struct {
	path string
	mu   sync.Mutex
}

func NewDocument[T any](path string) *Document[T] {
	return &Document[T]{path: path}
}

// Read loads the document. The second return is false when the file does
// not exist yet.
func (d *Document[T]) Read() (T, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var v T
	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return v, false, nil
		}
		return v, false, errors.Wrapf(err, "read %s", d.path)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, errors.Wrapf(err, "decode %s", d.path)
	}
	return v, true, nil
}

// Write replaces the document.
func (d *Document[T]) Write(v T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", d.path)
	}
	return writeFileAtomic(d.path, data)
}
