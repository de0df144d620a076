// Package jsonfile persists each collection as a single JSON array file,
// rewritten wholesale on every mutation. A per-store mutex serializes
// writers so concurrent webhook deliveries cannot interleave a
// read-modify-write cycle.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

type store struct {
	path string
	mu   sync.Mutex
}

func newStore(dir, name string) *store {
	return &store{path: filepath.Join(dir, name)}
}

// load reads the whole collection into out. A missing file is an empty
// collection, not an error.
func (s *store) load(out any) error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrapf(err, "read %s", s.path)
	}

	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s", s.path)
	}

	return nil
}

// save rewrites the whole collection in one write.
func (s *store) save(in any) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir for %s", s.path)
	}

	raw, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", s.path)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", s.path)
	}

	return nil
}
