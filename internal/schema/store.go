// Package schema loads named validation schemas from a directory.
package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/model"
)

// Store holds validation schemas keyed by name. It is read-only after
// construction and safe for concurrent use.
type Store struct {
	schemas map[string]*model.ValidationSchema
}

// NewStore builds a store from copies of schemas keyed by name.
func NewStore(schemas map[string]*model.ValidationSchema) *Store {
	s := &Store{schemas: make(map[string]*model.ValidationSchema, len(schemas))}
	for name, sc := range schemas {
		s.schemas[name] = sc.Clone()
	}
	return s
}

// Load reads every schema file in dir. A schema is named after its file stem.
// Files that cannot be decoded or fail structural checks are reported to obs
// and skipped. A missing directory yields an empty store.
func Load(dir string, obs common.Observer) (*Store, error) {
	obs = common.OrNop(obs)
	s := NewStore(nil)

	if dir == "" {
		return s, nil
	}

	files, err := common.RecordFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			obs.LoadFailed(dir, err)
			return s, nil
		}
		return nil, err
	}

	for _, path := range files {
		sc, err := LoadFile(path)
		if err != nil {
			obs.LoadFailed(path, err)
			continue
		}
		s.schemas[Name(path)] = sc
	}

	return s, nil
}

// LoadFile decodes and checks a single schema file.
func LoadFile(path string) (*model.ValidationSchema, error) {
	var sc model.ValidationSchema
	if err := common.DecodeFile(path, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidRecord, path, err)
	}
	return &sc, nil
}

// Name returns the schema name for a file path.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Get returns a copy of the schema registered under name. Changes to the
// copy do not reach the store.
func (s *Store) Get(name string) (*model.ValidationSchema, bool) {
	sc, ok := s.schemas[name]
	if !ok {
		return nil, false
	}
	return sc.Clone(), true
}

// Names returns the registered schema names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of schemas.
func (s *Store) Len() int {
	return len(s.schemas)
}
