package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// IsRecordFile reports whether name has an extension DecodeFile understands.
func IsRecordFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Decode unmarshals data into v, choosing the codec from the file extension of name.
func Decode(name string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidRecord, name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidRecord, name, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return nil
}

// DecodeFile reads path and unmarshals it into v.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(path, data, v)
}

// RecordFiles lists the record files of dir in lexical order.
func RecordFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsRecordFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}
