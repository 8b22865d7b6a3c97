package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Veraticus/docsift/internal/cli"
	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/engine"
	"github.com/Veraticus/docsift/internal/model"
)

// stdinName is the argument that reads from standard input.
const stdinName = "-"

// readDocuments reads each named file, or stdin for "-".
func readDocuments(ctx context.Context, names []string) ([]engine.Document, error) {
	docs := make([]engine.Document, 0, len(names))
	for _, name := range names {
		data, err := readInput(ctx, name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, engine.Document{Source: name, Text: string(data)})
	}
	return docs, nil
}

func readInput(ctx context.Context, name string) ([]byte, error) {
	if name == stdinName {
		data, err := cli.ReadAll(ctx, os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot read %s", name), err)
	}
	return data, nil
}

// decodeData parses extracted field data. JSON and YAML objects yield a
// model.Record, arrays of objects and CSV files yield a model.Table. The
// format is taken from the file extension; stdin is treated as JSON.
func decodeData(name string, data []byte) (any, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if name == stdinName {
		ext = ".json"
	}

	var raw any
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidRecord, name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidRecord, name, err)
		}
	case ".csv":
		return decodeCSV(name, data)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, name)
	}

	return toInput(name, raw)
}

func toInput(name string, raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return model.Record(v), nil
	case []any:
		table := model.Table{Rows: make([]model.Record, 0, len(v))}
		for i, item := range v {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s: row %d is not an object", common.ErrInvalidRecord, name, i+1)
			}
			table.Rows = append(table.Rows, row)
		}
		return table, nil
	}
	return nil, fmt.Errorf("%w: %s: expected an object or a list of objects", common.ErrInvalidRecord, name)
}

// decodeCSV reads a header row followed by data rows. Empty cells are
// treated as missing values.
func decodeCSV(name string, data []byte) (model.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("%w: %s: %w", common.ErrInvalidRecord, name, err)
	}
	if len(records) == 0 {
		return model.Table{}, nil
	}

	table := model.Table{
		Columns: records[0],
		Rows:    make([]model.Record, 0, len(records)-1),
	}
	for _, cells := range records[1:] {
		row := make(model.Record, len(table.Columns))
		for i, column := range table.Columns {
			if i < len(cells) && cells[i] != "" {
				row[column] = cells[i]
			} else {
				row[column] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
