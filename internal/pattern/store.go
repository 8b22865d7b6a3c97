// Package pattern loads document type definitions and scores raw text against them.
package pattern

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"unicode"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/model"
)

// errEmptyKeyword marks a keyword that can never match.
var errEmptyKeyword = errors.New("empty keyword")

const wordClass = `\p{L}\p{N}_`

// Store holds the pattern records of every known document type, in load order.
// It is read-only after construction and safe for concurrent use.
type Store struct {
	index    map[string]int
	compiled []compiledRecord
}

type compiledRecord struct {
	record   model.PatternRecord
	keywords []*regexp.Regexp // nil entries never match
	patterns []*regexp.Regexp // nil entries never match
}

// NewStore compiles records into a store. A later record with the same document
// type replaces the earlier one but keeps its position.
func NewStore(records []model.PatternRecord, obs common.Observer) *Store {
	obs = common.OrNop(obs)
	s := &Store{index: make(map[string]int)}

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			obs.LoadFailed("pattern record", err)
			continue
		}
		s.put(compile(rec, obs))
	}

	return s
}

// Load reads every pattern file in dir. Files that cannot be decoded are reported
// to obs and skipped. A missing directory yields an empty store.
func Load(dir string, obs common.Observer) (*Store, error) {
	obs = common.OrNop(obs)

	if dir == "" {
		return NewStore(nil, obs), nil
	}

	files, err := common.RecordFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			obs.LoadFailed(dir, err)
			return NewStore(nil, obs), nil
		}
		return nil, err
	}

	records := make([]model.PatternRecord, 0, len(files))
	for _, path := range files {
		var rec model.PatternRecord
		if err := common.DecodeFile(path, &rec); err != nil {
			obs.LoadFailed(path, err)
			continue
		}
		if err := rec.Validate(); err != nil {
			obs.LoadFailed(path, err)
			continue
		}
		records = append(records, rec)
	}

	return NewStore(records, obs), nil
}

func (s *Store) put(c compiledRecord) {
	if i, ok := s.index[c.record.DocumentType]; ok {
		s.compiled[i] = c
		return
	}
	s.index[c.record.DocumentType] = len(s.compiled)
	s.compiled = append(s.compiled, c)
}

// Len returns the number of document types.
func (s *Store) Len() int {
	return len(s.compiled)
}

// Records returns a copy of the loaded records in load order.
func (s *Store) Records() []model.PatternRecord {
	out := make([]model.PatternRecord, len(s.compiled))
	for i, c := range s.compiled {
		out[i] = c.record
	}
	return out
}

// Get returns the record of a document type.
func (s *Store) Get(documentType string) (model.PatternRecord, bool) {
	i, ok := s.index[documentType]
	if !ok {
		return model.PatternRecord{}, false
	}
	return s.compiled[i].record, true
}

func compile(rec model.PatternRecord, obs common.Observer) compiledRecord {
	c := compiledRecord{
		record:   rec,
		keywords: make([]*regexp.Regexp, len(rec.Keywords)),
		patterns: make([]*regexp.Regexp, len(rec.Patterns)),
	}

	for i, kw := range rec.Keywords {
		re, err := keywordRegexp(kw)
		if err != nil {
			obs.LoadFailed(source(rec, "keyword", kw), err)
			continue
		}
		c.keywords[i] = re
	}

	for i, p := range rec.Patterns {
		re, err := regexp.Compile(`(?im)` + p)
		if err != nil {
			obs.LoadFailed(source(rec, "pattern", p), err)
			continue
		}
		c.patterns[i] = re
	}

	return c
}

func source(rec model.PatternRecord, kind, value string) string {
	return fmt.Sprintf("%s %s %q", rec.DocumentType, kind, value)
}

// keywordRegexp builds a case-insensitive whole-word matcher whose word
// boundaries are Unicode aware.
func keywordRegexp(keyword string) (*regexp.Regexp, error) {
	runes := []rune(keyword)
	if len(runes) == 0 {
		return nil, errEmptyKeyword
	}

	var b strings.Builder
	b.WriteString(`(?i)`)
	if isWordRune(runes[0]) {
		b.WriteString(`(?:^|[^` + wordClass + `])`)
	} else {
		b.WriteString(`[` + wordClass + `]`)
	}
	b.WriteString(regexp.QuoteMeta(keyword))
	if isWordRune(runes[len(runes)-1]) {
		b.WriteString(`(?:$|[^` + wordClass + `])`)
	} else {
		b.WriteString(`[` + wordClass + `]`)
	}

	return regexp.Compile(b.String())
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
