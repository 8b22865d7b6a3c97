package pattern

import "github.com/Veraticus/docsift/internal/model"

// Scorer scores raw text against every record of a Store.
type Scorer struct {
	store *Store
}

// NewScorer creates a scorer over store.
func NewScorer(store *Store) *Scorer {
	return &Scorer{store: store}
}

// Score returns the document type with the highest normalized score and that score.
// Ties keep the first type in store order. It returns ("", 0) when nothing matches.
func (s *Scorer) Score(text string) (string, float64) {
	if text == "" || s.store == nil {
		return "", 0
	}

	best, bestScore := "", 0.0
	for i := range s.store.compiled {
		ts := score(&s.store.compiled[i], text)
		if ts.Score > bestScore {
			best, bestScore = ts.DocumentType, ts.Score
		}
	}

	return best, bestScore
}

// Explain returns the score of every document type in store order.
func (s *Scorer) Explain(text string) []model.TypeScore {
	if s.store == nil {
		return nil
	}

	scores := make([]model.TypeScore, 0, s.store.Len())
	for i := range s.store.compiled {
		scores = append(scores, score(&s.store.compiled[i], text))
	}
	return scores
}

func score(c *compiledRecord, text string) model.TypeScore {
	ts := model.TypeScore{
		DocumentType: c.record.DocumentType,
		Max:          c.record.MaxScore(),
	}

	if text != "" {
		for _, re := range c.keywords {
			if re != nil && re.MatchString(text) {
				ts.Matched++
			}
		}
		for _, re := range c.patterns {
			if re != nil && re.MatchString(text) {
				ts.Matched += 2
			}
		}
	}

	if ts.Max > 0 {
		ts.Score = float64(ts.Matched) / float64(ts.Max)
	}
	return ts
}
