package synth

import (
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/plotlinedb/plotline/internal/model"
)

// Keyword weights for seed scoring. A table-name hit is worth more than
// a column hit because the intent usually names the entity, not a field.
const (
	tableNameWeight  = 3
	columnNameWeight = 1
)

// intentWords splits intent text into lowercase keywords, dropping
// one-character fragments and punctuation.
func intentWords(intent string) []string {
	fields := strings.FieldsFunc(strings.ToLower(intent), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_')
	})
	words := fields[:0]
	for _, w := range fields {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	return words
}

// scoreTable measures keyword overlap between the intent words and a
// table's name and column names: case-insensitive substring matches plus
// a stem match that tolerates plural forms and one-character drift.
func scoreTable(words []string, t *model.Table) int {
	score := 0
	tableName := strings.ToLower(t.Name)
	for _, w := range words {
		if nameMatches(w, tableName) {
			score += tableNameWeight
		}
		for _, col := range t.Columns {
			if nameMatches(w, strings.ToLower(col.Name)) {
				score += columnNameWeight
			}
		}
	}
	return score
}

// nameMatches reports whether an intent word hits an identifier:
// substring either way, or a stem match after singularizing both sides.
func nameMatches(word, name string) bool {
	if strings.Contains(name, word) || strings.Contains(word, name) {
		return true
	}
	ws := strings.ToLower(inflect.Singularize(word))
	ns := strings.ToLower(inflect.Singularize(name))
	if ws == ns || strings.Contains(ns, ws) {
		return true
	}
	// Tolerate a single-character misspelling on the stem.
	if len(ws) > 3 && levenshtein.DistanceForStrings([]rune(ws), []rune(ns), levenshtein.DefaultOptions) == 1 {
		return true
	}
	return false
}

// selectSeed picks the highest-scoring table for an intent. Ties break
// by declaration order. Returns nil when no table scores above zero.
func selectSeed(g *model.SchemaGraph, intent string) *model.Table {
	words := intentWords(intent)
	if len(words) == 0 {
		return nil
	}
	var (
		best      *model.Table
		bestScore int
	)
	for i := range g.Tables {
		if s := scoreTable(words, &g.Tables[i]); s > bestScore {
			best, bestScore = &g.Tables[i], s
		}
	}
	return best
}
