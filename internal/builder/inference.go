package builder

import (
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/plotlinedb/plotline/internal/model"
)

// Confidence levels for naming-convention matches. Tunable defaults, not
// load-bearing exact values.
const (
	confidenceExact  = 0.9
	confidencePlural = 0.6
)

// inferRelationships scans for columns following the `<table>_id` (or
// `<table>Id`) convention and proposes relationships to the matching
// table's primary key. Grounded in constraint-free relationship mining:
// the column name is the only evidence, so every proposal carries a
// confidence score instead of being silently merged with declared
// structure.
func inferRelationships(g *model.SchemaGraph) []model.Relationship {
	var out []model.Relationship

	for ti := range g.Tables {
		from := &g.Tables[ti]
		for ci := range from.Columns {
			col := &from.Columns[ci]
			if col.IsPrimaryKey {
				continue
			}
			base, ok := fkBaseName(col.Name)
			if !ok {
				continue
			}

			target, confidence := matchTargetTable(g, from.Name, base)
			if target == nil {
				continue
			}
			pkCol := singleColumnPrimaryKey(target)
			if pkCol == nil || !typesCompatible(col.Type, pkCol.Type) {
				continue
			}

			out = append(out, model.Relationship{
				FromTable:  from.Name,
				FromColumn: col.Name,
				ToTable:    target.Name,
				ToColumn:   pkCol.Name,
				Origin:     model.OriginInferred,
				Confidence: confidence,
			})
		}
	}
	return out
}

// fkBaseName strips the foreign-key suffix from a column name:
// customer_id -> customer, customerId -> customer. Returns false when
// the column does not follow the convention (including a bare "id").
func fkBaseName(name string) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "_id"):
		base := lower[:len(lower)-len("_id")]
		return base, base != ""
	case len(name) > 2 && strings.HasSuffix(name, "Id"):
		return strings.ToLower(name[:len(name)-2]), true
	default:
		return "", false
	}
}

// matchTargetTable finds the table a foreign-key base name points at.
// An exact match against the table's singular form scores high; a match
// that needed pluralization heuristics or tolerated a one-character
// misspelling scores low.
func matchTargetTable(g *model.SchemaGraph, fromTable, base string) (*model.Table, float64) {
	var (
		best     *model.Table
		bestConf float64
	)
	for ti := range g.Tables {
		t := &g.Tables[ti]
		if strings.EqualFold(t.Name, fromTable) {
			continue
		}
		name := strings.ToLower(t.Name)
		singular := strings.ToLower(inflect.Singularize(t.Name))

		var conf float64
		switch {
		case base == name || base == singular:
			conf = confidenceExact
		case strings.ToLower(inflect.Pluralize(base)) == name:
			conf = confidencePlural
		case editDistance(base, singular) == 1:
			conf = confidencePlural
		default:
			continue
		}

		if conf > bestConf {
			best, bestConf = t, conf
		}
	}
	return best, bestConf
}

func editDistance(a, b string) int {
	return levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

func singleColumnPrimaryKey(t *model.Table) *model.Column {
	if len(t.PrimaryKey) != 1 {
		return nil
	}
	return t.Column(t.PrimaryKey[0])
}

// typesCompatible accepts matches where the child column could plausibly
// hold the parent key. Unknown types are permissive on either side.
func typesCompatible(child, parent model.TypeTag) bool {
	if child == model.TypeUnknown || parent == model.TypeUnknown {
		return true
	}
	if child == parent {
		return true
	}
	// Integer keys are often declared decimal-ish on one side.
	numeric := func(t model.TypeTag) bool {
		return t == model.TypeInteger || t == model.TypeDecimal
	}
	return numeric(child) && numeric(parent)
}
