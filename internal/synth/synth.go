// Package synth builds analysis-ready denormalized queries for
// visualization intents against an immutable SchemaGraph. Same graph,
// same intent, same options always produces byte-identical SQL; the
// optional description collaborator sits entirely outside that contract.
package synth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/resolve"
)

// DefaultRowCap bounds every synthesized query's LIMIT clause.
const DefaultRowCap = 10000

// UnresolvedIntentError reports an intent with zero keyword overlap
// against every table and column name. It is scoped to one intent and
// never aborts siblings.
type UnresolvedIntentError struct {
	Intent string
}

func (e *UnresolvedIntentError) Error() string {
	return fmt.Sprintf("no table matches intent %q", e.Intent)
}

// Describer produces an alternative description for a synthesized query.
// Implementations may call out to a generative-text service; the
// synthesizer validates whatever comes back and silently falls back to
// its deterministic description on failure.
type Describer interface {
	Describe(ctx context.Context, intent string, q *model.SuggestedQuery) (string, error)
}

// Options are the immutable knobs threaded into synthesis.
type Options struct {
	RowCap   int
	MaxDepth int
}

func (o Options) withDefaults() Options {
	if o.RowCap <= 0 {
		o.RowCap = DefaultRowCap
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = resolve.DefaultMaxDepth
	}
	return o
}

// Synthesizer holds the shared read-only inputs for per-intent work.
type Synthesizer struct {
	graph     *model.SchemaGraph
	reach     *resolve.Reachability
	opts      Options
	describer Describer
	logger    *slog.Logger
}

// New creates a Synthesizer over a resolved graph and its reachability
// index. describer may be nil.
func New(g *model.SchemaGraph, reach *resolve.Reachability, opts Options, describer Describer, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		graph:     g,
		reach:     reach,
		opts:      opts.withDefaults(),
		describer: describer,
		logger:    logger,
	}
}

// SynthesizeAll runs one worker per intent. Intents share nothing but
// the immutable graph, so no locking is involved; results come back in
// input order. A context deadline aborts still-pending intents while
// completed ones are kept.
func (s *Synthesizer) SynthesizeAll(ctx context.Context, intents []string) []model.IntentResult {
	results := make([]model.IntentResult, len(intents))
	g, ctx := errgroup.WithContext(ctx)

	for i, intent := range intents {
		g.Go(func() error {
			results[i] = s.synthesizeOne(ctx, intent)
			return nil // intent failures are scoped, never group-fatal
		})
	}
	g.Wait()
	return results
}

func (s *Synthesizer) synthesizeOne(ctx context.Context, intent string) model.IntentResult {
	res := model.IntentResult{Intent: intent}

	if err := ctx.Err(); err != nil {
		res.Error = &model.ErrorDetail{Stage: "synthesize", Code: "deadline", Message: err.Error()}
		return res
	}

	q, err := s.Synthesize(ctx, intent)
	if err != nil {
		res.Error = &model.ErrorDetail{Stage: "synthesize", Code: "unresolved_intent", Message: err.Error()}
		return res
	}
	res.Query = q
	return res
}

// Synthesize builds the denormalized query for a single intent.
func (s *Synthesizer) Synthesize(ctx context.Context, intent string) (*model.SuggestedQuery, error) {
	seed := selectSeed(s.graph, intent)
	if seed == nil {
		return nil, &UnresolvedIntentError{Intent: intent}
	}

	tables, steps := s.selectSubgraph(seed)
	q := s.assemble(intent, tables, steps)

	if s.describer != nil {
		s.enrichDescription(ctx, intent, q)
	}
	return q, nil
}

// selectSubgraph collects the seed plus every table reachable within the
// depth cap, in BFS discovery order, along with the deduplicated edges
// of each table's shortest join path from the seed.
func (s *Synthesizer) selectSubgraph(seed *model.Table) ([]*model.Table, []resolve.Step) {
	tables := []*model.Table{seed}
	var steps []resolve.Step
	seenEdge := make(map[string]bool)

	for _, name := range s.reach.From(seed.Name) {
		path := s.reach.Path(seed.Name, name)
		if path == nil {
			continue
		}
		if t := s.graph.Table(name); t != nil {
			tables = append(tables, t)
		}
		for _, step := range path {
			if !seenEdge[step.Rel.Key()] {
				seenEdge[step.Rel.Key()] = true
				steps = append(steps, step)
			}
		}
	}
	return tables, steps
}

// assemble renders the final SELECT. Join direction decides the join
// type: walking child to parent keeps an inner join; walking parent into
// children is a fan-out and uses a left join so parents without children
// are not silently dropped. Fan-out joins duplicate parent rows per
// child; that is expected denormalized behavior, not a defect.
func (s *Synthesizer) assemble(intent string, tables []*model.Table, steps []resolve.Step) *model.SuggestedQuery {
	quote := QuoterFor(s.graph.Dialect)

	var projections []string
	var descriptors []model.ColumnDescriptor
	for _, t := range tables {
		for _, col := range t.Columns {
			alias := t.Name + "_" + col.Name
			projections = append(projections,
				qualify(quote, t.Name, col.Name)+" AS "+quote(alias))
			descriptors = append(descriptors, model.ColumnDescriptor{
				Name:  alias,
				Table: t.Name,
				Kind:  semanticKind(s.graph, t, col),
			})
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(projections, ", "))
	sb.WriteString("\nFROM ")
	sb.WriteString(quote(tables[0].Name))

	fanOut := false
	for _, step := range steps {
		joined := step.Rel.ToTable
		kind := "INNER JOIN"
		if !step.Forward {
			// Entering the child side of the edge: optional rows.
			joined = step.Rel.FromTable
			kind = "LEFT JOIN"
			if step.Rel.Cardinality != model.OneToOne {
				fanOut = true
			}
		}
		sb.WriteString("\n")
		sb.WriteString(kind)
		sb.WriteString(" ")
		sb.WriteString(quote(joined))
		sb.WriteString(" ON ")
		sb.WriteString(qualify(quote, step.Rel.FromTable, step.Rel.FromColumn))
		sb.WriteString(" = ")
		sb.WriteString(qualify(quote, step.Rel.ToTable, step.Rel.ToColumn))
	}

	fmt.Fprintf(&sb, "\nLIMIT %d", s.opts.RowCap)

	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}

	q := &model.SuggestedQuery{
		Intent:      intent,
		Description: deterministicDescription(intent, names),
		SQL:         sb.String(),
		Tables:      names,
		RowCap:      s.opts.RowCap,
		Columns:     descriptors,
	}
	if fanOut {
		q.Advisories = append(q.Advisories, fmt.Sprintf(
			"one-to-many joins may multiply rows beyond the cap; results truncate at %d", s.opts.RowCap))
	}
	return q
}

func deterministicDescription(intent string, tables []string) string {
	if len(tables) == 1 {
		return fmt.Sprintf("Denormalized view of %s for intent %q", tables[0], intent)
	}
	return fmt.Sprintf("Denormalized view of %s joined with %s for intent %q",
		tables[0], strings.Join(tables[1:], ", "), intent)
}

// semanticKind classifies a column for the chart recommender. Key
// columns are identifiers regardless of their storage type.
func semanticKind(g *model.SchemaGraph, t *model.Table, col model.Column) model.SemanticKind {
	if col.IsPrimaryKey || isForeignKeyColumn(g, t.Name, col.Name) {
		return model.KindIdentifier
	}
	switch col.Type {
	case model.TypeDateTime:
		return model.KindTemporal
	case model.TypeInteger, model.TypeDecimal:
		return model.KindNumeric
	default:
		return model.KindCategorical
	}
}

func isForeignKeyColumn(g *model.SchemaGraph, table, column string) bool {
	for _, rel := range g.Relationships {
		if strings.EqualFold(rel.FromTable, table) && strings.EqualFold(rel.FromColumn, column) {
			return true
		}
	}
	return false
}

// enrichDescription asks the optional collaborator for a richer
// description. The candidate is validated against the graph; any error,
// timeout, or dangling reference keeps the deterministic text with no
// user-visible failure.
func (s *Synthesizer) enrichDescription(ctx context.Context, intent string, q *model.SuggestedQuery) {
	candidate, err := s.describer.Describe(ctx, intent, q)
	if err != nil {
		s.logger.Debug("description collaborator unavailable, keeping deterministic description",
			"intent", intent, "error", err)
		return
	}
	if err := validateCandidate(s.graph, candidate); err != nil {
		s.logger.Warn("description collaborator output rejected",
			"intent", intent, "error", err)
		return
	}
	q.Description = candidate
}

// validateCandidate rejects collaborator output that is empty, oversized,
// or references table.column pairs absent from the graph.
func validateCandidate(g *model.SchemaGraph, candidate string) error {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return fmt.Errorf("empty description")
	}
	if len(candidate) > 1000 {
		return fmt.Errorf("description too long (%d chars)", len(candidate))
	}
	for _, ref := range columnRefPattern.FindAllStringSubmatch(candidate, -1) {
		t := g.Table(ref[1])
		if t == nil {
			return fmt.Errorf("references unknown table %q", ref[1])
		}
		if t.Column(ref[2]) == nil {
			return fmt.Errorf("references unknown column %s.%s", ref[1], ref[2])
		}
	}
	return nil
}
