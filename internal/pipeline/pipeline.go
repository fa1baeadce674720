// Package pipeline orchestrates the full run: parse, build, resolve,
// then per-intent synthesis and chart recommendation. The shared stages
// run synchronously; once the graph exists it is immutable and per-intent
// work fans out with it read-only.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/plotlinedb/plotline/internal/builder"
	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/parser"
	"github.com/plotlinedb/plotline/internal/resolve"
	"github.com/plotlinedb/plotline/internal/synth"
	"github.com/plotlinedb/plotline/internal/viz"
)

// Stage identifies where in the pipeline a run currently is, or where it
// failed. Failed is terminal; per-intent failures never rewind the
// shared stages.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageParsed     Stage = "parsed"
	StageGraphBuilt Stage = "graph_built"
	StageResolved   Stage = "resolved"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Options are the immutable run-wide knobs, passed into every stage
// rather than held as process state.
type Options struct {
	RowCap    int
	JoinDepth int
	Deadline  time.Duration // overall bound on per-intent work; 0 means none
}

// DefaultOptions mirrors the documented defaults.
func DefaultOptions() Options {
	return Options{
		RowCap:    synth.DefaultRowCap,
		JoinDepth: resolve.DefaultMaxDepth,
		Deadline:  30 * time.Second,
	}
}

// Pipeline wires the stages together with a logger and the optional
// description collaborator.
type Pipeline struct {
	opts      Options
	describer synth.Describer
	logger    *slog.Logger

	stage Stage
}

// New creates a Pipeline. describer may be nil.
func New(opts Options, describer synth.Describer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RowCap <= 0 {
		opts.RowCap = synth.DefaultRowCap
	}
	if opts.JoinDepth <= 0 {
		opts.JoinDepth = resolve.DefaultMaxDepth
	}
	return &Pipeline{opts: opts, describer: describer, logger: logger, stage: StageIdle}
}

// Stage returns the most recent stage reached by this pipeline.
func (p *Pipeline) Stage() Stage { return p.stage }

// Run executes the whole pipeline for a parse request. Parse and graph
// errors are unrecoverable for the run; intent errors stay scoped to
// their entry in the result list.
func (p *Pipeline) Run(ctx context.Context, req model.ParseRequest) *model.ParseResponse {
	start := time.Now()

	res, err := parser.Parse(req.Input, req.Format, req.Dialect)
	if err != nil {
		return p.fail("parse", err)
	}
	p.stage = StageParsed

	graph, err := builder.Build(res)
	if err != nil {
		return p.fail("build", err)
	}
	p.stage = StageGraphBuilt

	graph = resolve.Cardinalities(graph)
	reach := resolve.BuildReachability(graph, p.opts.JoinDepth)
	p.stage = StageResolved

	resp := &model.ParseResponse{Status: "success", Schema: graph}
	if len(req.Intents) > 0 {
		resp.Results = p.synthesize(ctx, graph, reach, req.Intents, req.RowCap)
	}
	p.stage = StageDone

	p.logger.Info("pipeline run complete",
		"tables", len(graph.Tables),
		"relationships", len(graph.Relationships),
		"intents", len(req.Intents),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return resp
}

// Synthesize runs only the per-intent stages against a caller-supplied
// graph, validating it first.
func (p *Pipeline) Synthesize(ctx context.Context, req model.SynthesisRequest) *model.SynthesisResponse {
	if req.Schema == nil {
		return &model.SynthesisResponse{
			Status: "error",
			Error:  &model.ErrorDetail{Stage: "synthesize", Code: "bad_request", Message: "schema is required"},
		}
	}
	if err := req.Schema.Validate(); err != nil {
		p.stage = StageFailed
		return &model.SynthesisResponse{
			Status: "error",
			Error:  &model.ErrorDetail{Stage: "synthesize", Code: "schema_integrity", Message: err.Error()},
		}
	}

	graph := resolve.Cardinalities(req.Schema)
	reach := resolve.BuildReachability(graph, p.opts.JoinDepth)
	p.stage = StageResolved

	results := p.synthesize(ctx, graph, reach, req.Intents, req.RowCap)
	p.stage = StageDone
	return &model.SynthesisResponse{Status: "success", Results: results}
}

func (p *Pipeline) synthesize(ctx context.Context, graph *model.SchemaGraph, reach *resolve.Reachability, intents []string, rowCap int) []model.IntentResult {
	if rowCap <= 0 {
		rowCap = p.opts.RowCap
	}
	if p.opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Deadline)
		defer cancel()
	}

	s := synth.New(graph, reach, synth.Options{RowCap: rowCap, MaxDepth: p.opts.JoinDepth}, p.describer, p.logger)
	results := s.SynthesizeAll(ctx, intents)

	// Attach a chart recommendation to every successful intent.
	for i := range results {
		if results[i].Query != nil {
			rec := viz.Recommend(results[i].Query.Columns, rowCap)
			results[i].Chart = &rec
		}
	}
	return results
}

func (p *Pipeline) fail(stage string, err error) *model.ParseResponse {
	p.stage = StageFailed
	detail := &model.ErrorDetail{Stage: stage, Message: err.Error()}

	var parseErr *parser.ParseError
	var formatErr *parser.UnsupportedFormatError
	var integrityErr *builder.SchemaIntegrityError
	switch {
	case errors.As(err, &parseErr):
		detail.Code = "parse_error"
		detail.Line = parseErr.Line
		detail.Column = parseErr.Column
	case errors.As(err, &formatErr):
		detail.Code = "unsupported_format"
	case errors.As(err, &integrityErr):
		detail.Code = "schema_integrity"
	}

	p.logger.Error("pipeline stage failed", "stage", stage, "error", err)
	return &model.ParseResponse{Status: "error", Error: detail}
}
