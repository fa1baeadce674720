package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plotlinedb/plotline/internal/executor"
	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/pipeline"
	"github.com/plotlinedb/plotline/internal/render"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) newPipeline() *pipeline.Pipeline {
	return pipeline.New(s.pipeOpts, s.describer, s.logger)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		status := http.StatusBadRequest
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, model.ParseResponse{
			Status: "error",
			Error:  &model.ErrorDetail{Code: "bad_request", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleParse turns raw schema text into a graph and, when intents are
// given, suggested queries.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req model.ParseRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp := s.newPipeline().Run(r.Context(), req)
	status := http.StatusOK
	if resp.Status == "error" {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// handleSynthesize runs per-intent synthesis against a caller-supplied
// graph, typically one returned by a previous parse call.
func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req model.SynthesisRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp := s.newPipeline().Synthesize(r.Context(), req)
	status := http.StatusOK
	if resp.Status == "error" {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// DashboardRequest drives the full path from schema text to an HTML
// dashboard. When Driver and DSN are set each query executes against
// the named database and the charts render with live values.
type DashboardRequest struct {
	Title   string   `json:"title,omitempty"`
	Input   string   `json:"input"`
	Format  string   `json:"format"`
	Dialect string   `json:"dialect,omitempty"`
	Intents []string `json:"intents"`
	RowCap  int      `json:"row_cap,omitempty"`
	Driver  string   `json:"driver,omitempty"`
	DSN     string   `json:"dsn,omitempty"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp := s.newPipeline().Run(r.Context(), model.ParseRequest{
		Task:    "parse_schema",
		Input:   req.Input,
		Format:  req.Format,
		Dialect: req.Dialect,
		Intents: req.Intents,
		RowCap:  req.RowCap,
	})
	if resp.Status == "error" {
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	var exec *executor.Executor
	if req.Driver != "" && req.DSN != "" {
		var err error
		exec, err = executor.Open(executor.ConnectionConfig{Driver: req.Driver, DSN: req.DSN})
		if err != nil {
			writeJSON(w, http.StatusBadGateway, model.ParseResponse{
				Status: "error",
				Error:  &model.ErrorDetail{Stage: "execute", Code: "database_unavailable", Message: err.Error()},
			})
			return
		}
		defer exec.Close()
	}

	dash := &render.Dashboard{Title: req.Title}
	for _, res := range resp.Results {
		if res.Query == nil {
			continue
		}
		panel := render.Panel{Query: res.Query, Chart: res.Chart}
		if exec != nil {
			out, err := exec.Run(r.Context(), res.Query.SQL, res.Query.RowCap)
			if err != nil {
				s.logger.Warn("query execution failed", "intent", res.Intent, "error", err)
			} else {
				panel.Result = out
			}
		}
		dash.Panels = append(dash.Panels, panel)
	}

	html, err := render.HTML(dash)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, model.ParseResponse{
			Status: "error",
			Error:  &model.ErrorDetail{Stage: "render", Code: "render_error", Message: err.Error()},
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}
