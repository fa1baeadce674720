package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/plotlinedb/plotline/internal/config"
	"github.com/plotlinedb/plotline/internal/llm"
	"github.com/plotlinedb/plotline/internal/pipeline"
	"github.com/plotlinedb/plotline/internal/resolve"
	"github.com/plotlinedb/plotline/internal/synth"
)

// loadConfig reads the config file viper located, falling back to
// defaults when none exists.
func loadConfig() *config.Config {
	if path := viper.ConfigFileUsed(); path != "" {
		if cfg, err := config.Load(path); err == nil {
			return cfg
		}
	}
	return config.Default()
}

// newLogger builds a slog logger per the logging config. CLI output goes
// to stdout, so logs always go to stderr.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// pipelineOptions maps config to pipeline knobs.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	if cfg.Synthesis.RowCap > 0 {
		opts.RowCap = cfg.Synthesis.RowCap
	}
	if cfg.Synthesis.JoinDepth > 0 {
		opts.JoinDepth = cfg.Synthesis.JoinDepth
	}
	opts.Deadline = config.Duration(cfg.Synthesis.Deadline, opts.Deadline)
	return opts
}

// newDescriber builds the generative-text collaborator when enabled,
// nil otherwise.
func newDescriber(cfg *config.Config, logger *slog.Logger) synth.Describer {
	if !cfg.LLM.Enabled {
		return nil
	}
	return llm.New(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: config.Duration(cfg.LLM.Timeout, 0),
	}, logger)
}

// readInput reads schema text from the named file, or stdin when the
// name is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// guessFormat picks a format from the file extension when --format is
// not given. Mermaid files conventionally end in .mmd or .mermaid.
func guessFormat(path, explicit string) string {
	if explicit != "" {
		return explicit
	}
	switch {
	case strings.HasSuffix(path, ".mmd"), strings.HasSuffix(path, ".mermaid"):
		return "mermaid"
	default:
		return "ddl"
	}
}

// writeOutput encodes v to w as indented JSON or as YAML.
func writeOutput(w io.Writer, format string, v any) error {
	if strings.ToLower(format) == "yaml" {
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// capDepth keeps a user-supplied join depth inside the supported range.
func capDepth(depth int) int {
	if depth <= 0 {
		return resolve.DefaultMaxDepth
	}
	return depth
}
