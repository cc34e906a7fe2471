package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/inferlab/logicgraph/pkg/config"
	"github.com/inferlab/logicgraph/pkg/graph"
	"github.com/inferlab/logicgraph/pkg/logging"
	"github.com/inferlab/logicgraph/pkg/output"
	"github.com/inferlab/logicgraph/pkg/propagate"
	"github.com/inferlab/logicgraph/pkg/watcher"
	"github.com/inferlab/logicgraph/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("logicgraph", pflag.ExitOnError)
	flags.String("graph", "", "Path to the graph document (JSON)")
	flags.String("strategy", "forward", "Propagation strategy")
	flags.Uint64("seed", 0, "Seed for probabilistic node sampling (0 = time-based)")
	flags.Bool("compare", false, "Run every strategy and compare")
	flags.Bool("web", false, "Start web server instead of printing to console")
	flags.Int("port", 8080, "Port for web server (only used with --web)")
	flags.Bool("watch", false, "Reload the graph when its file changes (only used with --web)")
	flags.CountP("verbose", "v", "Increase log verbosity")
	startNodes := flags.StringSlice("start", nil, "Start (or goal) node ids")
	inputsFile := flags.String("inputs", "", "Path to a JSON file of initial inputs (node id -> values)")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyVerbosity(cfg)

	if cfg.GraphFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --graph is required")
		os.Exit(1)
	}

	g, err := loadGraph(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inputs, err := loadInputs(*inputsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case cfg.WebMode:
		runWebServer(cfg, g)
	case cfg.Compare:
		reports, err := propagate.CompareStrategies(context.Background(), g, nil, *startNodes, inputs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		output.PrintComparisonReport(cfg.GraphFile, reports)
	default:
		engine := propagate.New(g)
		if err := engine.SetStrategy(cfg.Strategy); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		results, err := engine.Propagate(context.Background(), *startNodes, inputs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		output.PrintRunReport(cfg.GraphFile, engine.CurrentStrategy(), results, engine.Errors(), engine.Metrics())
	}
}

func applyVerbosity(cfg *config.Config) {
	switch {
	case cfg.Verbosity == "trace" || cfg.VerboseCnt >= 2:
		logging.SetLevel(logging.LevelTrace)
	case cfg.Verbosity == "debug" || cfg.VerboseCnt == 1:
		logging.SetLevel(slog.LevelDebug)
	}
}

func loadGraph(cfg *config.Config) (*graph.Graph, error) {
	data, err := os.ReadFile(cfg.GraphFile)
	if err != nil {
		return nil, fmt.Errorf("reading graph document: %w", err)
	}
	g, err := graph.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cfg.GraphFile, err)
	}
	if cfg.Seed != 0 {
		g.SetEvaluator(graph.NewDefaultEvaluator(cfg.Seed))
	}
	logging.Info("graph loaded", "file", cfg.GraphFile, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

func loadInputs(path string) (map[string][]float64, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inputs: %w", err)
	}
	var inputs map[string][]float64
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parsing inputs: %w", err)
	}
	return inputs, nil
}

func runWebServer(cfg *config.Config, g *graph.Graph) {
	server := web.NewServer()
	server.SetGraph(g, cfg.GraphFile)

	if cfg.Watch {
		go watchGraphFile(cfg, server)
	}

	fmt.Printf("Starting web server on http://localhost:%d\n", cfg.Port)
	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("failed to start server", "error", err)
	}
}

// watchGraphFile reloads the served graph when its document changes on disk
func watchGraphFile(cfg *config.Config, server *web.Server) {
	fw, err := watcher.NewFileWatcher(filepath.Dir(cfg.GraphFile))
	if err != nil {
		logging.Error("failed to create watcher", "error", err)
		return
	}

	ctx := context.Background()
	if err := fw.Start(ctx); err != nil {
		logging.Error("failed to start watcher", "error", err)
		return
	}

	deb := watcher.NewDebouncer(fw.Events(), watcher.DefaultQuietPeriod, watcher.DefaultMaxWait)
	deb.Start(ctx)

	for event := range deb.Output() {
		changes := watcher.AnalyzeChanges(event)
		if changes.NeedConfigReload {
			// re-read the file/env layers; the graph path stays pinned to
			// what the process was started with
			if reloaded, err := config.Load(nil); err != nil {
				logging.Error("config reload failed", "error", err)
			} else {
				reloaded.GraphFile = cfg.GraphFile
				*cfg = *reloaded
				applyVerbosity(cfg)
				logging.Info("config reloaded", "files", changes.ChangedFiles)
			}
		}
		if !changes.NeedGraphReload {
			continue
		}
		g, err := loadGraph(cfg)
		if err != nil {
			logging.Error("reload failed", "error", err)
			server.PublishGraphStatus("failed", err.Error(), 0, 0)
			continue
		}
		server.SetGraph(g, cfg.GraphFile)
	}
}
