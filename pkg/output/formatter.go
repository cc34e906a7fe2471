package output

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/inferlab/logicgraph/pkg/model"
	"github.com/inferlab/logicgraph/pkg/propagate"
)

// PrintRunReport prints a nicely formatted propagation report with colors
func PrintRunReport(graphFile string, strategy propagate.Strategy, results map[string]float64, errs []*model.EvaluationError, metrics propagate.Metrics) {
	// Color definitions
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	// Header
	bold.Println("Logic Graph - Propagation Report")
	bold.Println("================================")
	fmt.Printf("Graph: %s\n", graphFile)
	fmt.Printf("Strategy: %s\n", strategy)
	fmt.Println()

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cyan.Println("RESULTS:")
	for _, id := range ids {
		fmt.Printf("  %-24s %.4f\n", id, results[id])
	}
	fmt.Println()

	if len(errs) > 0 {
		red.Printf("DEGRADED NODES: %d\n", len(errs))
		for _, e := range errs {
			yellow.Printf("  %s: %s\n", e.NodeID, e.Msg)
		}
		fmt.Println()
	}

	summaryColor := green
	if len(errs) > 0 || metrics.Degraded {
		summaryColor = yellow
	}
	summaryColor.Printf("Summary: %d nodes, %d edges, %s\n",
		metrics.NodesEvaluated, metrics.EdgesTraversed, metrics.Elapsed)

	if len(errs) == 0 && !metrics.Degraded {
		green.Println("✓ Propagation completed cleanly")
	}
}

// PrintComparisonReport prints one line per strategy from a comparison run
func PrintComparisonReport(graphFile string, reports []propagate.StrategyReport) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Println("Logic Graph - Strategy Comparison")
	bold.Println("=================================")
	fmt.Printf("Graph: %s\n", graphFile)
	fmt.Println()

	for _, r := range reports {
		if r.Err != "" {
			red.Printf("  %-16s FAILED: %s\n", r.Strategy, r.Err)
			continue
		}
		line := fmt.Sprintf("  %-16s %d nodes, %d edges, %s",
			r.Strategy, r.Metrics.NodesEvaluated, r.Metrics.EdgesTraversed, r.Metrics.Elapsed)
		if r.Metrics.Degraded {
			yellow.Printf("%s (degraded)\n", line)
		} else {
			green.Println(line)
		}
	}
}
