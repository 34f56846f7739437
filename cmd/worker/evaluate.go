package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/graph/export"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/heuristics"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/ingest/parser"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
)

// RunEvaluate scores a YAML or JSON architecture description and writes
// report.json, report.yaml and graph.dot into outDir. RULES_FILE and
// WEIGHTS_FILE override the built-in tables.
func RunEvaluate(args []string, w io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: evaluate <architecture.yaml|architecture.json> [outDir] [title]")
	}
	out := "out"
	if len(args) > 1 {
		out = args[1]
	}

	desc, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	if len(args) > 2 && args[2] != "" {
		desc.Name = args[2]
	}
	a, err := desc.ToArchitecture()
	if err != nil {
		return err
	}

	engine, err := rules.LoadFile(os.Getenv("RULES_FILE"))
	if err != nil {
		return err
	}
	weights, err := heuristics.LoadWeightsFile(os.Getenv("WEIGHTS_FILE"))
	if err != nil {
		return err
	}
	report := evaluation.NewEvaluator(engine, weights).EvaluateDetailed(a)

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	paths := map[string]string{
		"json": filepath.Join(out, "report.json"),
		"yaml": filepath.Join(out, "report.yaml"),
		"dot":  filepath.Join(out, "graph.dot"),
	}
	if err := export.WriteJSON(paths["json"], report); err != nil {
		return err
	}
	if err := export.WriteYAML(paths["yaml"], report); err != nil {
		return err
	}
	if err := export.WriteDOT(paths["dot"], export.ToDOT(a, engine)); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote: %s, %s, %s\n", paths["json"], paths["yaml"], paths["dot"])
	fmt.Fprintf(w, "%s: score %.2f/10, valid=%t\n", report.ArchitectureName, report.OverallScore, report.Valid)
	for _, v := range report.Violations {
		fmt.Fprintf(w, " - [violation] %s\n", v)
	}
	for _, v := range report.Warnings {
		fmt.Fprintf(w, " - [warning] %s\n", v)
	}
	for _, i := range report.Insights {
		fmt.Fprintf(w, " * %s\n", i)
	}
	return nil
}
