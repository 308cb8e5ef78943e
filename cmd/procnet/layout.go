package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/procnet-xyz/go-procnet/layout"
	"github.com/procnet-xyz/go-procnet/parser"
)

func relayout(args []string) error {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	output := fs.String("output", "", "Output document (default: overwrite input)")
	spring := fs.Float64("spring", 0, "Spring constant (0 = default)")
	repulsion := fs.Float64("repulsion", 0, "Repulsion force (0 = default)")
	damping := fs.Float64("damping", 0, "Velocity damping (0 = default)")
	iterations := fs.Int("iterations", 0, "Max iterations (0 = default)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: procnet layout <model.json> [options]

Re-run the force-directed layout on an existing net document, overwriting
node positions.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}

	modelFile := fs.Arg(0)
	data, err := os.ReadFile(modelFile)
	if err != nil {
		return err
	}

	var doc parser.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	net, err := parser.FromJSON(data)
	if err != nil {
		return err
	}

	cfg := layout.DefaultConfig()
	if *spring > 0 {
		cfg.SpringConstant = *spring
	}
	if *repulsion > 0 {
		cfg.RepulsionForce = *repulsion
	}
	if *damping > 0 {
		cfg.Damping = *damping
	}
	if *iterations > 0 {
		cfg.MaxIterations = *iterations
	}

	engine := layout.New(cfg)
	iters := engine.RunFull(context.Background(), net)
	fmt.Printf("Layout settled after %d iterations\n", iters)

	out := *output
	if out == "" {
		out = modelFile
	}
	updated, err := parser.ToJSON(net, doc.Name, doc.Source)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, updated, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
