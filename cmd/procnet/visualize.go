package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/procnet-xyz/go-procnet/parser"
	"github.com/procnet-xyz/go-procnet/visualization"
)

func visualize(args []string) error {
	fs := flag.NewFlagSet("visualize", flag.ExitOnError)
	output := fs.String("output", "", "Output SVG file (default: input with .svg)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: procnet visualize <model.json> [options]

Render a net document as SVG using its stored node positions.

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
	net, err := parser.FromJSON(data)
	if err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(modelFile, filepath.Ext(modelFile)) + ".svg"
	}
	if err := visualization.Save(net, out); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
