package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/procnet-xyz/go-procnet/algebra"
	"github.com/procnet-xyz/go-procnet/parser"
)

func export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Write algebra text to this file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: procnet export <model.json> [options]

Reconstruct process-algebra source from a net document. Join places that
have no name of their own are promoted to synthetic definitions so the
output rebuilds to the same arc structure.

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

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	net, err := parser.FromJSON(data)
	if err != nil {
		return err
	}

	text := algebra.Export(net)
	if *output == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(*output, []byte(text), 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", *output)
	return nil
}
