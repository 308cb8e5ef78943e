package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/procnet-xyz/go-procnet/algebra"
	"github.com/procnet-xyz/go-procnet/layout"
	"github.com/procnet-xyz/go-procnet/parser"
	"github.com/procnet-xyz/go-procnet/store"
)

func build(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("output", "", "Output JSON document (default: input with .json)")
	dbPath := fs.String("store", "", "Also save the document to this net library")
	name := fs.String("name", "", "Net name for the library (default: input file stem)")
	skipLayout := fs.Bool("no-layout", false, "Skip the layout pass")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: procnet build <source.proc> [options]

Translate process-algebra source into a Petri net document. The net is run
through the spring-embedder layout before being written.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("source file required")
	}

	srcFile := fs.Arg(0)
	source, err := os.ReadFile(srcFile)
	if err != nil {
		return err
	}

	prog, err := algebra.Parse(string(source))
	if err != nil {
		return err
	}
	net, err := algebra.Build(prog)
	if err != nil {
		return err
	}

	if !*skipLayout {
		engine := layout.New(layout.DefaultConfig())
		iters := engine.RunFull(context.Background(), net)
		fmt.Printf("Layout settled after %d iterations\n", iters)
	}

	netName := *name
	if netName == "" {
		netName = strings.TrimSuffix(filepath.Base(srcFile), filepath.Ext(srcFile))
	}
	data, err := parser.ToJSON(net, netName, string(source))
	if err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(srcFile, filepath.Ext(srcFile)) + ".json"
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d places, %d transitions, %d arcs)\n",
		out, len(net.Places()), len(net.Transitions()), len(net.Arcs))

	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveNet(netName, data)
		if err != nil {
			return err
		}
		fmt.Printf("Saved to library as %q (%s)\n", netName, id)
	}
	return nil
}
