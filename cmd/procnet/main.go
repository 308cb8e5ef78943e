package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		if err := build(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "layout":
		if err := relayout(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := export(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "visualize":
		if err := visualize(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "nets":
		if err := nets(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("procnet version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`procnet - process algebra to Petri net translation and layout

Usage:
  procnet <command> [options]

Commands:
  build      Translate a process-algebra file to a laid-out net document
  layout     Re-run the spring-embedder layout on a net document
  export     Reconstruct process-algebra source from a net document
  visualize  Generate an SVG rendering of a net document
  nets       Manage the net library (list, show, delete, last)
  help       Show this help message
  version    Show version information

Examples:
  # Build a net from algebra source and lay it out
  procnet build vending.proc --output vending.json

  # Re-layout with stronger repulsion
  procnet layout vending.json --repulsion 900

  # Round-trip back to algebra text
  procnet export vending.json

  # Render to SVG
  procnet visualize vending.json --output vending.svg

  # Store nets in a library
  procnet build vending.proc --store nets.db --name vending
  procnet nets list --db nets.db`)
}
