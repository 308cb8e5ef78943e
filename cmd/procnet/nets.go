package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/procnet-xyz/go-procnet/store"
)

func nets(args []string) error {
	fs := flag.NewFlagSet("nets", flag.ExitOnError)
	dbPath := fs.String("db", "procnet.db", "Net library database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: procnet nets <action> [options]

Manage the net library.

Actions:
  list           List stored nets, newest first
  show <name>    Print the stored document for a net
  delete <name>  Remove a net from the library
  last           Show the most recently touched net

Options:
`)
		fs.PrintDefaults()
	}

	if len(args) < 1 {
		fs.Usage()
		return fmt.Errorf("action required")
	}
	action := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	switch action {
	case "list":
		infos, err := st.ListNets()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No nets stored")
			return nil
		}
		fmt.Printf("%-24s %-38s %8s  %s\n", "NAME", "ID", "SIZE", "UPDATED")
		for _, info := range infos {
			fmt.Printf("%-24s %-38s %8d  %s\n",
				info.Name, info.ID, info.Size, info.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil

	case "show":
		if fs.NArg() < 1 {
			return fmt.Errorf("net name required")
		}
		data, err := st.LoadNet(fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil

	case "delete":
		if fs.NArg() < 1 {
			return fmt.Errorf("net name required")
		}
		name := fs.Arg(0)
		if err := st.DeleteNet(name); err != nil {
			return err
		}
		fmt.Printf("Deleted %q\n", name)
		return nil

	case "last":
		name, err := st.LastNet()
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("No nets stored")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown action: %s", action)
	}
}
