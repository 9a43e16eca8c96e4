package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/1broseidon/keymapd/internal/devices"
	"github.com/1broseidon/keymapd/internal/tui"
)

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keymapd list [--json] [--pick]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List input devices. Keyboards are marked; --pick opens an")
		fmt.Fprintln(os.Stderr, "interactive picker and prints the chosen device path.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output device list as JSON")
	pick := fs.Bool("pick", false, "Interactively pick a keyboard, print its path")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	infos, err := devices.List(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *pick {
		path, err := tui.PickDevice(devices.Keyboards(infos))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	for _, info := range infos {
		marker := " "
		if info.Keyboard {
			marker = "*"
		}
		fmt.Printf("%s %-22s %s\n", marker, info.Path, info.Name)
	}
	fmt.Println()
	fmt.Println("* = keyboard (EV_KEY + EV_REP)")
	return 0
}
