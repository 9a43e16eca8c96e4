package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/keymapd/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  keymapd config validate [--config PATH]")
	fmt.Fprintln(w, "  keymapd config print [--config PATH]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "validate":
		path, code := configPathArg("validate", args[1:])
		if code >= 0 {
			return code
		}
		cfg, exists, err := config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !exists {
			fmt.Printf("%s: not found (defaults apply)\n", path)
			return 0
		}
		remaps := len(cfg.GlobalMappings) + len(cfg.CommandMappings)
		for _, m := range cfg.WindowMappings {
			remaps += len(m)
		}
		for _, m := range cfg.WindowCommandMappings {
			remaps += len(m)
		}
		fmt.Printf("%s: OK (%d mappings, output %s)\n", path, remaps, cfg.OutputMethod)
		return 0

	case "print":
		path, code := configPathArg("print", args[1:])
		if code >= 0 {
			return code
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

// configPathArg parses the shared --config flag. Returns code -1 when
// parsing succeeded and the caller should proceed.
func configPathArg(name string, args []string) (string, int) {
	fs := flag.NewFlagSet("config "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: keymapd config %s [--config PATH]\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("config", config.DefaultPath(), "Config file path")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return "", 0
		}
		return "", 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "config %s takes no arguments\n", name)
		fs.Usage()
		return "", 2
	}
	return *path, -1
}
