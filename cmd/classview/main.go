package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/classview/classfile"
	"github.com/wippyai/classview/errors"
	"github.com/wippyai/classview/listing"
)

func main() {
	var (
		classFile   = flag.String("class", "", "Path to .class file")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		asJSON      = flag.Bool("json", false, "Dump the decoded tree as JSON")
		spans       = flag.Bool("spans", false, "Print the byte map instead of the listing")
		verbose     = flag.Bool("v", false, "Debug logging to stderr")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)
	flag.Parse()

	if *classFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: classview -class <File.class> [-spans] [-json] [-no-color] [-v]")
		fmt.Fprintln(os.Stderr, "       classview -class <File.class> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		classfile.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(*classFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	st := listing.PlainStyles()
	if !*noColor && term.IsTerminal(int(os.Stdout.Fd())) {
		st = listing.DefaultStyles()
	}

	if err := run(*classFile, st, *asJSON, *spans); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(path string) (*classfile.ClassFile, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Load("read class file", err)
	}
	cf, err := classfile.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return cf, data, nil
}

func run(path string, st listing.Styles, asJSON, spans bool) error {
	cf, data, err := load(path)
	if err != nil {
		return err
	}
	if !cf.ValidMagic() {
		fmt.Fprintln(os.Stderr, st.Warning.Render(
			fmt.Sprintf("warning: magic is %s, not a class file?", cf.Magic.Str)))
	}

	switch {
	case asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cf); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case spans:
		fmt.Print(listing.Spans(cf, data, st))
	default:
		fmt.Print(listing.Class(cf, st))
	}
	return nil
}
