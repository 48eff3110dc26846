package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Commands understood by the visitorcount binary.
const (
	CommandRender = "render"
	CommandServe  = "serve"
	CommandBrowse = "browse"
)

// CLIArgs are the command-line arguments for a single invocation.
type CLIArgs struct {
	Command string

	// ConfigPath is an optional YAML config file.
	ConfigPath string

	// Endpoint overrides the configured counting endpoint.
	Endpoint string

	// Backend overrides the configured webclient backend.
	Backend string

	// In is the page to render; empty means the configured page.
	In string

	// Out is where `render` writes the result; empty or "-" means stdout.
	Out string

	// DryRun makes `render` print a diff instead of the page.
	DryRun bool

	// PageURL is the live page opened by `browse`.
	PageURL string

	// Headed shows the browser window for `browse`.
	Headed bool

	// Addr overrides the listen address for `serve`.
	Addr string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// Usage describes the commands and flags.
const Usage = `usage: visitorcount <render|serve|browse> [flags]

  render  -in page.html [-out result.html] [-dry-run]
  serve   [-addr :8080] [-in page.html]
  browse  -page https://example.com/

common flags: -config file.yaml -endpoint URL -backend nethttp|chromedp`

// ParseArgs parses a slice of args and returns CLIArgs. The function is
// deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	if len(args) == 0 {
		return nil, errors.New("missing command")
	}
	command := strings.ToLower(args[0])
	switch command {
	case CommandRender, CommandServe, CommandBrowse:
	default:
		return nil, fmt.Errorf("unknown command %q", args[0])
	}

	fs := flag.NewFlagSet("visitorcount "+command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		configPath = fs.String("config", "", "YAML config file")
		endpoint   = fs.String("endpoint", "", "Counting endpoint URL (overrides config)")
		backend    = fs.String("backend", "", "Webclient backend: nethttp|chromedp")
		in         = fs.String("in", "", "HTML page to render")
		out        = fs.String("out", "", "Output file for render (default stdout)")
		dryRun     = fs.Bool("dry-run", false, "Print a diff of the page instead of writing it")
		pageURL    = fs.String("page", "", "Live page URL for browse")
		headed     = fs.Bool("headed", false, "Show the browser window for browse")
		addr       = fs.String("addr", "", "Listen address for serve (overrides config)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if command == CommandBrowse && strings.TrimSpace(*pageURL) == "" {
		return nil, errors.New("browse requires -page")
	}

	return &CLIArgs{
		Command:    command,
		ConfigPath: *configPath,
		Endpoint:   *endpoint,
		Backend:    *backend,
		In:         *in,
		Out:        *out,
		DryRun:     *dryRun,
		PageURL:    *pageURL,
		Headed:     *headed,
		Addr:       *addr,
		RawArgs:    args,
	}, nil
}
